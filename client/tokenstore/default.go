package tokenstore

import "sync"

var (
	defaultMu    sync.Mutex
	defaultStore *Store
)

// Default returns the process-wide store shared by every consumer. Until
// SetDefault installs a configured store it has no fetcher and every
// refresh fails with ErrNoFetcher.
func Default() *Store {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore == nil {
		defaultStore = New(nil)
	}
	return defaultStore
}

// SetDefault replaces the process-wide store. The previous store is reset so
// its timer and listeners do not outlive it.
func SetDefault(s *Store) {
	defaultMu.Lock()
	prev := defaultStore
	defaultStore = s
	defaultMu.Unlock()

	if prev != nil && prev != s {
		prev.Reset()
	}
}
