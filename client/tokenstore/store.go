package tokenstore

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/authkit/core/logger"
)

const refreshKey = "refresh"

// Fetcher performs the remote refresh and returns a new access token.
type Fetcher interface {
	FetchAccessToken(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

// FetchAccessToken calls f.
func (f FetcherFunc) FetchAccessToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// FastTokenSource yields a token delivered out of band, such as the fast
// cookie set on the first document response. It is consulted once.
type FastTokenSource interface {
	TakeFastToken() (string, bool)
}

// State is the observable cache state.
type State struct {
	Token   string
	Loading bool
	Err     error
}

// Listener receives state after every change. It runs synchronously on the
// goroutine that changed the state, in registration order. A listener may
// call back into the store, including to start another refresh.
type Listener func(State)

// flight is one remote refresh. Each flight has its own singleflight key.
// Fields other than key and gen are guarded by Store.mu.
type flight struct {
	key    string
	gen    uint64
	silent bool

	done  bool
	token string
	err   error
}

type subscriber struct {
	id uint64
	fn Listener
}

// Store caches the current access token for every consumer in the process.
// Concurrent refreshes collapse into a single fetch, and while anyone is
// subscribed a single timer refreshes the token shortly before it expires.
type Store struct {
	fetcher Fetcher
	fast    FastTokenSource
	clock   Clock
	logger  *slog.Logger

	flights singleflight.Group

	mu           sync.Mutex
	state        State
	generation   uint64
	inflight     *flight
	flightSeq    uint64
	fastConsumed bool
	subscribers  []subscriber
	nextID       uint64
	timer        Timer
	timerSeq     uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithFastTokenSource sets the one-shot token source.
func WithFastTokenSource(src FastTokenSource) Option {
	return func(s *Store) {
		s.fast = src
	}
}

// WithLogger sets the logger for background failures and listener panics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store refreshing through f.
func New(f Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher: f,
		clock:   realClock{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ParseToken describes token, or returns nil when it is opaque.
func (s *Store) ParseToken(token string) *TokenInfo {
	return parseToken(token, s.clock.Now())
}

// GetAccessToken returns a usable token, refreshing only when the cached
// claims-bearing token is expiring. Opaque tokens are returned as is.
func (s *Store) GetAccessToken(ctx context.Context) (string, error) {
	return s.getToken(ctx, false)
}

// GetAccessTokenSilently is GetAccessToken for background callers: a refresh
// does not flip Loading, and the next background refresh is scheduled.
func (s *Store) GetAccessTokenSilently(ctx context.Context) (string, error) {
	token, err := s.getToken(ctx, true)
	s.schedule(err != nil)
	return token, err
}

// RefreshToken always performs a remote refresh, joining one in flight.
// Loading is set for the duration.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	token, err := s.refresh(ctx, false)
	s.schedule(err != nil)
	return token, err
}

func (s *Store) getToken(ctx context.Context, silent bool) (string, error) {
	if token, ok := s.takeFast(); ok {
		return token, nil
	}

	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()

	if token != "" {
		info := s.ParseToken(token)
		if info == nil || !info.IsExpiring {
			return token, nil
		}
	}

	return s.refresh(ctx, silent)
}

// takeFast consumes the fast token on the first call only.
func (s *Store) takeFast() (string, bool) {
	s.mu.Lock()
	if s.fastConsumed || s.fast == nil {
		s.mu.Unlock()
		return "", false
	}
	s.fastConsumed = true
	s.mu.Unlock()

	token, ok := s.fast.TakeFastToken()
	if !ok || token == "" {
		return "", false
	}

	s.mu.Lock()
	s.state = State{Token: token}
	s.mu.Unlock()
	s.notify()
	return token, true
}

// refresh joins or starts the in-flight fetch. The fetch runs to
// completion even if ctx is cancelled; only this caller stops waiting.
func (s *Store) refresh(ctx context.Context, silent bool) (string, error) {
	s.mu.Lock()
	f := s.inflight
	if f == nil {
		s.flightSeq++
		f = &flight{
			key:    refreshKey + "/" + strconv.FormatUint(s.flightSeq, 10),
			gen:    s.generation,
			silent: true,
		}
		s.inflight = f
	}
	flipped := false
	if !silent {
		f.silent = false
		if !s.state.Loading {
			s.state.Loading = true
			flipped = true
		}
	}
	s.mu.Unlock()
	if flipped {
		s.notify()
	}

	s.mu.Lock()
	ch := s.joinLocked(context.WithoutCancel(ctx), f)
	s.mu.Unlock()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// joinLocked attaches to f. The flight settles under s.mu before its key is
// released, so a flight that is not done still owns its key here.
func (s *Store) joinLocked(ctx context.Context, f *flight) <-chan singleflight.Result {
	if f.done {
		ch := make(chan singleflight.Result, 1)
		ch <- singleflight.Result{Val: f.token, Err: f.err}
		return ch
	}
	return s.flights.DoChan(f.key, func() (any, error) {
		token, err := s.fetch(ctx)
		if s.settle(f, token, err) {
			s.notify()
		}
		return token, err
	})
}

// fetch calls the fetcher, turning panics into errors.
func (s *Store) fetch(ctx context.Context) (token string, err error) {
	if s.fetcher == nil {
		return "", ErrNoFetcher
	}
	defer func() {
		if r := recover(); r != nil {
			token, err = "", panicError(r)
		}
	}()

	token, err = s.fetcher.FetchAccessToken(ctx)
	if err == nil && token == "" {
		err = ErrEmptyToken
	}
	return token, err
}

// settle records the result of f and applies it to the store, reporting
// whether listeners must hear about it. The in-flight slot is cleared first,
// so a listener that refreshes starts a new flight. Results from before a
// Reset are dropped. A failure keeps the cached token. A silent success only
// counts as a change when the token differs or an error is being cleared.
func (s *Store) settle(f *flight, token string, err error) bool {
	s.mu.Lock()
	f.token, f.err, f.done = token, err, true
	if s.inflight == f {
		s.inflight = nil
	}
	if f.gen != s.generation {
		s.mu.Unlock()
		return false
	}

	prev := s.state
	changed := prev.Loading
	s.state.Loading = false

	if err != nil {
		s.state.Err = err
		changed = true
	} else if !f.silent || token != prev.Token || prev.Err != nil {
		s.state.Token = token
		s.state.Err = nil
		changed = true
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("access token refresh failed",
			logger.Component("tokenstore"),
			logger.Error(err),
		)
	}
	return changed
}

// Subscribe registers fn for state changes and returns a function that
// removes it. Removing the last listener cancels the scheduled refresh.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	hasToken := s.state.Token != ""
	s.mu.Unlock()

	if hasToken {
		s.schedule(false)
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
			break
		}
	}
	if len(s.subscribers) == 0 {
		s.stopTimerLocked()
	}
}

// notify delivers the current state to every listener outside the lock.
func (s *Store) notify() {
	s.mu.Lock()
	state := s.state
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		s.deliver(sub.fn, state)
	}
}

func (s *Store) deliver(fn Listener, state State) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("token listener panicked",
				logger.Component("tokenstore"),
				logger.Error(panicError(r)),
			)
		}
	}()
	fn(state)
}

// ClearToken drops the cached token and error and cancels the scheduled
// refresh. Listeners stay registered.
func (s *Store) ClearToken() {
	s.mu.Lock()
	s.state = State{}
	s.stopTimerLocked()
	s.mu.Unlock()
	s.notify()
}

// Reset returns the store to its initial state: no token, no listeners, no
// timer, and no in-flight refresh. A refresh already running completes for
// its callers but no longer updates the store or notifies.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.inflight = nil
	s.state = State{}
	s.subscribers = nil
	s.fastConsumed = false
	s.stopTimerLocked()
}
