package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cacheMu    sync.Mutex
	cache      = map[reflect.Type]any{}
)

// Load fills dst from the environment. The first call for a type parses
// the environment; later calls copy the cached value. A .env file in the
// working directory is loaded once, without overriding variables already set.
func Load[T any](dst *T) error {
	if dst == nil {
		return ErrNilDestination
	}

	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[typ]; ok {
		*dst = cached.(T)
		return nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrParse, cfg, err)
	}

	cache[typ] = cfg
	*dst = cfg
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}

// Reset clears the cache so the next Load re-reads the environment.
func Reset() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	clear(cache)
}
