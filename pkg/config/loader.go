package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// entry holds one parsed config type.
type entry struct {
	once  sync.Once
	value any
	err   error
}

var (
	mu      sync.Mutex
	entries = map[reflect.Type]*entry{}

	defaultEnvLoaded sync.Once
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func lookup(t reflect.Type) *entry {
	mu.Lock()
	defer mu.Unlock()

	e, ok := entries[t]
	if !ok {
		e = &entry{}
		entries[t] = e
	}
	return e
}

// forget drops a failed entry so the next Load parses again.
func forget(t reflect.Type, e *entry) {
	mu.Lock()
	defer mu.Unlock()

	if entries[t] == e {
		delete(entries, t)
	}
}

// Load parses the environment into v using env struct tags. Each type is
// parsed once per process; later calls copy the cached value. The first call
// also reads ./.env when it exists.
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() { _ = godotenv.Load() })

	if v == nil {
		return ErrNilPointer
	}

	t := typeOf[T]()
	e := lookup(t)
	e.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		forget(t, e)
		return e.err
	}

	cached, ok := e.value.(T)
	if !ok {
		return ErrConfigNotLoaded
	}
	*v = cached
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment. Later
// files override earlier ones and any variable already set. With no paths it
// loads ./.env and fails if the file is missing.
func LoadEnv(paths ...string) error {
	defaultEnvLoaded.Do(func() {})

	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}

	if err := godotenv.Overload(paths...); err != nil {
		return fmt.Errorf("load env files %v: %w", paths, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load env files: %v", err))
	}
}

// ForceReloadConfig drops the cached value for T and parses the environment again.
func ForceReloadConfig[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	mu.Lock()
	delete(entries, typeOf[T]())
	mu.Unlock()

	return Load(v)
}

// ResetCache forgets every loaded configuration.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()

	entries = map[reflect.Type]*entry{}
}
