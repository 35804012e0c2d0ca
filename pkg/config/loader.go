package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores loaded configuration instances keyed by type name so
// each configuration struct is parsed from the environment exactly once.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
	}

	defaultEnvLoaded sync.Once
)

// Load loads environment variables into the provided configuration struct.
//
// The first call attempts to load the default .env file, then parses
// environment variables into the struct based on `env` field tags. Once a
// configuration type is successfully loaded, subsequent calls for the same
// type return the cached value.
//
// Example:
//
//	type EngineConfig struct {
//		BatchSize int           `env:"NOTIFY_BATCH_SIZE" envDefault:"10"`
//		RateLimit int           `env:"NOTIFY_RATE_LIMIT" envDefault:"100"`
//	}
//
//	var cfg EngineConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := getTypeName[T]()

	globalCache.mu.RLock()
	if cached, ok := globalCache.values[typeName]; ok {
		*v = cached.(T)
		globalCache.mu.RUnlock()
		return nil
	}
	globalCache.mu.RUnlock()

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParseFailed, err)
	}

	globalCache.mu.Lock()
	globalCache.values[typeName] = *v
	globalCache.mu.Unlock()

	return nil
}

// LoadEnv loads environment variables from the given .env files before any
// configuration structs are parsed. Missing files are reported as errors since
// an explicit path signals intent.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrEnvFileLoad, err)
	}
	return nil
}

// ResetCache clears cached configuration values. Intended for tests that
// mutate the environment between loads.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	clear(globalCache.values)
}

func getTypeName[T any]() string {
	var v T
	t := reflect.TypeOf(v)
	if t == nil {
		return fmt.Sprintf("%T", v)
	}
	return t.PkgPath() + "." + t.Name()
}
