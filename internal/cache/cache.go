// Package cache stores serialized caption results keyed by request fingerprint.
package cache

import (
	"context"

	"github.com/rs/zerolog"
)

// EvictCallback is called when an entry is evicted from the cache.
// Redis evictions report a nil value.
type EvictCallback func(key string, value []byte)

// Cache is a byte-oriented key-value store with LRU semantics.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Backend failures are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte)

	// Contains checks whether a key exists without refreshing its LRU position.
	Contains(ctx context.Context, key string) bool

	// Len returns the number of entries currently stored.
	Len() int

	// Close releases any resources held by the cache.
	Close() error
}

// Logger receives error reports from cache backends.
type Logger interface {
	Error(msg string, err error)
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog.Logger to the cache Logger interface.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

func (l zerologLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Str("component", "cache").Msg(msg)
}
