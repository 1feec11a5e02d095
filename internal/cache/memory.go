package cache

import (
	"bytes"
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache keeps encoded caption results in process. Entries expire TTL
// after they were stored; reads do not extend their lifetime.
type memoryCache struct {
	entries *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	// The expirable LRU treats a non-positive size as unbounded.
	if cfg.Size <= 0 {
		return nil, errors.New("cache: memory provider needs a positive size")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("cache: memory provider needs a positive TTL")
	}

	var onEvict lru.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		onEvict = func(key string, value []byte) { cfg.OnEvict(key, value) }
	}
	return &memoryCache{entries: lru.NewLRU(cfg.Size, onEvict, cfg.TTL)}, nil
}

// Get returns a copy of the stored result so callers can decode into it freely.
func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	return bytes.Clone(value), true
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte) {
	m.entries.Add(key, bytes.Clone(value))
}

func (m *memoryCache) Contains(_ context.Context, key string) bool {
	return m.entries.Contains(key)
}

func (m *memoryCache) Len() int { return m.entries.Len() }

// Close drops every stored result. Eviction callbacks fire for each entry.
func (m *memoryCache) Close() error {
	m.entries.Purge()
	return nil
}
