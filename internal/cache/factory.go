package cache

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ProviderConfig describes the caption result cache a provider should build.
type ProviderConfig struct {
	// Size caps the number of cached results.
	Size int

	// TTL bounds how long a result may be served after it was stored.
	TTL time.Duration

	// OnEvict observes results dropped for capacity. Optional.
	OnEvict EvictCallback

	// Logger reports backend failures. A nil Logger discards them.
	Logger Logger

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// BreakerThreshold is the count of consecutive Redis failures after which
	// lookups are skipped. Zero means 5.
	BreakerThreshold uint

	// BreakerDelay is the pause before a skipped backend is tried again.
	// Zero means 30s.
	BreakerDelay time.Duration

	// Group names the cache in srt_cache_* metrics. Empty disables them.
	Group string
}

// Provider builds a Cache backend.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register makes a backend selectable by name through cache.provider.
// Registering a nil provider or a taken name panics.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: Register provider is nil")
	}

	mu.Lock()
	defer mu.Unlock()
	if _, taken := providers[name]; taken {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New builds the named backend. With cfg.Group set, lookups and evictions are
// counted and the entry count is reported on every scrape.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	if cfg.Group == "" {
		return p(cfg)
	}

	cfg.OnEvict = countEvictions(cfg.Group, cfg.OnEvict)
	backend, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newInstrumentedCache(backend, cfg.Group), nil
}

func countEvictions(group string, next EvictCallback) EvictCallback {
	evictions := EvictionsTotal.WithLabelValues(group)
	return func(key string, value []byte) {
		evictions.Inc()
		if next != nil {
			next(key, value)
		}
	}
}

// RegisteredProviders lists the selectable backend names in order.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(providers))
}
