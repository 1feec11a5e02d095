package cache

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumentedCache counts caption cache lookups for one group.
type instrumentedCache struct {
	backend Cache
	group   string
	hits    prometheus.Counter
	misses  prometheus.Counter
}

func newInstrumentedCache(backend Cache, group string) *instrumentedCache {
	registerEntriesCollector(group, backend.Len)
	return &instrumentedCache{
		backend: backend,
		group:   group,
		hits:    HitsTotal.WithLabelValues(group),
		misses:  MissesTotal.WithLabelValues(group),
	}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := c.backend.Get(ctx, key)
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return value, ok
}

func (c *instrumentedCache) Set(ctx context.Context, key string, value []byte) {
	c.backend.Set(ctx, key, value)
}

// Contains is not a lookup and leaves the hit and miss counters alone.
func (c *instrumentedCache) Contains(ctx context.Context, key string) bool {
	return c.backend.Contains(ctx, key)
}

func (c *instrumentedCache) Len() int { return c.backend.Len() }

func (c *instrumentedCache) Close() error {
	unregisterEntriesCollector(c.group)
	return c.backend.Close()
}
