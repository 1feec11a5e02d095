package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "srtcache:"

	defaultBreakerThreshold = 5
	defaultBreakerDelay     = 30 * time.Second

	opTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache stores each entry under its own key ({prefix}e:{key}) with a
// sliding PX expiry. A sorted set ({prefix}lru) scores every entry key by its
// last access time in microseconds and is used to bound the number of entries.
//
// Every round-trip goes through a circuit breaker. While the breaker is open
// Get reports a miss and Set is dropped, so a Redis outage degrades to
// uncached processing instead of failing requests.
type redisCache struct {
	client  *redis.Client
	breaker circuitbreaker.CircuitBreaker[any]
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	prefix  string
	lruKey  string
}

// touchEntry reads an entry and, on a hit, refreshes both its expiry and its
// LRU score.
//
// KEYS[1] = entry key, KEYS[2] = LRU sorted set
// ARGV[1] = now (µs), ARGV[2] = TTL (ms)
var touchEntry = redis.NewScript(`
local val = redis.call('GET', KEYS[1])
if val then
    redis.call('PEXPIRE', KEYS[1], ARGV[2])
    redis.call('ZADD', KEYS[2], ARGV[1], KEYS[1])
end
return val
`)

// storeEntry writes an entry and pops the least recently used entry keys
// until the sorted set is back within maxSize.
//
// KEYS[1] = entry key, KEYS[2] = LRU sorted set
// ARGV[1] = value, ARGV[2] = now (µs), ARGV[3] = TTL (ms), ARGV[4] = maxSize
//
// Returns the evicted entry keys.
var storeEntry = redis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
redis.call('ZADD', KEYS[2], ARGV[2], KEYS[1])

local maxSize = tonumber(ARGV[4])
local evicted = {}
while redis.call('ZCARD', KEYS[2]) > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('DEL', oldest[1])
    table.insert(evicted, oldest[1])
end
return evicted
`)

// countLive drops LRU members that have not been touched within the TTL
// (their entry key has expired) and returns the remaining count.
//
// KEYS[1] = LRU sorted set
// ARGV[1] = oldest live score (µs)
var countLive = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
return redis.call('ZCARD', KEYS[1])
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("redis cache: size must be positive, got %d", cfg.Size)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("redis cache: ttl must be positive, got %s", cfg.TTL)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	threshold := cfg.BreakerThreshold
	if threshold == 0 {
		threshold = defaultBreakerThreshold
	}
	delay := cfg.BreakerDelay
	if delay <= 0 {
		delay = defaultBreakerDelay
	}

	return &redisCache{
		client: client,
		breaker: circuitbreaker.NewBuilder[any]().
			WithFailureThreshold(threshold).
			WithDelay(delay).
			Build(),
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		prefix:  defaultKeyPrefix,
		lruKey:  defaultKeyPrefix + "lru",
	}, nil
}

func (r *redisCache) entryKey(key string) string {
	return r.prefix + "e:" + key
}

func (r *redisCache) userKey(entryKey string) string {
	return entryKey[len(r.prefix)+len("e:"):]
}

// run executes op under the circuit breaker with a bounded timeout.
func (r *redisCache) run(ctx context.Context, msg string, op func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := failsafe.Run(func() error { return op(ctx) }, r.breaker)
	if err == nil {
		return true
	}
	if !errors.Is(err, circuitbreaker.ErrOpen) && r.logger != nil {
		r.logger.Error(msg, err)
	}
	return false
}

func nowMicros() int64 {
	return time.Now().UnixMicro()
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		value []byte
		found bool
	)
	r.run(ctx, "redis cache Get failed", func(ctx context.Context) error {
		result, err := touchEntry.Run(ctx, r.client,
			[]string{r.entryKey(key), r.lruKey},
			nowMicros(), r.ttl.Milliseconds(),
		).Text()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		value, found = []byte(result), true
		return nil
	})
	return value, found
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte) {
	var evicted []string
	ok := r.run(ctx, "redis cache Set failed", func(ctx context.Context) error {
		var err error
		evicted, err = storeEntry.Run(ctx, r.client,
			[]string{r.entryKey(key), r.lruKey},
			value, nowMicros(), r.ttl.Milliseconds(), strconv.Itoa(r.maxSize),
		).StringSlice()
		return err
	})
	if !ok || r.onEvict == nil {
		return
	}
	for _, k := range evicted {
		r.onEvict(r.userKey(k), nil)
	}
}

func (r *redisCache) Contains(ctx context.Context, key string) bool {
	var exists bool
	r.run(ctx, "redis cache Contains failed", func(ctx context.Context) error {
		n, err := r.client.Exists(ctx, r.entryKey(key)).Result()
		exists = n == 1
		return err
	})
	return exists
}

func (r *redisCache) Len() int {
	var n int64
	r.run(context.Background(), "redis cache Len failed", func(ctx context.Context) error {
		oldest := nowMicros() - r.ttl.Microseconds()
		var err error
		n, err = countLive.Run(ctx, r.client, []string{r.lruKey}, oldest).Int64()
		return err
	})
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
