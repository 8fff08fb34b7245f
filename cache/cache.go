package cache

import (
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	// DefaultMaxCost bounds the cache's approximate memory footprint.
	DefaultMaxCost = 64 << 20 // 64 MiB

	// DefaultTTL expires entries after an hour.
	DefaultTTL = time.Hour

	// counterFactor sizes ristretto's frequency sketch relative to the
	// expected number of live entries.
	counterFactor = 10

	defaultMaxEntries = 10_000
	bufferItems       = 64
)

// Config holds cache sizing knobs.
type Config struct {
	MaxEntries int64
	MaxCost    int64
	TTL        time.Duration
	Logger     *slog.Logger
}

// Option configures a cache.
type Option func(*Config)

// WithMaxEntries bounds the expected number of live entries.
func WithMaxEntries(n int64) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxEntries = n
		}
	}
}

// WithMaxCost bounds the approximate memory ceiling in bytes.
func WithMaxCost(bytes int64) Option {
	return func(c *Config) {
		if bytes > 0 {
			c.MaxCost = bytes
		}
	}
}

// WithTTL sets the entry lifetime. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TTL = ttl
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// Cache is a concurrency-safe, cost-bounded cache with LRU-flavored
// admission and eviction. It is an explicit service object injected into
// the stages that share it, never ambient global state. Writes never block
// on eviction; ristretto amortizes eviction work across inserts.
type Cache[V any] struct {
	inner  *ristretto.Cache[string, V]
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Cache for values of type V.
func New[V any](opts ...Option) (*Cache[V], error) {
	cfg := &Config{
		MaxEntries: defaultMaxEntries,
		MaxCost:    DefaultMaxCost,
		TTL:        DefaultTTL,
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	inner, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: cfg.MaxEntries * counterFactor,
		MaxCost:     cfg.MaxCost,
		BufferItems: bufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{
		inner:  inner,
		ttl:    cfg.TTL,
		logger: cfg.Logger.With("component", "cache"),
	}, nil
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.inner.Get(key)
}

// Set stores value under key with the given byte-size estimate. Admission
// is best-effort: under pressure ristretto may reject the entry rather
// than block the caller.
func (c *Cache[V]) Set(key string, value V, cost int64) {
	if cost <= 0 {
		cost = 1
	}
	if c.ttl > 0 {
		c.inner.SetWithTTL(key, value, cost, c.ttl)
		return
	}
	c.inner.Set(key, value, cost)
}

// Delete removes key from the cache.
func (c *Cache[V]) Delete(key string) {
	c.inner.Del(key)
}

// Wait blocks until buffered writes have been applied. Tests use this to
// make Set visible before asserting on Get.
func (c *Cache[V]) Wait() {
	c.inner.Wait()
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits        uint64
	Misses      uint64
	KeysAdded   uint64
	KeysEvicted uint64
	CostAdded   uint64
	CostEvicted uint64
}

// Stats returns current cache counters.
func (c *Cache[V]) Stats() Stats {
	m := c.inner.Metrics
	return Stats{
		Hits:        m.Hits(),
		Misses:      m.Misses(),
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		CostAdded:   m.CostAdded(),
		CostEvicted: m.CostEvicted(),
	}
}

// Close releases the cache's internal goroutines.
func (c *Cache[V]) Close() {
	c.inner.Close()
}
