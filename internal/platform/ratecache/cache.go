package ratecache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/platform/metrics"
	"golang.org/x/sync/singleflight"
)

// Factory produces a rate for a key on cache miss.
type Factory func(ctx context.Context) (*domain.ExchangeRate, error)

type entry struct {
	rate      *domain.ExchangeRate
	expiresAt time.Time
}

// Cache is a TTL-bounded in-memory rate cache. It is constructed once at
// process start and injected into the services that need it; there is no
// package-level instance.
//
// Concurrent GetOrSet calls for the same missing key collapse into a single
// upstream fetch, with every waiter receiving the same value or error.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	maxEntries int

	group singleflight.Group

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a cache bounded to maxEntries and starts a background sweep
// that purges expired entries every sweepInterval. Close stops the sweep.
func New(maxEntries int, sweepInterval time.Duration) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		stop:       make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

// Close stops the background sweep.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Get returns the cached rate for key when present and unexpired.
func (c *Cache) Get(key string) (*domain.ExchangeRate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		metrics.RateCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.RateCacheLookups.WithLabelValues("hit").Inc()
	return e.rate, true
}

// Set stores the rate under key for ttl, evicting soonest-to-expire entries
// when the configured bound is exceeded.
func (c *Cache) Set(key string, rate *domain.ExchangeRate, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, rate, ttl)
}

func (c *Cache) setLocked(key string, rate *domain.ExchangeRate, ttl time.Duration) {
	c.entries[key] = entry{rate: rate, expiresAt: time.Now().Add(ttl)}
	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		c.evictLocked()
	}
}

// evictLocked removes entries closest to expiry until the bound holds.
func (c *Cache) evictLocked() {
	type keyed struct {
		key       string
		expiresAt time.Time
	}
	all := make([]keyed, 0, len(c.entries))
	for k, e := range c.entries {
		all = append(all, keyed{key: k, expiresAt: e.expiresAt})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].expiresAt.Before(all[j].expiresAt) })
	for _, ke := range all {
		if len(c.entries) <= c.maxEntries {
			break
		}
		delete(c.entries, ke.key)
	}
}

// GetOrSet returns the cached rate for key, or runs factory to produce and
// cache one. At most one factory invocation is in flight per key at any time.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, factory Factory) (*domain.ExchangeRate, error) {
	if rate, ok := c.Get(key); ok {
		return rate, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another waiter may have populated the entry while we queued.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.rate, nil
		}
		c.mu.Unlock()

		rate, err := factory(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.setLocked(key, rate, ttl)
		c.mu.Unlock()
		return rate, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ExchangeRate), nil
}

// Purge removes all expired entries. Exposed for tests; the sweep loop calls
// it on its interval.
func (c *Cache) Purge() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Len returns the current entry count, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepLoop(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-c.stop:
			return
		}
	}
}
