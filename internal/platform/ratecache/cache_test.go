package ratecache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/platform/ratecache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRate(base, quote, rate string) *domain.ExchangeRate {
	return &domain.ExchangeRate{
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          decimal.RequireFromString(rate),
		Source:        "pricefeed-primary",
		ObservedAt:    time.Now().UTC(),
	}
}

func TestCache_GetReturnsUnexpiredEntry(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	cache.Set("SOL/AUD", newRate("SOL", "AUD", "231.50"), time.Minute)

	got, ok := cache.Get("SOL/AUD")
	require.True(t, ok)
	assert.Equal(t, "SOL/AUD", got.Pair())
	assert.True(t, got.Rate.Equal(decimal.RequireFromString("231.50")))
}

func TestCache_GetMissesExpiredEntry(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	cache.Set("USDC/AUD", newRate("USDC", "AUD", "1.54"), -time.Second)

	_, ok := cache.Get("USDC/AUD")
	assert.False(t, ok)
}

func TestCache_GetMissesUnknownKey(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	_, ok := cache.Get("AUDD/AUD")
	assert.False(t, ok)
}

func TestCache_SetEvictsSoonestToExpire(t *testing.T) {
	cache := ratecache.New(2, 0)
	defer cache.Close()

	cache.Set("SOL/AUD", newRate("SOL", "AUD", "231.50"), time.Minute)
	cache.Set("USDC/AUD", newRate("USDC", "AUD", "1.54"), time.Hour)
	cache.Set("USDT/AUD", newRate("USDT", "AUD", "1.53"), time.Hour)

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("SOL/AUD")
	assert.False(t, ok, "shortest-lived entry should be evicted first")
	_, ok = cache.Get("USDT/AUD")
	assert.True(t, ok)
}

func TestCache_GetOrSetInvokesFactoryOnMiss(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	calls := 0
	factory := func(ctx context.Context) (*domain.ExchangeRate, error) {
		calls++
		return newRate("SOL", "AUD", "231.50"), nil
	}

	got, err := cache.GetOrSet(context.Background(), "SOL/AUD", time.Minute, factory)
	require.NoError(t, err)
	assert.Equal(t, "SOL/AUD", got.Pair())
	assert.Equal(t, 1, calls)

	// Second call is served from the cache.
	_, err = cache.GetOrSet(context.Background(), "SOL/AUD", time.Minute, factory)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSetDoesNotCacheErrors(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	calls := 0
	failing := func(ctx context.Context) (*domain.ExchangeRate, error) {
		calls++
		return nil, assert.AnError
	}

	_, err := cache.GetOrSet(context.Background(), "USDT/AUD", time.Minute, failing)
	require.Error(t, err)

	_, err = cache.GetOrSet(context.Background(), "USDT/AUD", time.Minute, failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "an error result must not be cached")
	assert.Equal(t, 0, cache.Len())
}

func TestCache_GetOrSetCollapsesConcurrentCallers(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	var calls atomic.Int32
	release := make(chan struct{})
	factory := func(ctx context.Context) (*domain.ExchangeRate, error) {
		calls.Add(1)
		<-release
		return newRate("AUDD", "AUD", "0.9998"), nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*domain.ExchangeRate, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrSet(context.Background(), "AUDD/AUD", time.Minute, factory)
		}(i)
	}

	// Let the callers pile up behind the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses should share one fetch")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.True(t, results[i].Rate.Equal(decimal.RequireFromString("0.9998")))
	}
}

func TestCache_PurgeRemovesOnlyExpiredEntries(t *testing.T) {
	cache := ratecache.New(100, 0)
	defer cache.Close()

	cache.Set("SOL/AUD", newRate("SOL", "AUD", "231.50"), -time.Second)
	cache.Set("USDC/AUD", newRate("USDC", "AUD", "1.54"), time.Hour)
	require.Equal(t, 2, cache.Len())

	cache.Purge()

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("USDC/AUD")
	assert.True(t, ok)
}
