package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
	"github.com/luminapay/railsync/internal/platform/ratecache"
	"golang.org/x/sync/errgroup"
)

// rateService fronts the provider aggregator with the TTL cache. TTL depends
// on the base asset's volatility class: pegged assets are priced to track a
// fiat currency and keep a long TTL, volatile tokens a short one.
type rateService struct {
	cache       *ratecache.Cache
	provider    gateways.RateProvider
	volatileTTL time.Duration
	peggedTTL   time.Duration
}

// NewRateService creates a new RateService over the injected cache and provider.
func NewRateService(cache *ratecache.Cache, provider gateways.RateProvider, volatileTTL, peggedTTL time.Duration) portssvc.RateSvcFacade {
	return &rateService{
		cache:       cache,
		provider:    provider,
		volatileTTL: volatileTTL,
		peggedTTL:   peggedTTL,
	}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// ttlFor picks the cache TTL for a base asset. Fiat/fiat pairs move on the
// pegged timescale.
func (s *rateService) ttlFor(base string) time.Duration {
	if rail := domain.Rail(base); rail.IsValid() && rail.Volatility() == domain.Volatile {
		return s.volatileTTL
	}
	return s.peggedTTL
}

func (s *rateService) cacheKey(base, quote string) string {
	return base + "/" + quote + "@" + s.provider.Name()
}

// GetRate returns the pair's rate, deduplicating concurrent upstream fetches
// for the same pair through the cache's single-flight guarantee.
func (s *rateService) GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error) {
	return s.cache.GetOrSet(ctx, s.cacheKey(base, quote), s.ttlFor(base), func(ctx context.Context) (*domain.ExchangeRate, error) {
		return s.provider.GetRate(ctx, base, quote)
	})
}

// GetRates resolves a batch of pairs. Pairs are grouped by quote currency and
// the groups fetched in parallel; a group failure only leaves its pairs absent
// from the result.
func (s *rateService) GetRates(ctx context.Context, pairs []gateways.CurrencyPair) (map[string]*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	byQuote := make(map[string][]string)
	for _, pair := range pairs {
		byQuote[pair.Quote] = append(byQuote[pair.Quote], pair.Base)
	}

	var mu sync.Mutex
	out := make(map[string]*domain.ExchangeRate, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	for quote, bases := range byQuote {
		quote, bases := quote, bases
		g.Go(func() error {
			// Serve cached pairs first so a quiet upstream call covers only
			// the misses.
			missing := make([]string, 0, len(bases))
			for _, base := range bases {
				if rate, ok := s.cache.Get(s.cacheKey(base, quote)); ok {
					mu.Lock()
					out[base+"/"+quote] = rate
					mu.Unlock()
				} else {
					missing = append(missing, base)
				}
			}
			if len(missing) == 0 {
				return nil
			}

			rates, err := s.provider.GetRates(gctx, missing, quote)
			if err != nil {
				// Isolate the failure to this quote group.
				logger.Warn("batch rate fetch failed",
					slog.String("quote", quote),
					slog.String("error", err.Error()))
				return nil
			}
			for base, rate := range rates {
				s.cache.Set(s.cacheKey(base, quote), rate, s.ttlFor(base))
				mu.Lock()
				out[base+"/"+quote] = rate
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
