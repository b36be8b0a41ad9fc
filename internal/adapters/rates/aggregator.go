package rates

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	"github.com/luminapay/railsync/internal/platform/metrics"
)

// Aggregator normalizes several price sources behind the RateProvider port.
// Providers are tried in configuration order; the first answer wins. Only when
// every provider fails does a lookup surface ErrRateUnavailable.
type Aggregator struct {
	providers []gateways.RateProvider
	logger    *slog.Logger
}

var _ gateways.RateProvider = (*Aggregator)(nil)

// NewAggregator creates an aggregator over the given providers.
func NewAggregator(logger *slog.Logger, providers ...gateways.RateProvider) *Aggregator {
	return &Aggregator{providers: providers, logger: logger}
}

func (a *Aggregator) Name() string {
	return "aggregate"
}

// GetRate returns the first provider's answer for the pair.
func (a *Aggregator) GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error) {
	for _, provider := range a.providers {
		rate, err := provider.GetRate(ctx, base, quote)
		if err != nil {
			metrics.RateProviderErrors.WithLabelValues(provider.Name()).Inc()
			a.logger.Warn("rate provider failed",
				slog.String("provider", provider.Name()),
				slog.String("pair", base+"/"+quote),
				slog.String("error", err.Error()))
			continue
		}
		return rate, nil
	}
	return nil, fmt.Errorf("%w: no provider returned a rate for %s/%s", apperrors.ErrRateUnavailable, base, quote)
}

// GetRates resolves each base against the quote, falling through providers per
// base so one source's gap does not blank the whole batch. Bases that no
// provider can price are absent from the result rather than failing it.
func (a *Aggregator) GetRates(ctx context.Context, bases []string, quote string) (map[string]*domain.ExchangeRate, error) {
	out := make(map[string]*domain.ExchangeRate, len(bases))
	remaining := append([]string(nil), bases...)

	for _, provider := range a.providers {
		if len(remaining) == 0 {
			break
		}
		rates, err := provider.GetRates(ctx, remaining, quote)
		if err != nil {
			metrics.RateProviderErrors.WithLabelValues(provider.Name()).Inc()
			a.logger.Warn("rate provider batch failed",
				slog.String("provider", provider.Name()),
				slog.String("quote", quote),
				slog.String("error", err.Error()))
			continue
		}
		next := remaining[:0]
		for _, base := range remaining {
			if rate, ok := rates[base]; ok {
				out[base] = rate
			} else {
				next = append(next, base)
			}
		}
		remaining = next
	}

	if len(out) == 0 && len(bases) > 0 {
		return nil, fmt.Errorf("%w: no provider returned rates for quote %s", apperrors.ErrRateUnavailable, quote)
	}
	return out, nil
}

// Healthy reports whether any provider is reachable.
func (a *Aggregator) Healthy(ctx context.Context) bool {
	for _, provider := range a.providers {
		if provider.Healthy(ctx) {
			return true
		}
	}
	return false
}
