package services

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
)

// RateSvcFacade exposes cached rate lookups to the rest of the engine.
type RateSvcFacade interface {
	// GetRate returns the current rate for one pair, served from cache when
	// fresh enough for the base asset's volatility class.
	GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error)
	// GetRates resolves a batch of pairs, grouping upstream calls by quote
	// currency. A failure for one pair leaves it absent rather than failing
	// the batch; the result is keyed by CurrencyPair.Key().
	GetRates(ctx context.Context, pairs []gateways.CurrencyPair) (map[string]*domain.ExchangeRate, error)
}
