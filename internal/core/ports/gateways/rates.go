package gateways

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
)

// CurrencyPair identifies one base/quote request.
type CurrencyPair struct {
	Base  string
	Quote string
}

// Key returns the canonical "BASE/QUOTE" form used for cache and result keys.
func (p CurrencyPair) Key() string {
	return p.Base + "/" + p.Quote
}

// RateProvider is one external price source. Implementations are expected to
// be safe for concurrent use.
type RateProvider interface {
	// GetRate fetches the current rate for one pair.
	GetRate(ctx context.Context, base, quote string) (*domain.ExchangeRate, error)
	// GetRates fetches rates for several bases against a single quote
	// currency in one upstream call where the source supports it.
	GetRates(ctx context.Context, bases []string, quote string) (map[string]*domain.ExchangeRate, error)
	Name() string
	Healthy(ctx context.Context) bool
}
