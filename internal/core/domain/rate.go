package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one observation of a currency pair from a price source.
// Immutable once created; cached copies carry an expiry in the cache layer,
// not here.
type ExchangeRate struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"` // quote units per one base unit
	Source        string          `json:"source"`
	ObservedAt    time.Time       `json:"observedAt"`
}

// Pair returns the canonical "BASE/QUOTE" form of the rate's currency pair.
func (r ExchangeRate) Pair() string {
	return r.BaseCurrency + "/" + r.QuoteCurrency
}
