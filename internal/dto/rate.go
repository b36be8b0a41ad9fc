package dto

import (
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing one rate.
type ExchangeRateResponse struct {
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	Source        string          `json:"source"`
	ObservedAt    time.Time       `json:"observedAt"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its response DTO.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		BaseCurrency:  r.BaseCurrency,
		QuoteCurrency: r.QuoteCurrency,
		Rate:          r.Rate,
		Source:        r.Source,
		ObservedAt:    r.ObservedAt,
	}
}

// RateVarianceResponse is one asset's creation-vs-settlement rate movement.
type RateVarianceResponse struct {
	PaymentID      string          `json:"paymentID"`
	Asset          string          `json:"asset,omitempty"`
	CreationRate   decimal.Decimal `json:"creationRate"`
	SettlementRate decimal.Decimal `json:"settlementRate"`
	Variance       decimal.Decimal `json:"variance"`
}

// ToListRateVarianceResponse converts domain variances to response DTOs.
func ToListRateVarianceResponse(variances []domain.RateVariance) []RateVarianceResponse {
	responses := make([]RateVarianceResponse, len(variances))
	for i, v := range variances {
		responses[i] = RateVarianceResponse{
			PaymentID:      v.PaymentID,
			Asset:          v.Asset,
			CreationRate:   v.CreationRate,
			SettlementRate: v.SettlementRate,
			Variance:       v.Variance,
		}
	}
	return responses
}

// FxSnapshotResponse defines the structure for API responses containing one snapshot.
type FxSnapshotResponse struct {
	SnapshotID    string          `json:"snapshotID"`
	PaymentID     string          `json:"paymentID"`
	Kind          string          `json:"kind"`
	Asset         string          `json:"asset,omitempty"`
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	Source        string          `json:"source"`
	CapturedAt    time.Time       `json:"capturedAt"`
}

// ToFxSnapshotResponse converts a domain.FxSnapshot to its response DTO.
func ToFxSnapshotResponse(s domain.FxSnapshot) FxSnapshotResponse {
	return FxSnapshotResponse{
		SnapshotID:    s.SnapshotID,
		PaymentID:     s.PaymentID,
		Kind:          string(s.Kind),
		Asset:         s.Asset,
		BaseCurrency:  s.BaseCurrency,
		QuoteCurrency: s.QuoteCurrency,
		Rate:          s.Rate,
		Source:        s.Source,
		CapturedAt:    s.CapturedAt,
	}
}
