package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotKind names the payment lifecycle moment a rate was captured at.
type SnapshotKind string

const (
	SnapshotCreation   SnapshotKind = "CREATION"
	SnapshotSettlement SnapshotKind = "SETTLEMENT"
)

// FxSnapshot is an immutable rate observation tied to a payment. At most one
// row exists per (payment, kind, asset); corrections are new rows, never
// updates.
type FxSnapshot struct {
	SnapshotID    string          `json:"snapshotID"`
	PaymentID     string          `json:"paymentID"`
	Kind          SnapshotKind    `json:"kind"`
	Asset         string          `json:"asset,omitempty"` // empty for pure-fiat payments
	BaseCurrency  string          `json:"baseCurrency"`
	QuoteCurrency string          `json:"quoteCurrency"`
	Rate          decimal.Decimal `json:"rate"`
	Source        string          `json:"source"`
	CapturedAt    time.Time       `json:"capturedAt"`
}

// RateVariance is the signed percentage movement between a payment's creation
// and settlement snapshots for one asset.
type RateVariance struct {
	PaymentID      string          `json:"paymentID"`
	Asset          string          `json:"asset,omitempty"`
	CreationRate   decimal.Decimal `json:"creationRate"`
	SettlementRate decimal.Decimal `json:"settlementRate"`
	Variance       decimal.Decimal `json:"variance"` // (settlement-creation)/creation
}
