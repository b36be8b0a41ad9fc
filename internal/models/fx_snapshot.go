package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FxSnapshot is the persistence shape of an immutable FX observation tied to a
// payment. Uniqueness over (payment_id, kind, asset) is enforced by the schema.
type FxSnapshot struct {
	SnapshotID    string          `db:"snapshot_id"`
	PaymentID     string          `db:"payment_id"`
	Kind          string          `db:"kind"`
	Asset         string          `db:"asset"`
	BaseCurrency  string          `db:"base_currency"`
	QuoteCurrency string          `db:"quote_currency"`
	Rate          decimal.Decimal `db:"rate"`
	Source        string          `db:"source"`
	CapturedAt    time.Time       `db:"captured_at"`
}
