package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the persistence shape of a payment row.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	OrganizationID string          `db:"organization_id"`
	Reference      string          `db:"reference"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	Status         string          `db:"status"`
	Description    string          `db:"description"`
	AuditFields
}

// PaymentEvent is the persistence shape of a payment lifecycle event.
// Rail-specific confirmation metadata is stored as a JSONB blob and decoded
// into the typed domain payload at the boundary where it is read.
type PaymentEvent struct {
	EventID        string          `db:"event_id"`
	PaymentID      string          `db:"payment_id"`
	OrganizationID string          `db:"organization_id"`
	EventType      string          `db:"event_type"`
	Rail           string          `db:"rail"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	ExternalRef    string          `db:"external_ref"`
	Metadata       []byte          `db:"metadata"`
	OccurredAt     time.Time       `db:"occurred_at"`
	CreatedAt      time.Time       `db:"created_at"`
}
