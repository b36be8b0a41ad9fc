package gateways

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountingInvoice is the shape of the invoice created in the external
// accounting system. The concrete wire format belongs to the adapter.
type AccountingInvoice struct {
	Reference    string
	ContactName  string
	Description  string
	Amount       decimal.Decimal
	CurrencyCode string
	IssuedAt     time.Time
}

// AccountingPayment records a settled payment against an invoice, applied to
// the clearing account mapped for the settlement rail.
type AccountingPayment struct {
	InvoiceID       string
	AccountID       string // external clearing-account identifier
	Amount          decimal.Decimal
	CurrencyCode    string
	PaidAt          time.Time
	Narration       string
	IdempotencyKey  string // payment id; remote creation must be idempotent on it
}

// AccountingGateway is the external accounting system boundary. Failures
// surface as errors whose messages feed the queue's error classifier.
type AccountingGateway interface {
	CreateInvoice(ctx context.Context, invoice AccountingInvoice) (string, error)
	RecordPayment(ctx context.Context, payment AccountingPayment) (string, error)
}
