package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus indicates the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentOpen     PaymentStatus = "OPEN"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentExpired  PaymentStatus = "EXPIRED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment represents an invoice-backed payment request. The collection flow is
// out of scope here; this engine consumes payments once they are confirmed.
type Payment struct {
	PaymentID      string          `json:"paymentID"`
	OrganizationID string          `json:"organizationID"`
	Reference      string          `json:"reference"` // merchant-facing invoice reference
	Amount         decimal.Decimal `json:"amount"`    // invoice amount in fiat
	CurrencyCode   string          `json:"currencyCode"`
	Status         PaymentStatus   `json:"status"`
	Description    string          `json:"description"`
	AuditFields
}

// IsConfirmed reports whether the payment has settled and may be synced.
func (p Payment) IsConfirmed() bool {
	return p.Status == PaymentPaid
}

// PaymentEventType distinguishes confirmation events from other event rows.
type PaymentEventType string

const (
	EventConfirmed PaymentEventType = "CONFIRMED"
	EventCreated   PaymentEventType = "CREATED"
	EventFailed    PaymentEventType = "FAILED"
)

// CardConfirmation is the metadata shape produced by the fiat card processor.
type CardConfirmation struct {
	ProcessorChargeID string `json:"processorChargeID"`
	CardBrand         string `json:"cardBrand,omitempty"`
	Last4             string `json:"last4,omitempty"`
}

// CryptoConfirmation is the metadata shape produced by an on-chain confirmation.
type CryptoConfirmation struct {
	Token         string `json:"token"` // SOL, USDC, USDT, AUDD
	TxSignature   string `json:"txSignature"`
	PayerAddress  string `json:"payerAddress,omitempty"`
	Confirmations int    `json:"confirmations,omitempty"`
}

// PaymentEvent records one lifecycle event for a payment. Confirmation events
// carry exactly one of the two metadata payloads, validated where it is read:
// a CARD rail event carries Card, a crypto rail event carries Crypto.
type PaymentEvent struct {
	EventID        string              `json:"eventID"`
	PaymentID      string              `json:"paymentID"`
	OrganizationID string              `json:"organizationID"`
	EventType      PaymentEventType    `json:"eventType"`
	Rail           Rail                `json:"rail"`
	Amount         decimal.Decimal     `json:"amount"`   // confirmed amount in settlement units
	CurrencyCode   string              `json:"currency"` // settlement currency / token symbol
	ExternalRef    string              `json:"externalRef"`
	Card           *CardConfirmation   `json:"card,omitempty"`
	Crypto         *CryptoConfirmation `json:"crypto,omitempty"`
	OccurredAt     time.Time           `json:"occurredAt"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// SettlementAsset returns the crypto token a confirmation settled in, or ""
// for fiat-rail events.
func (e PaymentEvent) SettlementAsset() string {
	if e.Crypto != nil {
		return e.Crypto.Token
	}
	return ""
}

// TransactionReference returns the external reference for audit narration,
// preferring the rail-specific identifier over the generic one.
func (e PaymentEvent) TransactionReference() string {
	switch {
	case e.Crypto != nil && e.Crypto.TxSignature != "":
		return e.Crypto.TxSignature
	case e.Card != nil && e.Card.ProcessorChargeID != "":
		return e.Card.ProcessorChargeID
	default:
		return e.ExternalRef
	}
}
