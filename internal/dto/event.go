package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CardConfirmationPayload carries the fiat processor's confirmation details.
type CardConfirmationPayload struct {
	ProcessorChargeID string `json:"processorChargeID" binding:"required"`
	CardBrand         string `json:"cardBrand"`
	Last4             string `json:"last4" binding:"omitempty,len=4,numeric"`
}

// CryptoConfirmationPayload carries the on-chain confirmation details.
type CryptoConfirmationPayload struct {
	Token         string `json:"token" binding:"required,uppercase"`
	TxSignature   string `json:"txSignature" binding:"required"`
	PayerAddress  string `json:"payerAddress"`
	Confirmations int    `json:"confirmations" binding:"omitempty,min=0"`
}

// PaymentCreatedRequest defines the structure for signalling that a payment
// was created, which captures its creation-time FX baseline.
type PaymentCreatedRequest struct {
	PaymentID      string `json:"paymentID" binding:"required"`
	OrganizationID string `json:"organizationID" binding:"required"`
}

// PaymentConfirmedRequest defines the structure for ingesting a payment
// confirmation. Exactly one of Card or Crypto must be set, matching the rail.
type PaymentConfirmedRequest struct {
	PaymentID      string                     `json:"paymentID" binding:"required"`
	OrganizationID string                     `json:"organizationID" binding:"required"`
	Rail           string                     `json:"rail" binding:"required,oneof=CARD SOL USDC USDT AUDD"`
	Amount         decimal.Decimal            `json:"amount" binding:"required"`
	CurrencyCode   string                     `json:"currencyCode" binding:"required,uppercase,min=3,max=5"`
	ExternalRef    string                     `json:"externalRef"`
	Card           *CardConfirmationPayload   `json:"card,omitempty"`
	Crypto         *CryptoConfirmationPayload `json:"crypto,omitempty"`
	OccurredAt     time.Time                  `json:"occurredAt" binding:"required"`
}

// ToDomainEvent converts the request into a confirmation event ready for ingestion.
func (r PaymentConfirmedRequest) ToDomainEvent() domain.PaymentEvent {
	event := domain.PaymentEvent{
		EventID:        uuid.NewString(),
		PaymentID:      r.PaymentID,
		OrganizationID: r.OrganizationID,
		EventType:      domain.EventConfirmed,
		Rail:           domain.Rail(r.Rail),
		Amount:         r.Amount,
		CurrencyCode:   r.CurrencyCode,
		ExternalRef:    r.ExternalRef,
		OccurredAt:     r.OccurredAt,
	}
	if r.Card != nil {
		event.Card = &domain.CardConfirmation{
			ProcessorChargeID: r.Card.ProcessorChargeID,
			CardBrand:         r.Card.CardBrand,
			Last4:             r.Card.Last4,
		}
	}
	if r.Crypto != nil {
		event.Crypto = &domain.CryptoConfirmation{
			Token:         r.Crypto.Token,
			TxSignature:   r.Crypto.TxSignature,
			PayerAddress:  r.Crypto.PayerAddress,
			Confirmations: r.Crypto.Confirmations,
		}
	}
	return event
}

// PaymentEventResponse defines the structure for API responses containing one
// payment lifecycle event.
type PaymentEventResponse struct {
	EventID      string          `json:"eventID"`
	PaymentID    string          `json:"paymentID"`
	EventType    string          `json:"eventType"`
	Rail         string          `json:"rail"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	ExternalRef  string          `json:"externalRef,omitempty"`
	OccurredAt   time.Time       `json:"occurredAt"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ListPaymentEventsResponse defines the structure for a paginated page of
// payment events.
type ListPaymentEventsResponse struct {
	Events    []PaymentEventResponse `json:"events"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToListPaymentEventsResponse converts a page of domain events to its response DTO.
func ToListPaymentEventsResponse(events []domain.PaymentEvent, nextToken *string) ListPaymentEventsResponse {
	responses := make([]PaymentEventResponse, len(events))
	for i, e := range events {
		responses[i] = ToPaymentEventResponse(e)
	}
	return ListPaymentEventsResponse{Events: responses, NextToken: nextToken}
}

// ToPaymentEventResponse converts a domain.PaymentEvent to its response DTO.
func ToPaymentEventResponse(e domain.PaymentEvent) PaymentEventResponse {
	return PaymentEventResponse{
		EventID:      e.EventID,
		PaymentID:    e.PaymentID,
		EventType:    string(e.EventType),
		Rail:         string(e.Rail),
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		ExternalRef:  e.ExternalRef,
		OccurredAt:   e.OccurredAt,
		CreatedAt:    e.CreatedAt,
	}
}
