package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/models"
)

// ToModelPayment converts a domain payment to its persistence shape.
func ToModelPayment(p domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      p.PaymentID,
		OrganizationID: p.OrganizationID,
		Reference:      p.Reference,
		Amount:         p.Amount,
		CurrencyCode:   p.CurrencyCode,
		Status:         string(p.Status),
		Description:    p.Description,
		AuditFields:    toModelAudit(p.AuditFields),
	}
}

// ToDomainPayment converts a persistence payment row to its domain shape.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		OrganizationID: m.OrganizationID,
		Reference:      m.Reference,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		Status:         domain.PaymentStatus(m.Status),
		Description:    m.Description,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}

// eventMetadata is the stored JSON envelope for rail-specific confirmation
// metadata. Exactly one branch is set, matching the event's rail.
type eventMetadata struct {
	Card   *domain.CardConfirmation   `json:"card,omitempty"`
	Crypto *domain.CryptoConfirmation `json:"crypto,omitempty"`
}

// ToModelPaymentEvent converts a domain event, encoding its typed metadata
// payload into the stored JSON blob.
func ToModelPaymentEvent(e domain.PaymentEvent) (models.PaymentEvent, error) {
	meta, err := json.Marshal(eventMetadata{Card: e.Card, Crypto: e.Crypto})
	if err != nil {
		return models.PaymentEvent{}, fmt.Errorf("failed to encode event metadata: %w", err)
	}
	return models.PaymentEvent{
		EventID:        e.EventID,
		PaymentID:      e.PaymentID,
		OrganizationID: e.OrganizationID,
		EventType:      string(e.EventType),
		Rail:           string(e.Rail),
		Amount:         e.Amount,
		CurrencyCode:   e.CurrencyCode,
		ExternalRef:    e.ExternalRef,
		Metadata:       meta,
		OccurredAt:     e.OccurredAt,
		CreatedAt:      e.CreatedAt,
	}, nil
}

// ToDomainPaymentEvent converts a stored event row, validating the metadata
// blob against the event's rail at this read boundary.
func ToDomainPaymentEvent(m models.PaymentEvent) (domain.PaymentEvent, error) {
	e := domain.PaymentEvent{
		EventID:        m.EventID,
		PaymentID:      m.PaymentID,
		OrganizationID: m.OrganizationID,
		EventType:      domain.PaymentEventType(m.EventType),
		Rail:           domain.Rail(m.Rail),
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		ExternalRef:    m.ExternalRef,
		OccurredAt:     m.OccurredAt,
		CreatedAt:      m.CreatedAt,
	}
	if len(m.Metadata) > 0 {
		var meta eventMetadata
		if err := json.Unmarshal(m.Metadata, &meta); err != nil {
			return domain.PaymentEvent{}, fmt.Errorf("failed to decode metadata for event %s: %w", m.EventID, err)
		}
		e.Card = meta.Card
		e.Crypto = meta.Crypto
	}
	if e.Rail.IsCrypto() && e.EventType == domain.EventConfirmed && e.Crypto == nil {
		return domain.PaymentEvent{}, fmt.Errorf("event %s on crypto rail %s has no crypto confirmation metadata", m.EventID, m.Rail)
	}
	return e, nil
}
