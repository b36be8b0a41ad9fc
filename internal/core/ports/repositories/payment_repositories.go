package repositories

import (
	"context"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
)

// PaymentRepositoryFacade provides access to payment and payment-event rows.
// Payments are created and paid by out-of-scope flows; this engine reads them
// and appends lifecycle events.
type PaymentRepositoryFacade interface {
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedAt time.Time) error
	SaveEvent(ctx context.Context, event domain.PaymentEvent) error
	// FindLatestConfirmedEvent returns the most recent CONFIRMED event for the
	// payment, or ErrNotFound when none exists.
	FindLatestConfirmedEvent(ctx context.Context, paymentID string) (*domain.PaymentEvent, error)
	// ListEventsByPayment retrieves a paginated list of the payment's events,
	// newest first, using token-based pagination.
	ListEventsByPayment(ctx context.Context, paymentID string, limit int, nextToken *string) ([]domain.PaymentEvent, *string, error)
}
