package services

import (
	"context"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
)

// SyncQueueSvcFacade manages durable accounting sync jobs and drives them
// through the retry state machine.
type SyncQueueSvcFacade interface {
	// QueueSync idempotently enqueues the payment's sync job: at most one
	// non-terminal job exists per payment, and re-enqueueing re-arms it
	// without resetting its retry count.
	QueueSync(ctx context.Context, paymentID, organizationID string) (*domain.SyncJob, error)
	// Replay re-arms the payment's job regardless of state (including
	// SUCCESS) and runs it synchronously. Used for manual re-triggers.
	Replay(ctx context.Context, paymentID string) (*domain.SyncJob, error)
	GetPendingJobs(ctx context.Context, batchSize int) ([]domain.SyncJob, error)
	// ProcessQueue claims one batch of due jobs and executes them in order
	// with the configured inter-job delay. Safe to invoke from multiple
	// concurrent workers.
	ProcessQueue(ctx context.Context) error
	// NextRetryTime returns the delay-derived retry moment for an attempt
	// index, or nil when the backoff schedule is exhausted.
	NextRetryTime(attempt int, now time.Time) *time.Time
	// CategorizeError buckets an external failure message for the retry
	// decision. Every message maps to exactly one category.
	CategorizeError(message string) domain.ErrorCategory
}

// OrchestratorSvcFacade runs one payment's accounting sync end to end:
// invoice creation, payment recording, ledger write and audit narration.
type OrchestratorSvcFacade interface {
	SyncPayment(ctx context.Context, paymentID, organizationID string) (*domain.SyncResult, error)
}

// EventSvcFacade ingests payment lifecycle events produced by the
// out-of-scope webhook layer and starts the settlement pipeline.
type EventSvcFacade interface {
	// HandlePaymentCreated records the payment's FX baseline: one creation
	// snapshot per supported crypto asset against the invoice currency.
	HandlePaymentCreated(ctx context.Context, paymentID, organizationID string) error
	HandlePaymentConfirmed(ctx context.Context, event domain.PaymentEvent) error
	// ListPaymentEvents retrieves a page of the payment's lifecycle events,
	// newest first, using token-based pagination.
	ListPaymentEvents(ctx context.Context, paymentID string, limit int, nextToken *string) ([]domain.PaymentEvent, *string, error)
}
