package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
)

// eventService ingests payment-confirmation events from the webhook layer and
// starts the settlement pipeline: settlement snapshot capture, then the
// idempotent sync enqueue.
type eventService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	snapshotSvc portssvc.SnapshotSvcFacade
	syncQueue   portssvc.SyncQueueSvcFacade
}

// NewEventService creates a new EventService.
func NewEventService(paymentRepo portsrepo.PaymentRepositoryFacade, snapshotSvc portssvc.SnapshotSvcFacade, syncQueue portssvc.SyncQueueSvcFacade) portssvc.EventSvcFacade {
	return &eventService{
		paymentRepo: paymentRepo,
		snapshotSvc: snapshotSvc,
		syncQueue:   syncQueue,
	}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// HandlePaymentCreated captures the payment's creation-time FX baseline. The
// settlement snapshot later compares against these rows to price the FX
// movement over the payment's lifetime.
func (s *eventService) HandlePaymentCreated(ctx context.Context, paymentID, organizationID string) error {
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if payment.OrganizationID != organizationID {
		return fmt.Errorf("%w: payment %s does not belong to organization %s", apperrors.ErrValidation, paymentID, organizationID)
	}

	snapshots, err := s.snapshotSvc.CaptureAllCreationSnapshots(ctx, payment.PaymentID, payment.CurrencyCode)
	if err != nil {
		return err
	}

	middleware.GetLoggerFromCtx(ctx).Info("creation snapshots captured",
		slog.String("payment_id", payment.PaymentID),
		slog.Int("assets", len(snapshots)))
	return nil
}

// HandlePaymentConfirmed processes one confirmation event. Snapshot capture
// failing on missing price data does not block the enqueue: the orchestrator
// re-attempts capture on its first run and the retry machinery takes it from
// there.
func (s *eventService) HandlePaymentConfirmed(ctx context.Context, event domain.PaymentEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("payment_id", event.PaymentID))

	if !event.Rail.IsValid() {
		return fmt.Errorf("%w: unknown rail '%s'", apperrors.ErrValidation, event.Rail)
	}
	if event.Rail.IsCrypto() && event.Crypto == nil {
		return fmt.Errorf("%w: crypto rail %s confirmation without token metadata", apperrors.ErrValidation, event.Rail)
	}
	if event.Rail == domain.RailCard && event.Card == nil {
		return fmt.Errorf("%w: card confirmation without processor metadata", apperrors.ErrValidation)
	}

	payment, err := s.paymentRepo.FindPaymentByID(ctx, event.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", event.PaymentID, err)
	}

	now := time.Now()
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = domain.EventConfirmed
	event.OrganizationID = payment.OrganizationID
	event.CreatedAt = now

	if err := s.paymentRepo.SaveEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to save confirmation event: %w", err)
	}

	if payment.Status != domain.PaymentPaid {
		if err := s.paymentRepo.UpdatePaymentStatus(ctx, payment.PaymentID, domain.PaymentPaid, now); err != nil {
			return fmt.Errorf("failed to mark payment %s paid: %w", payment.PaymentID, err)
		}
	}

	if asset := event.SettlementAsset(); asset != "" {
		if _, err := s.snapshotSvc.CaptureSettlementSnapshot(ctx, payment.PaymentID, asset, payment.CurrencyCode, asset); err != nil {
			logger.Warn("settlement snapshot capture deferred",
				slog.String("asset", asset),
				slog.String("error", err.Error()))
		}
	}

	if _, err := s.syncQueue.QueueSync(ctx, payment.PaymentID, payment.OrganizationID); err != nil {
		return err
	}

	logger.Info("payment confirmation ingested",
		slog.String("rail", string(event.Rail)),
		slog.String("external_ref", event.TransactionReference()))
	return nil
}

// ListPaymentEvents returns one page of the payment's event history. The
// payment is loaded first so an unknown ID yields ErrNotFound rather than an
// empty page.
func (s *eventService) ListPaymentEvents(ctx context.Context, paymentID string, limit int, nextToken *string) ([]domain.PaymentEvent, *string, error) {
	if _, err := s.paymentRepo.FindPaymentByID(ctx, paymentID); err != nil {
		return nil, nil, err
	}
	return s.paymentRepo.ListEventsByPayment(ctx, paymentID, limit, nextToken)
}
