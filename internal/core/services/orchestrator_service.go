package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
)

// currencyMatchedMarker is appended to narration when the settlement asset is
// pegged to the invoice's fiat currency: the merchant took no conversion risk.
// A business-meaningful distinction for the accountant reading the record.
const currencyMatchedMarker = "No FX risk - currency matched"

// orchestratorService drives one payment's accounting sync end to end:
// remote invoice, remote payment against the rail's mapped clearing account,
// then the local ledger pair and audit narration.
type orchestratorService struct {
	paymentRepo portsrepo.PaymentRepositoryFacade
	orgRepo     portsrepo.OrganizationRepositoryFacade
	snapshotSvc portssvc.SnapshotSvcFacade
	ledgerSvc   portssvc.LedgerSvcFacade
	gateway     gateways.AccountingGateway
}

// NewOrchestratorService creates a new OrchestratorService.
func NewOrchestratorService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	orgRepo portsrepo.OrganizationRepositoryFacade,
	snapshotSvc portssvc.SnapshotSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	gateway gateways.AccountingGateway,
) portssvc.OrchestratorSvcFacade {
	return &orchestratorService{
		paymentRepo: paymentRepo,
		orgRepo:     orgRepo,
		snapshotSvc: snapshotSvc,
		ledgerSvc:   ledgerSvc,
		gateway:     gateway,
	}
}

var _ portssvc.OrchestratorSvcFacade = (*orchestratorService)(nil)

// SyncPayment executes the synchronous invoice -> payment -> ledger sequence.
// It rejects unconfirmed payments outright; the caller decides what to do,
// no retry is scheduled for that case.
func (s *orchestratorService) SyncPayment(ctx context.Context, paymentID, organizationID string) (*domain.SyncResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("payment_id", paymentID))

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if payment.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: payment %s does not belong to organization %s", apperrors.ErrValidation, paymentID, organizationID)
	}
	if !payment.IsConfirmed() {
		return nil, fmt.Errorf("%w: payment %s is %s", apperrors.ErrPaymentNotConfirmed, paymentID, payment.Status)
	}

	event, err := s.paymentRepo.FindLatestConfirmedEvent(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmation event for payment %s: %w", paymentID, err)
	}

	mapping, err := s.orgRepo.FindRailMapping(ctx, organizationID, event.Rail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: rail %s for organization %s", apperrors.ErrClearingAccountNotMapped, event.Rail, organizationID)
		}
		return nil, fmt.Errorf("failed to load rail mapping: %w", err)
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organization %s: %w", organizationID, err)
	}

	snapshot, err := s.settlementSnapshot(ctx, *payment, *event)
	if err != nil {
		return nil, err
	}

	narration := buildNarration(*payment, *event, snapshot)

	invoiceID, err := s.gateway.CreateInvoice(ctx, gateways.AccountingInvoice{
		Reference:    payment.Reference,
		ContactName:  org.Name,
		Description:  payment.Description,
		Amount:       payment.Amount,
		CurrencyCode: payment.CurrencyCode,
		IssuedAt:     payment.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("invoice creation failed for payment %s: %w", paymentID, err)
	}

	remotePaymentID, err := s.gateway.RecordPayment(ctx, gateways.AccountingPayment{
		InvoiceID:      invoiceID,
		AccountID:      mapping.ExternalAccount,
		Amount:         payment.Amount,
		CurrencyCode:   payment.CurrencyCode,
		PaidAt:         event.OccurredAt,
		Narration:      narration,
		IdempotencyKey: payment.PaymentID,
	})
	if err != nil {
		return nil, fmt.Errorf("payment recording failed for payment %s: %w", paymentID, err)
	}

	// Ledger entries are created exactly once; a retry after a crash between
	// the remote call and here finds them via the RecordSettlement guard.
	if err := s.ledgerSvc.RecordSettlement(ctx, *payment, *event); err != nil {
		return nil, fmt.Errorf("ledger write failed for payment %s: %w", paymentID, err)
	}

	// Integrity check is alert-only: a violation is surfaced to monitoring by
	// the ledger service but does not undo a completed sync.
	if err := s.ledgerSvc.VerifyPaymentEntries(ctx, paymentID); err != nil {
		logger.Error("post-sync ledger verification failed", slog.String("error", err.Error()))
	}

	logger.Info("payment synced to accounting system",
		slog.String("remote_invoice_id", invoiceID),
		slog.String("remote_payment_id", remotePaymentID),
		slog.String("rail", string(event.Rail)))

	return &domain.SyncResult{
		RemoteInvoiceID: invoiceID,
		RemotePaymentID: remotePaymentID,
		Narration:       narration,
	}, nil
}

// settlementSnapshot loads the FX snapshot backing the narration. Crypto
// settlements must have one (captured at confirmation; recaptured here if the
// ingest path was interrupted). Fiat card settlements have none.
func (s *orchestratorService) settlementSnapshot(ctx context.Context, payment domain.Payment, event domain.PaymentEvent) (*domain.FxSnapshot, error) {
	if !event.Rail.IsCrypto() {
		return nil, nil
	}

	asset := event.SettlementAsset()
	snapshot, err := s.snapshotSvc.GetSettlementSnapshot(ctx, payment.PaymentID, asset)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to load settlement snapshot for payment %s: %w", payment.PaymentID, err)
	}

	return s.snapshotSvc.CaptureSettlementSnapshot(ctx, payment.PaymentID, asset, payment.CurrencyCode, asset)
}

// buildNarration renders the audit text attached to the remote payment:
// rail, external transaction reference, the FX rate at 8-decimal precision
// with its capture timestamp, and both settlement and invoice amounts.
func buildNarration(payment domain.Payment, event domain.PaymentEvent, snapshot *domain.FxSnapshot) string {
	parts := []string{
		fmt.Sprintf("Payment via %s", event.Rail),
		fmt.Sprintf("Ref %s", event.TransactionReference()),
	}

	if snapshot != nil {
		parts = append(parts, fmt.Sprintf("FX %s/%s %s at %s",
			snapshot.BaseCurrency,
			snapshot.QuoteCurrency,
			snapshot.Rate.StringFixed(8),
			snapshot.CapturedAt.UTC().Format(time.RFC3339)))
	}

	parts = append(parts, fmt.Sprintf("Received %s %s for invoice %s %s",
		event.Amount.String(),
		event.CurrencyCode,
		payment.Amount.String(),
		payment.CurrencyCode))

	// Pegged asset settling its own reference fiat currency: no conversion
	// risk was taken. Exactly this condition, nothing broader.
	if event.Rail.IsCrypto() && event.Rail.PeggedFiat() != "" && event.Rail.PeggedFiat() == payment.CurrencyCode {
		parts = append(parts, currencyMatchedMarker)
	}

	return strings.Join(parts, " | ")
}
