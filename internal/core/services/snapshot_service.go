package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/core/ports/gateways"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
)

// snapshotService persists immutable FX observations per payment lifecycle
// moment. Downstream accounting narration depends on a single source of truth
// per (payment, kind, asset), so captures are idempotent: hitting an existing
// row returns it unchanged.
type snapshotService struct {
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	rateSvc      portssvc.RateSvcFacade
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(snapshotRepo portsrepo.SnapshotRepositoryFacade, rateSvc portssvc.RateSvcFacade) portssvc.SnapshotSvcFacade {
	return &snapshotService{snapshotRepo: snapshotRepo, rateSvc: rateSvc}
}

var _ portssvc.SnapshotSvcFacade = (*snapshotService)(nil)

func (s *snapshotService) capture(ctx context.Context, paymentID string, kind domain.SnapshotKind, base, quote, asset string) (*domain.FxSnapshot, error) {
	if existing, err := s.snapshotRepo.FindSnapshot(ctx, paymentID, kind, asset); err == nil {
		return existing, nil
	}

	rate, err := s.rateSvc.GetRate(ctx, base, quote)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate for %s snapshot of payment %s: %w", kind, paymentID, err)
	}

	snapshot := domain.FxSnapshot{
		SnapshotID:    uuid.NewString(),
		PaymentID:     paymentID,
		Kind:          kind,
		Asset:         asset,
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Rate:          rate.Rate,
		Source:        rate.Source,
		CapturedAt:    time.Now(),
	}
	return s.snapshotRepo.SaveSnapshot(ctx, snapshot)
}

// CaptureCreationSnapshot records the quote shown to the payer at creation time.
func (s *snapshotService) CaptureCreationSnapshot(ctx context.Context, paymentID, base, quote, asset string) (*domain.FxSnapshot, error) {
	return s.capture(ctx, paymentID, domain.SnapshotCreation, base, quote, asset)
}

// CaptureAllCreationSnapshots records one creation snapshot per supported
// crypto asset using a single batched rate call. Assets the providers cannot
// price are skipped; the call fails only when no asset could be captured.
func (s *snapshotService) CaptureAllCreationSnapshots(ctx context.Context, paymentID, quote string) ([]domain.FxSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tokens := domain.CryptoRails()
	pairs := make([]gateways.CurrencyPair, 0, len(tokens))
	for _, token := range tokens {
		pairs = append(pairs, gateways.CurrencyPair{Base: string(token), Quote: quote})
	}

	rates, err := s.rateSvc.GetRates(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creation rates for payment %s: %w", paymentID, err)
	}

	snapshots := make([]domain.FxSnapshot, 0, len(tokens))
	for _, token := range tokens {
		asset := string(token)
		rate, ok := rates[asset+"/"+quote]
		if !ok {
			logger.Warn("no creation rate for asset, skipping snapshot",
				slog.String("payment_id", paymentID),
				slog.String("asset", asset))
			continue
		}

		snapshot := domain.FxSnapshot{
			SnapshotID:    uuid.NewString(),
			PaymentID:     paymentID,
			Kind:          domain.SnapshotCreation,
			Asset:         asset,
			BaseCurrency:  asset,
			QuoteCurrency: quote,
			Rate:          rate.Rate,
			Source:        rate.Source,
			CapturedAt:    time.Now(),
		}
		saved, err := s.snapshotRepo.SaveSnapshot(ctx, snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to save creation snapshot for %s/%s: %w", paymentID, asset, err)
		}
		snapshots = append(snapshots, *saved)
	}

	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: no creation snapshot captured for payment %s", apperrors.ErrRateUnavailable, paymentID)
	}
	return snapshots, nil
}

// CaptureSettlementSnapshot records the rate used to reconcile received value.
func (s *snapshotService) CaptureSettlementSnapshot(ctx context.Context, paymentID, base, quote, asset string) (*domain.FxSnapshot, error) {
	return s.capture(ctx, paymentID, domain.SnapshotSettlement, base, quote, asset)
}

// GetSettlementSnapshot returns the payment's settlement snapshot for an asset.
func (s *snapshotService) GetSettlementSnapshot(ctx context.Context, paymentID, asset string) (*domain.FxSnapshot, error) {
	return s.snapshotRepo.FindSnapshot(ctx, paymentID, domain.SnapshotSettlement, asset)
}

// CalculateRateVariance compares settlement snapshots against their creation
// counterparts per asset. A settlement without a usable creation snapshot
// (missing row or zero rate, e.g. flows that never fetched a pre-payment
// quote) yields no variance; when nothing is computable the call returns
// ErrVarianceUnavailable rather than a zero variance.
func (s *snapshotService) CalculateRateVariance(ctx context.Context, paymentID string) ([]domain.RateVariance, error) {
	snapshots, err := s.snapshotRepo.ListSnapshotsByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	creations := make(map[string]domain.FxSnapshot)
	settlements := make([]domain.FxSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		switch snap.Kind {
		case domain.SnapshotCreation:
			creations[snap.Asset] = snap
		case domain.SnapshotSettlement:
			settlements = append(settlements, snap)
		}
	}

	variances := make([]domain.RateVariance, 0, len(settlements))
	for _, settle := range settlements {
		create, ok := creations[settle.Asset]
		if !ok || create.Rate.IsZero() {
			continue
		}
		variances = append(variances, domain.RateVariance{
			PaymentID:      paymentID,
			Asset:          settle.Asset,
			CreationRate:   create.Rate,
			SettlementRate: settle.Rate,
			Variance:       settle.Rate.Sub(create.Rate).Div(create.Rate),
		})
	}

	if len(variances) == 0 {
		return nil, fmt.Errorf("%w: payment %s has no comparable snapshot pair", apperrors.ErrVarianceUnavailable, paymentID)
	}
	return variances, nil
}
