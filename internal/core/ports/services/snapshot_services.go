package services

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
)

// SnapshotSvcFacade captures immutable FX observations on payment lifecycle
// boundaries. All captures are idempotent per (payment, kind, asset):
// re-invocation returns the existing row rather than creating a second one.
type SnapshotSvcFacade interface {
	CaptureCreationSnapshot(ctx context.Context, paymentID, base, quote, asset string) (*domain.FxSnapshot, error)
	// CaptureAllCreationSnapshots records one creation snapshot per supported
	// crypto asset against the payment's quote currency, using one batched
	// rate fetch.
	CaptureAllCreationSnapshots(ctx context.Context, paymentID, quote string) ([]domain.FxSnapshot, error)
	CaptureSettlementSnapshot(ctx context.Context, paymentID, base, quote, asset string) (*domain.FxSnapshot, error)
	// CalculateRateVariance compares settlement against creation snapshots
	// per asset. Payments without a usable creation snapshot yield
	// ErrVarianceUnavailable, not a zero variance.
	CalculateRateVariance(ctx context.Context, paymentID string) ([]domain.RateVariance, error)
	GetSettlementSnapshot(ctx context.Context, paymentID, asset string) (*domain.FxSnapshot, error)
}
