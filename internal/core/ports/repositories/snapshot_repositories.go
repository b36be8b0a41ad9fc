package repositories

import (
	"context"

	"github.com/luminapay/railsync/internal/core/domain"
)

// SnapshotRepositoryFacade persists immutable FX snapshots.
type SnapshotRepositoryFacade interface {
	// SaveSnapshot inserts the snapshot unless a row already exists for the
	// same (payment, kind, asset), in which case the existing row is returned
	// unchanged. Snapshot rows are never updated.
	SaveSnapshot(ctx context.Context, snapshot domain.FxSnapshot) (*domain.FxSnapshot, error)
	FindSnapshot(ctx context.Context, paymentID string, kind domain.SnapshotKind, asset string) (*domain.FxSnapshot, error)
	ListSnapshotsByPayment(ctx context.Context, paymentID string) ([]domain.FxSnapshot, error)
}
