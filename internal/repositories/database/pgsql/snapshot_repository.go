package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	"github.com/luminapay/railsync/internal/models"
	"github.com/luminapay/railsync/internal/utils/mapping"
)

type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for FX snapshot data.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

// SaveSnapshot inserts the snapshot. The unique index on
// (payment_id, kind, asset) makes concurrent captures collapse onto one row:
// on conflict nothing is written and the existing row is returned.
func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot domain.FxSnapshot) (*domain.FxSnapshot, error) {
	query := `
		INSERT INTO fx_snapshots (
			snapshot_id, payment_id, kind, asset, base_currency, quote_currency,
			rate, source, captured_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (payment_id, kind, asset) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		snapshot.SnapshotID,
		snapshot.PaymentID,
		string(snapshot.Kind),
		snapshot.Asset,
		snapshot.BaseCurrency,
		snapshot.QuoteCurrency,
		snapshot.Rate,
		snapshot.Source,
		snapshot.CapturedAt,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to save fx snapshot", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the race or re-invoked: the earlier row is the truth.
		return r.FindSnapshot(ctx, snapshot.PaymentID, snapshot.Kind, snapshot.Asset)
	}
	return &snapshot, nil
}

func (r *PgxSnapshotRepository) FindSnapshot(ctx context.Context, paymentID string, kind domain.SnapshotKind, asset string) (*domain.FxSnapshot, error) {
	query := `
		SELECT snapshot_id, payment_id, kind, asset, base_currency, quote_currency,
			rate, source, captured_at
		FROM fx_snapshots
		WHERE payment_id = $1 AND kind = $2 AND asset = $3;
	`
	var m models.FxSnapshot
	err := r.Pool.QueryRow(ctx, query, paymentID, string(kind), asset).Scan(
		&m.SnapshotID,
		&m.PaymentID,
		&m.Kind,
		&m.Asset,
		&m.BaseCurrency,
		&m.QuoteCurrency,
		&m.Rate,
		&m.Source,
		&m.CapturedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find fx snapshot", err)
	}

	snapshot := mapping.ToDomainSnapshot(m)
	return &snapshot, nil
}

func (r *PgxSnapshotRepository) ListSnapshotsByPayment(ctx context.Context, paymentID string) ([]domain.FxSnapshot, error) {
	query := `
		SELECT snapshot_id, payment_id, kind, asset, base_currency, quote_currency,
			rate, source, captured_at
		FROM fx_snapshots
		WHERE payment_id = $1
		ORDER BY captured_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list fx snapshots for payment "+paymentID, err)
	}
	defer rows.Close()

	var snapshots []domain.FxSnapshot
	for rows.Next() {
		var m models.FxSnapshot
		if err := rows.Scan(
			&m.SnapshotID,
			&m.PaymentID,
			&m.Kind,
			&m.Asset,
			&m.BaseCurrency,
			&m.QuoteCurrency,
			&m.Rate,
			&m.Source,
			&m.CapturedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fx snapshot", err)
		}
		snapshots = append(snapshots, mapping.ToDomainSnapshot(m))
	}
	return snapshots, rows.Err()
}
