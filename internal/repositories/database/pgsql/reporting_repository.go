package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
)

// latestConfirmedEvents selects the most recent CONFIRMED event per payment so
// a payment confirmed more than once is attributed exactly once.
const latestConfirmedEvents = `
	SELECT DISTINCT ON (e.payment_id)
		e.payment_id, e.rail, e.occurred_at
	FROM payment_events e
	WHERE e.organization_id = $1 AND e.event_type = 'CONFIRMED'
	ORDER BY e.payment_id, e.occurred_at DESC, e.created_at DESC
`

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only reporting repository.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) GetRevenueByRail(ctx context.Context, organizationID string) ([]portsrepo.RailTotal, error) {
	query := `
		WITH confirmed AS (` + latestConfirmedEvents + `)
		SELECT c.rail, COALESCE(SUM(p.amount), 0), COUNT(*)
		FROM confirmed c
		JOIN payments p ON p.payment_id = c.payment_id
		WHERE p.status = 'PAID'
		GROUP BY c.rail
		ORDER BY c.rail;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate revenue by rail", err)
	}
	defer rows.Close()

	var totals []portsrepo.RailTotal
	for rows.Next() {
		var t portsrepo.RailTotal
		var rail string
		if err := rows.Scan(&rail, &t.Total, &t.Count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rail total", err)
		}
		t.Rail = domain.Rail(rail)
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *PgxReportingRepository) GetRevenueTimeseries(ctx context.Context, organizationID string, granularity domain.Granularity, from, to time.Time) ([]portsrepo.TimeseriesRow, error) {
	// granularity is validated against the domain enum before it reaches SQL
	query := `
		WITH confirmed AS (` + latestConfirmedEvents + `)
		SELECT date_trunc('` + string(granularity) + `', c.occurred_at), c.rail, COALESCE(SUM(p.amount), 0)
		FROM confirmed c
		JOIN payments p ON p.payment_id = c.payment_id
		WHERE p.status = 'PAID' AND c.occurred_at >= $2 AND c.occurred_at < $3
		GROUP BY 1, c.rail
		ORDER BY 1 ASC, c.rail ASC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate revenue timeseries", err)
	}
	defer rows.Close()

	var series []portsrepo.TimeseriesRow
	for rows.Next() {
		var row portsrepo.TimeseriesRow
		var rail string
		if err := rows.Scan(&row.BucketStart, &rail, &row.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan timeseries row", err)
		}
		row.Rail = domain.Rail(rail)
		series = append(series, row)
	}
	return series, rows.Err()
}

func (r *PgxReportingRepository) ListPaymentExportRows(ctx context.Context, organizationID string) ([]portsrepo.PaymentExportRow, error) {
	query := `
		WITH confirmed AS (
			SELECT DISTINCT ON (e.payment_id)
				e.payment_id, e.rail, e.external_ref, e.occurred_at
			FROM payment_events e
			WHERE e.organization_id = $1 AND e.event_type = 'CONFIRMED'
			ORDER BY e.payment_id, e.occurred_at DESC, e.created_at DESC
		)
		SELECT p.payment_id, p.reference, p.amount, p.currency_code, p.status,
			COALESCE(c.rail, ''), COALESCE(c.external_ref, ''),
			c.occurred_at, p.created_at
		FROM payments p
		LEFT JOIN confirmed c ON c.payment_id = p.payment_id
		WHERE p.organization_id = $1
		ORDER BY p.created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payment export rows", err)
	}
	defer rows.Close()

	var exportRows []portsrepo.PaymentExportRow
	for rows.Next() {
		var row portsrepo.PaymentExportRow
		if err := rows.Scan(
			&row.PaymentID,
			&row.Reference,
			&row.Amount,
			&row.CurrencyCode,
			&row.Status,
			&row.Rail,
			&row.ExternalRef,
			&row.ConfirmedAt,
			&row.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment export row", err)
		}
		// crypto rails settle in the token sharing the rail's name
		if rail := domain.Rail(row.Rail); rail.IsValid() && rail.IsCrypto() {
			row.Asset = row.Rail
		}
		exportRows = append(exportRows, row)
	}
	return exportRows, rows.Err()
}
