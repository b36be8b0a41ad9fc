package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	"github.com/luminapay/railsync/internal/models"
	"github.com/luminapay/railsync/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const syncJobColumns = `job_id, payment_id, organization_id, kind, status, retry_count,
	next_retry_at, request_body, response_body, last_error, created_at, updated_at`

type PgxSyncJobRepository struct {
	BaseRepository
}

// newPgxSyncJobRepository creates a new repository for durable sync jobs.
func newPgxSyncJobRepository(pool *pgxpool.Pool) portsrepo.SyncJobRepositoryFacade {
	return &PgxSyncJobRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SyncJobRepositoryFacade = (*PgxSyncJobRepository)(nil)

// UpsertJob relies on the unique (payment_id, kind) constraint. A conflicting
// enqueue re-arms the existing row to PENDING with next_retry_at = now but
// never touches retry_count. Rows in SUCCESS keep their status unless
// rearmSucceeded is set, which only manual replay does.
func (r *PgxSyncJobRepository) UpsertJob(ctx context.Context, paymentID, organizationID string, kind domain.SyncJobKind, rearmSucceeded bool, now time.Time) (*domain.SyncJob, error) {
	query := `
		INSERT INTO sync_jobs (job_id, payment_id, organization_id, kind, status, retry_count, next_retry_at, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'PENDING', 0, $5, '', $5, $5)
		ON CONFLICT (payment_id, kind) DO UPDATE SET
			status = CASE
				WHEN sync_jobs.status = 'SUCCESS' AND NOT $6 THEN sync_jobs.status
				ELSE 'PENDING'
			END,
			next_retry_at = CASE
				WHEN sync_jobs.status = 'SUCCESS' AND NOT $6 THEN sync_jobs.next_retry_at
				ELSE $5
			END,
			updated_at = $5
		RETURNING ` + syncJobColumns + `;`

	row := r.Pool.QueryRow(ctx, query, uuid.NewString(), paymentID, organizationID, string(kind), now, rearmSucceeded)
	job, err := scanSyncJob(row)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to upsert sync job for payment "+paymentID, err)
	}
	return job, nil
}

func (r *PgxSyncJobRepository) FindJobByPayment(ctx context.Context, paymentID string, kind domain.SyncJobKind) (*domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE payment_id = $1 AND kind = $2;`
	job, err := scanSyncJob(r.Pool.QueryRow(ctx, query, paymentID, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sync job for payment "+paymentID, err)
	}
	return job, nil
}

func (r *PgxSyncJobRepository) FindDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.SyncJob, error) {
	query := `
		SELECT ` + syncJobColumns + `
		FROM sync_jobs
		WHERE status IN ('PENDING', 'RETRYING')
			AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY next_retry_at ASC NULLS FIRST, created_at ASC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query due sync jobs", err)
	}
	defer rows.Close()

	var jobs []domain.SyncJob
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sync job", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *PgxSyncJobRepository) MarkInProgress(ctx context.Context, jobID string, requestBody []byte, now time.Time) error {
	query := `
		UPDATE sync_jobs
		SET status = 'RETRYING', request_body = $2, updated_at = $3
		WHERE job_id = $1;
	`
	return r.execOnJob(ctx, query, jobID, requestBody, now)
}

func (r *PgxSyncJobRepository) RecordSuccess(ctx context.Context, jobID string, responseBody []byte, now time.Time) error {
	query := `
		UPDATE sync_jobs
		SET status = 'SUCCESS', next_retry_at = NULL, response_body = $2, last_error = '', updated_at = $3
		WHERE job_id = $1;
	`
	return r.execOnJob(ctx, query, jobID, responseBody, now)
}

func (r *PgxSyncJobRepository) RecordRetry(ctx context.Context, jobID string, nextRetryAt time.Time, lastError string, responseBody []byte, now time.Time) error {
	query := `
		UPDATE sync_jobs
		SET status = 'RETRYING', retry_count = retry_count + 1, next_retry_at = $2,
			last_error = $3, response_body = $4, updated_at = $5
		WHERE job_id = $1;
	`
	return r.execOnJob(ctx, query, jobID, nextRetryAt, lastError, responseBody, now)
}

func (r *PgxSyncJobRepository) RecordFailure(ctx context.Context, jobID string, lastError string, responseBody []byte, now time.Time) error {
	query := `
		UPDATE sync_jobs
		SET status = 'FAILED', retry_count = retry_count + 1, next_retry_at = NULL,
			last_error = $2, response_body = $3, updated_at = $4
		WHERE job_id = $1;
	`
	return r.execOnJob(ctx, query, jobID, lastError, responseBody, now)
}

func (r *PgxSyncJobRepository) ListJobsByPayment(ctx context.Context, paymentID string) ([]domain.SyncJob, error) {
	query := `SELECT ` + syncJobColumns + ` FROM sync_jobs WHERE payment_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list sync jobs for payment "+paymentID, err)
	}
	defer rows.Close()

	var jobs []domain.SyncJob
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sync job", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *PgxSyncJobRepository) GetSyncStats(ctx context.Context, organizationID string) (*domain.SyncStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'RETRYING'),
			COUNT(*) FILTER (WHERE status = 'SUCCESS'),
			COUNT(*) FILTER (WHERE status = 'FAILED')
		FROM sync_jobs
		WHERE ($1 = '' OR organization_id = $1);
	`
	var stats domain.SyncStats
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Retrying,
		&stats.Succeeded,
		&stats.Failed,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate sync stats", err)
	}

	if settled := stats.Succeeded + stats.Failed; settled > 0 {
		stats.SuccessRate = decimal.NewFromInt(int64(stats.Succeeded)).
			Div(decimal.NewFromInt(int64(settled))).
			Round(4)
	}
	return &stats, nil
}

func (r *PgxSyncJobRepository) execOnJob(ctx context.Context, query, jobID string, args ...any) error {
	tag, err := r.Pool.Exec(ctx, query, append([]any{jobID}, args...)...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update sync job "+jobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanSyncJob(row pgx.Row) (*domain.SyncJob, error) {
	var m models.SyncJob
	err := row.Scan(
		&m.JobID,
		&m.PaymentID,
		&m.OrganizationID,
		&m.Kind,
		&m.Status,
		&m.RetryCount,
		&m.NextRetryAt,
		&m.RequestBody,
		&m.ResponseBody,
		&m.LastError,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job := mapping.ToDomainSyncJob(m)
	return &job, nil
}
