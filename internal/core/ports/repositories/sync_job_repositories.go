package repositories

import (
	"context"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
)

// SyncJobRepositoryFacade provides durable storage for accounting sync jobs.
type SyncJobRepositoryFacade interface {
	// UpsertJob atomically creates a job for (payment, kind) or re-arms the
	// existing one: status back to PENDING and next_retry_at to now, leaving
	// retry_count untouched. Jobs already in SUCCESS are also re-armed only
	// when rearmSucceeded is true (manual replay).
	UpsertJob(ctx context.Context, paymentID, organizationID string, kind domain.SyncJobKind, rearmSucceeded bool, now time.Time) (*domain.SyncJob, error)
	FindJobByPayment(ctx context.Context, paymentID string, kind domain.SyncJobKind) (*domain.SyncJob, error)
	// FindDueJobs returns jobs in PENDING or RETRYING whose next_retry_at is
	// null or has passed, oldest-starved-first, capped to limit.
	FindDueJobs(ctx context.Context, now time.Time, limit int) ([]domain.SyncJob, error)
	// MarkInProgress moves a claimed job to RETRYING. Concurrent workers may
	// race here; the write is the serialization point, last writer wins.
	MarkInProgress(ctx context.Context, jobID string, requestBody []byte, now time.Time) error
	RecordSuccess(ctx context.Context, jobID string, responseBody []byte, now time.Time) error
	// RecordRetry increments retry_count and schedules the next attempt.
	RecordRetry(ctx context.Context, jobID string, nextRetryAt time.Time, lastError string, responseBody []byte, now time.Time) error
	// RecordFailure increments retry_count and moves the job to terminal
	// FAILED with next_retry_at cleared.
	RecordFailure(ctx context.Context, jobID string, lastError string, responseBody []byte, now time.Time) error
	ListJobsByPayment(ctx context.Context, paymentID string) ([]domain.SyncJob, error)
	GetSyncStats(ctx context.Context, organizationID string) (*domain.SyncStats, error)
}
