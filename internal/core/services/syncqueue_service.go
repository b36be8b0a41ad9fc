package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
	"github.com/luminapay/railsync/internal/platform/metrics"
)

// retrySchedule is the fixed escalating backoff table, indexed by attempt.
// An attempt index at or past its end exhausts retries.
var retrySchedule = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	1 * time.Hour,
	6 * time.Hour,
}

// syncQueueService owns the durable sync-job state machine:
// PENDING -> RETRYING -> SUCCESS | FAILED. Multiple worker processes may pull
// from the queue concurrently; claims are at-least-once and the external calls
// are idempotent by payment id, so a doubly-processed job is safe.
type syncQueueService struct {
	jobRepo       portsrepo.SyncJobRepositoryFacade
	orchestrator  portssvc.OrchestratorSvcFacade
	batchSize     int
	interJobDelay time.Duration
}

// NewSyncQueueService creates a new SyncQueueService. interJobDelay paces
// calls against the external accounting API.
func NewSyncQueueService(jobRepo portsrepo.SyncJobRepositoryFacade, orchestrator portssvc.OrchestratorSvcFacade, batchSize int, interJobDelay time.Duration) portssvc.SyncQueueSvcFacade {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &syncQueueService{
		jobRepo:       jobRepo,
		orchestrator:  orchestrator,
		batchSize:     batchSize,
		interJobDelay: interJobDelay,
	}
}

var _ portssvc.SyncQueueSvcFacade = (*syncQueueService)(nil)

// QueueSync enqueues the payment's sync job idempotently. An existing
// non-terminal (or failed) job is re-armed for immediate processing; its
// retry_count is preserved so failure history survives re-triggers.
func (s *syncQueueService) QueueSync(ctx context.Context, paymentID, organizationID string) (*domain.SyncJob, error) {
	job, err := s.jobRepo.UpsertJob(ctx, paymentID, organizationID, domain.SyncKindInvoicePayment, false, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue sync for payment %s: %w", paymentID, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("sync job queued",
		slog.String("payment_id", paymentID),
		slog.String("job_id", job.JobID),
		slog.Int("retry_count", job.RetryCount))
	return job, nil
}

// Replay re-arms the payment's job even out of SUCCESS and runs it
// synchronously, returning the job's refreshed state.
func (s *syncQueueService) Replay(ctx context.Context, paymentID string) (*domain.SyncJob, error) {
	existing, err := s.jobRepo.FindJobByPayment(ctx, paymentID, domain.SyncKindInvoicePayment)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.UpsertJob(ctx, paymentID, existing.OrganizationID, domain.SyncKindInvoicePayment, true, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to re-arm sync for payment %s: %w", paymentID, err)
	}

	s.processJob(ctx, *job)
	return s.jobRepo.FindJobByPayment(ctx, paymentID, domain.SyncKindInvoicePayment)
}

// GetPendingJobs returns due jobs oldest-starved-first, capped to batchSize.
func (s *syncQueueService) GetPendingJobs(ctx context.Context, batchSize int) ([]domain.SyncJob, error) {
	if batchSize <= 0 {
		batchSize = s.batchSize
	}
	return s.jobRepo.FindDueJobs(ctx, time.Now(), batchSize)
}

// ProcessQueue claims and executes one batch of due jobs. Jobs run strictly
// in sequence with a fixed delay between them so a burst of confirmations
// cannot hammer the external API.
func (s *syncQueueService) ProcessQueue(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	jobs, err := s.GetPendingJobs(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch due sync jobs: %w", err)
	}
	if len(jobs) == 0 {
		return nil
	}
	logger.Info("processing sync queue", slog.Int("jobs", len(jobs)))

	for i, job := range jobs {
		if i > 0 && s.interJobDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.interJobDelay):
			}
		}
		s.processJob(ctx, job)
	}
	return nil
}

// jobRequest is the audit snapshot of the inputs to one attempt.
type jobRequest struct {
	PaymentID      string `json:"paymentID"`
	OrganizationID string `json:"organizationID"`
	Kind           string `json:"kind"`
	Attempt        int    `json:"attempt"`
}

// processJob drives a single job through one attempt and records the outcome
// transition. Failures never propagate: the state machine owns them.
func (s *syncQueueService) processJob(ctx context.Context, job domain.SyncJob) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("job_id", job.JobID),
		slog.String("payment_id", job.PaymentID))
	now := time.Now()

	request, _ := json.Marshal(jobRequest{
		PaymentID:      job.PaymentID,
		OrganizationID: job.OrganizationID,
		Kind:           string(job.Kind),
		Attempt:        job.RetryCount + 1,
	})
	if err := s.jobRepo.MarkInProgress(ctx, job.JobID, request, now); err != nil {
		logger.Error("failed to mark sync job in progress", slog.String("error", err.Error()))
		return
	}

	result, err := s.orchestrator.SyncPayment(ctx, job.PaymentID, job.OrganizationID)
	if err == nil {
		response, _ := json.Marshal(result)
		if err := s.jobRepo.RecordSuccess(ctx, job.JobID, response, time.Now()); err != nil {
			logger.Error("failed to record sync success", slog.String("error", err.Error()))
			return
		}
		metrics.SyncJobOutcomes.WithLabelValues("success").Inc()
		logger.Info("sync job succeeded",
			slog.String("remote_invoice_id", result.RemoteInvoiceID),
			slog.String("remote_payment_id", result.RemotePaymentID))
		return
	}

	s.recordFailure(ctx, logger, job, err)
}

// failureDetail is the audit snapshot of one failed attempt.
type failureDetail struct {
	Error    string `json:"error"`
	Category string `json:"category"`
	Attempt  int    `json:"attempt"`
}

func (s *syncQueueService) recordFailure(ctx context.Context, logger *slog.Logger, job domain.SyncJob, cause error) {
	category := s.CategorizeError(cause.Error())
	// Configuration problems and unconfirmed payments are terminal whatever
	// their message says: retrying cannot fix merchant setup.
	if errors.Is(cause, apperrors.ErrClearingAccountNotMapped) || errors.Is(cause, apperrors.ErrPaymentNotConfirmed) {
		category = domain.ErrorPermanent
	}
	newCount := job.RetryCount + 1
	response, _ := json.Marshal(failureDetail{
		Error:    cause.Error(),
		Category: string(category),
		Attempt:  newCount,
	})
	now := time.Now()

	if !category.Retryable() {
		if err := s.jobRepo.RecordFailure(ctx, job.JobID, cause.Error(), response, now); err != nil {
			logger.Error("failed to record terminal sync failure", slog.String("error", err.Error()))
			return
		}
		metrics.SyncJobOutcomes.WithLabelValues("failed").Inc()
		logger.Error("sync job failed permanently",
			slog.String("category", string(category)),
			slog.String("error", cause.Error()))
		return
	}

	// newCount indexes the schedule by completed attempts: enqueue arms the
	// job for immediate processing, so the attempt that would have waited out
	// slot zero has already run by the first failure.
	next := s.NextRetryTime(newCount, now)
	if next == nil {
		// Schedule exhausted: retryable or not, the job is done.
		if err := s.jobRepo.RecordFailure(ctx, job.JobID, cause.Error(), response, now); err != nil {
			logger.Error("failed to record exhausted sync failure", slog.String("error", err.Error()))
			return
		}
		metrics.SyncJobOutcomes.WithLabelValues("failed").Inc()
		logger.Error("sync job exhausted retries",
			slog.Int("retry_count", newCount),
			slog.String("error", cause.Error()))
		return
	}

	if err := s.jobRepo.RecordRetry(ctx, job.JobID, *next, cause.Error(), response, now); err != nil {
		logger.Error("failed to schedule sync retry", slog.String("error", err.Error()))
		return
	}
	metrics.SyncJobOutcomes.WithLabelValues("retry").Inc()
	metrics.SyncJobRetries.Inc()
	logger.Warn("sync job scheduled for retry",
		slog.String("category", string(category)),
		slog.Int("retry_count", newCount),
		slog.Time("next_retry_at", *next),
		slog.String("error", cause.Error()))
}

// NextRetryTime returns now plus the schedule delay for the attempt index, or
// nil once the index runs past the table.
func (s *syncQueueService) NextRetryTime(attempt int, now time.Time) *time.Time {
	if attempt < 0 || attempt >= len(retrySchedule) {
		return nil
	}
	next := now.Add(retrySchedule[attempt])
	return &next
}

// permanentKeywords mark failures that will never succeed on retry.
var permanentKeywords = []string{
	"not found",
	"invalid",
	"unauthorized",
	"forbidden",
	"bad request",
	"validation",
}

var rateLimitKeywords = []string{
	"rate limit",
	"too many requests",
	"429",
}

var networkKeywords = []string{
	"network",
	"timeout",
	"timed out",
	"connection refused",
	"connection reset",
	"no such host",
	"eof",
}

var apiErrorKeywords = []string{
	"api error",
	"internal server error",
	"service unavailable",
	"bad gateway",
	"status 5",
}

// CategorizeError buckets an external failure message. Every message maps to
// exactly one category; unrecognized messages land in UNKNOWN, which is
// retried, failing open toward availability.
func (s *syncQueueService) CategorizeError(message string) domain.ErrorCategory {
	lower := strings.ToLower(message)

	for _, kw := range permanentKeywords {
		if strings.Contains(lower, kw) {
			return domain.ErrorPermanent
		}
	}
	for _, kw := range rateLimitKeywords {
		if strings.Contains(lower, kw) {
			return domain.ErrorRateLimit
		}
	}
	for _, kw := range networkKeywords {
		if strings.Contains(lower, kw) {
			return domain.ErrorNetwork
		}
	}
	for _, kw := range apiErrorKeywords {
		if strings.Contains(lower, kw) {
			return domain.ErrorAPI
		}
	}
	return domain.ErrorUnknown
}
