package mapping

import (
	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/luminapay/railsync/internal/models"
)

// ToDomainSyncJob converts a persistence sync-job row to its domain shape.
func ToDomainSyncJob(m models.SyncJob) domain.SyncJob {
	return domain.SyncJob{
		JobID:          m.JobID,
		PaymentID:      m.PaymentID,
		OrganizationID: m.OrganizationID,
		Kind:           domain.SyncJobKind(m.Kind),
		Status:         domain.SyncJobStatus(m.Status),
		RetryCount:     m.RetryCount,
		NextRetryAt:    m.NextRetryAt,
		RequestBody:    m.RequestBody,
		ResponseBody:   m.ResponseBody,
		LastError:      m.LastError,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
