package dto

import (
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// QueueSyncRequest defines the structure for enqueueing a payment's sync job.
type QueueSyncRequest struct {
	OrganizationID string `json:"organizationID" binding:"required"`
}

// SyncJobResponse defines the structure for API responses containing one sync job.
type SyncJobResponse struct {
	JobID          string     `json:"jobID"`
	PaymentID      string     `json:"paymentID"`
	OrganizationID string     `json:"organizationID"`
	Kind           string     `json:"kind"`
	Status         string     `json:"status"`
	RetryCount     int        `json:"retryCount"`
	NextRetryAt    *time.Time `json:"nextRetryAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ToSyncJobResponse converts a domain.SyncJob to its response DTO.
func ToSyncJobResponse(j domain.SyncJob) SyncJobResponse {
	return SyncJobResponse{
		JobID:          j.JobID,
		PaymentID:      j.PaymentID,
		OrganizationID: j.OrganizationID,
		Kind:           string(j.Kind),
		Status:         string(j.Status),
		RetryCount:     j.RetryCount,
		NextRetryAt:    j.NextRetryAt,
		LastError:      j.LastError,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

// ToListSyncJobResponse converts a slice of domain sync jobs to response DTOs.
func ToListSyncJobResponse(jobs []domain.SyncJob) []SyncJobResponse {
	responses := make([]SyncJobResponse, len(jobs))
	for i, j := range jobs {
		responses[i] = ToSyncJobResponse(j)
	}
	return responses
}

// SyncStatsResponse defines the structure for the sync stats endpoint.
type SyncStatsResponse struct {
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	Retrying    int             `json:"retrying"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	SuccessRate decimal.Decimal `json:"successRate"`
}

// ToSyncStatsResponse converts domain sync stats to the response DTO.
func ToSyncStatsResponse(s domain.SyncStats) SyncStatsResponse {
	return SyncStatsResponse{
		Total:       s.Total,
		Pending:     s.Pending,
		Retrying:    s.Retrying,
		Succeeded:   s.Succeeded,
		Failed:      s.Failed,
		SuccessRate: s.SuccessRate,
	}
}
