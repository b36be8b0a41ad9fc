package models

import (
	"time"
)

// SyncJob is the persistence shape of a durable accounting-sync job. The
// schema enforces uniqueness over (payment_id, kind) so enqueue can upsert.
type SyncJob struct {
	JobID          string     `db:"job_id"`
	PaymentID      string     `db:"payment_id"`
	OrganizationID string     `db:"organization_id"`
	Kind           string     `db:"kind"`
	Status         string     `db:"status"`
	RetryCount     int        `db:"retry_count"`
	NextRetryAt    *time.Time `db:"next_retry_at"`
	RequestBody    []byte     `db:"request_body"`
	ResponseBody   []byte     `db:"response_body"`
	LastError      string     `db:"last_error"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}
