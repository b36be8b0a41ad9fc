package domain

import (
	"time"
)

// SyncJobStatus is the state of an accounting sync job. SUCCESS and FAILED are
// terminal; no automatic transition leaves them.
type SyncJobStatus string

const (
	SyncPending  SyncJobStatus = "PENDING"
	SyncRetrying SyncJobStatus = "RETRYING"
	SyncSuccess  SyncJobStatus = "SUCCESS"
	SyncFailed   SyncJobStatus = "FAILED"
)

// IsTerminal reports whether no further automatic transition applies.
func (s SyncJobStatus) IsTerminal() bool {
	return s == SyncSuccess || s == SyncFailed
}

// SyncJobKind names the work a job performs. A single kind exists today.
type SyncJobKind string

// SyncKindInvoicePayment is the full invoice-creation plus payment-recording sync.
const SyncKindInvoicePayment SyncJobKind = "INVOICE_PAYMENT"

// ErrorCategory buckets an external failure for retry decisions.
type ErrorCategory string

const (
	ErrorPermanent ErrorCategory = "PERMANENT"
	ErrorRateLimit ErrorCategory = "RATE_LIMIT"
	ErrorNetwork   ErrorCategory = "NETWORK"
	ErrorAPI       ErrorCategory = "API_ERROR"
	ErrorUnknown   ErrorCategory = "UNKNOWN"
)

// Retryable reports whether a failure in this category should be retried.
// UNKNOWN fails open toward availability.
func (c ErrorCategory) Retryable() bool {
	return c != ErrorPermanent
}

// SyncJob is one durable accounting-sync work item. At most one row exists per
// (payment, kind); re-enqueueing re-arms the existing row without resetting
// RetryCount, preserving failure history across manual re-triggers.
type SyncJob struct {
	JobID          string        `json:"jobID"`
	PaymentID      string        `json:"paymentID"`
	OrganizationID string        `json:"organizationID"`
	Kind           SyncJobKind   `json:"kind"`
	Status         SyncJobStatus `json:"status"`
	RetryCount     int           `json:"retryCount"`
	NextRetryAt    *time.Time    `json:"nextRetryAt,omitempty"`
	RequestBody    []byte        `json:"requestBody,omitempty"`  // inputs used, for audit/replay
	ResponseBody   []byte        `json:"responseBody,omitempty"` // outputs or error detail
	LastError      string        `json:"lastError,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// SyncResult captures the remote identifiers and narration recorded on success.
type SyncResult struct {
	RemoteInvoiceID string `json:"remoteInvoiceID"`
	RemotePaymentID string `json:"remotePaymentID"`
	Narration       string `json:"narration"`
}
