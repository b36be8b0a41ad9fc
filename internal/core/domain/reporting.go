package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RailRevenue is one row of the per-rail revenue summary.
type RailRevenue struct {
	Rail       Rail            `json:"rail"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// RailReconciliation compares expected revenue against the clearing-account
// ledger balance for one rail.
type RailReconciliation struct {
	Rail            Rail            `json:"rail"`
	ClearingAccount string          `json:"clearingAccount"`
	ExpectedRevenue decimal.Decimal `json:"expectedRevenue"`
	LedgerBalance   decimal.Decimal `json:"ledgerBalance"`
	Difference      decimal.Decimal `json:"difference"`
}

// ReconciliationReport is the cross-rail reconciliation result.
type ReconciliationReport struct {
	OrganizationID string               `json:"organizationID"`
	Rails          []RailReconciliation `json:"rails"`
	TotalAbsDiff   decimal.Decimal      `json:"totalAbsDiff"`
	IsReconciled   bool                 `json:"isReconciled"`
	GeneratedAt    time.Time            `json:"generatedAt"`
}

// Granularity buckets the revenue time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid reports whether g names a supported bucket size.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// TimeseriesPoint is one bucket of the revenue time series with its per-rail split.
type TimeseriesPoint struct {
	BucketStart time.Time                `json:"bucketStart"`
	Total       decimal.Decimal          `json:"total"`
	ByRail      map[Rail]decimal.Decimal `json:"byRail"`
}

// SyncStats aggregates sync-job outcomes, optionally for one organization.
type SyncStats struct {
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	Retrying    int             `json:"retrying"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	SuccessRate decimal.Decimal `json:"successRate"` // succeeded / (succeeded+failed)
}
