package dto

import (
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RailRevenueResponse is one row of the per-rail revenue summary.
type RailRevenueResponse struct {
	Rail       string          `json:"rail"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// RevenueSummaryResponse defines the structure for the revenue summary endpoint.
type RevenueSummaryResponse struct {
	OrganizationID string                `json:"organizationID"`
	Rails          []RailRevenueResponse `json:"rails"`
	GrandTotal     decimal.Decimal       `json:"grandTotal"`
}

// ToRevenueSummaryResponse converts per-rail revenue rows to the response DTO.
func ToRevenueSummaryResponse(organizationID string, rows []domain.RailRevenue) RevenueSummaryResponse {
	out := RevenueSummaryResponse{
		OrganizationID: organizationID,
		Rails:          make([]RailRevenueResponse, len(rows)),
		GrandTotal:     decimal.Zero,
	}
	for i, r := range rows {
		out.Rails[i] = RailRevenueResponse{
			Rail:       string(r.Rail),
			Total:      r.Total,
			Count:      r.Count,
			Percentage: r.Percentage,
		}
		out.GrandTotal = out.GrandTotal.Add(r.Total)
	}
	return out
}

// TimeseriesPointResponse is one bucket of the revenue time series.
type TimeseriesPointResponse struct {
	BucketStart time.Time                  `json:"bucketStart"`
	Total       decimal.Decimal            `json:"total"`
	ByRail      map[string]decimal.Decimal `json:"byRail"`
}

// ToListTimeseriesResponse converts domain timeseries points to response DTOs.
func ToListTimeseriesResponse(points []domain.TimeseriesPoint) []TimeseriesPointResponse {
	responses := make([]TimeseriesPointResponse, len(points))
	for i, p := range points {
		byRail := make(map[string]decimal.Decimal, len(p.ByRail))
		for rail, total := range p.ByRail {
			byRail[string(rail)] = total
		}
		responses[i] = TimeseriesPointResponse{
			BucketStart: p.BucketStart,
			Total:       p.Total,
			ByRail:      byRail,
		}
	}
	return responses
}

// RailReconciliationResponse is one rail's reconciliation row.
type RailReconciliationResponse struct {
	Rail            string          `json:"rail"`
	ClearingAccount string          `json:"clearingAccount"`
	ExpectedRevenue decimal.Decimal `json:"expectedRevenue"`
	LedgerBalance   decimal.Decimal `json:"ledgerBalance"`
	Difference      decimal.Decimal `json:"difference"`
}

// ReconciliationReportResponse defines the structure for the reconciliation endpoint.
type ReconciliationReportResponse struct {
	OrganizationID string                       `json:"organizationID"`
	Rails          []RailReconciliationResponse `json:"rails"`
	TotalAbsDiff   decimal.Decimal              `json:"totalAbsDiff"`
	IsReconciled   bool                         `json:"isReconciled"`
	GeneratedAt    time.Time                    `json:"generatedAt"`
}

// ToReconciliationReportResponse converts a domain report to its response DTO.
func ToReconciliationReportResponse(r *domain.ReconciliationReport) ReconciliationReportResponse {
	rails := make([]RailReconciliationResponse, len(r.Rails))
	for i, row := range r.Rails {
		rails[i] = RailReconciliationResponse{
			Rail:            string(row.Rail),
			ClearingAccount: row.ClearingAccount,
			ExpectedRevenue: row.ExpectedRevenue,
			LedgerBalance:   row.LedgerBalance,
			Difference:      row.Difference,
		}
	}
	return ReconciliationReportResponse{
		OrganizationID: r.OrganizationID,
		Rails:          rails,
		TotalAbsDiff:   r.TotalAbsDiff,
		IsReconciled:   r.IsReconciled,
		GeneratedAt:    r.GeneratedAt,
	}
}
