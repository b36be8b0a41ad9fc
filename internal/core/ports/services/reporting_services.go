package services

import (
	"context"
	"io"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
)

// ReconciliationSvcFacade cross-checks expected revenue against clearing
// account balances per rail.
type ReconciliationSvcFacade interface {
	BuildReport(ctx context.Context, organizationID string) (*domain.ReconciliationReport, error)
}

// ReportingSvcFacade serves the dashboard-facing read interfaces.
type ReportingSvcFacade interface {
	RevenueSummary(ctx context.Context, organizationID string) ([]domain.RailRevenue, error)
	RevenueTimeseries(ctx context.Context, organizationID string, granularity domain.Granularity, from, to time.Time) ([]domain.TimeseriesPoint, error)
	// ExportPaymentsCSV streams the organization's payment rows, including
	// rail and asset columns, as CSV.
	ExportPaymentsCSV(ctx context.Context, organizationID string, w io.Writer) error
	GetSyncStats(ctx context.Context, organizationID string) (*domain.SyncStats, error)
	GetSyncHistory(ctx context.Context, paymentID string) ([]domain.SyncJob, error)
}

// OrganizationSvcFacade exposes merchant configuration for the engine.
type OrganizationSvcFacade interface {
	GetOrganization(ctx context.Context, organizationID string) (*domain.Organization, error)
	ListRailMappings(ctx context.Context, organizationID string) ([]domain.RailAccountMapping, error)
	PutRailMapping(ctx context.Context, mapping domain.RailAccountMapping) error
}
