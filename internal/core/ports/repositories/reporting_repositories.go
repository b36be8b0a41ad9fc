package repositories

import (
	"context"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RailTotal is one rail's aggregated confirmed revenue.
type RailTotal struct {
	Rail  domain.Rail
	Total decimal.Decimal
	Count int
}

// TimeseriesRow is one (bucket, rail) cell of the revenue time series.
type TimeseriesRow struct {
	BucketStart time.Time
	Rail        domain.Rail
	Total       decimal.Decimal
}

// PaymentExportRow is one row of the CSV payment export.
type PaymentExportRow struct {
	PaymentID    string
	Reference    string
	Amount       decimal.Decimal
	CurrencyCode string
	Status       string
	Rail         string
	Asset        string
	ExternalRef  string
	ConfirmedAt  *time.Time
	CreatedAt    time.Time
}

// ReportingRepositoryFacade provides read-only aggregations over payments and
// their confirmation events. Revenue attribution uses only the most recent
// CONFIRMED event per payment so multiple confirmations never double-count.
type ReportingRepositoryFacade interface {
	GetRevenueByRail(ctx context.Context, organizationID string) ([]RailTotal, error)
	GetRevenueTimeseries(ctx context.Context, organizationID string, granularity domain.Granularity, from, to time.Time) ([]TimeseriesRow, error)
	ListPaymentExportRows(ctx context.Context, organizationID string) ([]PaymentExportRow, error)
}
