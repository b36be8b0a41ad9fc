package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// reportingService serves the dashboard-facing reads: revenue split, time
// series, CSV export and sync visibility.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	jobRepo       portsrepo.SyncJobRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade, jobRepo portsrepo.SyncJobRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, jobRepo: jobRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// RevenueSummary returns confirmed revenue per rail with each rail's share of
// the total. Every rail appears, zero-activity ones included.
func (s *reportingService) RevenueSummary(ctx context.Context, organizationID string) ([]domain.RailRevenue, error) {
	totals, err := s.reportingRepo.GetRevenueByRail(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	byRail := make(map[domain.Rail]portsrepo.RailTotal, len(totals))
	grand := decimal.Zero
	for _, t := range totals {
		byRail[t.Rail] = t
		grand = grand.Add(t.Total)
	}

	out := make([]domain.RailRevenue, 0, len(domain.AllRails()))
	for _, rail := range domain.AllRails() {
		row := domain.RailRevenue{Rail: rail, Total: decimal.Zero, Percentage: decimal.Zero}
		if t, ok := byRail[rail]; ok {
			row.Total = t.Total
			row.Count = t.Count
			if grand.IsPositive() {
				row.Percentage = t.Total.Div(grand).Mul(oneHundred).Round(2)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// RevenueTimeseries buckets confirmed revenue by the requested granularity
// with a per-rail breakdown per bucket.
func (s *reportingService) RevenueTimeseries(ctx context.Context, organizationID string, granularity domain.Granularity, from, to time.Time) ([]domain.TimeseriesPoint, error) {
	if !granularity.IsValid() {
		return nil, fmt.Errorf("unsupported granularity '%s'", granularity)
	}

	rows, err := s.reportingRepo.GetRevenueTimeseries(ctx, organizationID, granularity, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make(map[time.Time]*domain.TimeseriesPoint)
	for _, row := range rows {
		point, ok := buckets[row.BucketStart]
		if !ok {
			point = &domain.TimeseriesPoint{
				BucketStart: row.BucketStart,
				Total:       decimal.Zero,
				ByRail:      make(map[domain.Rail]decimal.Decimal),
			}
			buckets[row.BucketStart] = point
		}
		point.ByRail[row.Rail] = row.Total
		point.Total = point.Total.Add(row.Total)
	}

	out := make([]domain.TimeseriesPoint, 0, len(buckets))
	for _, point := range buckets {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketStart.Before(out[j].BucketStart) })
	return out, nil
}

var exportHeader = []string{"payment_id", "reference", "amount", "currency", "status", "rail", "asset", "external_ref", "confirmed_at", "created_at"}

// ExportPaymentsCSV streams the organization's payments, one row per payment
// with rail and asset attribution from its confirmation event.
func (s *reportingService) ExportPaymentsCSV(ctx context.Context, organizationID string, w io.Writer) error {
	rows, err := s.reportingRepo.ListPaymentExportRows(ctx, organizationID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		confirmedAt := ""
		if row.ConfirmedAt != nil {
			confirmedAt = row.ConfirmedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			row.PaymentID,
			row.Reference,
			row.Amount.String(),
			row.CurrencyCode,
			row.Status,
			row.Rail,
			row.Asset,
			row.ExternalRef,
			confirmedAt,
			row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for payment %s: %w", row.PaymentID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// GetSyncStats aggregates job outcomes, optionally scoped to one organization.
func (s *reportingService) GetSyncStats(ctx context.Context, organizationID string) (*domain.SyncStats, error) {
	return s.jobRepo.GetSyncStats(ctx, organizationID)
}

// GetSyncHistory lists every sync job attempt record for a payment.
func (s *reportingService) GetSyncHistory(ctx context.Context, paymentID string) ([]domain.SyncJob, error) {
	return s.jobRepo.ListJobsByPayment(ctx, paymentID)
}
