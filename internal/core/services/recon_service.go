package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/middleware"
	"github.com/luminapay/railsync/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// reconciliationService cross-checks confirmed revenue against clearing
// account balances per rail. A difference beyond tolerance is an alert for
// monitoring; the report itself always builds.
type reconciliationService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	ledgerSvc     portssvc.LedgerSvcFacade
	tolerance     decimal.Decimal
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reportingRepo portsrepo.ReportingRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade, tolerance decimal.Decimal) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reportingRepo: reportingRepo,
		ledgerSvc:     ledgerSvc,
		tolerance:     tolerance,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// BuildReport compares, for each of the five rails, expected revenue (sum of
// confirmed payment amounts attributed to the rail) against the clearing
// account's recomputed ledger balance. Rails with no activity report zeros.
func (s *reconciliationService) BuildReport(ctx context.Context, organizationID string) (*domain.ReconciliationReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	totals, err := s.reportingRepo.GetRevenueByRail(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue by rail: %w", err)
	}
	expectedByRail := make(map[domain.Rail]decimal.Decimal, len(totals))
	for _, t := range totals {
		expectedByRail[t.Rail] = t.Total
	}

	report := &domain.ReconciliationReport{
		OrganizationID: organizationID,
		Rails:          make([]domain.RailReconciliation, 0, len(domain.AllRails())),
		TotalAbsDiff:   decimal.Zero,
		GeneratedAt:    time.Now(),
	}

	for _, rail := range domain.AllRails() {
		expected := expectedByRail[rail]

		balance, err := s.ledgerSvc.ComputeBalance(ctx, organizationID, rail.ClearingAccountCode())
		if err != nil {
			// A rail that never cleared anything has no account row yet.
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to compute balance for %s: %w", rail.ClearingAccountCode(), err)
			}
			balance = decimal.Zero
		}

		diff := expected.Sub(balance)
		report.Rails = append(report.Rails, domain.RailReconciliation{
			Rail:            rail,
			ClearingAccount: rail.ClearingAccountCode(),
			ExpectedRevenue: expected,
			LedgerBalance:   balance,
			Difference:      diff,
		})
		report.TotalAbsDiff = report.TotalAbsDiff.Add(diff.Abs())
	}

	report.IsReconciled = report.TotalAbsDiff.LessThan(s.tolerance)
	if !report.IsReconciled {
		metrics.ReconciliationAlerts.Inc()
		logger.Error("reconciliation difference beyond tolerance",
			slog.String("organization_id", organizationID),
			slog.String("total_abs_diff", report.TotalAbsDiff.String()),
			slog.String("tolerance", s.tolerance.String()))
	}

	return report, nil
}
