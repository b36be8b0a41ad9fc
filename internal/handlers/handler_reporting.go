package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luminapay/railsync/internal/core/domain"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/dto"
	"github.com/luminapay/railsync/internal/middleware"
)

// reportingHandler handles HTTP requests for organization reports and exports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	reconService     portssvc.ReconciliationSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade, rc portssvc.ReconciliationSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs, reconService: rc}
}

// registerReportingRoutes registers the organization-scoped report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, reconService portssvc.ReconciliationSvcFacade) {
	h := newReportingHandler(reportingService, reconService)

	reports := rg.Group("/organizations/:orgID/reports")
	{
		reports.GET("/revenue", h.getRevenueSummary)
		reports.GET("/timeseries", h.getRevenueTimeseries)
		reports.GET("/reconciliation", h.getReconciliationReport)
	}
	rg.GET("/organizations/:orgID/payments/export", h.exportPaymentsCSV)
}

// getRevenueSummary godoc
// @Summary Get the per-rail revenue summary
// @Description Returns confirmed revenue per settlement rail with each rail's share of the total
// @Tags reports
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {object} dto.RevenueSummaryResponse
// @Failure 500 {object} map[string]string "Failed to build revenue summary"
// @Router /organizations/{orgID}/reports/revenue [get]
func (h *reportingHandler) getRevenueSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	rows, err := h.reportingService.RevenueSummary(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to build revenue summary", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build revenue summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRevenueSummaryResponse(orgID, rows))
}

// getRevenueTimeseries godoc
// @Summary Get the bucketed revenue time series
// @Description Returns confirmed revenue bucketed by day, week or month with a per-rail split per bucket
// @Tags reports
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   granularity query string false "Bucket size: day, week or month" default(day)
// @Param   from query string false "Range start (RFC3339)"
// @Param   to query string false "Range end (RFC3339)"
// @Success 200 {array} dto.TimeseriesPointResponse
// @Failure 400 {object} map[string]string "Invalid granularity or time range"
// @Failure 500 {object} map[string]string "Failed to build revenue timeseries"
// @Router /organizations/{orgID}/reports/timeseries [get]
func (h *reportingHandler) getRevenueTimeseries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	granularity := domain.Granularity(c.DefaultQuery("granularity", string(domain.GranularityDay)))
	if !granularity.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Granularity must be one of: day, week, month"})
		return
	}

	now := time.Now().UTC()
	from, to := now.AddDate(0, -1, 0), now
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp, expected RFC3339"})
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp, expected RFC3339"})
			return
		}
		to = parsed
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be before 'to'"})
		return
	}

	points, err := h.reportingService.RevenueTimeseries(c.Request.Context(), orgID, granularity, from, to)
	if err != nil {
		logger.Error("Failed to build revenue timeseries", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build revenue timeseries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTimeseriesResponse(points))
}

// getReconciliationReport godoc
// @Summary Get the cross-rail reconciliation report
// @Description Compares expected revenue against each rail's clearing-account ledger balance
// @Tags reports
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {object} dto.ReconciliationReportResponse
// @Failure 500 {object} map[string]string "Failed to build reconciliation report"
// @Router /organizations/{orgID}/reports/reconciliation [get]
func (h *reportingHandler) getReconciliationReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	report, err := h.reconService.BuildReport(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to build reconciliation report", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build reconciliation report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

// exportPaymentsCSV godoc
// @Summary Export the organization's payments as CSV
// @Description Streams one CSV row per payment with rail and asset attribution from its confirmation event
// @Tags reports
// @Produce  text/csv
// @Param   orgID path string true "Organization ID"
// @Success 200 {string} string "CSV payload"
// @Failure 500 {object} map[string]string "Failed to export payments"
// @Router /organizations/{orgID}/payments/export [get]
func (h *reportingHandler) exportPaymentsCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="payments.csv"`)

	if err := h.reportingService.ExportPaymentsCSV(c.Request.Context(), orgID, c.Writer); err != nil {
		// Headers may already be on the wire; log and abort the stream.
		logger.Error("Failed to export payments CSV", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.Abort()
		return
	}
}
