package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminapay/railsync/internal/apperrors"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/dto"
	"github.com/luminapay/railsync/internal/middleware"
)

// syncHandler handles HTTP requests for accounting sync jobs.
type syncHandler struct {
	syncQueueService portssvc.SyncQueueSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(sq portssvc.SyncQueueSvcFacade, rs portssvc.ReportingSvcFacade) *syncHandler {
	return &syncHandler{syncQueueService: sq, reportingService: rs}
}

// registerSyncRoutes registers routes for sync job management and visibility.
func registerSyncRoutes(rg *gin.RouterGroup, syncQueueService portssvc.SyncQueueSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newSyncHandler(syncQueueService, reportingService)

	payments := rg.Group("/payments/:paymentID")
	{
		payments.GET("/sync", h.getSyncHistory)
		payments.POST("/sync", h.queueSync)
		payments.POST("/sync/replay", h.replaySync)
	}
	rg.GET("/sync/stats", h.getSyncStats)
}

// getSyncHistory godoc
// @Summary Get a payment's sync job history
// @Description Lists the sync job records for a payment, oldest first
// @Tags sync
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {array} dto.SyncJobResponse
// @Failure 500 {object} map[string]string "Failed to list sync jobs"
// @Router /payments/{paymentID}/sync [get]
func (h *syncHandler) getSyncHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	jobs, err := h.reportingService.GetSyncHistory(c.Request.Context(), paymentID)
	if err != nil {
		logger.Error("Failed to list sync jobs", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sync jobs"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListSyncJobResponse(jobs))
}

// queueSync godoc
// @Summary Enqueue a payment's accounting sync
// @Description Idempotently enqueues the sync job for a confirmed payment; an existing job is re-armed without resetting its retry count
// @Tags sync
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Param   request body dto.QueueSyncRequest true "Queue request"
// @Success 202 {object} dto.SyncJobResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 500 {object} map[string]string "Failed to enqueue sync"
// @Router /payments/{paymentID}/sync [post]
func (h *syncHandler) queueSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	var req dto.QueueSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for QueueSync", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("payment_id", paymentID), slog.String("organization_id", req.OrganizationID))
	logger.Info("Received request to enqueue sync")

	job, err := h.syncQueueService.QueueSync(c.Request.Context(), paymentID, req.OrganizationID)
	if err != nil {
		logger.Error("Failed to enqueue sync", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync"})
		return
	}

	logger.Info("Sync job enqueued", slog.String("job_id", job.JobID), slog.String("status", string(job.Status)))
	c.JSON(http.StatusAccepted, dto.ToSyncJobResponse(*job))
}

// replaySync godoc
// @Summary Replay a payment's accounting sync
// @Description Re-arms the payment's sync job regardless of state and runs it synchronously
// @Tags sync
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.SyncJobResponse
// @Failure 404 {object} map[string]string "No sync job exists for payment"
// @Failure 500 {object} map[string]string "Failed to replay sync"
// @Router /payments/{paymentID}/sync/replay [post]
func (h *syncHandler) replaySync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	logger = logger.With(slog.String("payment_id", paymentID))
	logger.Info("Received request to replay sync")

	job, err := h.syncQueueService.Replay(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No sync job to replay")
			c.JSON(http.StatusNotFound, gin.H{"error": "No sync job exists for payment"})
		} else {
			logger.Error("Failed to replay sync", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replay sync"})
		}
		return
	}

	logger.Info("Sync replay finished", slog.String("status", string(job.Status)), slog.Int("retry_count", job.RetryCount))
	c.JSON(http.StatusOK, dto.ToSyncJobResponse(*job))
}

// getSyncStats godoc
// @Summary Get sync job statistics
// @Description Aggregates sync job counts by status with the overall success rate, optionally scoped to one organization
// @Tags sync
// @Produce  json
// @Param   organizationID query string false "Organization ID"
// @Success 200 {object} dto.SyncStatsResponse
// @Failure 500 {object} map[string]string "Failed to aggregate sync stats"
// @Router /sync/stats [get]
func (h *syncHandler) getSyncStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Query("organizationID")

	stats, err := h.reportingService.GetSyncStats(c.Request.Context(), organizationID)
	if err != nil {
		logger.Error("Failed to aggregate sync stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate sync stats"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncStatsResponse(*stats))
}
