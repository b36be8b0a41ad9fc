package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luminapay/railsync/internal/apperrors"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/dto"
	"github.com/luminapay/railsync/internal/middleware"
)

// eventHandler handles HTTP requests for payment lifecycle event ingestion.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

// newEventHandler creates a new eventHandler.
func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

// registerEventRoutes registers the event ingestion routes.
func registerEventRoutes(rg *gin.RouterGroup, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.POST("/payment-created", h.paymentCreated)
		events.POST("/payment-confirmed", h.paymentConfirmed)
	}
	rg.GET("/payments/:paymentID/events", h.listPaymentEvents)
}

// paymentCreated godoc
// @Summary Ingest a payment creation event
// @Description Captures the creation-time FX baseline snapshot for every supported crypto asset
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.PaymentCreatedRequest true "Creation event details"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 503 {object} map[string]string "Exchange rates unavailable"
// @Router /events/payment-created [post]
func (h *eventHandler) paymentCreated(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PaymentCreated", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("payment_id", req.PaymentID))
	logger.Info("Received payment creation event")

	if err := h.eventService.HandlePaymentCreated(c.Request.Context(), req.PaymentID, req.OrganizationID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ingesting creation event", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Payment not found for creation event")
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else if errors.Is(err, apperrors.ErrRateUnavailable) {
			logger.Warn("No rates available for creation snapshots", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Exchange rates unavailable, retry later"})
		} else {
			logger.Error("Failed to ingest creation event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest creation event"})
		}
		return
	}

	logger.Info("Creation event accepted")
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// paymentConfirmed godoc
// @Summary Ingest a payment confirmation event
// @Description Records a settlement confirmation, captures the FX settlement snapshot and enqueues the accounting sync
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.PaymentConfirmedRequest true "Confirmation event details"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /events/payment-confirmed [post]
func (h *eventHandler) paymentConfirmed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentConfirmedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PaymentConfirmed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("payment_id", req.PaymentID),
		slog.String("rail", req.Rail),
	)
	logger.Info("Received payment confirmation event")

	if err := h.eventService.HandlePaymentConfirmed(c.Request.Context(), req.ToDomainEvent()); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error ingesting confirmation", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Payment not found for confirmation event")
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else {
			logger.Error("Failed to ingest confirmation event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest confirmation event"})
		}
		return
	}

	logger.Info("Confirmation event accepted")
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// listPaymentEvents godoc
// @Summary List a payment's lifecycle events
// @Description Returns a page of the payment's events, newest first, with token-based pagination
// @Tags events
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListPaymentEventsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 404 {object} map[string]string "Payment not found"
// @Router /payments/{paymentID}/events [get]
func (h *eventHandler) listPaymentEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'limit' must be a positive integer"})
		return
	}
	var nextToken *string
	if v := c.Query("nextToken"); v != "" {
		nextToken = &v
	}

	events, newToken, err := h.eventService.ListPaymentEvents(c.Request.Context(), paymentID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		} else {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == 400 {
				c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
				return
			}
			logger.Error("Failed to list payment events", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment events"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentEventsResponse(events, newToken))
}
