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

// rateHandler handles HTTP requests for rate lookups and FX variance reads.
type rateHandler struct {
	rateService     portssvc.RateSvcFacade
	snapshotService portssvc.SnapshotSvcFacade
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rs portssvc.RateSvcFacade, ss portssvc.SnapshotSvcFacade) *rateHandler {
	return &rateHandler{rateService: rs, snapshotService: ss}
}

// registerRateRoutes registers routes for rates and FX variance.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, snapshotService portssvc.SnapshotSvcFacade) {
	h := newRateHandler(rateService, snapshotService)

	rg.GET("/rates", h.getRate)
	rg.GET("/payments/:paymentID/fx-variance", h.getFxVariance)
}

// getRate godoc
// @Summary Get the current rate for a currency pair
// @Description Returns the cached or freshly fetched rate for base against quote
// @Tags rates
// @Produce  json
// @Param   base query string true "Base asset symbol"
// @Param   quote query string true "Quote currency code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Missing base or quote"
// @Failure 503 {object} map[string]string "No provider could serve the pair"
// @Router /rates [get]
func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	base, quote := c.Query("base"), c.Query("quote")
	if base == "" || quote == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'base' and 'quote' query parameters are required"})
		return
	}

	rate, err := h.rateService.GetRate(c.Request.Context(), base, quote)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateUnavailable) {
			logger.Warn("Rate unavailable", slog.String("base", base), slog.String("quote", quote))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Rate unavailable for " + base + "/" + quote})
		} else {
			logger.Error("Failed to get rate", slog.String("base", base), slog.String("quote", quote), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// getFxVariance godoc
// @Summary Get a payment's FX rate variance
// @Description Compares settlement snapshots against creation snapshots per asset
// @Tags rates
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {array} dto.RateVarianceResponse
// @Failure 404 {object} map[string]string "No usable snapshot pair exists"
// @Failure 500 {object} map[string]string "Failed to calculate variance"
// @Router /payments/{paymentID}/fx-variance [get]
func (h *rateHandler) getFxVariance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	variances, err := h.snapshotService.CalculateRateVariance(c.Request.Context(), paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrVarianceUnavailable) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("FX variance unavailable", slog.String("payment_id", paymentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "No snapshot pair available for variance"})
		} else {
			logger.Error("Failed to calculate FX variance", slog.String("payment_id", paymentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate variance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateVarianceResponse(variances))
}
