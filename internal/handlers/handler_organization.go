package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/dto"
	"github.com/luminapay/railsync/internal/middleware"
)

// organizationHandler handles HTTP requests for merchant configuration.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{organizationService: os}
}

// registerOrganizationRoutes registers merchant configuration routes.
func registerOrganizationRoutes(rg *gin.RouterGroup, organizationService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(organizationService)

	orgs := rg.Group("/organizations/:orgID")
	{
		orgs.GET("", h.getOrganization)
		orgs.GET("/rail-accounts", h.listRailMappings)
		orgs.PUT("/rail-accounts/:rail", h.putRailMapping)
	}
}

// getOrganization godoc
// @Summary Get an organization
// @Description Retrieves the merchant tenant's configuration
// @Tags organizations
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{orgID} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	org, err := h.organizationService.GetOrganization(c.Request.Context(), orgID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			logger.Error("Failed to get organization", slog.String("organization_id", orgID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// listRailMappings godoc
// @Summary List the organization's rail account mappings
// @Description Lists the external accounting clearing-account identifier configured per rail
// @Tags organizations
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {array} dto.RailMappingResponse
// @Failure 500 {object} map[string]string "Failed to list rail mappings"
// @Router /organizations/{orgID}/rail-accounts [get]
func (h *organizationHandler) listRailMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	mappings, err := h.organizationService.ListRailMappings(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to list rail mappings", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rail mappings"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListRailMappingResponse(mappings))
}

// putRailMapping godoc
// @Summary Configure a rail's external clearing account
// @Description Creates or replaces the mapping from a settlement rail to its external accounting account identifier
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   rail path string true "Rail code (CARD, SOL, USDC, USDT, AUDD)"
// @Param   mapping body dto.PutRailMappingRequest true "Mapping details"
// @Success 200 {object} dto.RailMappingResponse
// @Failure 400 {object} map[string]string "Invalid rail or input format"
// @Failure 404 {object} map[string]string "Organization not found"
// @Router /organizations/{orgID}/rail-accounts/{rail} [put]
func (h *organizationHandler) putRailMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	rail := domain.Rail(c.Param("rail"))
	if !rail.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown rail '" + c.Param("rail") + "'"})
		return
	}

	var req dto.PutRailMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PutRailMapping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	mapping := domain.RailAccountMapping{
		OrganizationID:  orgID,
		Rail:            rail,
		ExternalAccount: req.ExternalAccount,
	}

	if err := h.organizationService.PutRailMapping(c.Request.Context(), mapping); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to save rail mapping", slog.String("organization_id", orgID), slog.String("rail", string(rail)), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rail mapping"})
		}
		return
	}

	logger.Info("Rail mapping saved", slog.String("organization_id", orgID), slog.String("rail", string(rail)))
	c.JSON(http.StatusOK, dto.ToRailMappingResponse(mapping))
}
