package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
	"github.com/luminapay/railsync/internal/dto"
	"github.com/luminapay/railsync/internal/middleware"
)

// ledgerHandler handles HTTP requests for ledger balance reads.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the organization-scoped ledger routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/organizations/:orgID/ledger/balances", h.listBalances)
}

// listBalances godoc
// @Summary List ledger account balances
// @Description Recomputes every account's balance from its entries under the account-type sign convention
// @Tags ledger
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {array} dto.AccountBalanceResponse
// @Failure 500 {object} map[string]string "Failed to compute balances"
// @Router /organizations/{orgID}/ledger/balances [get]
func (h *ledgerHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	balances, err := h.ledgerService.ListBalances(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to compute ledger balances", slog.String("organization_id", orgID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountBalanceResponse(balances))
}
