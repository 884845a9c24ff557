package handlers

import (
	"net/http"

	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
)

// DebugHandler exposes stored state of the configured development wallet
type DebugHandler struct {
	debugService  *services.DebugService
	walletAddress string
}

// NewDebugHandler creates a new DebugHandler
func NewDebugHandler(debugService *services.DebugService, walletAddress string) *DebugHandler {
	return &DebugHandler{debugService: debugService, walletAddress: walletAddress}
}

// CheckWallet handles GET /api/debug/check-wallet
func (h *DebugHandler) CheckWallet(c *gin.Context) {
	report, err := h.debugService.CheckWallet(c.Request.Context(), h.walletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
