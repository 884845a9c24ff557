package handlers

import (
	"net/http"

	"ajo-pools/internal/auth"
	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
)

// LedgerHandler records contributions and payouts confirmed on chain
type LedgerHandler struct {
	contributionService *services.ContributionService
	payoutService       *services.PayoutService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(contributionService *services.ContributionService, payoutService *services.PayoutService) *LedgerHandler {
	return &LedgerHandler{
		contributionService: contributionService,
		payoutService:       payoutService,
	}
}

// RecordContribution handles POST /api/pools/:id/record-contribution
func (h *LedgerHandler) RecordContribution(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req services.RecordContributionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	subject, _ := auth.GetSubject(c)

	contribution, err := h.contributionService.RecordContribution(c.Request.Context(), poolID, subject, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"contribution": contribution,
	})
}

// ConfirmPayout handles POST /api/pools/:id/payout/confirm
func (h *LedgerHandler) ConfirmPayout(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req struct {
		TransactionSignature string `json:"transactionSignature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	subject, _ := auth.GetSubject(c)

	payout, err := h.payoutService.ConfirmPayout(c.Request.Context(), poolID, subject, req.TransactionSignature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payout":  payout,
	})
}
