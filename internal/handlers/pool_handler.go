package handlers

import (
	"net/http"

	"ajo-pools/internal/auth"
	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
)

// PoolHandler handles pool membership and lifecycle endpoints
type PoolHandler struct {
	poolService         *services.PoolService
	verificationService *services.VerificationService
}

// NewPoolHandler creates a new PoolHandler
func NewPoolHandler(poolService *services.PoolService, verificationService *services.VerificationService) *PoolHandler {
	return &PoolHandler{
		poolService:         poolService,
		verificationService: verificationService,
	}
}

// JoinPool handles POST /api/pools/:id/join
func (h *PoolHandler) JoinPool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	subject, _ := auth.GetSubject(c)

	if err := h.poolService.JoinPool(c.Request.Context(), poolID, subject); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetUserPosition handles GET /api/pools/:id/user-position
func (h *PoolHandler) GetUserPosition(c *gin.Context) {
	if walletParam(c) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	result, err := h.poolService.GetUserPosition(c.Request.Context(), poolID, walletParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// VerifyPool handles GET /api/pools/verify
func (h *PoolHandler) VerifyPool(c *gin.Context) {
	result, err := h.verificationService.VerifyPool(
		c.Request.Context(),
		c.Query("poolAddress"),
		c.Query("walletAddress"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreatePool handles POST /api/pools
func (h *PoolHandler) CreatePool(c *gin.Context) {
	var req services.CreatePoolInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	subject, _ := auth.GetSubject(c)

	pool, err := h.poolService.CreatePool(c.Request.Context(), subject, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pool": pool})
}

// GetPool handles GET /api/pools/:id
func (h *PoolHandler) GetPool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	details, err := h.poolService.GetPool(c.Request.Context(), poolID, walletParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// ListPools handles GET /api/pools?wallet_address=
func (h *PoolHandler) ListPools(c *gin.Context) {
	pools, err := h.poolService.ListUserPools(c.Request.Context(), walletParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pools": pools})
}

// UpdatePool handles PUT /api/pools/:id
func (h *PoolHandler) UpdatePool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req services.UpdatePoolInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	subject, _ := auth.GetSubject(c)

	pool, err := h.poolService.UpdatePool(c.Request.Context(), poolID, subject, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pool": pool})
}

// ActivatePool handles POST /api/pools/:id/activate
func (h *PoolHandler) ActivatePool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req struct {
		PoolAddress          string `json:"poolAddress"`
		TransactionSignature string `json:"transactionSignature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	subject, _ := auth.GetSubject(c)

	pool, err := h.poolService.ActivatePool(c.Request.Context(), poolID, subject, req.PoolAddress, req.TransactionSignature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pool": pool})
}
