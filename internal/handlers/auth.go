package handlers

import (
	"net/http"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/auth"
	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Challenge issues a sign-in nonce for a wallet
// POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	nonce, message, err := h.authService.Challenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":   nonce,
		"message": message,
	})
}

// WalletLogin authenticates a user by a signature over the issued challenge
// POST /auth/wallet
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"wallet_address" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	token, user, err := h.authService.WalletLogin(c.Request.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the authenticated user, creating it on first contact
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	subject, ok := auth.GetSubject(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Unauthorized"))
		return
	}
	wallet, _ := auth.GetWalletAddress(c)

	user, err := h.userService.FindOrCreate(c.Request.Context(), subject, wallet)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
