package auth

import (
	"net/http"
	"strings"

	"ajo-pools/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	subjectKey       = "subject"
	walletAddressKey = "wallet_address"
)

// Middleware validates bearer tokens and protects routes
func Middleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		identity, err := verifier.Verify(parts[1])
		if err != nil {
			logger.Logger.WithError(err).Debug("token validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(subjectKey, identity.Subject)
		if identity.WalletAddress != "" {
			c.Set(walletAddressKey, identity.WalletAddress)
		}

		c.Next()
	}
}

// GetSubject retrieves the verified identity subject from the context
func GetSubject(c *gin.Context) (string, bool) {
	subject := c.GetString(subjectKey)
	return subject, subject != ""
}

// GetWalletAddress retrieves the wallet address carried by a session token
func GetWalletAddress(c *gin.Context) (string, bool) {
	addr := c.GetString(walletAddressKey)
	return addr, addr != ""
}
