package handlers

import (
	"net/http"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// respondError writes {error: message} with the status of the error kind.
// Unclassified errors are reported as 500.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Upstream("Internal server error", err)
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Logger.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"kind":  appErr.Kind,
			"cause": appErr.Err,
		}).Error(appErr.Message)
	}

	c.JSON(status, gin.H{"error": appErr.Message})
}

// poolIDParam parses the :id path parameter. Malformed ids cannot name a pool.
func poolIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pool not found"})
		return uuid.Nil, false
	}
	return id, true
}

// walletParam reads the caller's wallet from the wallet-address header or the wallet_address query
func walletParam(c *gin.Context) string {
	if wallet := c.GetHeader("wallet-address"); wallet != "" {
		return wallet
	}
	return c.Query("wallet_address")
}
