package handlers

import (
	"context"
	"net/http"
	"time"

	"ajo-pools/internal/blockchain"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChainDiagnostics reports the health of the chain RPC endpoint
type ChainDiagnostics interface {
	RunDiagnostics(ctx context.Context) *blockchain.DiagnosticResult
}

// HealthHandler reports process, database and chain health
type HealthHandler struct {
	db    *gorm.DB
	chain ChainDiagnostics
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, chain ChainDiagnostics) *HealthHandler {
	return &HealthHandler{db: db, chain: chain}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	database := "ok"

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status = "degraded"
		database = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"database": database,
		"time":     time.Now().Unix(),
	})
}

// ChainDiagnostics handles GET /health/chain
func (h *HealthHandler) ChainDiagnostics(c *gin.Context) {
	result := h.chain.RunDiagnostics(c.Request.Context())
	if !result.RPCConnected {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
