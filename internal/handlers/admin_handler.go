package handlers

import (
	"crypto/subtle"
	"net/http"

	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the operator key on admin routes
const AdminKeyHeader = "X-Admin-Key"

// AdminHandler handles operator maintenance endpoints
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RequireAdminKey rejects requests whose X-Admin-Key does not match key
func RequireAdminKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminKeyHeader)
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UpdatePoolDates handles POST /api/admin/update-pool-dates
func (h *AdminHandler) UpdatePoolDates(c *gin.Context) {
	results, err := h.adminService.RefreshPayoutDates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}
