package middleware

import (
	"net/http"

	"erp-service/internal/models"
	"github.com/gin-gonic/gin"
)

func rejectTenant(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}

// TenantMiddleware resolves the tenant every /api/v1 query is scoped to.
// A tenant set by the auth layer wins; X-Tenant-ID may only repeat it.
// Requests without any tenant are rejected, there is no default tenant.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-Tenant-ID")
		claimed := c.GetString("tenant_id")

		tenantID := claimed
		switch {
		case claimed == "":
			tenantID = header
		case header != "" && header != claimed:
			rejectTenant(c, http.StatusForbidden, "TENANT_MISMATCH", "X-Tenant-ID does not match the authenticated tenant")
			return
		}

		if tenantID == "" {
			rejectTenant(c, http.StatusUnauthorized, "TENANT_REQUIRED", "Tenant ID is required. Include X-Tenant-ID header.")
			return
		}

		c.Set("tenant_id", tenantID)
		c.Next()
	}
}
