package middleware

import (
	"net/http"
	"slices"
	"strings"

	"erp-service/internal/models"
	"github.com/gin-gonic/gin"
)

const devID = "00000000-0000-0000-0000-000000000001"

// DevelopmentAuthMiddleware stands in for Istio JWT claims on a workstation
func DevelopmentAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip auth for health check endpoints
		if strings.HasPrefix(c.Request.URL.Path, "/health") ||
			strings.HasPrefix(c.Request.URL.Path, "/ready") {
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = devID
		}
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			tenantID = devID
		}

		roles := []string{"admin", "employee"}
		if header := c.GetHeader("X-User-Roles"); header != "" {
			roles = strings.Split(header, ",")
		}

		c.Set("user_id", userID)
		c.Set("staff_id", userID) // RBAC middleware checks staff_id first
		c.Set("user_email", "dev@example.com")
		c.Set("user_name", "Development User")
		c.Set("tenant_id", tenantID)
		c.Set("user_roles", roles)

		c.Next()
	}
}

func forbidden(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// RequireRole middleware checks if user has required role. super_admin passes every check.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, exists := c.Get("user_roles")
		if !exists {
			forbidden(c, "NO_ROLES", "User roles not found")
			return
		}

		userRoles, ok := roles.([]string)
		if !ok {
			forbidden(c, "INVALID_ROLES", "Invalid user roles format")
			return
		}

		if !slices.Contains(userRoles, requiredRole) && !slices.Contains(userRoles, "super_admin") {
			forbidden(c, "INSUFFICIENT_PERMISSIONS", "Required role: "+requiredRole)
			return
		}

		c.Next()
	}
}
