package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a CORS middleware with proper configuration
// Note: AllowAllOrigins and AllowCredentials cannot both be true
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Tenant-ID", "X-User-ID"}
	config.ExposeHeaders = []string{"Content-Disposition", "Retry-After"}
	config.AllowCredentials = false
	config.MaxAge = 12 * time.Hour

	return cors.New(config)
}
