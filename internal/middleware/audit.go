package middleware

import (
	"context"
	"net/http"
	"time"

	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

// AuditRecorder stores one audit entry
type AuditRecorder interface {
	Record(ctx context.Context, entry services.AuditEntry)
}

// Audit records every mutating request after the handler has run, on a context detached from the client
func Audit(recorder AuditRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}
		tenantID := c.GetString("tenant_id")
		if tenantID == "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 3*time.Second)
		defer cancel()
		recorder.Record(ctx, services.AuditEntry{
			TenantID:  tenantID,
			UserID:    c.GetString("user_id"),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IPAddress: c.ClientIP(),
			Status:    c.Writer.Status(),
		})
	}
}
