package handlers

import (
	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// ListAuditLogs filters by module, user and date range
// GET /api/v1/audit-logs
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	filter := models.AuditLogFilter{
		ListParams: listParams(c),
		Module:     c.Query("module"),
		UserID:     c.Query("userId"),
		From:       from,
		To:         to,
	}
	logs, total, err := h.audit.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve audit logs")
		return
	}
	respondList(c, logs, total, filter.ListParams)
}
