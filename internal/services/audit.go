package services

import (
	"context"
	"encoding/json"
	"strings"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// AuditEntry describes one mutating request
type AuditEntry struct {
	TenantID  string
	UserID    string
	Method    string
	Path      string
	IPAddress string
	Status    int
}

// AuditService records and lists audit logs
type AuditService struct {
	repo   repository.AuditRepositoryInterface
	logger *logrus.Entry
}

func NewAuditService(repo repository.AuditRepositoryInterface, logger *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger.WithField("component", "audit")}
}

// ModuleFromPath takes the first segment after /api/v1 as the module name
func ModuleFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	if trimmed == path {
		return ""
	}
	module, _, _ := strings.Cut(trimmed, "/")
	return module
}

var methodActions = map[string]string{
	"POST":   "create",
	"PUT":    "update",
	"PATCH":  "update",
	"DELETE": "delete",
}

// Record writes the entry. Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	action, ok := methodActions[entry.Method]
	if !ok {
		action = strings.ToLower(entry.Method)
	}
	details, _ := json.Marshal(map[string]interface{}{
		"method": entry.Method,
		"status": entry.Status,
	})

	log := &models.AuditLog{
		ID:        uuid.New(),
		TenantID:  entry.TenantID,
		UserID:    entry.UserID,
		Module:    ModuleFromPath(entry.Path),
		Action:    action,
		Target:    entry.Path,
		IPAddress: entry.IPAddress,
		Details:   datatypes.JSON(details),
	}
	if err := s.repo.CreateAuditLog(ctx, log); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"tenantId": entry.TenantID,
			"path":     entry.Path,
		}).Warn("Failed to write audit log")
	}
}

func (s *AuditService) List(ctx context.Context, tenantID string, filter models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	return s.repo.ListAuditLogs(ctx, tenantID, filter)
}
