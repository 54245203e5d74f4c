package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditRepositoryInterface persists audit log rows
type AuditRepositoryInterface interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context, tenantID string, filter models.AuditLogFilter) ([]models.AuditLog, int64, error)
}

type AuditRepository struct {
	db *gorm.DB
}

var _ AuditRepositoryInterface = (*AuditRepository)(nil)

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) ListAuditLogs(ctx context.Context, tenantID string, filter models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64
	query := r.db.WithContext(ctx).Model(&models.AuditLog{}).Where("tenant_id = ?", tenantID)

	if filter.Module != "" {
		query = query.Where("module = ?", filter.Module)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, filter.ListParams).Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
