package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertRepositoryInterface persists stock alerts and replenishment suggestions
type AlertRepositoryInterface interface {
	ActiveAlert(ctx context.Context, tenantID string, productID uuid.UUID) (*models.StockAlert, error)
	CreateAlert(ctx context.Context, alert *models.StockAlert) error
	SaveAlert(ctx context.Context, alert *models.StockAlert) error
	GetAlert(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockAlert, error)
	ResolveActive(ctx context.Context, tenantID string, productID uuid.UUID, note string) (int64, error)
	ListActive(ctx context.Context, tenantID string, params models.ListParams) ([]models.StockAlert, int64, error)
	AlertStatistics(ctx context.Context, tenantID string) (*models.AlertStatistics, error)

	HasPendingSuggestion(ctx context.Context, tenantID string, productID uuid.UUID) (bool, error)
	CreateSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error
	GetSuggestion(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReplenishmentSuggestion, error)
	SaveSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error
	ListSuggestions(ctx context.Context, tenantID string, status models.SuggestionStatus, params models.ListParams) ([]models.ReplenishmentSuggestion, int64, error)
}

type AlertRepository struct {
	db *gorm.DB
}

var _ AlertRepositoryInterface = (*AlertRepository)(nil)

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// ========== Alerts ==========

// ActiveAlert returns the newest active alert of a product
func (r *AlertRepository) ActiveAlert(ctx context.Context, tenantID string, productID uuid.UUID) (*models.StockAlert, error) {
	var alert models.StockAlert
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, models.AlertStatusActive).
		Order("created_at DESC").
		First(&alert).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &alert, nil
}

func (r *AlertRepository) CreateAlert(ctx context.Context, alert *models.StockAlert) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error
}

func (r *AlertRepository) SaveAlert(ctx context.Context, alert *models.StockAlert) error {
	alert.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(alert).Error
}

func (r *AlertRepository) GetAlert(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockAlert, error) {
	var alert models.StockAlert
	err := r.db.WithContext(ctx).Preload("Product").Where("tenant_id = ? AND id = ?", tenantID, id).First(&alert).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &alert, nil
}

// ResolveActive closes every active alert of a product with the note
func (r *AlertRepository) ResolveActive(ctx context.Context, tenantID string, productID uuid.UUID, note string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.StockAlert{}).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, models.AlertStatusActive).
		Updates(map[string]interface{}{
			"status":       models.AlertStatusResolved,
			"resolved_at":  now,
			"resolve_note": note,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// ListActive lists active alerts, red before yellow, newest first
func (r *AlertRepository) ListActive(ctx context.Context, tenantID string, params models.ListParams) ([]models.StockAlert, int64, error) {
	var alerts []models.StockAlert
	var total int64
	query := r.db.WithContext(ctx).Model(&models.StockAlert{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.AlertStatusActive)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).
		Preload("Product").
		Order("CASE WHEN level = 'red' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, total, err
}

func (r *AlertRepository) AlertStatistics(ctx context.Context, tenantID string) (*models.AlertStatistics, error) {
	var rows []struct {
		Level string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.StockAlert{}).
		Select("level, COUNT(*) AS count").
		Where("tenant_id = ? AND status = ?", tenantID, models.AlertStatusActive).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stats := &models.AlertStatistics{}
	for _, row := range rows {
		switch models.AlertLevel(row.Level) {
		case models.AlertLevelRed:
			stats.Red = row.Count
		case models.AlertLevelYellow:
			stats.Yellow = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}

// ========== Suggestions ==========

func (r *AlertRepository) HasPendingSuggestion(ctx context.Context, tenantID string, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReplenishmentSuggestion{}).
		Where("tenant_id = ? AND product_id = ? AND status = ?", tenantID, productID, models.SuggestionStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *AlertRepository) CreateSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(suggestion).Error
}

func (r *AlertRepository) GetSuggestion(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReplenishmentSuggestion, error) {
	var suggestion models.ReplenishmentSuggestion
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Supplier").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&suggestion).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &suggestion, nil
}

func (r *AlertRepository) SaveSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error {
	suggestion.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(suggestion).Error
}

func (r *AlertRepository) ListSuggestions(ctx context.Context, tenantID string, status models.SuggestionStatus, params models.ListParams) ([]models.ReplenishmentSuggestion, int64, error) {
	var suggestions []models.ReplenishmentSuggestion
	var total int64
	query := r.db.WithContext(ctx).Model(&models.ReplenishmentSuggestion{}).Where("tenant_id = ?", tenantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).
		Preload("Product").Preload("Supplier").
		Order("created_at DESC").
		Find(&suggestions).Error
	return suggestions, total, err
}
