package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleRecipient addresses a notification to every user holding a role
func RoleRecipient(role string) string {
	return "role:" + role
}

// NotificationRepositoryInterface persists notifications and report subscriptions
type NotificationRepositoryInterface interface {
	CreateNotifications(ctx context.Context, notifications []models.Notification) error
	ListForUser(ctx context.Context, tenantID, userID string, roles []string, unreadOnly bool, params models.ListParams) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, tenantID, userID string, roles []string) (int64, error)
	MarkRead(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, tenantID string, recipients []string) (int64, error)
	DeleteNotification(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error

	CreateSubscription(ctx context.Context, sub *models.ReportSubscription) error
	GetSubscription(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReportSubscription, error)
	SaveSubscription(ctx context.Context, sub *models.ReportSubscription) error
	ListSubscriptions(ctx context.Context, tenantID, userID string) ([]models.ReportSubscription, error)
	ActiveSubscriptions(ctx context.Context, tenantID string) ([]models.ReportSubscription, error)

	CreateSnapshot(ctx context.Context, snapshot *models.ReportSnapshot) error
	ListSnapshots(ctx context.Context, tenantID, reportType string, params models.ListParams) ([]models.ReportSnapshot, int64, error)
}

type NotificationRepository struct {
	db *gorm.DB
}

var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Recipients expands a user into the addresses that reach them
func Recipients(userID string, roles []string) []string {
	recipients := []string{userID}
	for _, role := range roles {
		recipients = append(recipients, RoleRecipient(role))
	}
	return recipients
}

func (r *NotificationRepository) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepository) ListForUser(ctx context.Context, tenantID, userID string, roles []string, unreadOnly bool, params models.ListParams) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("tenant_id = ? AND user_id IN ?", tenantID, Recipients(userID, roles))
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Order("created_at DESC").Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, tenantID, userID string, roles []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("tenant_id = ? AND user_id IN ? AND is_read = ?", tenantID, Recipients(userID, roles), false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("tenant_id = ? AND id = ? AND user_id IN ?", tenantID, id, recipients).
		Updates(map[string]interface{}{"is_read": true, "read_at": now, "updated_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tenantID string, recipients []string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("tenant_id = ? AND user_id IN ? AND is_read = ?", tenantID, recipients, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) DeleteNotification(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ? AND user_id IN ?", tenantID, id, recipients).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ========== Subscriptions ==========

func (r *NotificationRepository) CreateSubscription(ctx context.Context, sub *models.ReportSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *NotificationRepository) GetSubscription(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReportSubscription, error) {
	var sub models.ReportSubscription
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&sub).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &sub, nil
}

func (r *NotificationRepository) SaveSubscription(ctx context.Context, sub *models.ReportSubscription) error {
	sub.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *NotificationRepository) ListSubscriptions(ctx context.Context, tenantID, userID string) ([]models.ReportSubscription, error) {
	var subs []models.ReportSubscription
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantID, userID, true).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *NotificationRepository) ActiveSubscriptions(ctx context.Context, tenantID string) ([]models.ReportSubscription, error) {
	var subs []models.ReportSubscription
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND is_active = ?", tenantID, true).Find(&subs).Error
	return subs, err
}

// ========== Snapshots ==========

func (r *NotificationRepository) CreateSnapshot(ctx context.Context, snapshot *models.ReportSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *NotificationRepository) ListSnapshots(ctx context.Context, tenantID, reportType string, params models.ListParams) ([]models.ReportSnapshot, int64, error) {
	var snapshots []models.ReportSnapshot
	var total int64
	query := r.db.WithContext(ctx).Model(&models.ReportSnapshot{}).Where("tenant_id = ?", tenantID)
	if reportType != "" {
		query = query.Where("report_type = ?", reportType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Order("created_at DESC").Find(&snapshots).Error
	return snapshots, total, err
}
