package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssistantRepositoryInterface persists chat sessions and messages
type AssistantRepositoryInterface interface {
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, tenantID, userID string, id uuid.UUID) (*models.ChatSession, error)
	TouchSession(ctx context.Context, session *models.ChatSession) error
	ListSessions(ctx context.Context, tenantID, userID string, params models.ListParams) ([]models.ChatSession, int64, error)
	CreateMessages(ctx context.Context, messages []models.ChatMessage) error
	ListMessages(ctx context.Context, tenantID string, sessionID uuid.UUID) ([]models.ChatMessage, error)
}

type AssistantRepository struct {
	db *gorm.DB
}

var _ AssistantRepositoryInterface = (*AssistantRepository)(nil)

func NewAssistantRepository(db *gorm.DB) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetSession returns a session only when it belongs to the user
func (r *AssistantRepository) GetSession(ctx context.Context, tenantID, userID string, id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND id = ?", tenantID, userID, id).
		First(&session).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &session, nil
}

func (r *AssistantRepository) TouchSession(ctx context.Context, session *models.ChatSession) error {
	session.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(session).Update("updated_at", session.UpdatedAt).Error
}

func (r *AssistantRepository) ListSessions(ctx context.Context, tenantID, userID string, params models.ListParams) ([]models.ChatSession, int64, error) {
	var sessions []models.ChatSession
	var total int64
	query := r.db.WithContext(ctx).Model(&models.ChatSession{}).Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Order("updated_at DESC").Find(&sessions).Error
	return sessions, total, err
}

func (r *AssistantRepository) CreateMessages(ctx context.Context, messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&messages).Error
}

func (r *AssistantRepository) ListMessages(ctx context.Context, tenantID string, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND session_id = ?", tenantID, sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
