package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRepositoryInterface persists CMS articles and attachments
type ContentRepositoryInterface interface {
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error)
	SaveArticle(ctx context.Context, article *models.Article) error
	IncrementViews(ctx context.Context, tenantID string, id uuid.UUID) error
	ListArticles(ctx context.Context, tenantID string, filter models.ArticleFilter) ([]models.Article, int64, error)
	DeleteArticle(ctx context.Context, tenantID string, id uuid.UUID) error

	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	GetAttachment(ctx context.Context, tenantID string, id uuid.UUID) (*models.Attachment, error)
	ListAttachments(ctx context.Context, tenantID string, params models.ListParams) ([]models.Attachment, int64, error)
	DeleteAttachment(ctx context.Context, tenantID string, id uuid.UUID) error
}

type ContentRepository struct {
	db *gorm.DB
}

var _ ContentRepositoryInterface = (*ContentRepository)(nil)

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *ContentRepository) GetArticle(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&article).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &article, nil
}

func (r *ContentRepository) SaveArticle(ctx context.Context, article *models.Article) error {
	article.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(article).Error
}

// IncrementViews bumps the view counter in place
func (r *ContentRepository) IncrementViews(ctx context.Context, tenantID string, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Article{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *ContentRepository) ListArticles(ctx context.Context, tenantID string, filter models.ArticleFilter) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Article{}).Where("tenant_id = ?", tenantID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, filter.ListParams).Order("created_at DESC").Find(&articles).Error
	return articles, total, err
}

func (r *ContentRepository) DeleteArticle(ctx context.Context, tenantID string, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), tenantID, id, &models.Article{})
}

func (r *ContentRepository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *ContentRepository) GetAttachment(ctx context.Context, tenantID string, id uuid.UUID) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&attachment).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &attachment, nil
}

func (r *ContentRepository) ListAttachments(ctx context.Context, tenantID string, params models.ListParams) ([]models.Attachment, int64, error) {
	var attachments []models.Attachment
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Attachment{}).Where("tenant_id = ?", tenantID)
	if params.Search != "" {
		query = query.Where("LOWER(filename) LIKE ?", likePattern(params.Search))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Order("created_at DESC").Find(&attachments).Error
	return attachments, total, err
}

func (r *ContentRepository) DeleteAttachment(ctx context.Context, tenantID string, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), tenantID, id, &models.Attachment{})
}
