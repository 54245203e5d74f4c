package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleCategory groups CMS articles
type ArticleCategory string

const (
	ArticleNotice ArticleCategory = "notice"
	ArticleNews   ArticleCategory = "news"
	ArticleDocs   ArticleCategory = "docs"
	ArticleGuide  ArticleCategory = "guide"
)

// ArticleStatus represents the publication state of an article
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a CMS page
type Article struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Title       string          `json:"title" gorm:"type:varchar(200);not null"`
	Content     string          `json:"content" gorm:"type:text"`
	RawContent  *string         `json:"rawContent,omitempty" gorm:"type:text"`
	Category    ArticleCategory `json:"category" gorm:"type:varchar(20);not null;default:'notice';index"`
	AuthorID    string          `json:"authorId" gorm:"type:varchar(255)"`
	Status      ArticleStatus   `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	ViewCount   int             `json:"viewCount" gorm:"default:0"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Attachment is an uploaded file kept in object storage
type Attachment struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID   string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Filename   string    `json:"filename" gorm:"type:varchar(255);not null"`
	StorageKey string    `json:"-" gorm:"type:varchar(500);not null"`
	MimeType   string    `json:"mimeType" gorm:"type:varchar(100)"`
	Size       int64     `json:"size"`
	UploaderID string    `json:"uploaderId" gorm:"type:varchar(255)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ============================================================================
// Request Models
// ============================================================================

// CreateArticleRequest represents request to create an article
type CreateArticleRequest struct {
	Title      string          `json:"title" binding:"required,max=200"`
	Content    string          `json:"content"`
	RawContent *string         `json:"rawContent,omitempty"`
	Category   ArticleCategory `json:"category" binding:"omitempty,oneof=notice news docs guide"`
}

// UpdateArticleRequest represents request to update an article
type UpdateArticleRequest struct {
	Title      *string          `json:"title,omitempty" binding:"omitempty,max=200"`
	Content    *string          `json:"content,omitempty"`
	RawContent *string          `json:"rawContent,omitempty"`
	Category   *ArticleCategory `json:"category,omitempty" binding:"omitempty,oneof=notice news docs guide"`
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	ListParams
	Category ArticleCategory
	Status   ArticleStatus
}
