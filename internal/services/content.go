package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const downloadURLExpiry = 15 * time.Minute

// ContentService manages CMS articles and uploaded attachments
type ContentService struct {
	repo     repository.ContentRepositoryInterface
	store    storage.Store
	maxBytes int64
	logger   *logrus.Entry
}

func NewContentService(repo repository.ContentRepositoryInterface, store storage.Store, maxBytes int64, logger *logrus.Logger) *ContentService {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	return &ContentService{
		repo:     repo,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger.WithField("component", "content"),
	}
}

func (s *ContentService) CreateArticle(ctx context.Context, tenantID, authorID string, req models.CreateArticleRequest) (*models.Article, error) {
	category := req.Category
	if category == "" {
		category = models.ArticleNotice
	}
	article := &models.Article{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Title:      req.Title,
		Content:    req.Content,
		RawContent: req.RawContent,
		Category:   category,
		AuthorID:   authorID,
		Status:     models.ArticleStatusDraft,
	}
	if err := s.repo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ContentService) UpdateArticle(ctx context.Context, tenantID string, id uuid.UUID, req models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.RawContent != nil {
		article.RawContent = req.RawContent
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if err := s.repo.SaveArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Publish keeps the first publication time when an article is republished
func (s *ContentService) Publish(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if article.Status == models.ArticleStatusPublished {
		return article, nil
	}
	article.Status = models.ArticleStatusPublished
	if article.PublishedAt == nil {
		now := time.Now()
		article.PublishedAt = &now
	}
	if err := s.repo.SaveArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *ContentService) Unpublish(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	article.Status = models.ArticleStatusDraft
	if err := s.repo.SaveArticle(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// GetArticle counts a view for published articles
func (s *ContentService) GetArticle(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if article.Status == models.ArticleStatusPublished {
		if err := s.repo.IncrementViews(ctx, tenantID, id); err != nil {
			s.logger.WithError(err).WithField("articleId", id).Warn("Failed to count article view")
		} else {
			article.ViewCount++
		}
	}
	return article, nil
}

func (s *ContentService) ListArticles(ctx context.Context, tenantID string, filter models.ArticleFilter) ([]models.Article, int64, error) {
	return s.repo.ListArticles(ctx, tenantID, filter)
}

func (s *ContentService) DeleteArticle(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.DeleteArticle(ctx, tenantID, id)
}

// AttachmentKey places an upload under its tenant and month
func AttachmentKey(tenantID string, id uuid.UUID, filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s", tenantID, now.Format("2006/01"), id, ext)
}

// Upload stores the body and records the attachment. Bodies above the upload limit are rejected.
func (s *ContentService) Upload(ctx context.Context, tenantID, uploaderID, filename, mimeType string, declaredSize int64, body io.Reader) (*models.Attachment, error) {
	if declaredSize > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, declaredSize, s.maxBytes)
	}

	id := uuid.New()
	key := AttachmentKey(tenantID, id, filename, time.Now())

	reader := body
	if _, seekable := body.(io.Seeker); !seekable {
		reader = io.LimitReader(body, s.maxBytes+1)
	}
	size, err := s.store.Put(ctx, key, reader, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store attachment: %w", err)
	}
	if size > s.maxBytes {
		s.removeObject(ctx, key)
		return nil, fmt.Errorf("%w: limit %d bytes", ErrFileTooLarge, s.maxBytes)
	}

	attachment := &models.Attachment{
		ID:         id,
		TenantID:   tenantID,
		Filename:   filename,
		StorageKey: key,
		MimeType:   mimeType,
		Size:       size,
		UploaderID: uploaderID,
	}
	if err := s.repo.CreateAttachment(ctx, attachment); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenantId": tenantID,
		"id":       id,
		"size":     size,
		"driver":   s.store.Driver(),
	}).Info("Attachment uploaded")
	return attachment, nil
}

func (s *ContentService) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Failed to remove stored object")
	}
}

// AttachmentDownload is either a presigned URL or an open body
type AttachmentDownload struct {
	Attachment *models.Attachment
	URL        string
	Body       io.ReadCloser
}

// Download prefers a presigned URL and falls back to streaming the body
func (s *ContentService) Download(ctx context.Context, tenantID string, id uuid.UUID) (*AttachmentDownload, error) {
	attachment, err := s.repo.GetAttachment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	url, err := s.store.PresignURL(ctx, attachment.StorageKey, downloadURLExpiry)
	if err == nil {
		return &AttachmentDownload{Attachment: attachment, URL: url}, nil
	}
	if !errors.Is(err, storage.ErrUnsupported) {
		return nil, err
	}

	body, err := s.store.Open(ctx, attachment.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("attachment body: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return &AttachmentDownload{Attachment: attachment, Body: body}, nil
}

func (s *ContentService) ListAttachments(ctx context.Context, tenantID string, params models.ListParams) ([]models.Attachment, int64, error) {
	return s.repo.ListAttachments(ctx, tenantID, params)
}

func (s *ContentService) DeleteAttachment(ctx context.Context, tenantID string, id uuid.UUID) error {
	attachment, err := s.repo.GetAttachment(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAttachment(ctx, tenantID, id); err != nil {
		return err
	}
	s.removeObject(ctx, attachment.StorageKey)
	return nil
}
