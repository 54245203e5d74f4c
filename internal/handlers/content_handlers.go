package handlers

import (
	"io"
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// ========== Article Handlers ==========

func (h *ContentHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := h.content.CreateArticle(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create article")
		return
	}
	respondOK(c, http.StatusCreated, article, "Article created successfully")
}

// GetArticle counts a view when the article is published
func (h *ContentHandler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.content.GetArticle(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve article")
		return
	}
	respondOK(c, http.StatusOK, article, "")
}

func (h *ContentHandler) ListArticles(c *gin.Context) {
	filter := models.ArticleFilter{
		ListParams: listParams(c),
		Category:   models.ArticleCategory(c.Query("category")),
		Status:     models.ArticleStatus(c.Query("status")),
	}
	articles, total, err := h.content.ListArticles(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve articles")
		return
	}
	respondList(c, articles, total, filter.ListParams)
}

func (h *ContentHandler) UpdateArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	article, err := h.content.UpdateArticle(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update article")
		return
	}
	respondOK(c, http.StatusOK, article, "Article updated successfully")
}

func (h *ContentHandler) PublishArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.content.Publish(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to publish article")
		return
	}
	respondOK(c, http.StatusOK, article, "Article published")
}

func (h *ContentHandler) UnpublishArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.content.Unpublish(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to unpublish article")
		return
	}
	respondOK(c, http.StatusOK, article, "Article unpublished")
}

func (h *ContentHandler) DeleteArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteArticle(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete article")
		return
	}
	respondOK(c, http.StatusOK, nil, "Article deleted successfully")
}

// ========== Attachment Handlers ==========

// UploadAttachment stores a multipart file field named "file"
// POST /api/v1/attachments
func (h *ContentHandler) UploadAttachment(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abortWith(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a file")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	attachment, err := h.content.Upload(c.Request.Context(), tenantID(c), userID(c), header.Filename, mimeType, header.Size, file)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to store attachment")
		return
	}
	respondOK(c, http.StatusCreated, attachment, "File uploaded")
}

// DownloadAttachment redirects to a presigned URL or streams the stored body
func (h *ContentHandler) DownloadAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	download, err := h.content.Download(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to download attachment")
		return
	}
	if download.URL != "" {
		c.Redirect(http.StatusFound, download.URL)
		return
	}
	defer download.Body.Close()

	c.Header("Content-Disposition", "attachment; filename="+download.Attachment.Filename)
	c.Header("Content-Type", download.Attachment.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, download.Body)
}

func (h *ContentHandler) ListAttachments(c *gin.Context) {
	params := listParams(c)
	attachments, total, err := h.content.ListAttachments(c.Request.Context(), tenantID(c), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve attachments")
		return
	}
	respondList(c, attachments, total, params)
}

func (h *ContentHandler) DeleteAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.content.DeleteAttachment(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete attachment")
		return
	}
	respondOK(c, http.StatusOK, nil, "Attachment deleted")
}
