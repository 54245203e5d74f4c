package handlers

import (
	"context"
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertHandler struct {
	alerts *services.AlertService
}

func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// ListAlerts returns the active stock alerts
// GET /api/v1/alerts
func (h *AlertHandler) ListAlerts(c *gin.Context) {
	params := listParams(c)
	alerts, total, err := h.alerts.ListActive(c.Request.Context(), tenantID(c), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve alerts")
		return
	}
	respondList(c, alerts, total, params)
}

// GetAlertSummary counts alerts by level and status
func (h *AlertHandler) GetAlertSummary(c *gin.Context) {
	stats, err := h.alerts.Statistics(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve alert summary")
		return
	}
	respondOK(c, http.StatusOK, stats, "")
}

// CheckAll re-evaluates every product of the tenant
// POST /api/v1/alerts/check
func (h *AlertHandler) CheckAll(c *gin.Context) {
	checked, err := h.alerts.CheckAll(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to check stock levels")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"alerts": checked}, "")
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	h.closeAlert(c, h.alerts.ResolveAlert, "Alert resolved")
}

func (h *AlertHandler) IgnoreAlert(c *gin.Context) {
	h.closeAlert(c, h.alerts.IgnoreAlert, "Alert ignored")
}

type closeAlertFunc func(ctx context.Context, tenantID, operator string, id uuid.UUID, note string) (*models.StockAlert, error)

func (h *AlertHandler) closeAlert(c *gin.Context, apply closeAlertFunc, message string) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.ResolveAlertRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	alert, err := apply(c.Request.Context(), tenantID(c), userID(c), id, req.Note)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update alert")
		return
	}
	respondOK(c, http.StatusOK, alert, message)
}

// ========== Replenishment Handlers ==========

// ListSuggestions lists replenishment suggestions, pending by default
// GET /api/v1/replenishment
func (h *AlertHandler) ListSuggestions(c *gin.Context) {
	status := models.SuggestionStatus(c.DefaultQuery("status", string(models.SuggestionStatusPending)))
	params := listParams(c)
	suggestions, total, err := h.alerts.ListSuggestions(c.Request.Context(), tenantID(c), status, params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve suggestions")
		return
	}
	respondList(c, suggestions, total, params)
}

// GenerateSuggestions drafts suggestions for products below their minimum
func (h *AlertHandler) GenerateSuggestions(c *gin.Context) {
	created, err := h.alerts.GenerateSuggestions(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to generate suggestions")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"created": created}, "")
}

// AcceptSuggestion turns a suggestion into a draft purchase order
// POST /api/v1/replenishment/:id/accept
func (h *AlertHandler) AcceptSuggestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.AcceptSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}
	po, err := h.alerts.AcceptSuggestion(c.Request.Context(), tenantID(c), userID(c), id, req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to accept suggestion")
		return
	}
	respondOK(c, http.StatusCreated, po, "Purchase order drafted")
}

func (h *AlertHandler) RejectSuggestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	suggestion, err := h.alerts.RejectSuggestion(c.Request.Context(), tenantID(c), userID(c), id)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to reject suggestion")
		return
	}
	respondOK(c, http.StatusOK, suggestion, "")
}
