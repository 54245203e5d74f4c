package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's own notifications and report subscriptions
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications includes notifications addressed to the caller's roles
// GET /api/v1/notifications?unread=true
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	params := listParams(c)
	list, total, err := h.notifications.ListForUser(c.Request.Context(), tenantID(c), userID(c), userRoles(c), queryBool(c, "unread"), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve notifications")
		return
	}
	respondList(c, list, total, params)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), tenantID(c), userID(c), userRoles(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to count notifications")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"unread": count}, "")
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), tenantID(c), userID(c), userRoles(c), id); err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to mark notification read")
		return
	}
	respondOK(c, http.StatusOK, nil, "")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(c.Request.Context(), tenantID(c), userID(c), userRoles(c))
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to mark notifications read")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": updated}, "")
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.Delete(c.Request.Context(), tenantID(c), userID(c), userRoles(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete notification")
		return
	}
	respondOK(c, http.StatusOK, nil, "")
}

// ========== Subscription Handlers ==========

// CreateSubscription subscribes the caller to a scheduled report
// POST /api/v1/reports/subscriptions
func (h *NotificationHandler) CreateSubscription(c *gin.Context) {
	var req models.CreateSubscriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	sub, err := h.notifications.CreateSubscription(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create subscription")
		return
	}
	respondOK(c, http.StatusCreated, sub, "Subscription created")
}

func (h *NotificationHandler) ListSubscriptions(c *gin.Context) {
	subs, err := h.notifications.ListSubscriptions(c.Request.Context(), tenantID(c), userID(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve subscriptions")
		return
	}
	respondOK(c, http.StatusOK, subs, "")
}

func (h *NotificationHandler) CancelSubscription(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.CancelSubscription(c.Request.Context(), tenantID(c), userID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to cancel subscription")
		return
	}
	respondOK(c, http.StatusOK, nil, "Subscription cancelled")
}
