package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistant *services.AssistantService
}

func NewAssistantHandler(assistant *services.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Chat answers one message in a new or existing session
// POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.assistant.Chat(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		respondError(c, err, "AI_FAILED", "Failed to answer")
		return
	}
	respondOK(c, http.StatusOK, reply, "")
}

// AnalyzeInventory returns stock recommendations
// GET /api/v1/assistant/inventory-analysis?limit=10
func (h *AssistantHandler) AnalyzeInventory(c *gin.Context) {
	limit, _ := parseInt(c.Query("limit"))
	analysis, err := h.assistant.AnalyzeInventory(c.Request.Context(), tenantID(c), limit)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to analyse inventory")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"analysis": analysis}, "")
}

func (h *AssistantHandler) EstimateCost(c *gin.Context) {
	var req models.EstimateCostRequest
	if !bindJSON(c, &req) {
		return
	}
	respondOK(c, http.StatusOK, services.EstimateCost(req.Messages), "")
}

func (h *AssistantHandler) CountTokens(c *gin.Context) {
	var req models.TokenCountRequest
	if !bindJSON(c, &req) {
		return
	}
	respondOK(c, http.StatusOK, gin.H{"tokens": services.CountTokens(req.Text)}, "")
}

func (h *AssistantHandler) ListSessions(c *gin.Context) {
	params := listParams(c)
	sessions, total, err := h.assistant.Sessions(c.Request.Context(), tenantID(c), userID(c), params)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve sessions")
		return
	}
	respondList(c, sessions, total, params)
}

func (h *AssistantHandler) ListMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	messages, err := h.assistant.Messages(c.Request.Context(), tenantID(c), userID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve messages")
		return
	}
	respondOK(c, http.StatusOK, messages, "")
}
