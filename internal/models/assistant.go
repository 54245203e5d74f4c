package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatSession groups a user's conversation with the assistant
type ChatSession struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	UserID   string    `json:"userId" gorm:"type:varchar(255);not null;index"`
	Title    string    `json:"title" gorm:"type:varchar(200)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ChatMessage is one turn of a chat session
type ChatMessage struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID         string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	SessionID        uuid.UUID `json:"sessionId" gorm:"type:uuid;not null;index"`
	Role             string    `json:"role" gorm:"type:varchar(20);not null"`
	Content          string    `json:"content" gorm:"type:text"`
	PromptTokens     int       `json:"promptTokens" gorm:"default:0"`
	CompletionTokens int       `json:"completionTokens" gorm:"default:0"`
	Cost             float64   `json:"cost" gorm:"type:decimal(12,6);default:0"`
	Fallback         bool      `json:"fallback" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// Message is a role/content pair exchanged with the chat backend
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ============================================================================
// Request Models
// ============================================================================

// ChatRequest sends a message to the assistant
type ChatRequest struct {
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	Message   string     `json:"message" binding:"required,max=4000"`
	Context   []Message  `json:"context,omitempty"`
}

// ChatReply is the assistant's answer
type ChatReply struct {
	SessionID        uuid.UUID `json:"sessionId"`
	Content          string    `json:"content"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	Cost             float64   `json:"cost"`
	Fallback         bool      `json:"fallback"`
}

// EstimateCostRequest prices a conversation before it is sent
type EstimateCostRequest struct {
	Messages []Message `json:"messages" binding:"required,min=1"`
}

// CostEstimate splits a conversation into billed input and output tokens
type CostEstimate struct {
	TotalTokens   int     `json:"totalTokens"`
	InputTokens   int     `json:"inputTokens"`
	OutputTokens  int     `json:"outputTokens"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// TokenCountRequest asks for the token estimate of a text
type TokenCountRequest struct {
	Text string `json:"text" binding:"required"`
}
