package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertLevel is the severity of a stock alert
type AlertLevel string

const (
	AlertLevelRed    AlertLevel = "red"
	AlertLevelYellow AlertLevel = "yellow"
)

// AlertStatus represents the status of an alert
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
	AlertStatusIgnored  AlertStatus = "ignored"
)

// StockAlert is raised when a product falls below its minimum stock
type StockAlert struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string      `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	ProductID    uuid.UUID   `json:"productId" gorm:"type:uuid;not null;index"`
	Product      *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	WarehouseID  *uuid.UUID  `json:"warehouseId,omitempty" gorm:"type:uuid;index"`
	Level        AlertLevel  `json:"level" gorm:"type:varchar(10);not null"`
	Status       AlertStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CurrentQty   int         `json:"currentQty"`
	MinQty       int         `json:"minQty"`
	SuggestedQty int         `json:"suggestedQty"`
	ResolvedAt   *time.Time  `json:"resolvedAt,omitempty"`
	ResolvedBy   *string     `json:"resolvedBy,omitempty" gorm:"type:varchar(255)"`
	ResolveNote  *string     `json:"resolveNote,omitempty" gorm:"type:varchar(200)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SuggestionStatus tracks a replenishment suggestion
type SuggestionStatus string

const (
	SuggestionStatusPending  SuggestionStatus = "pending"
	SuggestionStatusAccepted SuggestionStatus = "accepted"
	SuggestionStatusRejected SuggestionStatus = "rejected"
	SuggestionStatusOrdered  SuggestionStatus = "ordered"
)

// ReplenishmentSuggestion proposes a purchase for a low product
type ReplenishmentSuggestion struct {
	ID              uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string           `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	ProductID       uuid.UUID        `json:"productId" gorm:"type:uuid;not null;index"`
	Product         *Product         `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	SupplierID      uuid.UUID        `json:"supplierId" gorm:"type:uuid;not null"`
	Supplier        *Partner         `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	CurrentStock    int              `json:"currentStock"`
	SuggestedQty    int              `json:"suggestedQty"`
	AvgDailySales   float64          `json:"avgDailySales" gorm:"type:decimal(10,2);default:0"`
	LeadTimeDays    int              `json:"leadTimeDays" gorm:"default:7"`
	SafetyStock     int              `json:"safetyStock" gorm:"default:0"`
	Status          SuggestionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ProcessedAt     *time.Time       `json:"processedAt,omitempty"`
	ProcessedBy     *string          `json:"processedBy,omitempty" gorm:"type:varchar(255)"`
	PurchaseOrderID *uuid.UUID       `json:"purchaseOrderId,omitempty" gorm:"type:uuid"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// AlertStatistics counts the active alerts by level
type AlertStatistics struct {
	Total  int64 `json:"total"`
	Red    int64 `json:"red"`
	Yellow int64 `json:"yellow"`
}

// ResolveAlertRequest closes an alert with a note
type ResolveAlertRequest struct {
	Note string `json:"note,omitempty" binding:"max=200"`
}

// AcceptSuggestionRequest picks the warehouse that receives the replenishment
type AcceptSuggestionRequest struct {
	WarehouseID uuid.UUID `json:"warehouseId" binding:"required"`
}
