package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StocktakeType is the scope of a count
type StocktakeType string

const (
	StocktakeTypeFull    StocktakeType = "full"
	StocktakeTypePartial StocktakeType = "partial"
	StocktakeTypeCycle   StocktakeType = "cycle"
)

// StocktakeStatus tracks a count through its lifecycle
type StocktakeStatus string

const (
	StocktakeStatusDraft      StocktakeStatus = "draft"
	StocktakeStatusInProgress StocktakeStatus = "in_progress"
	StocktakeStatusCompleted  StocktakeStatus = "completed"
	StocktakeStatusApproved   StocktakeStatus = "approved"
	StocktakeStatusCancelled  StocktakeStatus = "cancelled"
)

// VarianceType classifies the difference between counted and recorded stock
type VarianceType string

const (
	VarianceSurplus VarianceType = "surplus"
	VarianceLoss    VarianceType = "loss"
	VarianceMatch   VarianceType = "match"
)

// Stocktake is a physical count of one warehouse
type Stocktake struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	TakeNo      string          `json:"takeNo" gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID uuid.UUID       `json:"warehouseId" gorm:"type:uuid;not null;index"`
	Warehouse   *Warehouse      `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	Type        StocktakeType   `json:"type" gorm:"type:varchar(20);not null;default:'full'"`
	Status      StocktakeStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	ProductIDs  pq.StringArray  `json:"productIds,omitempty" gorm:"type:text[]"`

	PlannedDate *time.Time `json:"plannedDate,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	CreatedBy  string     `json:"createdBy" gorm:"type:varchar(255)"`
	ApprovedBy *string    `json:"approvedBy,omitempty" gorm:"type:varchar(255)"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`

	TotalItems    int     `json:"totalItems" gorm:"default:0"`
	CountedItems  int     `json:"countedItems" gorm:"default:0"`
	VarianceItems int     `json:"varianceItems" gorm:"default:0"`
	Remark        *string `json:"remark,omitempty" gorm:"type:text"`

	Items []StocktakeItem `json:"items,omitempty" gorm:"foreignKey:StocktakeID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Progress is the counted share of items in percent, one decimal
func (s *Stocktake) Progress() float64 {
	if s.TotalItems == 0 {
		return 0
	}
	return round1(float64(s.CountedItems) / float64(s.TotalItems) * 100)
}

// IsOpen reports whether the count can still change
func (s *Stocktake) IsOpen() bool {
	return s.Status == StocktakeStatusDraft || s.Status == StocktakeStatusInProgress
}

func (s Stocktake) MarshalJSON() ([]byte, error) {
	type alias Stocktake
	return json.Marshal(struct {
		alias
		Progress float64 `json:"progress"`
	}{alias(s), s.Progress()})
}

// StocktakeItem is one product line of a count
type StocktakeItem struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string     `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	StocktakeID   uuid.UUID  `json:"stocktakeId" gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID  `json:"productId" gorm:"type:uuid;not null;index"`
	Product       *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	SystemQty     int        `json:"systemQty" gorm:"not null;default:0"`
	ActualQty     *int       `json:"actualQty,omitempty"`
	UnitCost      float64    `json:"unitCost" gorm:"type:decimal(12,2);default:0"`
	ShelfLocation *string    `json:"shelfLocation,omitempty" gorm:"type:varchar(50)"`
	CountedAt     *time.Time `json:"countedAt,omitempty"`
	CountedBy     *string    `json:"countedBy,omitempty" gorm:"type:varchar(255)"`
	Confirmed     bool       `json:"confirmed" gorm:"default:false"`
	Remark        *string    `json:"remark,omitempty" gorm:"type:varchar(200)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsCounted reports whether an actual quantity has been entered
func (i *StocktakeItem) IsCounted() bool {
	return i.ActualQty != nil
}

// Variance is actual minus system quantity, 0 until counted
func (i *StocktakeItem) Variance() int {
	if i.ActualQty == nil {
		return 0
	}
	return *i.ActualQty - i.SystemQty
}

func (i *StocktakeItem) VarianceType() VarianceType {
	switch v := i.Variance(); {
	case v > 0:
		return VarianceSurplus
	case v < 0:
		return VarianceLoss
	default:
		return VarianceMatch
	}
}

func (i *StocktakeItem) VarianceValue() float64 {
	return float64(i.Variance()) * i.UnitCost
}

func (i StocktakeItem) MarshalJSON() ([]byte, error) {
	type alias StocktakeItem
	return json.Marshal(struct {
		alias
		Variance      int          `json:"variance"`
		VarianceType  VarianceType `json:"varianceType"`
		VarianceValue float64      `json:"varianceValue"`
	}{alias(i), i.Variance(), i.VarianceType(), i.VarianceValue()})
}

// StocktakeHistory records each lifecycle action on a count
type StocktakeHistory struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string         `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	StocktakeID uuid.UUID      `json:"stocktakeId" gorm:"type:uuid;not null;index"`
	Action      string         `json:"action" gorm:"type:varchar(50);not null"`
	Operator    string         `json:"operator" gorm:"type:varchar(255)"`
	Details     datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (StocktakeHistory) TableName() string {
	return "stocktake_history"
}

// VarianceSummary aggregates the outcome of a count
type VarianceSummary struct {
	TotalItems      int     `json:"totalItems"`
	CountedItems    int     `json:"countedItems"`
	VarianceItems   int     `json:"varianceItems"`
	SurplusItems    int     `json:"surplusItems"`
	LossItems       int     `json:"lossItems"`
	SurplusQuantity int     `json:"surplusQuantity"`
	LossQuantity    int     `json:"lossQuantity"`
	SurplusValue    float64 `json:"surplusValue"`
	LossValue       float64 `json:"lossValue"`
	NetValue        float64 `json:"netValue"`
	Progress        float64 `json:"progress"`
}

// ============================================================================
// Request Models
// ============================================================================

// CreateStocktakeRequest represents request to create a count
type CreateStocktakeRequest struct {
	WarehouseID uuid.UUID     `json:"warehouseId" binding:"required"`
	Type        StocktakeType `json:"type" binding:"required,oneof=full partial cycle"`
	ProductIDs  []uuid.UUID   `json:"productIds,omitempty"`
	PlannedDate *time.Time    `json:"plannedDate,omitempty"`
	Remark      *string       `json:"remark,omitempty"`
}

// InputCountRequest records the counted quantity of an item
type InputCountRequest struct {
	ItemID    uuid.UUID `json:"itemId" binding:"required"`
	ActualQty int       `json:"actualQty" binding:"gte=0"`
	Remark    *string   `json:"remark,omitempty"`
}

// BatchInputCountRequest records several counts at once
type BatchInputCountRequest struct {
	Items []InputCountRequest `json:"items" binding:"required,min=1,dive"`
}

// ConfirmItemRequest confirms a counted item
type ConfirmItemRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CompleteStocktakeRequest finishes a count
type CompleteStocktakeRequest struct {
	AutoAdjust bool `json:"autoAdjust"`
}

// CancelRequest carries a free-text reason
type CancelRequest struct {
	Reason string `json:"reason,omitempty" binding:"max=500"`
}

// StocktakeFilter narrows count listings
type StocktakeFilter struct {
	ListParams
	Status      StocktakeStatus
	WarehouseID *uuid.UUID
}
