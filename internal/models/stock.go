package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoveType is the kind of stock movement recorded in the inventory log
type MoveType string

const (
	MoveTypeInbound  MoveType = "inbound"
	MoveTypeOutbound MoveType = "outbound"
	MoveTypeCheck    MoveType = "check"
	MoveTypeReturn   MoveType = "return"
	// MoveTypeMove is written by transfers only and cannot be passed to an adjustment.
	MoveTypeMove MoveType = "move"
)

// Delta converts a positive quantity into a signed stock change.
// ok is false for move types an adjustment does not accept.
func (t MoveType) Delta(quantity int) (delta int, ok bool) {
	switch t {
	case MoveTypeInbound, MoveTypeReturn:
		return quantity, true
	case MoveTypeOutbound, MoveTypeCheck:
		return -quantity, true
	default:
		return 0, false
	}
}

// Warehouse represents a storage location
type Warehouse struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Name     string    `json:"name" gorm:"type:varchar(50);not null"`
	Location *string   `json:"location,omitempty" gorm:"type:varchar(200)"`
	Capacity int       `json:"capacity" gorm:"default:10000"`
	IsActive bool      `json:"isActive" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Stock is the on-hand quantity of one product in one warehouse.
// There is at most one row per (tenant, product, warehouse).
type Stock struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string     `json:"tenantId" gorm:"type:varchar(255);not null;uniqueIndex:idx_stock_tenant_product_warehouse"`
	ProductID     uuid.UUID  `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_product_warehouse"`
	WarehouseID   uuid.UUID  `json:"warehouseId" gorm:"type:uuid;not null;uniqueIndex:idx_stock_tenant_product_warehouse;index"`
	Quantity      int        `json:"quantity" gorm:"not null;default:0"`
	ShelfLocation *string    `json:"shelfLocation,omitempty" gorm:"type:varchar(50)"`
	LastCountedAt *time.Time `json:"lastCountedAt,omitempty"`

	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Stock) TableName() string {
	return "stocks"
}

// InventoryLog is an append-only audit row for one stock movement
type InventoryLog struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	TransactionCode string    `json:"transactionCode" gorm:"type:varchar(50);not null;index"`
	MoveType        MoveType  `json:"moveType" gorm:"type:varchar(20);not null;index"`
	ProductID       uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	WarehouseID     uuid.UUID `json:"warehouseId" gorm:"type:uuid;not null;index"`
	QtyChange       int       `json:"qtyChange" gorm:"not null"`
	BalanceAfter    int       `json:"balanceAfter" gorm:"not null"`
	Operator        string    `json:"operator" gorm:"type:varchar(255)"`
	Remark          string    `json:"remark,omitempty" gorm:"type:varchar(200)"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index"`

	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// ============================================================================
// Request Models
// ============================================================================

// CreateWarehouseRequest represents request to create a warehouse
type CreateWarehouseRequest struct {
	Name     string  `json:"name" binding:"required,max=50"`
	Location *string `json:"location,omitempty"`
	Capacity *int    `json:"capacity,omitempty" binding:"omitempty,gt=0"`
}

// UpdateWarehouseRequest represents request to update a warehouse
type UpdateWarehouseRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=50"`
	Location *string `json:"location,omitempty"`
	Capacity *int    `json:"capacity,omitempty" binding:"omitempty,gt=0"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// AdjustStockRequest represents a single stock adjustment
type AdjustStockRequest struct {
	ProductID   uuid.UUID `json:"productId" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouseId" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
	MoveType    MoveType  `json:"moveType" binding:"required"`
	Remark      string    `json:"remark,omitempty" binding:"max=200"`
}

// TransferStockRequest moves stock between two warehouses
type TransferStockRequest struct {
	ProductID       uuid.UUID `json:"productId" binding:"required"`
	FromWarehouseID uuid.UUID `json:"fromWarehouseId" binding:"required"`
	ToWarehouseID   uuid.UUID `json:"toWarehouseId" binding:"required"`
	Quantity        int       `json:"quantity" binding:"required"`
	Remark          string    `json:"remark,omitempty" binding:"max=200"`
}

// StockFilter narrows stock listings
type StockFilter struct {
	ListParams
	WarehouseID *uuid.UUID
	ProductID   *uuid.UUID
	LowOnly     bool
}

// InventoryLogFilter narrows inventory log listings
type InventoryLogFilter struct {
	ListParams
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	MoveType    MoveType
	From        *time.Time
	To          *time.Time
}

// AdjustmentResult is returned by a successful stock mutation
type AdjustmentResult struct {
	TransactionCode string `json:"transactionCode"`
	BalanceBefore   int    `json:"balanceBefore"`
	BalanceAfter    int    `json:"balanceAfter"`
	QtyChange       int    `json:"qtyChange"`
}
