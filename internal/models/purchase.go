package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "approved"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ordered"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "partial"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// CanReceive reports whether goods can be booked against the order
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved || s == PurchaseOrderStatusOrdered || s == PurchaseOrderStatusPartial
}

// PurchaseOrder represents an order placed with a supplier
type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string              `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	PONumber    string              `json:"poNumber" gorm:"column:po_number;type:varchar(50);not null;uniqueIndex"`
	SupplierID  uuid.UUID           `json:"supplierId" gorm:"type:uuid;not null;index"`
	Supplier    *Partner            `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	WarehouseID uuid.UUID           `json:"warehouseId" gorm:"type:uuid;not null;index"`
	Warehouse   *Warehouse          `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
	TotalAmount float64             `json:"totalAmount" gorm:"type:decimal(12,2);default:0"`
	Status      PurchaseOrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`

	// Workflow
	CreatedBy         string     `json:"createdBy" gorm:"type:varchar(255)"`
	SubmittedAt       *time.Time `json:"submittedAt,omitempty"`
	SubmittedBy       *string    `json:"submittedBy,omitempty" gorm:"type:varchar(255)"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy        *string    `json:"approvedBy,omitempty" gorm:"type:varchar(255)"`
	ExpectedDate      *time.Time `json:"expectedDate,omitempty"`
	ActualReceiveDate *time.Time `json:"actualReceiveDate,omitempty"`
	Remark            *string    `json:"remark,omitempty" gorm:"type:text"`

	Items []PurchaseOrderItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReceivedAmount values the goods received so far
func (po *PurchaseOrder) ReceivedAmount() float64 {
	total := 0.0
	for _, item := range po.Items {
		total += float64(item.ReceivedQty) * item.UnitPrice
	}
	return total
}

// ReceiveProgress is the received share of ordered quantity in percent
func (po *PurchaseOrder) ReceiveProgress() float64 {
	ordered, received := 0, 0
	for _, item := range po.Items {
		ordered += item.Quantity
		received += item.ReceivedQty
	}
	if ordered == 0 {
		return 0
	}
	return round1(float64(received) / float64(ordered) * 100)
}

// FullyReceived reports whether every line has been received in full
func (po *PurchaseOrder) FullyReceived() bool {
	for _, item := range po.Items {
		if item.PendingQty() > 0 {
			return false
		}
	}
	return true
}

func (po PurchaseOrder) MarshalJSON() ([]byte, error) {
	type alias PurchaseOrder
	return json.Marshal(struct {
		alias
		ReceivedAmount  float64 `json:"receivedAmount"`
		ReceiveProgress float64 `json:"receiveProgress"`
	}{alias(po), po.ReceivedAmount(), po.ReceiveProgress()})
}

// PurchaseOrderItem is one line of a purchase order
type PurchaseOrderItem struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID        string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	PurchaseOrderID uuid.UUID `json:"purchaseOrderId" gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	Product         *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	UnitPrice       float64   `json:"unitPrice" gorm:"type:decimal(12,2);not null"`
	ReceivedQty     int       `json:"receivedQty" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PendingQty is the quantity still expected from the supplier
func (i *PurchaseOrderItem) PendingQty() int {
	if p := i.Quantity - i.ReceivedQty; p > 0 {
		return p
	}
	return 0
}

func (i PurchaseOrderItem) MarshalJSON() ([]byte, error) {
	type alias PurchaseOrderItem
	return json.Marshal(struct {
		alias
		PendingQty int `json:"pendingQty"`
	}{alias(i), i.PendingQty()})
}

// PriceHistory records a supplier's quoted price for a product
type PriceHistory struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	ProductID     uuid.UUID `json:"productId" gorm:"type:uuid;not null;index:idx_price_history_product_supplier"`
	SupplierID    uuid.UUID `json:"supplierId" gorm:"type:uuid;not null;index:idx_price_history_product_supplier"`
	Price         float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	EffectiveDate time.Time `json:"effectiveDate" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}

// SupplierPerformance accumulates delivery statistics per supplier
type SupplierPerformance struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string     `json:"tenantId" gorm:"type:varchar(255);not null;uniqueIndex:idx_supplier_performance"`
	SupplierID    uuid.UUID  `json:"supplierId" gorm:"type:uuid;not null;uniqueIndex:idx_supplier_performance"`
	Supplier      *Partner   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	TotalOrders   int        `json:"totalOrders" gorm:"default:0"`
	OnTimeOrders  int        `json:"onTimeOrders" gorm:"default:0"`
	QualityPassed int        `json:"qualityPassed" gorm:"default:0"`
	TotalAmount   float64    `json:"totalAmount" gorm:"type:decimal(14,2);default:0"`
	LastOrderDate *time.Time `json:"lastOrderDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (SupplierPerformance) TableName() string {
	return "supplier_performance"
}

// OnTimeRate is 100 until the supplier has delivered an order
func (p *SupplierPerformance) OnTimeRate() float64 {
	if p.TotalOrders == 0 {
		return 100
	}
	return round1(float64(p.OnTimeOrders) / float64(p.TotalOrders) * 100)
}

func (p *SupplierPerformance) QualityRate() float64 {
	if p.TotalOrders == 0 {
		return 100
	}
	return round1(float64(p.QualityPassed) / float64(p.TotalOrders) * 100)
}

func (p SupplierPerformance) MarshalJSON() ([]byte, error) {
	type alias SupplierPerformance
	return json.Marshal(struct {
		alias
		OnTimeRate  float64 `json:"onTimeRate"`
		QualityRate float64 `json:"qualityRate"`
	}{alias(p), p.OnTimeRate(), p.QualityRate()})
}

// ============================================================================
// Request Models
// ============================================================================

// PurchaseItemInput is a requested purchase order line
type PurchaseItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	UnitPrice *float64  `json:"unitPrice,omitempty" binding:"omitempty,gte=0"`
}

// CreatePurchaseOrderRequest represents request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID           `json:"supplierId" binding:"required"`
	WarehouseID  uuid.UUID           `json:"warehouseId" binding:"required"`
	Items        []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
	ExpectedDate *time.Time          `json:"expectedDate,omitempty"`
	Remark       *string             `json:"remark,omitempty"`
}

// ApprovePurchaseOrderRequest approves or rejects a submitted order
type ApprovePurchaseOrderRequest struct {
	Approved bool   `json:"approved"`
	Remark   string `json:"remark,omitempty"`
}

// ReceiveLine books received goods against an order line
type ReceiveLine struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	Quantity int       `json:"quantity"`
}

// ReceivePurchaseOrderRequest represents request to receive goods
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveLine `json:"items" binding:"required,min=1"`
}

// PurchaseOrderFilter narrows purchase order listings
type PurchaseOrderFilter struct {
	ListParams
	Status     PurchaseOrderStatus
	SupplierID *uuid.UUID
}
