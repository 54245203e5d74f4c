package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDone      OrderStatus = "done"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusDone},
}

// CanTransitionTo reports whether the order lifecycle allows moving to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsRevenue reports whether orders in this status count as sales
func (s OrderStatus) IsRevenue() bool {
	return s == OrderStatusPaid || s == OrderStatusShipped || s == OrderStatusDone
}

// RevenueStatuses lists the statuses counted as sales
var RevenueStatuses = []OrderStatus{OrderStatusPaid, OrderStatusShipped, OrderStatusDone}

// Order is a sales order
type Order struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string      `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	OrderNo      string      `json:"orderNo" gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID   uuid.UUID   `json:"customerId" gorm:"type:uuid;not null;index"`
	Customer     *Partner    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	SellerID     string      `json:"sellerId" gorm:"type:varchar(255)"`
	TotalAmount  float64     `json:"totalAmount" gorm:"type:decimal(12,2);default:0"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	WarehouseID  *uuid.UUID  `json:"warehouseId,omitempty" gorm:"type:uuid"`
	Remark       *string     `json:"remark,omitempty" gorm:"type:text"`
	CancelReason *string     `json:"cancelReason,omitempty" gorm:"type:text"`
	ShippedAt    *time.Time  `json:"shippedAt,omitempty"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// OrderItem is one line of a sales order with its price snapshot
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	OrderID   uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(12,2);not null"`
	Subtotal  float64   `json:"subtotal" gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ============================================================================
// Request Models
// ============================================================================

// OrderItemInput is a requested order line
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice,omitempty"`
}

// CreateOrderRequest represents request to create a sales order
type CreateOrderRequest struct {
	CustomerID uuid.UUID        `json:"customerId" binding:"required"`
	Items      []OrderItemInput `json:"items" binding:"required,min=1"`
	Status     OrderStatus      `json:"status,omitempty" binding:"omitempty,oneof=pending paid"`
	Remark     *string          `json:"remark,omitempty"`
}

// UpdateOrderStatusRequest moves an order to a new status
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=pending paid shipped done cancelled"`
}

// ShipOrderRequest ships an order from one warehouse
type ShipOrderRequest struct {
	WarehouseID uuid.UUID `json:"warehouseId" binding:"required"`
}

// OrderFilter narrows order listings
type OrderFilter struct {
	ListParams
	Status     OrderStatus
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
