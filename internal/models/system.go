package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog records one mutating API call
type AuditLog struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string         `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	UserID    string         `json:"userId" gorm:"type:varchar(255);index"`
	Module    string         `json:"module" gorm:"type:varchar(50);index"`
	Action    string         `json:"action" gorm:"type:varchar(50)"`
	Target    string         `json:"target" gorm:"type:varchar(500)"`
	IPAddress string         `json:"ipAddress" gorm:"type:varchar(50)"`
	Details   datatypes.JSON `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
}

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	ListParams
	Module string
	UserID string
	From   *time.Time
	To     *time.Time
}

// DashboardStats is the landing-page summary
type DashboardStats struct {
	TodaySales             float64 `json:"todaySales"`
	TodayOrders            int64   `json:"todayOrders"`
	PendingOrders          int64   `json:"pendingOrders"`
	LowStockCount          int64   `json:"lowStockCount"`
	ActiveAlerts           int64   `json:"activeAlerts"`
	ReceivablesOutstanding float64 `json:"receivablesOutstanding"`
}

// AllModels lists every entity managed by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&Tag{},
		&Partner{},
		&Product{},
		&Warehouse{},
		&Stock{},
		&InventoryLog{},
		&Stocktake{},
		&StocktakeItem{},
		&StocktakeHistory{},
		&Order{},
		&OrderItem{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&PriceHistory{},
		&SupplierPerformance{},
		&CustomerCredit{},
		&Receivable{},
		&PaymentRecord{},
		&Statement{},
		&StockAlert{},
		&ReplenishmentSuggestion{},
		&Notification{},
		&ReportSubscription{},
		&ReportSnapshot{},
		&Article{},
		&Attachment{},
		&ChatSession{},
		&ChatMessage{},
		&AuditLog{},
	}
}
