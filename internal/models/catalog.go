package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartnerType distinguishes customers from suppliers
type PartnerType string

const (
	PartnerTypeCustomer PartnerType = "customer"
	PartnerTypeSupplier PartnerType = "supplier"
)

func (t PartnerType) Valid() bool {
	return t == PartnerTypeCustomer || t == PartnerTypeSupplier
}

// Category groups products
type Category struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_tenant_category_name"`
	Name     string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_tenant_category_name"`
	Icon     *string   `json:"icon,omitempty" gorm:"type:varchar(50)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Tag is a free-form product label with a display color
type Tag struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Name     string    `json:"name" gorm:"type:varchar(50);not null"`
	Color    string    `json:"color" gorm:"type:varchar(20);default:'#1890ff'"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Partner is a customer or supplier
type Partner struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string         `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Type          PartnerType    `json:"type" gorm:"type:varchar(20);not null;index"`
	ContactPerson *string        `json:"contactPerson,omitempty" gorm:"type:varchar(50)"`
	Phone         *string        `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Email         *string        `json:"email,omitempty" gorm:"type:varchar(100)"`
	Address       *string        `json:"address,omitempty" gorm:"type:varchar(200)"`
	CreditScore   int            `json:"creditScore" gorm:"default:100"`
	Tags          pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Product represents a stock keeping unit
type Product struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string         `json:"tenantId" gorm:"type:varchar(255);not null;index;uniqueIndex:idx_tenant_product_sku"`
	SKU         string         `json:"sku" gorm:"column:sku;type:varchar(50);not null;uniqueIndex:idx_tenant_product_sku"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null;index"`
	Unit        string         `json:"unit" gorm:"type:varchar(20);default:'pcs'"`
	Description *string        `json:"description,omitempty" gorm:"type:text"`
	AISummary   *string        `json:"aiSummary,omitempty" gorm:"column:ai_summary;type:text"`
	Specs       datatypes.JSON `json:"specs,omitempty" gorm:"type:jsonb"`
	Tags        pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`

	// Pricing
	Price float64 `json:"price" gorm:"type:decimal(12,2);default:0"`
	Cost  float64 `json:"cost" gorm:"type:decimal(12,2);default:0"`

	// Stock settings
	MinStock int `json:"minStock" gorm:"default:10"`
	MaxStock int `json:"maxStock" gorm:"default:1000"`

	CategoryID *uuid.UUID `json:"categoryId,omitempty" gorm:"type:uuid;index"`
	Category   *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SupplierID *uuid.UUID `json:"supplierId,omitempty" gorm:"type:uuid;index"`
	Supplier   *Partner   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`

	Stocks     []Stock `json:"stocks,omitempty" gorm:"foreignKey:ProductID"`
	StockTotal int     `json:"totalStock" gorm:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TotalStock sums the product's stock across warehouses
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Stocks {
		total += s.Quantity
	}
	return total
}

// EffectiveMinStock treats an unset minimum as 10
func (p *Product) EffectiveMinStock() int {
	if p.MinStock <= 0 {
		return 10
	}
	return p.MinStock
}

// AfterFind fills the computed total once stocks are preloaded
func (p *Product) AfterFind(tx *gorm.DB) error {
	if p.Stocks != nil {
		p.StockTotal = p.TotalStock()
	}
	return nil
}

// ============================================================================
// Request Models
// ============================================================================

// CreateProductRequest represents request to create a product
type CreateProductRequest struct {
	SKU         string                 `json:"sku" binding:"required,max=50"`
	Name        string                 `json:"name" binding:"required,max=100"`
	Unit        string                 `json:"unit,omitempty"`
	Description *string                `json:"description,omitempty"`
	Specs       map[string]interface{} `json:"specs,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Price       float64                `json:"price" binding:"gte=0"`
	Cost        float64                `json:"cost" binding:"gte=0"`
	MinStock    *int                   `json:"minStock,omitempty" binding:"omitempty,gte=0"`
	MaxStock    *int                   `json:"maxStock,omitempty" binding:"omitempty,gte=0"`
	CategoryID  *uuid.UUID             `json:"categoryId,omitempty"`
	SupplierID  *uuid.UUID             `json:"supplierId,omitempty"`
}

// UpdateProductRequest represents request to update a product
type UpdateProductRequest struct {
	Name        *string                `json:"name,omitempty" binding:"omitempty,max=100"`
	Unit        *string                `json:"unit,omitempty"`
	Description *string                `json:"description,omitempty"`
	AISummary   *string                `json:"aiSummary,omitempty"`
	Specs       map[string]interface{} `json:"specs,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Price       *float64               `json:"price,omitempty" binding:"omitempty,gte=0"`
	Cost        *float64               `json:"cost,omitempty" binding:"omitempty,gte=0"`
	MinStock    *int                   `json:"minStock,omitempty" binding:"omitempty,gte=0"`
	MaxStock    *int                   `json:"maxStock,omitempty" binding:"omitempty,gte=0"`
	CategoryID  *uuid.UUID             `json:"categoryId,omitempty"`
	SupplierID  *uuid.UUID             `json:"supplierId,omitempty"`
}

// ProductFilter narrows product listings
type ProductFilter struct {
	ListParams
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// CreateCategoryRequest represents request to create a category
type CreateCategoryRequest struct {
	Name string  `json:"name" binding:"required,max=100"`
	Icon *string `json:"icon,omitempty"`
}

// CreatePartnerRequest represents request to create a partner
type CreatePartnerRequest struct {
	Name          string      `json:"name" binding:"required,max=100"`
	Type          PartnerType `json:"type" binding:"required,oneof=customer supplier"`
	ContactPerson *string     `json:"contactPerson,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	Email         *string     `json:"email,omitempty" binding:"omitempty,email"`
	Address       *string     `json:"address,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	CreditLimit   *float64    `json:"creditLimit,omitempty" binding:"omitempty,gte=0"`
}

// UpdatePartnerRequest represents request to update a partner
type UpdatePartnerRequest struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	ContactPerson *string  `json:"contactPerson,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Email         *string  `json:"email,omitempty" binding:"omitempty,email"`
	Address       *string  `json:"address,omitempty"`
	CreditScore   *int     `json:"creditScore,omitempty" binding:"omitempty,gte=0,lte=100"`
	Tags          []string `json:"tags,omitempty"`
}

// PartnerFilter narrows partner listings
type PartnerFilter struct {
	ListParams
	Type PartnerType
}
