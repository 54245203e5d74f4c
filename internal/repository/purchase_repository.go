package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseRepositoryInterface persists purchase orders and supplier statistics
type PurchaseRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo PurchaseRepositoryInterface) error) error
	Stock() StockRepositoryInterface

	CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error)
	GetPurchaseOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	UpdatePurchaseOrderItem(ctx context.Context, item *models.PurchaseOrderItem) error
	ListPurchaseOrders(ctx context.Context, tenantID string, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int64, error)

	CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) error
	LatestPrice(ctx context.Context, tenantID string, productID, supplierID uuid.UUID) (*models.PriceHistory, error)
	ListPriceHistory(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.PriceHistory, error)

	GetPerformanceForUpdate(ctx context.Context, tenantID string, supplierID uuid.UUID) (*models.SupplierPerformance, error)
	SavePerformance(ctx context.Context, perf *models.SupplierPerformance) error
	ListPerformance(ctx context.Context, tenantID string) ([]models.SupplierPerformance, error)
}

type PurchaseRepository struct {
	db    *gorm.DB
	cache *Cache
}

var _ PurchaseRepositoryInterface = (*PurchaseRepository)(nil)

func NewPurchaseRepository(db *gorm.DB, c *Cache) *PurchaseRepository {
	return &PurchaseRepository{db: db, cache: c}
}

func (r *PurchaseRepository) WithTransaction(ctx context.Context, fn func(txRepo PurchaseRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PurchaseRepository{db: tx, cache: r.cache})
	})
}

func (r *PurchaseRepository) Stock() StockRepositoryInterface {
	return &StockRepository{db: r.db, cache: r.cache}
}

// ========== Purchase Order Operations ==========

// CreatePurchaseOrder creates a purchase order with its items
func (r *PurchaseRepository) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	return mapError(r.db.WithContext(ctx).Omit("Supplier", "Warehouse", "Items.Product").Create(po).Error)
}

// GetPurchaseOrder retrieves a purchase order by ID
func (r *PurchaseRepository) GetPurchaseOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Warehouse").Preload("Items").Preload("Items.Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &po, nil
}

// GetPurchaseOrderForUpdate locks the order row and loads its items
func (r *PurchaseRepository) GetPurchaseOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&po).Error
	if err != nil {
		return nil, mapError(err)
	}
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND purchase_order_id = ?", tenantID, id).
		Order("created_at ASC").
		Find(&po.Items).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *PurchaseRepository) UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	po.UpdatedAt = time.Now()
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Save(po).Error)
}

func (r *PurchaseRepository) UpdatePurchaseOrderItem(ctx context.Context, item *models.PurchaseOrderItem) error {
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// ListPurchaseOrders retrieves purchase orders with filters
func (r *PurchaseRepository) ListPurchaseOrders(ctx context.Context, tenantID string, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int64, error) {
	var orders []models.PurchaseOrder
	var total int64
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(po_number) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Supplier").Preload("Warehouse").Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

// ========== Price History ==========

func (r *PurchaseRepository) CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LatestPrice returns the most recent price quoted by the supplier for the product
func (r *PurchaseRepository) LatestPrice(ctx context.Context, tenantID string, productID, supplierID uuid.UUID) (*models.PriceHistory, error) {
	var entry models.PriceHistory
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ? AND supplier_id = ?", tenantID, productID, supplierID).
		Order("effective_date DESC, created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &entry, nil
}

func (r *PurchaseRepository) ListPriceHistory(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.PriceHistory, error) {
	var entries []models.PriceHistory
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("effective_date DESC").
		Find(&entries).Error
	return entries, err
}

// ========== Supplier Performance ==========

// GetPerformanceForUpdate returns the supplier's statistics row locked, creating it when absent
func (r *PurchaseRepository) GetPerformanceForUpdate(ctx context.Context, tenantID string, supplierID uuid.UUID) (*models.SupplierPerformance, error) {
	now := time.Now()
	seed := models.SupplierPerformance{
		ID:         uuid.New(),
		TenantID:   tenantID,
		SupplierID: supplierID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var perf models.SupplierPerformance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND supplier_id = ?", tenantID, supplierID).
		First(&perf).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &perf, nil
}

func (r *PurchaseRepository) SavePerformance(ctx context.Context, perf *models.SupplierPerformance) error {
	perf.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(perf).Error
}

func (r *PurchaseRepository) ListPerformance(ctx context.Context, tenantID string) ([]models.SupplierPerformance, error) {
	var perfs []models.SupplierPerformance
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("tenant_id = ?", tenantID).
		Order("total_amount DESC").
		Find(&perfs).Error
	return perfs, err
}
