package repository

import (
	"context"
	"fmt"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepositoryInterface is the persistence contract of the inventory ledger
type StockRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo StockRepositoryInterface) error) error

	// Ledger
	LockStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error)
	SaveStock(ctx context.Context, stock *models.Stock) error
	CreateLog(ctx context.Context, log *models.InventoryLog) error
	GetStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error)
	ListStocks(ctx context.Context, tenantID string, filter models.StockFilter) ([]models.Stock, int64, error)
	WarehouseStocks(ctx context.Context, tenantID string, warehouseID uuid.UUID, productIDs []uuid.UUID, positiveOnly bool) ([]models.Stock, error)
	LeastRecentlyCounted(ctx context.Context, tenantID string, warehouseID uuid.UUID, limit int) ([]models.Stock, error)
	ListLogs(ctx context.Context, tenantID string, filter models.InventoryLogFilter) ([]models.InventoryLog, int64, error)
	InvalidateStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID)

	// Warehouses
	CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error
	GetWarehouse(ctx context.Context, tenantID string, id uuid.UUID) (*models.Warehouse, error)
	GetWarehouseByName(ctx context.Context, tenantID, name string) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context, tenantID string, params models.ListParams) ([]models.Warehouse, int64, error)
	UpdateWarehouse(ctx context.Context, warehouse *models.Warehouse) error
	DeleteWarehouse(ctx context.Context, tenantID string, id uuid.UUID) error
}

type StockRepository struct {
	db    *gorm.DB
	cache *Cache
}

var _ StockRepositoryInterface = (*StockRepository)(nil)

func NewStockRepository(db *gorm.DB, c *Cache) *StockRepository {
	return &StockRepository{db: db, cache: c}
}

// generateStockCacheKey creates a cache key for stock level lookups
func generateStockCacheKey(tenantID string, warehouseID, productID uuid.UUID) string {
	return fmt.Sprintf("stock:%s:%s:%s", tenantID, warehouseID.String(), productID.String())
}

// WithTransaction runs fn against a repository bound to one database transaction
func (r *StockRepository) WithTransaction(ctx context.Context, fn func(txRepo StockRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&StockRepository{db: tx, cache: r.cache})
	})
}

// ========== Ledger Operations ==========

// LockStock returns the stock row for (tenant, product, warehouse) locked FOR UPDATE.
// A missing row is inserted at zero first; the unique index makes concurrent inserts collapse to one row.
func (r *StockRepository) LockStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error) {
	now := time.Now()
	seed := models.Stock{
		ID:          uuid.New(),
		TenantID:    tenantID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure stock row: %w", err)
	}

	var stock models.Stock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND product_id = ? AND warehouse_id = ?", tenantID, productID, warehouseID).
		First(&stock).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &stock, nil
}

// SaveStock writes the quantity and count timestamp of a locked row
func (r *StockRepository) SaveStock(ctx context.Context, stock *models.Stock) error {
	stock.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(&models.Stock{}).
		Where("tenant_id = ? AND id = ?", stock.TenantID, stock.ID).
		Updates(map[string]interface{}{
			"quantity":        stock.Quantity,
			"shelf_location":  stock.ShelfLocation,
			"last_counted_at": stock.LastCountedAt,
			"updated_at":      stock.UpdatedAt,
		}).Error
}

// CreateLog appends an inventory log row. Rows are never updated afterwards.
func (r *StockRepository) CreateLog(ctx context.Context, log *models.InventoryLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// GetStock retrieves the stock level of a product at a warehouse with caching.
// A product never stocked in the warehouse reports quantity 0.
func (r *StockRepository) GetStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error) {
	cacheKey := generateStockCacheKey(tenantID, warehouseID, productID)

	var stock models.Stock
	if r.cache.GetJSON(ctx, cacheKey, &stock) {
		return &stock, nil
	}

	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ? AND product_id = ?", tenantID, warehouseID, productID).
		First(&stock).Error
	if err == gorm.ErrRecordNotFound {
		stock = models.Stock{TenantID: tenantID, ProductID: productID, WarehouseID: warehouseID}
	} else if err != nil {
		return nil, err
	}

	r.cache.SetJSON(ctx, cacheKey, stock, StockLevelCacheTTL)
	return &stock, nil
}

// ListStocks retrieves stock rows with product and warehouse preloaded
func (r *StockRepository) ListStocks(ctx context.Context, tenantID string, filter models.StockFilter) ([]models.Stock, int64, error) {
	var stocks []models.Stock
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Stock{}).Where("stocks.tenant_id = ?", tenantID)

	if filter.WarehouseID != nil {
		query = query.Where("stocks.warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ProductID != nil {
		query = query.Where("stocks.product_id = ?", *filter.ProductID)
	}
	if filter.LowOnly || filter.Search != "" {
		query = query.Joins("JOIN products ON products.id = stocks.product_id AND products.deleted_at IS NULL")
	}
	if filter.LowOnly {
		query = query.Where("stocks.quantity < COALESCE(NULLIF(products.min_stock, 0), 10)")
	}
	if filter.Search != "" {
		query = query.Where("(LOWER(products.name) LIKE ? OR LOWER(products.sku) LIKE ?)", likePattern(filter.Search), likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Product").Preload("Warehouse").
		Order("stocks.quantity ASC").
		Find(&stocks).Error
	return stocks, total, err
}

// WarehouseStocks lists the stock rows of one warehouse, optionally limited to products
func (r *StockRepository) WarehouseStocks(ctx context.Context, tenantID string, warehouseID uuid.UUID, productIDs []uuid.UUID, positiveOnly bool) ([]models.Stock, error) {
	var stocks []models.Stock
	query := r.db.WithContext(ctx).Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID)
	if len(productIDs) > 0 {
		query = query.Where("product_id IN ?", productIDs)
	}
	if positiveOnly {
		query = query.Where("quantity > 0")
	}
	err := query.Preload("Product").Find(&stocks).Error
	return stocks, err
}

// LeastRecentlyCounted returns the stock rows counted longest ago, never-counted rows first
func (r *StockRepository) LeastRecentlyCounted(ctx context.Context, tenantID string, warehouseID uuid.UUID, limit int) ([]models.Stock, error) {
	var stocks []models.Stock
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND warehouse_id = ?", tenantID, warehouseID).
		Order("last_counted_at ASC NULLS FIRST").
		Limit(limit).
		Preload("Product").
		Find(&stocks).Error
	return stocks, err
}

// ListLogs retrieves inventory logs newest first
func (r *StockRepository) ListLogs(ctx context.Context, tenantID string, filter models.InventoryLogFilter) ([]models.InventoryLog, int64, error) {
	var logs []models.InventoryLog
	var total int64
	query := r.db.WithContext(ctx).Model(&models.InventoryLog{}).Where("tenant_id = ?", tenantID)

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.MoveType != "" {
		query = query.Where("move_type = ?", filter.MoveType)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Product").Preload("Warehouse").
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}

// InvalidateStock invalidates all caches related to stock for a product
func (r *StockRepository) InvalidateStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) {
	r.cache.Delete(ctx, generateStockCacheKey(tenantID, warehouseID, productID))
	r.cache.DeletePattern(ctx, fmt.Sprintf("report:%s:*", tenantID))
	r.cache.DeletePattern(ctx, fmt.Sprintf("dashboard:%s:*", tenantID))
}

// ========== Warehouse Operations ==========

// CreateWarehouse creates a new warehouse
func (r *StockRepository) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	return mapError(r.db.WithContext(ctx).Create(warehouse).Error)
}

// GetWarehouse retrieves a warehouse by ID
func (r *StockRepository) GetWarehouse(ctx context.Context, tenantID string, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&warehouse).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &warehouse, nil
}

func (r *StockRepository) GetWarehouseByName(ctx context.Context, tenantID, name string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND name = ?", tenantID, name).First(&warehouse).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &warehouse, nil
}

// ListWarehouses retrieves all warehouses with pagination
func (r *StockRepository) ListWarehouses(ctx context.Context, tenantID string, params models.ListParams) ([]models.Warehouse, int64, error) {
	var warehouses []models.Warehouse
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Warehouse{}).Where("tenant_id = ?", tenantID)

	if params.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(params.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, params).Order("name ASC").Find(&warehouses).Error
	return warehouses, total, err
}

// UpdateWarehouse saves a modified warehouse
func (r *StockRepository) UpdateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	return mapError(r.db.WithContext(ctx).Save(warehouse).Error)
}

// DeleteWarehouse soft deletes a warehouse
func (r *StockRepository) DeleteWarehouse(ctx context.Context, tenantID string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Warehouse{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
