package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocktakeRepositoryInterface persists counts, their items and history
type StocktakeRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo StocktakeRepositoryInterface) error) error
	// Stock returns the ledger repository bound to the same database handle
	Stock() StockRepositoryInterface

	Create(ctx context.Context, take *models.Stocktake) error
	Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error)
	GetForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error)
	Update(ctx context.Context, take *models.Stocktake) error
	List(ctx context.Context, tenantID string, filter models.StocktakeFilter) ([]models.Stocktake, int64, error)
	HasOpen(ctx context.Context, tenantID string, warehouseID uuid.UUID) (bool, error)

	CreateItems(ctx context.Context, items []models.StocktakeItem) error
	GetItem(ctx context.Context, tenantID string, stocktakeID, itemID uuid.UUID) (*models.StocktakeItem, error)
	UpdateItem(ctx context.Context, item *models.StocktakeItem) error
	CountCounted(ctx context.Context, tenantID string, stocktakeID uuid.UUID) (int64, error)

	AddHistory(ctx context.Context, entry *models.StocktakeHistory) error
	ListHistory(ctx context.Context, tenantID string, stocktakeID uuid.UUID) ([]models.StocktakeHistory, error)
}

type StocktakeRepository struct {
	db    *gorm.DB
	cache *Cache
}

var _ StocktakeRepositoryInterface = (*StocktakeRepository)(nil)

func NewStocktakeRepository(db *gorm.DB, c *Cache) *StocktakeRepository {
	return &StocktakeRepository{db: db, cache: c}
}

func (r *StocktakeRepository) WithTransaction(ctx context.Context, fn func(txRepo StocktakeRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&StocktakeRepository{db: tx, cache: r.cache})
	})
}

func (r *StocktakeRepository) Stock() StockRepositoryInterface {
	return &StockRepository{db: r.db, cache: r.cache}
}

func (r *StocktakeRepository) Create(ctx context.Context, take *models.Stocktake) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(take).Error)
}

// Get retrieves a count with its items and their products
func (r *StocktakeRepository) Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error) {
	var take models.Stocktake
	err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&take).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &take, nil
}

// GetForUpdate locks the count row and loads its items
func (r *StocktakeRepository) GetForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error) {
	var take models.Stocktake
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&take).Error
	if err != nil {
		return nil, mapError(err)
	}
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND stocktake_id = ?", tenantID, id).
		Order("created_at ASC").
		Find(&take.Items).Error
	if err != nil {
		return nil, err
	}
	return &take, nil
}

func (r *StocktakeRepository) Update(ctx context.Context, take *models.Stocktake) error {
	take.UpdatedAt = time.Now()
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Save(take).Error)
}

// List retrieves counts newest first
func (r *StocktakeRepository) List(ctx context.Context, tenantID string, filter models.StocktakeFilter) ([]models.Stocktake, int64, error) {
	var takes []models.Stocktake
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Stocktake{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(take_no) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Warehouse").
		Order("created_at DESC").
		Find(&takes).Error
	return takes, total, err
}

// HasOpen reports whether the warehouse has a draft or in-progress count
func (r *StocktakeRepository) HasOpen(ctx context.Context, tenantID string, warehouseID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Stocktake{}).
		Where("tenant_id = ? AND warehouse_id = ? AND status IN ?", tenantID, warehouseID,
			[]models.StocktakeStatus{models.StocktakeStatusDraft, models.StocktakeStatusInProgress}).
		Count(&count).Error
	return count > 0, err
}

func (r *StocktakeRepository) CreateItems(ctx context.Context, items []models.StocktakeItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(items, 200).Error
}

func (r *StocktakeRepository) GetItem(ctx context.Context, tenantID string, stocktakeID, itemID uuid.UUID) (*models.StocktakeItem, error) {
	var item models.StocktakeItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND stocktake_id = ? AND id = ?", tenantID, stocktakeID, itemID).
		First(&item).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *StocktakeRepository) UpdateItem(ctx context.Context, item *models.StocktakeItem) error {
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// CountCounted returns the number of items with an actual quantity
func (r *StocktakeRepository) CountCounted(ctx context.Context, tenantID string, stocktakeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StocktakeItem{}).
		Where("tenant_id = ? AND stocktake_id = ? AND actual_qty IS NOT NULL", tenantID, stocktakeID).
		Count(&count).Error
	return count, err
}

func (r *StocktakeRepository) AddHistory(ctx context.Context, entry *models.StocktakeHistory) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *StocktakeRepository) ListHistory(ctx context.Context, tenantID string, stocktakeID uuid.UUID) ([]models.StocktakeHistory, error) {
	var entries []models.StocktakeHistory
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND stocktake_id = ?", tenantID, stocktakeID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
