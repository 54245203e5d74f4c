package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SalesRepositoryInterface persists sales orders
type SalesRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo SalesRepositoryInterface) error) error
	Stock() StockRepositoryInterface

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error)
	GetOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, int64, error)

	// AvgDailySales is the average units sold per day over the last days
	AvgDailySales(ctx context.Context, tenantID string, productID uuid.UUID, days int) (float64, error)
}

type SalesRepository struct {
	db    *gorm.DB
	cache *Cache
}

var _ SalesRepositoryInterface = (*SalesRepository)(nil)

func NewSalesRepository(db *gorm.DB, c *Cache) *SalesRepository {
	return &SalesRepository{db: db, cache: c}
}

func (r *SalesRepository) WithTransaction(ctx context.Context, fn func(txRepo SalesRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SalesRepository{db: tx, cache: r.cache})
	})
}

func (r *SalesRepository) Stock() StockRepositoryInterface {
	return &StockRepository{db: r.db, cache: r.cache}
}

// CreateOrder inserts the order together with its items
func (r *SalesRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return mapError(r.db.WithContext(ctx).Omit("Customer", "Items.Product").Create(order).Error)
}

func (r *SalesRepository) GetOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items").Preload("Items.Product").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row so status changes serialize
func (r *SalesRepository) GetOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error
	if err != nil {
		return nil, mapError(err)
	}
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("tenant_id = ? AND order_id = ?", tenantID, id).
		Find(&order.Items).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *SalesRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now()
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error)
}

// ListOrders retrieves orders newest first
func (r *SalesRepository) ListOrders(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_no) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Customer").Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

// AvgDailySales is the average units sold per day over the last days, counting revenue orders only
func (r *SalesRepository) AvgDailySales(ctx context.Context, tenantID string, productID uuid.UUID, days int) (float64, error) {
	if days <= 0 {
		return 0, nil
	}
	var sold int64
	since := time.Now().AddDate(0, 0, -days)
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Where("order_items.tenant_id = ? AND order_items.product_id = ?", tenantID, productID).
		Where("orders.status IN ? AND orders.created_at >= ?", models.RevenueStatuses, since).
		Scan(&sold).Error
	if err != nil {
		return 0, err
	}
	return float64(sold) / float64(days), nil
}
