package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"gorm.io/gorm"
)

// ReportRepositoryInterface runs the aggregate queries behind reports and the dashboard
type ReportRepositoryInterface interface {
	SalesTotals(ctx context.Context, tenantID string, from, to time.Time) (*models.SalesTotals, error)
	SalesSeries(ctx context.Context, tenantID string, from, to time.Time, unit string) ([]models.SalesPoint, error)
	TopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.ProductSales, error)
	TopCustomers(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.CustomerSales, error)
	InventorySummary(ctx context.Context, tenantID string) (*models.InventorySummary, error)
	MovementSummary(ctx context.Context, tenantID string, from, to time.Time) ([]models.MovementSummary, error)
	CountOrders(ctx context.Context, tenantID string, status models.OrderStatus) (int64, error)
	ReceivablesOutstanding(ctx context.Context, tenantID string) (float64, error)
	CountActiveAlerts(ctx context.Context, tenantID string) (int64, error)
}

type ReportRepository struct {
	db *gorm.DB
}

var _ ReportRepositoryInterface = (*ReportRepository)(nil)

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) revenueOrders(ctx context.Context, tenantID string, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("orders.tenant_id = ? AND orders.status IN ? AND orders.created_at >= ? AND orders.created_at < ?",
			tenantID, models.RevenueStatuses, from, to)
}

// SalesTotals sums revenue orders created in [from, to)
func (r *ReportRepository) SalesTotals(ctx context.Context, tenantID string, from, to time.Time) (*models.SalesTotals, error) {
	var totals models.SalesTotals
	err := r.revenueOrders(ctx, tenantID, from, to).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS amount").
		Scan(&totals).Error
	return &totals, err
}

// SalesSeries buckets revenue orders by unit, "hour" or "day"
func (r *ReportRepository) SalesSeries(ctx context.Context, tenantID string, from, to time.Time, unit string) ([]models.SalesPoint, error) {
	format := "YYYY-MM-DD"
	if unit == "hour" {
		format = "HH24"
	}
	var points []models.SalesPoint
	err := r.revenueOrders(ctx, tenantID, from, to).
		Select("TO_CHAR(created_at, ?) AS bucket, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS amount", format).
		Group("bucket").
		Order("bucket ASC").
		Scan(&points).Error
	return points, err
}

func (r *ReportRepository) TopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.ProductSales, error) {
	var rows []models.ProductSales
	err := r.revenueOrders(ctx, tenantID, from, to).
		Select("products.id::text AS product_id, products.sku, products.name, " +
			"SUM(order_items.quantity) AS quantity, SUM(order_items.subtotal) AS amount").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("products.id, products.sku, products.name").
		Order("amount DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) TopCustomers(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.CustomerSales, error) {
	var rows []models.CustomerSales
	err := r.revenueOrders(ctx, tenantID, from, to).
		Select("partners.id::text AS customer_id, partners.name, COUNT(orders.id) AS orders, SUM(orders.total_amount) AS amount").
		Joins("JOIN partners ON partners.id = orders.customer_id").
		Group("partners.id, partners.name").
		Order("amount DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// InventorySummary values stock at cost and counts products below their minimum
func (r *ReportRepository) InventorySummary(ctx context.Context, tenantID string) (*models.InventorySummary, error) {
	var summary models.InventorySummary
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&summary.TotalProducts).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Table("stocks").
		Select("COALESCE(SUM(stocks.quantity), 0) AS total_quantity, COALESCE(SUM(stocks.quantity * products.cost), 0) AS stock_value").
		Joins("JOIN products ON products.id = stocks.product_id AND products.deleted_at IS NULL").
		Where("stocks.tenant_id = ?", tenantID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM products p
		LEFT JOIN (SELECT product_id, SUM(quantity) AS qty FROM stocks WHERE tenant_id = ? GROUP BY product_id) s
		  ON s.product_id = p.id
		WHERE p.tenant_id = ? AND p.deleted_at IS NULL
		  AND COALESCE(s.qty, 0) < COALESCE(NULLIF(p.min_stock, 0), 10)`, tenantID, tenantID).
		Scan(&summary.LowStockCount).Error
	return &summary, err
}

// MovementSummary counts log rows and moved quantity per move type in [from, to)
func (r *ReportRepository) MovementSummary(ctx context.Context, tenantID string, from, to time.Time) ([]models.MovementSummary, error) {
	var rows []models.MovementSummary
	err := r.db.WithContext(ctx).Model(&models.InventoryLog{}).
		Select("move_type, COUNT(*) AS count, COALESCE(SUM(ABS(qty_change)), 0) AS quantity").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to).
		Group("move_type").
		Order("move_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) CountOrders(ctx context.Context, tenantID string, status models.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error
	return count, err
}

func (r *ReportRepository) ReceivablesOutstanding(ctx context.Context, tenantID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Receivable{}).
		Select("COALESCE(SUM(total_amount - paid_amount), 0)").
		Where("tenant_id = ? AND status NOT IN ?", tenantID,
			[]models.ReceivableStatus{models.ReceivableStatusPaid, models.ReceivableStatusBadDebt}).
		Scan(&total).Error
	return total, err
}

func (r *ReportRepository) CountActiveAlerts(ctx context.Context, tenantID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockAlert{}).
		Where("tenant_id = ? AND status = ?", tenantID, models.AlertStatusActive).
		Count(&count).Error
	return count, err
}
