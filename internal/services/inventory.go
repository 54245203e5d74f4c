package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"erp-service/internal/metrics"
	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventPublisher is satisfied by *events.Publisher
type EventPublisher interface {
	PublishStockAdjusted(ctx context.Context, tenantID string, product *models.Product, warehouseID uuid.UUID, previousStock, currentStock int, reason, adjustedBy string) error
	PublishLowStock(ctx context.Context, tenantID string, product *models.Product, currentStock int) error
	PublishOutOfStock(ctx context.Context, tenantID string, product *models.Product) error
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderShipped(ctx context.Context, order *models.Order) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason, cancelledBy string) error
	PublishPaymentCaptured(ctx context.Context, payment *models.PaymentRecord, receivable *models.Receivable) error
}

// AlertEvaluator re-evaluates the alert level of a product after its stock changed
type AlertEvaluator interface {
	EvaluateProduct(ctx context.Context, tenantID string, productID uuid.UUID) (bool, error)
}

// StockChange describes one committed stock mutation
type StockChange struct {
	Product     *models.Product
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	MoveType    models.MoveType
	Result      *models.AdjustmentResult
	Reason      string
}

// SetStockInput sets a stock row to an absolute quantity
type SetStockInput struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Target      int
	Code        string
	Remark      string
	// Counted stamps last_counted_at on the stock row
	Counted bool
}

// TransferResult is returned by TransferStock
type TransferResult struct {
	TransactionCode string                  `json:"transactionCode"`
	Source          models.AdjustmentResult `json:"source"`
	Destination     models.AdjustmentResult `json:"destination"`
}

type InventoryService struct {
	stockRepo repository.StockRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	publisher EventPublisher
	alerts    AlertEvaluator
	logger    *logrus.Entry
}

func NewInventoryService(stockRepo repository.StockRepositoryInterface, catalog repository.CatalogRepositoryInterface, publisher EventPublisher, logger *logrus.Logger) *InventoryService {
	return &InventoryService{
		stockRepo: stockRepo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger.WithField("component", "inventory"),
	}
}

// SetAlertEvaluator wires the alert service once it exists
func (s *InventoryService) SetAlertEvaluator(alerts AlertEvaluator) {
	s.alerts = alerts
}

// ApplyAdjustment runs the locked read-modify-write of one adjustment against txRepo.
// It must be called inside a transaction; an empty code draws a fresh transaction code.
func ApplyAdjustment(ctx context.Context, txRepo repository.StockRepositoryInterface, tenantID, operator, code string, req models.AdjustStockRequest) (*models.AdjustmentResult, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	delta, ok := req.MoveType.Delta(req.Quantity)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMoveType, req.MoveType)
	}

	stock, err := txRepo.LockStock(ctx, tenantID, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	before := stock.Quantity
	after := before + delta
	if after < 0 {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, before, req.Quantity)
	}

	stock.Quantity = after
	if err := txRepo.SaveStock(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to save stock: %w", err)
	}

	if code == "" {
		code = repository.GenerateTransactionCode()
	}
	entry := &models.InventoryLog{
		TenantID:        tenantID,
		TransactionCode: code,
		MoveType:        req.MoveType,
		ProductID:       req.ProductID,
		WarehouseID:     req.WarehouseID,
		QtyChange:       delta,
		BalanceAfter:    after,
		Operator:        operator,
		Remark:          req.Remark,
	}
	if err := txRepo.CreateLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to write inventory log: %w", err)
	}

	return &models.AdjustmentResult{
		TransactionCode: code,
		BalanceBefore:   before,
		BalanceAfter:    after,
		QtyChange:       delta,
	}, nil
}

// ApplySetStock sets a locked stock row to an absolute quantity inside a transaction.
// A check log carries the difference; no log is written when nothing changed.
func ApplySetStock(ctx context.Context, txRepo repository.StockRepositoryInterface, tenantID, operator string, in SetStockInput) (*models.AdjustmentResult, error) {
	if in.Target < 0 {
		return nil, ErrInvalidQuantity
	}

	stock, err := txRepo.LockStock(ctx, tenantID, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	before := stock.Quantity
	delta := in.Target - before
	if delta == 0 && !in.Counted {
		return &models.AdjustmentResult{TransactionCode: in.Code, BalanceBefore: before, BalanceAfter: before}, nil
	}

	stock.Quantity = in.Target
	if in.Counted {
		now := time.Now()
		stock.LastCountedAt = &now
	}
	if err := txRepo.SaveStock(ctx, stock); err != nil {
		return nil, fmt.Errorf("failed to save stock: %w", err)
	}

	code := in.Code
	if code == "" {
		code = repository.GenerateTransactionCode()
	}
	if delta != 0 {
		entry := &models.InventoryLog{
			TenantID:        tenantID,
			TransactionCode: code,
			MoveType:        models.MoveTypeCheck,
			ProductID:       in.ProductID,
			WarehouseID:     in.WarehouseID,
			QtyChange:       delta,
			BalanceAfter:    in.Target,
			Operator:        operator,
			Remark:          in.Remark,
		}
		if err := txRepo.CreateLog(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to write inventory log: %w", err)
		}
	}

	return &models.AdjustmentResult{
		TransactionCode: code,
		BalanceBefore:   before,
		BalanceAfter:    in.Target,
		QtyChange:       delta,
	}, nil
}

// ApplyMarkCounted stamps last_counted_at on a locked stock row without touching its quantity
func ApplyMarkCounted(ctx context.Context, txRepo repository.StockRepositoryInterface, tenantID string, productID, warehouseID uuid.UUID) error {
	stock, err := txRepo.LockStock(ctx, tenantID, productID, warehouseID)
	if err != nil {
		return err
	}
	now := time.Now()
	stock.LastCountedAt = &now
	if err := txRepo.SaveStock(ctx, stock); err != nil {
		return fmt.Errorf("failed to save stock: %w", err)
	}
	return nil
}

// AdjustStock applies one inbound/outbound/check/return movement
func (s *InventoryService) AdjustStock(ctx context.Context, tenantID, operator string, req models.AdjustStockRequest) (*models.AdjustmentResult, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, ok := req.MoveType.Delta(req.Quantity); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMoveType, req.MoveType)
	}

	product, err := s.catalog.GetProduct(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	if _, err := s.stockRepo.GetWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}

	var result *models.AdjustmentResult
	err = s.stockRepo.WithTransaction(ctx, func(txRepo repository.StockRepositoryInterface) error {
		var txErr error
		result, txErr = ApplyAdjustment(ctx, txRepo, tenantID, operator, "", req)
		return txErr
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordInsufficientStock()
		}
		return nil, err
	}

	s.Committed(ctx, tenantID, operator, StockChange{
		Product:     product,
		ProductID:   product.ID,
		WarehouseID: req.WarehouseID,
		MoveType:    req.MoveType,
		Result:      result,
		Reason:      req.Remark,
	})

	s.logger.WithFields(logrus.Fields{
		"tenantId":        tenantID,
		"productId":       req.ProductID,
		"warehouseId":     req.WarehouseID,
		"moveType":        req.MoveType,
		"transactionCode": result.TransactionCode,
		"balanceAfter":    result.BalanceAfter,
	}).Info("Stock adjusted")

	return result, nil
}

// TransferStock moves quantity between two warehouses in one transaction.
// Rows are locked in warehouse id order so concurrent opposite transfers cannot deadlock.
func (s *InventoryService) TransferStock(ctx context.Context, tenantID, operator string, req models.TransferStockRequest) (*TransferResult, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, ErrSameWarehouse
	}

	product, err := s.catalog.GetProduct(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}
	for _, id := range []uuid.UUID{req.FromWarehouseID, req.ToWarehouseID} {
		if _, err := s.stockRepo.GetWarehouse(ctx, tenantID, id); err != nil {
			return nil, fmt.Errorf("warehouse: %w", err)
		}
	}

	code := repository.GenerateTransactionCode()
	result := &TransferResult{TransactionCode: code}

	err = s.stockRepo.WithTransaction(ctx, func(txRepo repository.StockRepositoryInterface) error {
		first, second := req.FromWarehouseID, req.ToWarehouseID
		if second.String() < first.String() {
			first, second = second, first
		}
		locked := make(map[uuid.UUID]*models.Stock, 2)
		for _, id := range []uuid.UUID{first, second} {
			stock, err := txRepo.LockStock(ctx, tenantID, req.ProductID, id)
			if err != nil {
				return err
			}
			locked[id] = stock
		}

		source, dest := locked[req.FromWarehouseID], locked[req.ToWarehouseID]
		if source.Quantity < req.Quantity {
			return fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, source.Quantity, req.Quantity)
		}

		result.Source = models.AdjustmentResult{TransactionCode: code, BalanceBefore: source.Quantity, QtyChange: -req.Quantity}
		result.Destination = models.AdjustmentResult{TransactionCode: code, BalanceBefore: dest.Quantity, QtyChange: req.Quantity}
		source.Quantity -= req.Quantity
		dest.Quantity += req.Quantity
		result.Source.BalanceAfter = source.Quantity
		result.Destination.BalanceAfter = dest.Quantity

		for _, leg := range []struct {
			stock *models.Stock
			delta int
		}{{source, -req.Quantity}, {dest, req.Quantity}} {
			if err := txRepo.SaveStock(ctx, leg.stock); err != nil {
				return fmt.Errorf("failed to save stock: %w", err)
			}
			entry := &models.InventoryLog{
				TenantID:        tenantID,
				TransactionCode: code,
				MoveType:        models.MoveTypeMove,
				ProductID:       req.ProductID,
				WarehouseID:     leg.stock.WarehouseID,
				QtyChange:       leg.delta,
				BalanceAfter:    leg.stock.Quantity,
				Operator:        operator,
				Remark:          req.Remark,
			}
			if err := txRepo.CreateLog(ctx, entry); err != nil {
				return fmt.Errorf("failed to write inventory log: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordInsufficientStock()
		}
		return nil, err
	}

	s.Committed(ctx, tenantID, operator,
		StockChange{Product: product, ProductID: product.ID, WarehouseID: req.FromWarehouseID, MoveType: models.MoveTypeMove, Result: &result.Source, Reason: req.Remark},
		StockChange{Product: product, ProductID: product.ID, WarehouseID: req.ToWarehouseID, MoveType: models.MoveTypeMove, Result: &result.Destination, Reason: req.Remark},
	)
	return result, nil
}

// SetStock sets a product's quantity in a warehouse to an absolute value
func (s *InventoryService) SetStock(ctx context.Context, tenantID, operator string, in SetStockInput) (*models.AdjustmentResult, error) {
	if in.Target < 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.catalog.GetProduct(ctx, tenantID, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}

	var result *models.AdjustmentResult
	err = s.stockRepo.WithTransaction(ctx, func(txRepo repository.StockRepositoryInterface) error {
		var txErr error
		result, txErr = ApplySetStock(ctx, txRepo, tenantID, operator, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if result.QtyChange != 0 {
		s.Committed(ctx, tenantID, operator, StockChange{
			Product:     product,
			ProductID:   product.ID,
			WarehouseID: in.WarehouseID,
			MoveType:    models.MoveTypeCheck,
			Result:      result,
			Reason:      in.Remark,
		})
	}
	return result, nil
}

// Committed runs the post-commit side effects of stock mutations:
// cache invalidation, metrics, inventory.adjusted events and alert evaluation.
func (s *InventoryService) Committed(ctx context.Context, tenantID, operator string, changes ...StockChange) {
	evaluated := make(map[uuid.UUID]bool)
	for _, change := range changes {
		if change.Result == nil {
			continue
		}
		productID := change.ProductID
		if change.Product != nil {
			productID = change.Product.ID
		}

		s.stockRepo.InvalidateStock(ctx, tenantID, productID, change.WarehouseID)
		metrics.RecordAdjustment(string(change.MoveType))

		if s.publisher != nil && change.Product != nil {
			if err := s.publisher.PublishStockAdjusted(ctx, tenantID, change.Product, change.WarehouseID,
				change.Result.BalanceBefore, change.Result.BalanceAfter, change.Reason, operator); err != nil {
				s.logger.WithError(err).WithField("productId", productID).Warn("Failed to publish stock adjusted event")
			}
		}

		if s.alerts != nil && !evaluated[productID] {
			evaluated[productID] = true
			if _, err := s.alerts.EvaluateProduct(ctx, tenantID, productID); err != nil {
				s.logger.WithError(err).WithField("productId", productID).Warn("Failed to evaluate stock alert")
			}
		}
	}
}

// ========== Queries ==========

func (s *InventoryService) GetStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error) {
	return s.stockRepo.GetStock(ctx, tenantID, productID, warehouseID)
}

func (s *InventoryService) ListStocks(ctx context.Context, tenantID string, filter models.StockFilter) ([]models.Stock, int64, error) {
	return s.stockRepo.ListStocks(ctx, tenantID, filter)
}

func (s *InventoryService) ListLogs(ctx context.Context, tenantID string, filter models.InventoryLogFilter) ([]models.InventoryLog, int64, error) {
	return s.stockRepo.ListLogs(ctx, tenantID, filter)
}

// ========== Warehouses ==========

func (s *InventoryService) CreateWarehouse(ctx context.Context, tenantID string, req models.CreateWarehouseRequest) (*models.Warehouse, error) {
	warehouse := &models.Warehouse{
		TenantID: tenantID,
		Name:     req.Name,
		Location: req.Location,
		Capacity: 10000,
		IsActive: true,
	}
	if req.Capacity != nil {
		warehouse.Capacity = *req.Capacity
	}
	if err := s.stockRepo.CreateWarehouse(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *InventoryService) GetWarehouse(ctx context.Context, tenantID string, id uuid.UUID) (*models.Warehouse, error) {
	return s.stockRepo.GetWarehouse(ctx, tenantID, id)
}

func (s *InventoryService) ListWarehouses(ctx context.Context, tenantID string, params models.ListParams) ([]models.Warehouse, int64, error) {
	return s.stockRepo.ListWarehouses(ctx, tenantID, params)
}

func (s *InventoryService) UpdateWarehouse(ctx context.Context, tenantID string, id uuid.UUID, req models.UpdateWarehouseRequest) (*models.Warehouse, error) {
	warehouse, err := s.stockRepo.GetWarehouse(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		warehouse.Name = *req.Name
	}
	if req.Location != nil {
		warehouse.Location = req.Location
	}
	if req.Capacity != nil {
		warehouse.Capacity = *req.Capacity
	}
	if req.IsActive != nil {
		warehouse.IsActive = *req.IsActive
	}
	if err := s.stockRepo.UpdateWarehouse(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *InventoryService) DeleteWarehouse(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.stockRepo.DeleteWarehouse(ctx, tenantID, id)
}
