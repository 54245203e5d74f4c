package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SalesService manages sales orders from creation through shipment
type SalesService struct {
	repo      repository.SalesRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	finance   *FinanceService
	inventory *InventoryService
	publisher EventPublisher
	logger    *logrus.Entry
}

func NewSalesService(repo repository.SalesRepositoryInterface, catalog repository.CatalogRepositoryInterface, finance *FinanceService, inventory *InventoryService, publisher EventPublisher, logger *logrus.Logger) *SalesService {
	return &SalesService{
		repo:      repo,
		catalog:   catalog,
		finance:   finance,
		inventory: inventory,
		publisher: publisher,
		logger:    logger.WithField("component", "sales"),
	}
}

// CreateOrder snapshots prices, drops unusable lines and checks the customer's credit
func (s *SalesService) CreateOrder(ctx context.Context, tenantID, sellerID string, req models.CreateOrderRequest) (*models.Order, error) {
	customer, err := s.catalog.GetPartner(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	if customer.Type != models.PartnerTypeCustomer {
		return nil, ErrNotCustomer
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if status != models.OrderStatusPending && status != models.OrderStatusPaid {
		return nil, fmt.Errorf("%w: new orders start as pending or paid", ErrInvalidState)
	}

	order := &models.Order{
		ID:         uuid.New(),
		TenantID:   tenantID,
		OrderNo:    repository.GenerateNumber("ORD", time.Now()),
		CustomerID: customer.ID,
		SellerID:   sellerID,
		Status:     status,
		Remark:     req.Remark,
	}

	for _, input := range req.Items {
		if input.Quantity <= 0 {
			continue
		}
		product, err := s.catalog.GetProduct(ctx, tenantID, input.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		price := product.Price
		if input.UnitPrice > 0 {
			price = input.UnitPrice
		}
		subtotal := price * float64(input.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			ID:        uuid.New(),
			TenantID:  tenantID,
			OrderID:   order.ID,
			ProductID: product.ID,
			Product:   product,
			Quantity:  input.Quantity,
			Price:     price,
			Subtotal:  subtotal,
		})
		order.TotalAmount += subtotal
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if s.finance != nil {
		if err := s.finance.CheckCredit(ctx, tenantID, customer.ID, order.TotalAmount); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	order.Customer = customer
	s.bookReceivable(ctx, tenantID, order)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.WithError(err).WithField("orderNo", order.OrderNo).Warn("Failed to publish order created event")
		}
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":    tenantID,
		"orderNo":     order.OrderNo,
		"items":       len(order.Items),
		"totalAmount": order.TotalAmount,
	}).Info("Order created")
	return order, nil
}

// UpdateStatus moves an order along its lifecycle.
// Shipping deducts stock and cancelling records a reason, so both have their own operations.
func (s *SalesService) UpdateStatus(ctx context.Context, tenantID string, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	switch status {
	case models.OrderStatusShipped:
		return nil, fmt.Errorf("%w: use the ship operation to ship an order", ErrInvalidState)
	case models.OrderStatusCancelled:
		return nil, fmt.Errorf("%w: use the cancel operation to cancel an order", ErrInvalidState)
	}

	var order *models.Order
	err := s.repo.WithTransaction(ctx, func(txRepo repository.SalesRepositoryInterface) error {
		var err error
		order, err = txRepo.GetOrderForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, order.Status, status)
		}
		order.Status = status
		return txRepo.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.bookReceivable(ctx, tenantID, order)
	return order, nil
}

// bookReceivable raises the receivable of a paid or shipped order, which also books the customer's used credit.
// The order change is already committed, so failures are logged rather than returned.
func (s *SalesService) bookReceivable(ctx context.Context, tenantID string, order *models.Order) {
	if s.finance == nil {
		return
	}
	if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusShipped {
		return
	}
	_, err := s.finance.CreateReceivable(ctx, tenantID, models.CreateReceivableRequest{OrderID: order.ID})
	if err != nil && !errors.Is(err, ErrReceivableExists) {
		s.logger.WithError(err).WithField("orderNo", order.OrderNo).Warn("Failed to create receivable")
	}
}

// Ship deducts every line from one warehouse in a single transaction; any shortage aborts the shipment
func (s *SalesService) Ship(ctx context.Context, tenantID, operator string, id, warehouseID uuid.UUID) (*models.Order, error) {
	var (
		order   *models.Order
		changes []StockChange
	)
	err := s.repo.WithTransaction(ctx, func(txRepo repository.SalesRepositoryInterface) error {
		var err error
		order, err = txRepo.GetOrderForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(models.OrderStatusShipped) {
			return fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
		}

		stockRepo := txRepo.Stock()
		if _, err := stockRepo.GetWarehouse(ctx, tenantID, warehouseID); err != nil {
			return fmt.Errorf("warehouse: %w", err)
		}

		remark := "sales shipment " + order.OrderNo
		for _, item := range order.Items {
			result, err := ApplyAdjustment(ctx, stockRepo, tenantID, operator, order.OrderNo, models.AdjustStockRequest{
				ProductID:   item.ProductID,
				WarehouseID: warehouseID,
				Quantity:    item.Quantity,
				MoveType:    models.MoveTypeOutbound,
				Remark:      remark,
			})
			if err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}
			changes = append(changes, StockChange{
				Product:     item.Product,
				ProductID:   item.ProductID,
				WarehouseID: warehouseID,
				MoveType:    models.MoveTypeOutbound,
				Result:      result,
				Reason:      remark,
			})
		}

		now := time.Now()
		order.Status = models.OrderStatusShipped
		order.ShippedAt = &now
		order.WarehouseID = &warehouseID
		return txRepo.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.inventory != nil {
		s.inventory.Committed(ctx, tenantID, operator, changes...)
	}
	s.bookReceivable(ctx, tenantID, order)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderShipped(ctx, order); err != nil {
			s.logger.WithError(err).WithField("orderNo", order.OrderNo).Warn("Failed to publish order shipped event")
		}
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":    tenantID,
		"orderNo":     order.OrderNo,
		"warehouseId": warehouseID,
	}).Info("Order shipped")
	return order, nil
}

// Cancel is allowed from pending and paid
func (s *SalesService) Cancel(ctx context.Context, tenantID, operator string, id uuid.UUID, reason string) (*models.Order, error) {
	var order *models.Order
	err := s.repo.WithTransaction(ctx, func(txRepo repository.SalesRepositoryInterface) error {
		var err error
		order, err = txRepo.GetOrderForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(models.OrderStatusCancelled) {
			return fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
		}
		order.Status = models.OrderStatusCancelled
		if reason != "" {
			order.CancelReason = &reason
		}
		return txRepo.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCancelled(ctx, order, reason, operator); err != nil {
			s.logger.WithError(err).WithField("orderNo", order.OrderNo).Warn("Failed to publish order cancelled event")
		}
	}
	return order, nil
}

func (s *SalesService) Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	return s.repo.GetOrder(ctx, tenantID, id)
}

func (s *SalesService) List(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, int64, error) {
	return s.repo.ListOrders(ctx, tenantID, filter)
}
