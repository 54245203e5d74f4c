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

// PurchaseService runs the purchase order workflow from draft to receipt
type PurchaseService struct {
	repo      repository.PurchaseRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	inventory *InventoryService
	logger    *logrus.Entry
}

func NewPurchaseService(repo repository.PurchaseRepositoryInterface, catalog repository.CatalogRepositoryInterface, inventory *InventoryService, logger *logrus.Logger) *PurchaseService {
	return &PurchaseService{
		repo:      repo,
		catalog:   catalog,
		inventory: inventory,
		logger:    logger.WithField("component", "purchase"),
	}
}

// GetSupplierPrice returns the supplier's latest quoted price, falling back to the product cost
func (s *PurchaseService) GetSupplierPrice(ctx context.Context, tenantID string, productID, supplierID uuid.UUID) (float64, error) {
	latest, err := s.repo.LatestPrice(ctx, tenantID, productID, supplierID)
	if err == nil {
		return latest.Price, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	product, err := s.catalog.GetProduct(ctx, tenantID, productID)
	if err != nil {
		return 0, fmt.Errorf("product: %w", err)
	}
	return product.Cost, nil
}

// Create drafts a purchase order and records the quoted price of every line
func (s *PurchaseService) Create(ctx context.Context, tenantID, operator string, req models.CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	supplier, err := s.catalog.GetPartner(ctx, tenantID, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier: %w", err)
	}
	if supplier.Type != models.PartnerTypeSupplier {
		return nil, ErrNotSupplier
	}
	if _, err := s.repo.Stock().GetWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	po := &models.PurchaseOrder{
		ID:           uuid.New(),
		TenantID:     tenantID,
		PONumber:     repository.GenerateNumber("PO", time.Now()),
		SupplierID:   supplier.ID,
		WarehouseID:  req.WarehouseID,
		Status:       models.PurchaseOrderStatusDraft,
		CreatedBy:    operator,
		ExpectedDate: req.ExpectedDate,
		Remark:       req.Remark,
	}

	for _, input := range req.Items {
		if input.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, err := s.catalog.GetProduct(ctx, tenantID, input.ProductID); err != nil {
			return nil, fmt.Errorf("product %s: %w", input.ProductID, err)
		}

		var price float64
		if input.UnitPrice != nil {
			price = *input.UnitPrice
		} else if price, err = s.GetSupplierPrice(ctx, tenantID, input.ProductID, supplier.ID); err != nil {
			return nil, err
		}

		po.Items = append(po.Items, models.PurchaseOrderItem{
			ID:              uuid.New(),
			TenantID:        tenantID,
			PurchaseOrderID: po.ID,
			ProductID:       input.ProductID,
			Quantity:        input.Quantity,
			UnitPrice:       price,
		})
		po.TotalAmount += float64(input.Quantity) * price
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repository.PurchaseRepositoryInterface) error {
		if err := txRepo.CreatePurchaseOrder(ctx, po); err != nil {
			return err
		}
		now := time.Now()
		for _, item := range po.Items {
			entry := &models.PriceHistory{
				TenantID:      tenantID,
				ProductID:     item.ProductID,
				SupplierID:    supplier.ID,
				Price:         item.UnitPrice,
				EffectiveDate: now,
			}
			if err := txRepo.CreatePriceHistory(ctx, entry); err != nil {
				return fmt.Errorf("failed to record price history: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenantId":    tenantID,
		"poNumber":    po.PONumber,
		"supplierId":  supplier.ID,
		"totalAmount": po.TotalAmount,
	}).Info("Purchase order created")
	return po, nil
}

// transition locks a purchase order, checks its status and applies mutate
func (s *PurchaseService) transition(ctx context.Context, tenantID string, id uuid.UUID, allowed []models.PurchaseOrderStatus, mutate func(po *models.PurchaseOrder)) (*models.PurchaseOrder, error) {
	var po *models.PurchaseOrder
	err := s.repo.WithTransaction(ctx, func(txRepo repository.PurchaseRepositoryInterface) error {
		var err error
		po, err = txRepo.GetPurchaseOrderForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !statusIn(po.Status, allowed) {
			return fmt.Errorf("%w: purchase order is %s", ErrInvalidState, po.Status)
		}
		mutate(po)
		return txRepo.UpdatePurchaseOrder(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

func statusIn[T comparable](status T, allowed []T) bool {
	for _, a := range allowed {
		if a == status {
			return true
		}
	}
	return false
}

func appendRemark(remark *string, line string) *string {
	if remark == nil || *remark == "" {
		return &line
	}
	joined := *remark + "\n" + line
	return &joined
}

// Submit sends a draft for approval
func (s *PurchaseService) Submit(ctx context.Context, tenantID, operator string, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.transition(ctx, tenantID, id, []models.PurchaseOrderStatus{models.PurchaseOrderStatusDraft}, func(po *models.PurchaseOrder) {
		now := time.Now()
		po.Status = models.PurchaseOrderStatusPending
		po.SubmittedAt = &now
		po.SubmittedBy = &operator
	})
}

// Approve approves a pending order. A rejection sends it back to draft with the reason appended.
func (s *PurchaseService) Approve(ctx context.Context, tenantID, operator string, id uuid.UUID, req models.ApprovePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	return s.transition(ctx, tenantID, id, []models.PurchaseOrderStatus{models.PurchaseOrderStatusPending}, func(po *models.PurchaseOrder) {
		if !req.Approved {
			po.Status = models.PurchaseOrderStatusDraft
			po.Remark = appendRemark(po.Remark, "Rejected: "+req.Remark)
			return
		}
		now := time.Now()
		po.Status = models.PurchaseOrderStatusApproved
		po.ApprovedAt = &now
		po.ApprovedBy = &operator
	})
}

func (s *PurchaseService) MarkOrdered(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.transition(ctx, tenantID, id, []models.PurchaseOrderStatus{models.PurchaseOrderStatusApproved}, func(po *models.PurchaseOrder) {
		po.Status = models.PurchaseOrderStatusOrdered
	})
}

// Cancel is refused once goods have been received
func (s *PurchaseService) Cancel(ctx context.Context, tenantID string, id uuid.UUID, reason string) (*models.PurchaseOrder, error) {
	allowed := []models.PurchaseOrderStatus{
		models.PurchaseOrderStatusDraft,
		models.PurchaseOrderStatusPending,
		models.PurchaseOrderStatusApproved,
		models.PurchaseOrderStatusOrdered,
	}
	return s.transition(ctx, tenantID, id, allowed, func(po *models.PurchaseOrder) {
		po.Status = models.PurchaseOrderStatusCancelled
		if reason != "" {
			po.Remark = appendRemark(po.Remark, "Cancelled: "+reason)
		}
	})
}

// Receive books received goods into the order's warehouse.
// Quantities are capped at what is still pending; the order becomes received once every line is complete.
func (s *PurchaseService) Receive(ctx context.Context, tenantID, operator string, id uuid.UUID, req models.ReceivePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	var (
		po      *models.PurchaseOrder
		changes []StockChange
	)

	err := s.repo.WithTransaction(ctx, func(txRepo repository.PurchaseRepositoryInterface) error {
		var err error
		po, err = txRepo.GetPurchaseOrderForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !po.Status.CanReceive() {
			return fmt.Errorf("%w: purchase order is %s", ErrInvalidState, po.Status)
		}

		items := make(map[uuid.UUID]*models.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			items[po.Items[i].ID] = &po.Items[i]
		}

		stockRepo := txRepo.Stock()
		remark := "purchase receipt " + po.PONumber
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				continue
			}
			item, ok := items[line.ItemID]
			if !ok {
				return fmt.Errorf("item %s: %w", line.ItemID, repository.ErrNotFound)
			}
			qty := min(line.Quantity, item.PendingQty())
			if qty <= 0 {
				continue
			}

			result, err := ApplyAdjustment(ctx, stockRepo, tenantID, operator, po.PONumber, models.AdjustStockRequest{
				ProductID:   item.ProductID,
				WarehouseID: po.WarehouseID,
				Quantity:    qty,
				MoveType:    models.MoveTypeInbound,
				Remark:      remark,
			})
			if err != nil {
				return err
			}
			item.ReceivedQty += qty
			if err := txRepo.UpdatePurchaseOrderItem(ctx, item); err != nil {
				return err
			}
			changes = append(changes, StockChange{
				Product:     item.Product,
				ProductID:   item.ProductID,
				WarehouseID: po.WarehouseID,
				MoveType:    models.MoveTypeInbound,
				Result:      result,
				Reason:      remark,
			})
		}
		if len(changes) == 0 {
			return ErrNothingToReceive
		}

		now := time.Now()
		if !po.FullyReceived() {
			po.Status = models.PurchaseOrderStatusPartial
			return txRepo.UpdatePurchaseOrder(ctx, po)
		}

		po.Status = models.PurchaseOrderStatusReceived
		po.ActualReceiveDate = &now
		if err := txRepo.UpdatePurchaseOrder(ctx, po); err != nil {
			return err
		}
		return s.recordDelivery(ctx, txRepo, po, now)
	})
	if err != nil {
		return nil, err
	}

	if s.inventory != nil {
		s.inventory.Committed(ctx, tenantID, operator, changes...)
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId": tenantID,
		"poNumber": po.PONumber,
		"status":   po.Status,
		"lines":    len(changes),
	}).Info("Purchase order received")
	return po, nil
}

// recordDelivery updates the supplier's performance once an order is fully received
func (s *PurchaseService) recordDelivery(ctx context.Context, txRepo repository.PurchaseRepositoryInterface, po *models.PurchaseOrder, receivedAt time.Time) error {
	perf, err := txRepo.GetPerformanceForUpdate(ctx, po.TenantID, po.SupplierID)
	if err != nil {
		return fmt.Errorf("supplier performance: %w", err)
	}
	perf.TotalOrders++
	if OnTime(po.ExpectedDate, receivedAt) {
		perf.OnTimeOrders++
	}
	perf.QualityPassed++
	perf.TotalAmount += po.TotalAmount
	perf.LastOrderDate = &receivedAt
	return txRepo.SavePerformance(ctx, perf)
}

// OnTime reports whether a delivery landed on or before the expected day. No expected date is always on time.
func OnTime(expected *time.Time, receivedAt time.Time) bool {
	if expected == nil {
		return true
	}
	ey, em, ed := expected.Date()
	deadline := time.Date(ey, em, ed, 0, 0, 0, 0, expected.Location()).AddDate(0, 0, 1)
	return receivedAt.Before(deadline)
}

// ========== Queries ==========

func (s *PurchaseService) Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	return s.repo.GetPurchaseOrder(ctx, tenantID, id)
}

func (s *PurchaseService) List(ctx context.Context, tenantID string, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int64, error) {
	return s.repo.ListPurchaseOrders(ctx, tenantID, filter)
}

func (s *PurchaseService) PriceHistory(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.PriceHistory, error) {
	return s.repo.ListPriceHistory(ctx, tenantID, productID)
}

func (s *PurchaseService) SupplierPerformance(ctx context.Context, tenantID string) ([]models.SupplierPerformance, error) {
	return s.repo.ListPerformance(ctx, tenantID)
}
