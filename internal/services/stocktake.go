package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// cycleCountSize is how many least recently counted products a cycle count picks
const cycleCountSize = 20

// StocktakeService runs physical counts and reconciles their variances into stock
type StocktakeService struct {
	repo      repository.StocktakeRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	inventory *InventoryService
	logger    *logrus.Entry
}

func NewStocktakeService(repo repository.StocktakeRepositoryInterface, catalog repository.CatalogRepositoryInterface, inventory *InventoryService, logger *logrus.Logger) *StocktakeService {
	return &StocktakeService{
		repo:      repo,
		catalog:   catalog,
		inventory: inventory,
		logger:    logger.WithField("component", "stocktake"),
	}
}

func historyEntry(tenantID string, takeID uuid.UUID, action, operator string, details map[string]interface{}) *models.StocktakeHistory {
	entry := &models.StocktakeHistory{
		ID:          uuid.New(),
		TenantID:    tenantID,
		StocktakeID: takeID,
		Action:      action,
		Operator:    operator,
	}
	if details != nil {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = datatypes.JSON(data)
		}
	}
	return entry
}

// Create opens a count of one warehouse. Only one draft or in-progress count may exist per warehouse.
func (s *StocktakeService) Create(ctx context.Context, tenantID, operator string, req models.CreateStocktakeRequest) (*models.Stocktake, error) {
	stockRepo := s.repo.Stock()
	if _, err := stockRepo.GetWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	open, err := s.repo.HasOpen(ctx, tenantID, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrOpenStocktakeExists
	}

	stocks, err := s.selectStocks(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	take := &models.Stocktake{
		ID:          uuid.New(),
		TenantID:    tenantID,
		TakeNo:      repository.GenerateNumber("ST", time.Now()),
		WarehouseID: req.WarehouseID,
		Type:        req.Type,
		Status:      models.StocktakeStatusDraft,
		PlannedDate: req.PlannedDate,
		CreatedBy:   operator,
		TotalItems:  len(stocks),
		Remark:      req.Remark,
	}

	items := make([]models.StocktakeItem, 0, len(stocks))
	productIDs := make(pq.StringArray, 0, len(stocks))
	for _, stock := range stocks {
		item := models.StocktakeItem{
			ID:            uuid.New(),
			TenantID:      tenantID,
			StocktakeID:   take.ID,
			ProductID:     stock.ProductID,
			SystemQty:     stock.Quantity,
			ShelfLocation: stock.ShelfLocation,
		}
		if stock.Product != nil {
			item.UnitCost = stock.Product.Cost
		}
		items = append(items, item)
		productIDs = append(productIDs, stock.ProductID.String())
	}
	take.ProductIDs = productIDs

	err = s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		if err := txRepo.Create(ctx, take); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrOpenStocktakeExists
			}
			return err
		}
		if err := txRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "create", operator, map[string]interface{}{
			"type":       take.Type,
			"totalItems": take.TotalItems,
		}))
	})
	if err != nil {
		return nil, err
	}

	take.Items = items
	s.logger.WithFields(logrus.Fields{
		"tenantId":    tenantID,
		"takeNo":      take.TakeNo,
		"type":        take.Type,
		"warehouseId": take.WarehouseID,
		"items":       take.TotalItems,
	}).Info("Stocktake created")
	return take, nil
}

// selectStocks picks the stock rows a new count covers
func (s *StocktakeService) selectStocks(ctx context.Context, tenantID string, req models.CreateStocktakeRequest) ([]models.Stock, error) {
	stockRepo := s.repo.Stock()
	switch req.Type {
	case models.StocktakeTypeFull:
		return stockRepo.WarehouseStocks(ctx, tenantID, req.WarehouseID, nil, true)
	case models.StocktakeTypePartial:
		if len(req.ProductIDs) == 0 {
			return nil, ErrProductsRequired
		}
		return s.productStocks(ctx, tenantID, req.WarehouseID, req.ProductIDs)
	case models.StocktakeTypeCycle:
		if len(req.ProductIDs) > 0 {
			return s.productStocks(ctx, tenantID, req.WarehouseID, req.ProductIDs)
		}
		return stockRepo.LeastRecentlyCounted(ctx, tenantID, req.WarehouseID, cycleCountSize)
	default:
		return nil, fmt.Errorf("invalid stocktake type %q", req.Type)
	}
}

// productStocks returns one row per known product; products without stock in the warehouse count from zero
func (s *StocktakeService) productStocks(ctx context.Context, tenantID string, warehouseID uuid.UUID, productIDs []uuid.UUID) ([]models.Stock, error) {
	existing, err := s.repo.Stock().WarehouseStocks(ctx, tenantID, warehouseID, productIDs, false)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]models.Stock, len(existing))
	for _, stock := range existing {
		byProduct[stock.ProductID] = stock
	}

	seen := make(map[uuid.UUID]bool, len(productIDs))
	stocks := make([]models.Stock, 0, len(productIDs))
	for _, id := range productIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		product, err := s.catalog.GetProduct(ctx, tenantID, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		stock, ok := byProduct[id]
		if !ok {
			stock = models.Stock{TenantID: tenantID, ProductID: id, WarehouseID: warehouseID}
		}
		stock.Product = product
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// lockOpen locks a count and checks it is in one of the allowed statuses
func lockOpen(ctx context.Context, txRepo repository.StocktakeRepositoryInterface, tenantID string, id uuid.UUID, allowed ...models.StocktakeStatus) (*models.Stocktake, error) {
	take, err := txRepo.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !statusIn(take.Status, allowed) {
		return nil, fmt.Errorf("%w: stocktake is %s", ErrInvalidState, take.Status)
	}
	return take, nil
}

func (s *StocktakeService) Start(ctx context.Context, tenantID, operator string, id uuid.UUID) (*models.Stocktake, error) {
	var take *models.Stocktake
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		var err error
		if take, err = lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusDraft); err != nil {
			return err
		}
		now := time.Now()
		take.Status = models.StocktakeStatusInProgress
		take.StartedAt = &now
		if err := txRepo.Update(ctx, take); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "start", operator, nil))
	})
	if err != nil {
		return nil, err
	}
	return take, nil
}

// InputCount records the counted quantity of one item and refreshes the counted total
func (s *StocktakeService) InputCount(ctx context.Context, tenantID, operator string, id uuid.UUID, req models.InputCountRequest) (*models.StocktakeItem, error) {
	if req.ActualQty < 0 {
		return nil, ErrInvalidQuantity
	}

	var item *models.StocktakeItem
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		take, err := lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusInProgress)
		if err != nil {
			return err
		}
		if item, err = txRepo.GetItem(ctx, tenantID, take.ID, req.ItemID); err != nil {
			return err
		}

		now := time.Now()
		actual := req.ActualQty
		item.ActualQty = &actual
		item.CountedAt = &now
		item.CountedBy = &operator
		item.Remark = req.Remark
		item.Confirmed = false
		if err := txRepo.UpdateItem(ctx, item); err != nil {
			return err
		}

		counted, err := txRepo.CountCounted(ctx, tenantID, take.ID)
		if err != nil {
			return err
		}
		take.CountedItems = int(counted)
		return txRepo.Update(ctx, take)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// BatchInputCount records several counts and returns how many were accepted
func (s *StocktakeService) BatchInputCount(ctx context.Context, tenantID, operator string, id uuid.UUID, req models.BatchInputCountRequest) (int, error) {
	take, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return 0, err
	}
	if take.Status != models.StocktakeStatusInProgress {
		return 0, fmt.Errorf("%w: stocktake is %s", ErrInvalidState, take.Status)
	}

	succeeded := 0
	for _, count := range req.Items {
		if _, err := s.InputCount(ctx, tenantID, operator, id, count); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"takeNo": take.TakeNo,
				"itemId": count.ItemID,
			}).Warn("Skipped stocktake count")
			continue
		}
		succeeded++
	}
	return succeeded, nil
}

// ConfirmItem accepts a counted item. A variance needs a reason, which becomes the item remark.
func (s *StocktakeService) ConfirmItem(ctx context.Context, tenantID, operator string, id, itemID uuid.UUID, reason string) (*models.StocktakeItem, error) {
	var item *models.StocktakeItem
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		take, err := lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusInProgress)
		if err != nil {
			return err
		}
		if item, err = txRepo.GetItem(ctx, tenantID, take.ID, itemID); err != nil {
			return err
		}
		if !item.IsCounted() {
			return ErrItemNotCounted
		}
		if item.Variance() != 0 && reason == "" {
			return ErrReasonRequired
		}
		item.Confirmed = true
		if reason != "" {
			item.Remark = &reason
		}
		if err := txRepo.UpdateItem(ctx, item); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "confirm", operator, map[string]interface{}{
			"itemId":   item.ID,
			"variance": item.Variance(),
		}))
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustmentRemark is the inventory log remark of a stocktake correction
func AdjustmentRemark(takeNo string, itemRemark *string) string {
	reason := "routine count"
	if itemRemark != nil && *itemRemark != "" {
		reason = *itemRemark
	}
	return fmt.Sprintf("stocktake adjustment: %s, reason: %s", takeNo, reason)
}

// Complete closes a fully counted stocktake. With autoAdjust every variance is written to stock in the same transaction.
func (s *StocktakeService) Complete(ctx context.Context, tenantID, operator string, id uuid.UUID, autoAdjust bool) (*models.Stocktake, error) {
	var (
		take    *models.Stocktake
		changes []StockChange
	)
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		var err error
		if take, err = lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusInProgress); err != nil {
			return err
		}

		uncounted, variances := 0, 0
		for i := range take.Items {
			if !take.Items[i].IsCounted() {
				uncounted++
			} else if take.Items[i].Variance() != 0 {
				variances++
			}
		}
		if uncounted > 0 {
			return &UncountedItemsError{Count: uncounted}
		}

		if autoAdjust {
			stockRepo := txRepo.Stock()
			for i := range take.Items {
				item := &take.Items[i]
				// stock may have moved since the snapshot, a matched count must not rewrite it
				if item.Variance() == 0 {
					if err := ApplyMarkCounted(ctx, stockRepo, tenantID, item.ProductID, take.WarehouseID); err != nil {
						return fmt.Errorf("mark product %s counted: %w", item.ProductID, err)
					}
					continue
				}
				remark := AdjustmentRemark(take.TakeNo, item.Remark)
				result, err := ApplySetStock(ctx, stockRepo, tenantID, operator, SetStockInput{
					ProductID:   item.ProductID,
					WarehouseID: take.WarehouseID,
					Target:      *item.ActualQty,
					Code:        take.TakeNo,
					Remark:      remark,
					Counted:     true,
				})
				if err != nil {
					return fmt.Errorf("adjust product %s: %w", item.ProductID, err)
				}
				if result.QtyChange != 0 {
					changes = append(changes, StockChange{
						Product:     item.Product,
						ProductID:   item.ProductID,
						WarehouseID: take.WarehouseID,
						MoveType:    models.MoveTypeCheck,
						Result:      result,
						Reason:      remark,
					})
				}
			}
		}

		now := time.Now()
		take.Status = models.StocktakeStatusCompleted
		take.CompletedAt = &now
		take.CountedItems = len(take.Items)
		take.VarianceItems = variances
		take.ApprovedBy = &operator
		if err := txRepo.Update(ctx, take); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "complete", operator, map[string]interface{}{
			"autoAdjust":    autoAdjust,
			"varianceItems": variances,
		}))
	})
	if err != nil {
		return nil, err
	}

	if s.inventory != nil && len(changes) > 0 {
		s.inventory.Committed(ctx, tenantID, operator, changes...)
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":      tenantID,
		"takeNo":        take.TakeNo,
		"varianceItems": take.VarianceItems,
		"adjusted":      len(changes),
	}).Info("Stocktake completed")
	return take, nil
}

func (s *StocktakeService) Approve(ctx context.Context, tenantID, operator string, id uuid.UUID) (*models.Stocktake, error) {
	var take *models.Stocktake
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		var err error
		if take, err = lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusCompleted); err != nil {
			return err
		}
		now := time.Now()
		take.Status = models.StocktakeStatusApproved
		take.ApprovedBy = &operator
		take.ApprovedAt = &now
		if err := txRepo.Update(ctx, take); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "approve", operator, nil))
	})
	if err != nil {
		return nil, err
	}
	return take, nil
}

// Cancel abandons a count that has not been completed
func (s *StocktakeService) Cancel(ctx context.Context, tenantID, operator string, id uuid.UUID, reason string) (*models.Stocktake, error) {
	var take *models.Stocktake
	err := s.repo.WithTransaction(ctx, func(txRepo repository.StocktakeRepositoryInterface) error {
		var err error
		if take, err = lockOpen(ctx, txRepo, tenantID, id, models.StocktakeStatusDraft, models.StocktakeStatusInProgress); err != nil {
			return err
		}
		take.Status = models.StocktakeStatusCancelled
		if reason != "" {
			take.Remark = appendRemark(take.Remark, "Cancelled: "+reason)
		}
		if err := txRepo.Update(ctx, take); err != nil {
			return err
		}
		return txRepo.AddHistory(ctx, historyEntry(tenantID, take.ID, "cancel", operator, map[string]interface{}{
			"reason": reason,
		}))
	})
	if err != nil {
		return nil, err
	}
	return take, nil
}

// SummarizeVariance aggregates the counted items of a stocktake
func SummarizeVariance(take *models.Stocktake) *models.VarianceSummary {
	summary := &models.VarianceSummary{TotalItems: len(take.Items)}
	for i := range take.Items {
		item := &take.Items[i]
		if !item.IsCounted() {
			continue
		}
		summary.CountedItems++
		switch item.VarianceType() {
		case models.VarianceSurplus:
			summary.VarianceItems++
			summary.SurplusItems++
			summary.SurplusQuantity += item.Variance()
			summary.SurplusValue += item.VarianceValue()
		case models.VarianceLoss:
			summary.VarianceItems++
			summary.LossItems++
			summary.LossQuantity += -item.Variance()
			summary.LossValue += -item.VarianceValue()
		}
	}
	summary.NetValue = summary.SurplusValue - summary.LossValue
	progress := models.Stocktake{TotalItems: summary.TotalItems, CountedItems: summary.CountedItems}
	summary.Progress = progress.Progress()
	return summary
}

func (s *StocktakeService) VarianceSummary(ctx context.Context, tenantID string, id uuid.UUID) (*models.VarianceSummary, error) {
	take, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return SummarizeVariance(take), nil
}

func (s *StocktakeService) Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error) {
	return s.repo.Get(ctx, tenantID, id)
}

func (s *StocktakeService) List(ctx context.Context, tenantID string, filter models.StocktakeFilter) ([]models.Stocktake, int64, error) {
	return s.repo.List(ctx, tenantID, filter)
}

func (s *StocktakeService) History(ctx context.Context, tenantID string, id uuid.UUID) ([]models.StocktakeHistory, error) {
	return s.repo.ListHistory(ctx, tenantID, id)
}
