package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	salesWindowDays = 30
	leadTimeDays    = 7
	restoredNote    = "stock restored"
)

// AlertService raises stock alerts and turns them into replenishment suggestions
type AlertService struct {
	repo      repository.AlertRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	sales     repository.SalesRepositoryInterface
	purchases *PurchaseService
	notifier  *NotificationService
	publisher EventPublisher
	logger    *logrus.Entry
}

var _ AlertEvaluator = (*AlertService)(nil)

func NewAlertService(repo repository.AlertRepositoryInterface, catalog repository.CatalogRepositoryInterface, sales repository.SalesRepositoryInterface, purchases *PurchaseService, notifier *NotificationService, publisher EventPublisher, logger *logrus.Logger) *AlertService {
	return &AlertService{
		repo:      repo,
		catalog:   catalog,
		sales:     sales,
		purchases: purchases,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.WithField("component", "alerts"),
	}
}

// AlertLevelFor classifies a stock total against the product minimum. ok is false when stock is sufficient.
func AlertLevelFor(total, minStock int) (level models.AlertLevel, ok bool) {
	switch {
	case total <= 0, float64(total) < float64(minStock)*0.5:
		return models.AlertLevelRed, true
	case total < minStock:
		return models.AlertLevelYellow, true
	default:
		return "", false
	}
}

// SuggestedQty covers a lead time of demand plus the minimum, and never less than the minimum
func SuggestedQty(avgDailySales float64, minStock, current int) int {
	suggested := int(avgDailySales*leadTimeDays + float64(minStock) - float64(current))
	return max(suggested, minStock)
}

// EvaluateProduct re-evaluates one product. It reports whether a new alert was raised.
func (s *AlertService) EvaluateProduct(ctx context.Context, tenantID string, productID uuid.UUID) (bool, error) {
	product, err := s.catalog.GetProduct(ctx, tenantID, productID)
	if err != nil {
		return false, err
	}
	return s.evaluate(ctx, tenantID, product)
}

func (s *AlertService) evaluate(ctx context.Context, tenantID string, product *models.Product) (bool, error) {
	total := product.TotalStock()
	minStock := product.EffectiveMinStock()

	level, low := AlertLevelFor(total, minStock)
	if !low {
		if _, err := s.repo.ResolveActive(ctx, tenantID, product.ID, restoredNote); err != nil {
			return false, err
		}
		return false, nil
	}

	existing, err := s.repo.ActiveAlert(ctx, tenantID, product.ID)
	switch {
	case err == nil:
		changed := existing.Level != level
		existing.Level = level
		existing.CurrentQty = total
		existing.MinQty = minStock
		if err := s.repo.SaveAlert(ctx, existing); err != nil {
			return false, err
		}
		if changed {
			s.publishLevel(ctx, tenantID, product, level, total)
		}
		return false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return false, err
	}

	avg, err := s.sales.AvgDailySales(ctx, tenantID, product.ID, salesWindowDays)
	if err != nil {
		return false, err
	}
	alert := &models.StockAlert{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ProductID:    product.ID,
		Level:        level,
		Status:       models.AlertStatusActive,
		CurrentQty:   total,
		MinQty:       minStock,
		SuggestedQty: SuggestedQty(avg, minStock, total),
	}
	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return false, err
	}

	s.publishLevel(ctx, tenantID, product, level, total)
	if s.notifier != nil {
		s.notifier.NotifyAdmins(ctx, tenantID, alertNotification(product, level, total, minStock))
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":  tenantID,
		"productId": product.ID,
		"sku":       product.SKU,
		"level":     level,
		"current":   total,
		"min":       minStock,
	}).Info("Stock alert raised")
	return true, nil
}

func alertNotification(product *models.Product, level models.AlertLevel, current, minStock int) NotificationInput {
	label, kind := "Low stock", models.NotificationWarning
	if level == models.AlertLevelRed {
		label, kind = "Critical stock", models.NotificationAlert
	}
	return NotificationInput{
		Title:       fmt.Sprintf("%s - %s", label, product.Name),
		Content:     fmt.Sprintf("%s (SKU: %s) has %d on hand, below the minimum of %d. Please replenish.", product.Name, product.SKU, current, minStock),
		Type:        kind,
		Category:    models.CategoryStock,
		RelatedType: "product",
		RelatedID:   product.ID.String(),
	}
}

func (s *AlertService) publishLevel(ctx context.Context, tenantID string, product *models.Product, level models.AlertLevel, total int) {
	if s.publisher == nil {
		return
	}
	var err error
	if level == models.AlertLevelRed && total <= 0 {
		err = s.publisher.PublishOutOfStock(ctx, tenantID, product)
	} else {
		err = s.publisher.PublishLowStock(ctx, tenantID, product, total)
	}
	if err != nil {
		s.logger.WithError(err).WithField("productId", product.ID).Warn("Failed to publish stock level event")
	}
}

// CheckAll evaluates every product of the tenant and returns how many alerts were raised
func (s *AlertService) CheckAll(ctx context.Context, tenantID string) (int, error) {
	products, err := s.catalog.AllProducts(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	created := 0
	for i := range products {
		raised, err := s.evaluate(ctx, tenantID, &products[i])
		if err != nil {
			s.logger.WithError(err).WithField("productId", products[i].ID).Warn("Failed to evaluate stock alert")
			continue
		}
		if raised {
			created++
		}
	}
	return created, nil
}

// GenerateSuggestions proposes a purchase for every active alert whose product has a supplier and no pending suggestion
func (s *AlertService) GenerateSuggestions(ctx context.Context, tenantID string) (int, error) {
	alerts, _, err := s.repo.ListActive(ctx, tenantID, models.ListParams{})
	if err != nil {
		return 0, err
	}

	created := 0
	for _, alert := range alerts {
		product := alert.Product
		if product == nil || product.SupplierID == nil {
			continue
		}
		pending, err := s.repo.HasPendingSuggestion(ctx, tenantID, product.ID)
		if err != nil {
			return created, err
		}
		if pending {
			continue
		}

		avg, err := s.sales.AvgDailySales(ctx, tenantID, product.ID, salesWindowDays)
		if err != nil {
			return created, err
		}
		suggestion := &models.ReplenishmentSuggestion{
			ID:            uuid.New(),
			TenantID:      tenantID,
			ProductID:     product.ID,
			SupplierID:    *product.SupplierID,
			CurrentStock:  alert.CurrentQty,
			SuggestedQty:  alert.SuggestedQty,
			AvgDailySales: math.Round(avg*100) / 100,
			LeadTimeDays:  leadTimeDays,
			SafetyStock:   product.EffectiveMinStock(),
			Status:        models.SuggestionStatusPending,
		}
		if err := s.repo.CreateSuggestion(ctx, suggestion); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *AlertService) pendingSuggestion(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReplenishmentSuggestion, error) {
	suggestion, err := s.repo.GetSuggestion(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if suggestion.Status != models.SuggestionStatusPending {
		return nil, fmt.Errorf("%w: suggestion is %s", ErrInvalidState, suggestion.Status)
	}
	return suggestion, nil
}

// AcceptSuggestion drafts a purchase order for the suggested quantity and marks the suggestion ordered
func (s *AlertService) AcceptSuggestion(ctx context.Context, tenantID, operator string, id uuid.UUID, req models.AcceptSuggestionRequest) (*models.PurchaseOrder, error) {
	suggestion, err := s.pendingSuggestion(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	remark := "replenishment suggestion"
	po, err := s.purchases.Create(ctx, tenantID, operator, models.CreatePurchaseOrderRequest{
		SupplierID:  suggestion.SupplierID,
		WarehouseID: req.WarehouseID,
		Items: []models.PurchaseItemInput{
			{ProductID: suggestion.ProductID, Quantity: suggestion.SuggestedQty},
		},
		Remark: &remark,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	suggestion.Status = models.SuggestionStatusOrdered
	suggestion.ProcessedAt = &now
	suggestion.ProcessedBy = &operator
	suggestion.PurchaseOrderID = &po.ID
	if err := s.repo.SaveSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	return po, nil
}

func (s *AlertService) RejectSuggestion(ctx context.Context, tenantID, operator string, id uuid.UUID) (*models.ReplenishmentSuggestion, error) {
	suggestion, err := s.pendingSuggestion(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	suggestion.Status = models.SuggestionStatusRejected
	suggestion.ProcessedAt = &now
	suggestion.ProcessedBy = &operator
	if err := s.repo.SaveSuggestion(ctx, suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (s *AlertService) ListSuggestions(ctx context.Context, tenantID string, status models.SuggestionStatus, params models.ListParams) ([]models.ReplenishmentSuggestion, int64, error) {
	return s.repo.ListSuggestions(ctx, tenantID, status, params)
}

func (s *AlertService) closeAlert(ctx context.Context, tenantID, operator string, id uuid.UUID, status models.AlertStatus, note string) (*models.StockAlert, error) {
	alert, err := s.repo.GetAlert(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if alert.Status != models.AlertStatusActive {
		return nil, fmt.Errorf("%w: alert is %s", ErrInvalidState, alert.Status)
	}
	now := time.Now()
	alert.Status = status
	alert.ResolvedAt = &now
	alert.ResolvedBy = &operator
	if note != "" {
		alert.ResolveNote = &note
	}
	if err := s.repo.SaveAlert(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *AlertService) ResolveAlert(ctx context.Context, tenantID, operator string, id uuid.UUID, note string) (*models.StockAlert, error) {
	return s.closeAlert(ctx, tenantID, operator, id, models.AlertStatusResolved, note)
}

func (s *AlertService) IgnoreAlert(ctx context.Context, tenantID, operator string, id uuid.UUID, note string) (*models.StockAlert, error) {
	return s.closeAlert(ctx, tenantID, operator, id, models.AlertStatusIgnored, note)
}

func (s *AlertService) Statistics(ctx context.Context, tenantID string) (*models.AlertStatistics, error) {
	return s.repo.AlertStatistics(ctx, tenantID)
}

func (s *AlertService) ListActive(ctx context.Context, tenantID string, params models.ListParams) ([]models.StockAlert, int64, error) {
	return s.repo.ListActive(ctx, tenantID, params)
}
