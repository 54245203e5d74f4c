package services

import (
	"context"
	"testing"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps the names of the events it was asked to publish
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) PublishStockAdjusted(ctx context.Context, tenantID string, product *models.Product, warehouseID uuid.UUID, previousStock, currentStock int, reason, adjustedBy string) error {
	p.events = append(p.events, "stock.adjusted")
	return nil
}

func (p *recordingPublisher) PublishLowStock(ctx context.Context, tenantID string, product *models.Product, currentStock int) error {
	p.events = append(p.events, "stock.low")
	return nil
}

func (p *recordingPublisher) PublishOutOfStock(ctx context.Context, tenantID string, product *models.Product) error {
	p.events = append(p.events, "stock.out")
	return nil
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	p.events = append(p.events, "order.created")
	return nil
}

func (p *recordingPublisher) PublishOrderShipped(ctx context.Context, order *models.Order) error {
	p.events = append(p.events, "order.shipped")
	return nil
}

func (p *recordingPublisher) PublishOrderCancelled(ctx context.Context, order *models.Order, reason, cancelledBy string) error {
	p.events = append(p.events, "order.cancelled")
	return nil
}

func (p *recordingPublisher) PublishPaymentCaptured(ctx context.Context, payment *models.PaymentRecord, receivable *models.Receivable) error {
	p.events = append(p.events, "payment.captured")
	return nil
}

type alertFixture struct {
	repo      *mocks.MockAlertRepository
	catalog   *mocks.MockCatalogRepository
	sales     *mocks.MockSalesRepository
	notifyDB  *mocks.MockNotificationRepository
	publisher *recordingPublisher
	purchase  *purchaseFixture
	service   *AlertService
}

func newAlertFixture() *alertFixture {
	f := &alertFixture{
		repo:      new(mocks.MockAlertRepository),
		sales:     new(mocks.MockSalesRepository),
		notifyDB:  new(mocks.MockNotificationRepository),
		publisher: &recordingPublisher{},
		purchase:  newPurchaseFixture(),
	}
	f.catalog = f.purchase.catalog
	f.service = &AlertService{
		repo:      f.repo,
		catalog:   f.catalog,
		sales:     f.sales,
		purchases: f.purchase.service,
		notifier:  &NotificationService{repo: f.notifyDB, logger: testLogger()},
		publisher: f.publisher,
		logger:    testLogger(),
	}
	return f
}

func stockedProduct(minStock int, quantities ...int) *models.Product {
	p := &models.Product{ID: uuid.New(), SKU: "SKU-9", Name: "Bolt", MinStock: minStock}
	for _, q := range quantities {
		p.Stocks = append(p.Stocks, models.Stock{ProductID: p.ID, Quantity: q})
	}
	return p
}

func TestAlertLevelFor(t *testing.T) {
	cases := []struct {
		total, min int
		want       models.AlertLevel
		low        bool
	}{
		{0, 10, models.AlertLevelRed, true},
		{-2, 10, models.AlertLevelRed, true},
		{4, 10, models.AlertLevelRed, true},
		{5, 10, models.AlertLevelYellow, true},
		{9, 10, models.AlertLevelYellow, true},
		{10, 10, "", false},
	}
	for _, tc := range cases {
		level, low := AlertLevelFor(tc.total, tc.min)
		assert.Equal(t, tc.low, low, "total %d", tc.total)
		assert.Equal(t, tc.want, level, "total %d", tc.total)
	}
}

func TestSuggestedQty(t *testing.T) {
	assert.Equal(t, 22, SuggestedQty(2, 10, 2))
	assert.Equal(t, 10, SuggestedQty(0, 10, 9))
}

func TestEvaluateProduct_RaisesAlert(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	product := stockedProduct(10, 2, 1)

	f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
	f.repo.On("ActiveAlert", ctx, "t", product.ID).Return(nil, repository.ErrNotFound)
	f.sales.On("AvgDailySales", ctx, "t", product.ID, 30).Return(1.0, nil)
	f.repo.On("CreateAlert", ctx, mock.MatchedBy(func(a *models.StockAlert) bool {
		return a.Level == models.AlertLevelRed && a.CurrentQty == 3 && a.SuggestedQty == 14
	})).Return(nil)
	f.notifyDB.On("CreateNotifications", ctx, mock.MatchedBy(func(rows []models.Notification) bool {
		return len(rows) == 1 && rows[0].UserID == "role:admin" && rows[0].Type == models.NotificationAlert
	})).Return(nil)

	raised, err := f.service.EvaluateProduct(ctx, "t", product.ID)
	require.NoError(t, err)
	assert.True(t, raised)
	assert.Equal(t, []string{"stock.low"}, f.publisher.events)
	f.notifyDB.AssertExpectations(t)
}

func TestEvaluateProduct_UpdatesExistingAlert(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	product := stockedProduct(10, 0)
	existing := &models.StockAlert{ProductID: product.ID, Level: models.AlertLevelYellow, Status: models.AlertStatusActive}

	f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
	f.repo.On("ActiveAlert", ctx, "t", product.ID).Return(existing, nil)
	f.repo.On("SaveAlert", ctx, existing).Return(nil)

	raised, err := f.service.EvaluateProduct(ctx, "t", product.ID)
	require.NoError(t, err)
	assert.False(t, raised)
	assert.Equal(t, models.AlertLevelRed, existing.Level)
	assert.Equal(t, []string{"stock.out"}, f.publisher.events)
	f.repo.AssertNotCalled(t, "CreateAlert", mock.Anything, mock.Anything)
}

func TestEvaluateProduct_ResolvesWhenRestored(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	product := stockedProduct(10, 25)

	f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
	f.repo.On("ResolveActive", ctx, "t", product.ID, "stock restored").Return(int64(1), nil)

	raised, err := f.service.EvaluateProduct(ctx, "t", product.ID)
	require.NoError(t, err)
	assert.False(t, raised)
	assert.Empty(t, f.publisher.events)
}

func TestGenerateSuggestions(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	supplierID := uuid.New()
	withSupplier := stockedProduct(10, 2)
	withSupplier.SupplierID = &supplierID
	pending := stockedProduct(10, 1)
	pending.SupplierID = &supplierID
	orphan := stockedProduct(10, 1)

	f.repo.On("ListActive", ctx, "t", models.ListParams{}).Return([]models.StockAlert{
		{ProductID: withSupplier.ID, Product: withSupplier, CurrentQty: 2, SuggestedQty: 12},
		{ProductID: pending.ID, Product: pending},
		{ProductID: orphan.ID, Product: orphan},
	}, int64(3), nil)
	f.repo.On("HasPendingSuggestion", ctx, "t", withSupplier.ID).Return(false, nil)
	f.repo.On("HasPendingSuggestion", ctx, "t", pending.ID).Return(true, nil)
	f.sales.On("AvgDailySales", ctx, "t", withSupplier.ID, 30).Return(0.333, nil)
	f.repo.On("CreateSuggestion", ctx, mock.MatchedBy(func(s *models.ReplenishmentSuggestion) bool {
		return s.SupplierID == supplierID && s.SuggestedQty == 12 && s.AvgDailySales == 0.33 && s.LeadTimeDays == 7
	})).Return(nil)

	created, err := f.service.GenerateSuggestions(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestAcceptSuggestion(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	supplier := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeSupplier}
	warehouseID := uuid.New()
	product := testProduct("t")
	suggestion := &models.ReplenishmentSuggestion{
		ID:           uuid.New(),
		ProductID:    product.ID,
		SupplierID:   supplier.ID,
		SuggestedQty: 12,
		Status:       models.SuggestionStatusPending,
	}

	f.repo.On("GetSuggestion", ctx, "t", suggestion.ID).Return(suggestion, nil)
	f.catalog.On("GetPartner", ctx, "t", supplier.ID).Return(supplier, nil)
	f.purchase.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{ID: warehouseID}, nil)
	f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
	f.purchase.repo.On("LatestPrice", ctx, "t", product.ID, supplier.ID).Return(nil, repository.ErrNotFound)
	f.purchase.repo.On("CreatePurchaseOrder", ctx, mock.Anything).Return(nil)
	f.purchase.repo.On("CreatePriceHistory", ctx, mock.Anything).Return(nil)
	f.repo.On("SaveSuggestion", ctx, suggestion).Return(nil)

	po, err := f.service.AcceptSuggestion(ctx, "t", "buyer", suggestion.ID, models.AcceptSuggestionRequest{WarehouseID: warehouseID})
	require.NoError(t, err)
	assert.Equal(t, 30.0, po.TotalAmount)
	assert.Equal(t, models.SuggestionStatusOrdered, suggestion.Status)
	assert.Equal(t, po.ID, *suggestion.PurchaseOrderID)
}

func TestRejectSuggestion_OnlyPending(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	suggestion := &models.ReplenishmentSuggestion{ID: uuid.New(), Status: models.SuggestionStatusOrdered}
	f.repo.On("GetSuggestion", ctx, "t", suggestion.ID).Return(suggestion, nil)

	_, err := f.service.RejectSuggestion(ctx, "t", "buyer", suggestion.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestResolveAlert(t *testing.T) {
	ctx := context.Background()
	f := newAlertFixture()
	alert := &models.StockAlert{ID: uuid.New(), Status: models.AlertStatusActive}
	f.repo.On("GetAlert", ctx, "t", alert.ID).Return(alert, nil)
	f.repo.On("SaveAlert", ctx, alert).Return(nil)

	_, err := f.service.ResolveAlert(ctx, "t", "lead", alert.ID, "restocked manually")
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, alert.Status)
	assert.Equal(t, "restocked manually", *alert.ResolveNote)

	_, err = f.service.IgnoreAlert(ctx, "t", "lead", alert.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}
