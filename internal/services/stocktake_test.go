package services

import (
	"context"
	"testing"

	"erp-service/internal/models"
	"erp-service/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stocktakeFixture struct {
	repo    *mocks.MockStocktakeRepository
	stock   *mocks.MockStockRepository
	catalog *mocks.MockCatalogRepository
	service *StocktakeService
}

func newStocktakeFixture() *stocktakeFixture {
	stock := new(mocks.MockStockRepository)
	catalog := new(mocks.MockCatalogRepository)
	f := &stocktakeFixture{
		repo:    &mocks.MockStocktakeRepository{StockRepo: stock},
		stock:   stock,
		catalog: catalog,
	}
	f.service = &StocktakeService{
		repo:      f.repo,
		catalog:   catalog,
		inventory: newInventoryService(stock, catalog),
		logger:    testLogger(),
	}
	return f
}

func intPtr(v int) *int { return &v }

func TestCreateStocktake_Full(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	warehouseID := uuid.New()
	product := testProduct("t")

	f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{ID: warehouseID}, nil)
	f.repo.On("HasOpen", ctx, "t", warehouseID).Return(false, nil)
	f.stock.On("WarehouseStocks", ctx, "t", warehouseID, mock.Anything, true).Return([]models.Stock{
		{ProductID: product.ID, Product: product, Quantity: 7},
	}, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.repo.On("CreateItems", ctx, mock.Anything).Return(nil)
	f.repo.On("AddHistory", ctx, mock.MatchedBy(func(h *models.StocktakeHistory) bool { return h.Action == "create" })).Return(nil)

	take, err := f.service.Create(ctx, "t", "counter", models.CreateStocktakeRequest{WarehouseID: warehouseID, Type: models.StocktakeTypeFull})
	require.NoError(t, err)
	assert.Equal(t, models.StocktakeStatusDraft, take.Status)
	assert.Equal(t, 1, take.TotalItems)
	require.Len(t, take.Items, 1)
	assert.Equal(t, 7, take.Items[0].SystemQty)
	assert.Equal(t, 2.5, take.Items[0].UnitCost)
	assert.Equal(t, []string{product.ID.String()}, []string(take.ProductIDs))
}

func TestCreateStocktake_Rejections(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()

	t.Run("open count exists", func(t *testing.T) {
		f := newStocktakeFixture()
		f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{}, nil)
		f.repo.On("HasOpen", ctx, "t", warehouseID).Return(true, nil)

		_, err := f.service.Create(ctx, "t", "c", models.CreateStocktakeRequest{WarehouseID: warehouseID, Type: models.StocktakeTypeFull})
		assert.ErrorIs(t, err, ErrOpenStocktakeExists)
	})

	t.Run("partial without products", func(t *testing.T) {
		f := newStocktakeFixture()
		f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{}, nil)
		f.repo.On("HasOpen", ctx, "t", warehouseID).Return(false, nil)

		_, err := f.service.Create(ctx, "t", "c", models.CreateStocktakeRequest{WarehouseID: warehouseID, Type: models.StocktakeTypePartial})
		assert.ErrorIs(t, err, ErrProductsRequired)
	})
}

func TestCreateStocktake_PartialCountsMissingStockFromZero(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	warehouseID := uuid.New()
	stocked, unstocked := testProduct("t"), testProduct("t")
	ids := []uuid.UUID{stocked.ID, unstocked.ID, stocked.ID}

	f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{}, nil)
	f.repo.On("HasOpen", ctx, "t", warehouseID).Return(false, nil)
	f.stock.On("WarehouseStocks", ctx, "t", warehouseID, ids, false).Return([]models.Stock{
		{ProductID: stocked.ID, Quantity: 3},
	}, nil)
	f.catalog.On("GetProduct", ctx, "t", stocked.ID).Return(stocked, nil)
	f.catalog.On("GetProduct", ctx, "t", unstocked.ID).Return(unstocked, nil)
	f.repo.On("Create", ctx, mock.Anything).Return(nil)
	f.repo.On("CreateItems", ctx, mock.Anything).Return(nil)
	f.repo.On("AddHistory", ctx, mock.Anything).Return(nil)

	take, err := f.service.Create(ctx, "t", "c", models.CreateStocktakeRequest{
		WarehouseID: warehouseID,
		Type:        models.StocktakeTypePartial,
		ProductIDs:  ids,
	})
	require.NoError(t, err)
	require.Len(t, take.Items, 2)
	assert.Equal(t, 3, take.Items[0].SystemQty)
	assert.Equal(t, 0, take.Items[1].SystemQty)
}

func TestInputCount(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	take := &models.Stocktake{ID: uuid.New(), Status: models.StocktakeStatusInProgress, TotalItems: 2}
	item := &models.StocktakeItem{ID: uuid.New(), SystemQty: 5, Confirmed: true}

	f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)
	f.repo.On("GetItem", ctx, "t", take.ID, item.ID).Return(item, nil)
	f.repo.On("UpdateItem", ctx, item).Return(nil)
	f.repo.On("CountCounted", ctx, "t", take.ID).Return(int64(1), nil)
	f.repo.On("Update", ctx, take).Return(nil)

	counted, err := f.service.InputCount(ctx, "t", "counter", take.ID, models.InputCountRequest{ItemID: item.ID, ActualQty: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, *counted.ActualQty)
	assert.Equal(t, -1, counted.Variance())
	assert.False(t, counted.Confirmed)
	assert.Equal(t, 1, take.CountedItems)
}

func TestInputCount_RequiresInProgress(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	take := &models.Stocktake{ID: uuid.New(), Status: models.StocktakeStatusDraft}
	f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)

	_, err := f.service.InputCount(ctx, "t", "c", take.ID, models.InputCountRequest{ItemID: uuid.New(), ActualQty: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmItem(t *testing.T) {
	ctx := context.Background()
	take := &models.Stocktake{ID: uuid.New(), Status: models.StocktakeStatusInProgress}

	cases := []struct {
		name    string
		item    *models.StocktakeItem
		reason  string
		wantErr error
	}{
		{"not counted", &models.StocktakeItem{ID: uuid.New(), SystemQty: 5}, "", ErrItemNotCounted},
		{"variance without reason", &models.StocktakeItem{ID: uuid.New(), SystemQty: 5, ActualQty: intPtr(3)}, "", ErrReasonRequired},
		{"variance with reason", &models.StocktakeItem{ID: uuid.New(), SystemQty: 5, ActualQty: intPtr(3)}, "damaged", nil},
		{"match", &models.StocktakeItem{ID: uuid.New(), SystemQty: 5, ActualQty: intPtr(5)}, "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newStocktakeFixture()
			f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)
			f.repo.On("GetItem", ctx, "t", take.ID, tc.item.ID).Return(tc.item, nil)
			f.repo.On("UpdateItem", ctx, tc.item).Return(nil)
			f.repo.On("AddHistory", ctx, mock.Anything).Return(nil)

			item, err := f.service.ConfirmItem(ctx, "t", "lead", take.ID, tc.item.ID, tc.reason)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, item.Confirmed)
			if tc.reason != "" {
				assert.Equal(t, tc.reason, *item.Remark)
			}
		})
	}
}

func TestCompleteStocktake_Uncounted(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	take := &models.Stocktake{
		ID:     uuid.New(),
		Status: models.StocktakeStatusInProgress,
		Items: []models.StocktakeItem{
			{SystemQty: 1, ActualQty: intPtr(1)},
			{SystemQty: 2},
			{SystemQty: 3},
		},
	}
	f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)

	_, err := f.service.Complete(ctx, "t", "lead", take.ID, true)
	require.ErrorIs(t, err, ErrUncountedItems)
	var uncounted *UncountedItemsError
	require.ErrorAs(t, err, &uncounted)
	assert.Equal(t, 2, uncounted.Count)
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCompleteStocktake_AutoAdjust(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	warehouseID := uuid.New()
	short, exact := testProduct("t"), testProduct("t")
	reason := "broken shelf"
	take := &models.Stocktake{
		ID:          uuid.New(),
		TakeNo:      "ST-1",
		WarehouseID: warehouseID,
		Status:      models.StocktakeStatusInProgress,
		Items: []models.StocktakeItem{
			{ProductID: short.ID, Product: short, SystemQty: 10, ActualQty: intPtr(7), Remark: &reason},
			{ProductID: exact.ID, Product: exact, SystemQty: 4, ActualQty: intPtr(4)},
		},
	}
	shortStock := &models.Stock{ProductID: short.ID, Quantity: 10}
	exactStock := &models.Stock{ProductID: exact.ID, Quantity: 4}

	f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)
	f.stock.On("LockStock", ctx, "t", short.ID, warehouseID).Return(shortStock, nil)
	f.stock.On("LockStock", ctx, "t", exact.ID, warehouseID).Return(exactStock, nil)
	f.stock.On("SaveStock", ctx, mock.Anything).Return(nil)
	f.stock.On("CreateLog", ctx, mock.MatchedBy(func(l *models.InventoryLog) bool {
		return l.MoveType == models.MoveTypeCheck && l.QtyChange == -3 &&
			l.Remark == "stocktake adjustment: ST-1, reason: broken shelf"
	})).Return(nil).Once()
	f.stock.On("InvalidateStock", ctx, "t", short.ID, warehouseID).Return()
	f.repo.On("Update", ctx, take).Return(nil)
	f.repo.On("AddHistory", ctx, mock.Anything).Return(nil)

	completed, err := f.service.Complete(ctx, "t", "lead", take.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StocktakeStatusCompleted, completed.Status)
	assert.Equal(t, 1, completed.VarianceItems)
	assert.Equal(t, 2, completed.CountedItems)
	assert.Equal(t, 7, shortStock.Quantity)
	assert.NotNil(t, exactStock.LastCountedAt)
	f.stock.AssertNumberOfCalls(t, "CreateLog", 1)
	f.stock.AssertNumberOfCalls(t, "InvalidateStock", 1)
}

func TestCompleteStocktake_MatchedItemKeepsLaterMovement(t *testing.T) {
	ctx := context.Background()
	f := newStocktakeFixture()
	warehouseID := uuid.New()
	product := testProduct("t")
	take := &models.Stocktake{
		ID:          uuid.New(),
		TakeNo:      "ST-2",
		WarehouseID: warehouseID,
		Status:      models.StocktakeStatusInProgress,
		Items: []models.StocktakeItem{
			{ProductID: product.ID, Product: product, SystemQty: 4, ActualQty: intPtr(4)},
		},
	}
	// a receipt landed after the snapshot was taken
	moved := &models.Stock{ProductID: product.ID, Quantity: 9}

	f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)
	f.stock.On("LockStock", ctx, "t", product.ID, warehouseID).Return(moved, nil)
	f.stock.On("SaveStock", ctx, moved).Return(nil)
	f.repo.On("Update", ctx, take).Return(nil)
	f.repo.On("AddHistory", ctx, mock.Anything).Return(nil)

	completed, err := f.service.Complete(ctx, "t", "lead", take.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, completed.VarianceItems)
	assert.Equal(t, 9, moved.Quantity)
	assert.NotNil(t, moved.LastCountedAt)
	f.stock.AssertNotCalled(t, "CreateLog", mock.Anything, mock.Anything)
	f.stock.AssertNotCalled(t, "InvalidateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelStocktake(t *testing.T) {
	ctx := context.Background()

	t.Run("in progress", func(t *testing.T) {
		f := newStocktakeFixture()
		take := &models.Stocktake{ID: uuid.New(), Status: models.StocktakeStatusInProgress}
		f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)
		f.repo.On("Update", ctx, take).Return(nil)
		f.repo.On("AddHistory", ctx, mock.Anything).Return(nil)

		_, err := f.service.Cancel(ctx, "t", "lead", take.ID, "wrong warehouse")
		require.NoError(t, err)
		assert.Equal(t, models.StocktakeStatusCancelled, take.Status)
		assert.Equal(t, "Cancelled: wrong warehouse", *take.Remark)
	})

	t.Run("completed", func(t *testing.T) {
		f := newStocktakeFixture()
		take := &models.Stocktake{ID: uuid.New(), Status: models.StocktakeStatusCompleted}
		f.repo.On("GetForUpdate", ctx, "t", take.ID).Return(take, nil)

		_, err := f.service.Cancel(ctx, "t", "lead", take.ID, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestSummarizeVariance(t *testing.T) {
	take := &models.Stocktake{Items: []models.StocktakeItem{
		{SystemQty: 10, ActualQty: intPtr(12), UnitCost: 2},
		{SystemQty: 10, ActualQty: intPtr(7), UnitCost: 3},
		{SystemQty: 5, ActualQty: intPtr(5), UnitCost: 1},
		{SystemQty: 5},
	}}

	summary := SummarizeVariance(take)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 3, summary.CountedItems)
	assert.Equal(t, 2, summary.VarianceItems)
	assert.Equal(t, 2, summary.SurplusQuantity)
	assert.Equal(t, 3, summary.LossQuantity)
	assert.Equal(t, 4.0, summary.SurplusValue)
	assert.Equal(t, 9.0, summary.LossValue)
	assert.Equal(t, -5.0, summary.NetValue)
	assert.Equal(t, 75.0, summary.Progress)
}

func TestAdjustmentRemark(t *testing.T) {
	assert.Equal(t, "stocktake adjustment: ST-9, reason: routine count", AdjustmentRemark("ST-9", nil))
	note := "water damage"
	assert.Equal(t, "stocktake adjustment: ST-9, reason: water damage", AdjustmentRemark("ST-9", &note))
}
