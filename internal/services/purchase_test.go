package services

import (
	"context"
	"testing"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type purchaseFixture struct {
	repo    *mocks.MockPurchaseRepository
	stock   *mocks.MockStockRepository
	catalog *mocks.MockCatalogRepository
	service *PurchaseService
}

func newPurchaseFixture() *purchaseFixture {
	stock := new(mocks.MockStockRepository)
	catalog := new(mocks.MockCatalogRepository)
	f := &purchaseFixture{
		repo:    &mocks.MockPurchaseRepository{StockRepo: stock},
		stock:   stock,
		catalog: catalog,
	}
	f.service = &PurchaseService{
		repo:      f.repo,
		catalog:   catalog,
		inventory: newInventoryService(stock, catalog),
		logger:    testLogger(),
	}
	return f
}

func TestGetSupplierPrice(t *testing.T) {
	ctx := context.Background()
	product := testProduct("t")
	supplierID := uuid.New()

	t.Run("latest quote wins", func(t *testing.T) {
		f := newPurchaseFixture()
		f.repo.On("LatestPrice", ctx, "t", product.ID, supplierID).Return(&models.PriceHistory{Price: 2.1}, nil)

		price, err := f.service.GetSupplierPrice(ctx, "t", product.ID, supplierID)
		require.NoError(t, err)
		assert.Equal(t, 2.1, price)
	})

	t.Run("falls back to product cost", func(t *testing.T) {
		f := newPurchaseFixture()
		f.repo.On("LatestPrice", ctx, "t", product.ID, supplierID).Return(nil, repository.ErrNotFound)
		f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)

		price, err := f.service.GetSupplierPrice(ctx, "t", product.ID, supplierID)
		require.NoError(t, err)
		assert.Equal(t, 2.5, price)
	})
}

func TestCreatePurchaseOrder(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	supplier := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeSupplier}
	warehouseID := uuid.New()
	quoted, priced := testProduct("t"), testProduct("t")
	explicit := 4.0

	f.catalog.On("GetPartner", ctx, "t", supplier.ID).Return(supplier, nil)
	f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{ID: warehouseID}, nil)
	f.catalog.On("GetProduct", ctx, "t", quoted.ID).Return(quoted, nil)
	f.catalog.On("GetProduct", ctx, "t", priced.ID).Return(priced, nil)
	f.repo.On("LatestPrice", ctx, "t", quoted.ID, supplier.ID).Return(&models.PriceHistory{Price: 3}, nil)
	f.repo.On("CreatePurchaseOrder", ctx, mock.Anything).Return(nil)
	f.repo.On("CreatePriceHistory", ctx, mock.Anything).Return(nil)

	po, err := f.service.Create(ctx, "t", "buyer", models.CreatePurchaseOrderRequest{
		SupplierID:  supplier.ID,
		WarehouseID: warehouseID,
		Items: []models.PurchaseItemInput{
			{ProductID: quoted.ID, Quantity: 10},
			{ProductID: priced.ID, Quantity: 5, UnitPrice: &explicit},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderStatusDraft, po.Status)
	assert.Equal(t, 50.0, po.TotalAmount)
	assert.Regexp(t, `^PO-\d{8}-[0-9A-F]{4}$`, po.PONumber)
	f.repo.AssertNumberOfCalls(t, "CreatePriceHistory", 2)
}

func TestCreatePurchaseOrder_RejectsCustomer(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	customer := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeCustomer}
	f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)

	_, err := f.service.Create(ctx, "t", "buyer", models.CreatePurchaseOrderRequest{SupplierID: customer.ID})
	assert.ErrorIs(t, err, ErrNotSupplier)
}

func TestPurchaseWorkflow(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name       string
		from       models.PurchaseOrderStatus
		run        func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error)
		wantStatus models.PurchaseOrderStatus
		wantErr    bool
	}{
		{
			name:       "submit draft",
			from:       models.PurchaseOrderStatusDraft,
			run:        func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) { return s.Submit(ctx, "t", "buyer", id) },
			wantStatus: models.PurchaseOrderStatusPending,
		},
		{
			name: "approve pending",
			from: models.PurchaseOrderStatusPending,
			run: func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) {
				return s.Approve(ctx, "t", "boss", id, models.ApprovePurchaseOrderRequest{Approved: true})
			},
			wantStatus: models.PurchaseOrderStatusApproved,
		},
		{
			name: "reject returns to draft",
			from: models.PurchaseOrderStatusPending,
			run: func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) {
				return s.Approve(ctx, "t", "boss", id, models.ApprovePurchaseOrderRequest{Remark: "too pricey"})
			},
			wantStatus: models.PurchaseOrderStatusDraft,
		},
		{
			name:    "approve draft",
			from:    models.PurchaseOrderStatusDraft,
			run:     func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) { return s.Approve(ctx, "t", "boss", id, models.ApprovePurchaseOrderRequest{Approved: true}) },
			wantErr: true,
		},
		{
			name:       "order approved",
			from:       models.PurchaseOrderStatusApproved,
			run:        func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) { return s.MarkOrdered(ctx, "t", id) },
			wantStatus: models.PurchaseOrderStatusOrdered,
		},
		{
			name:    "cancel partial",
			from:    models.PurchaseOrderStatusPartial,
			run:     func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) { return s.Cancel(ctx, "t", id, "") },
			wantErr: true,
		},
		{
			name:       "cancel ordered",
			from:       models.PurchaseOrderStatusOrdered,
			run:        func(s *PurchaseService, id uuid.UUID) (*models.PurchaseOrder, error) { return s.Cancel(ctx, "t", id, "late") },
			wantStatus: models.PurchaseOrderStatusCancelled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newPurchaseFixture()
			po := &models.PurchaseOrder{ID: uuid.New(), Status: tc.from}
			f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)
			f.repo.On("UpdatePurchaseOrder", ctx, po).Return(nil)

			_, err := tc.run(f.service, po.ID)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
				f.repo.AssertNotCalled(t, "UpdatePurchaseOrder", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, po.Status)
		})
	}
}

func TestApprove_RejectionKeepsReason(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	remark := "urgent"
	po := &models.PurchaseOrder{ID: uuid.New(), Status: models.PurchaseOrderStatusPending, Remark: &remark}
	f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)
	f.repo.On("UpdatePurchaseOrder", ctx, po).Return(nil)

	_, err := f.service.Approve(ctx, "t", "boss", po.ID, models.ApprovePurchaseOrderRequest{Remark: "wrong supplier"})
	require.NoError(t, err)
	assert.Equal(t, "urgent\nRejected: wrong supplier", *po.Remark)
	assert.Nil(t, po.ApprovedAt)
}

func TestReceive(t *testing.T) {
	ctx := context.Background()
	warehouseID := uuid.New()
	supplierID := uuid.New()
	product := testProduct("t")

	newOrder := func() *models.PurchaseOrder {
		return &models.PurchaseOrder{
			ID:          uuid.New(),
			TenantID:    "t",
			PONumber:    "PO-1",
			SupplierID:  supplierID,
			WarehouseID: warehouseID,
			TotalAmount: 25,
			Status:      models.PurchaseOrderStatusOrdered,
			Items: []models.PurchaseOrderItem{
				{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 10, UnitPrice: 2.5},
			},
		}
	}

	t.Run("partial receipt", func(t *testing.T) {
		f := newPurchaseFixture()
		po := newOrder()
		stock := &models.Stock{Quantity: 1}
		f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)
		f.stock.On("LockStock", ctx, "t", product.ID, warehouseID).Return(stock, nil)
		f.stock.On("SaveStock", ctx, stock).Return(nil)
		f.stock.On("CreateLog", ctx, mock.Anything).Return(nil)
		f.stock.On("InvalidateStock", ctx, "t", product.ID, warehouseID).Return()
		f.repo.On("UpdatePurchaseOrderItem", ctx, mock.Anything).Return(nil)
		f.repo.On("UpdatePurchaseOrder", ctx, po).Return(nil)

		_, err := f.service.Receive(ctx, "t", "clerk", po.ID, models.ReceivePurchaseOrderRequest{
			Items: []models.ReceiveLine{{ItemID: po.Items[0].ID, Quantity: 4}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.PurchaseOrderStatusPartial, po.Status)
		assert.Equal(t, 4, po.Items[0].ReceivedQty)
		assert.Equal(t, 5, stock.Quantity)
		f.repo.AssertNotCalled(t, "GetPerformanceForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("over receipt is capped and completes the order", func(t *testing.T) {
		f := newPurchaseFixture()
		po := newOrder()
		po.Items[0].ReceivedQty = 6
		stock := &models.Stock{Quantity: 0}
		perf := &models.SupplierPerformance{SupplierID: supplierID}
		f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)
		f.stock.On("LockStock", ctx, "t", product.ID, warehouseID).Return(stock, nil)
		f.stock.On("SaveStock", ctx, stock).Return(nil)
		f.stock.On("CreateLog", ctx, mock.Anything).Return(nil)
		f.stock.On("InvalidateStock", ctx, "t", product.ID, warehouseID).Return()
		f.repo.On("UpdatePurchaseOrderItem", ctx, mock.Anything).Return(nil)
		f.repo.On("UpdatePurchaseOrder", ctx, po).Return(nil)
		f.repo.On("GetPerformanceForUpdate", ctx, "t", supplierID).Return(perf, nil)
		f.repo.On("SavePerformance", ctx, perf).Return(nil)

		_, err := f.service.Receive(ctx, "t", "clerk", po.ID, models.ReceivePurchaseOrderRequest{
			Items: []models.ReceiveLine{{ItemID: po.Items[0].ID, Quantity: 9}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.PurchaseOrderStatusReceived, po.Status)
		assert.NotNil(t, po.ActualReceiveDate)
		assert.Equal(t, 4, stock.Quantity)
		assert.Equal(t, 1, perf.TotalOrders)
		assert.Equal(t, 1, perf.OnTimeOrders)
		assert.Equal(t, 25.0, perf.TotalAmount)
	})

	t.Run("nothing left to receive", func(t *testing.T) {
		f := newPurchaseFixture()
		po := newOrder()
		po.Status = models.PurchaseOrderStatusPartial
		po.Items[0].ReceivedQty = 10
		f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)

		_, err := f.service.Receive(ctx, "t", "clerk", po.ID, models.ReceivePurchaseOrderRequest{
			Items: []models.ReceiveLine{{ItemID: po.Items[0].ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrNothingToReceive)
	})

	t.Run("draft cannot receive", func(t *testing.T) {
		f := newPurchaseFixture()
		po := newOrder()
		po.Status = models.PurchaseOrderStatusDraft
		f.repo.On("GetPurchaseOrderForUpdate", ctx, "t", po.ID).Return(po, nil)

		_, err := f.service.Receive(ctx, "t", "clerk", po.ID, models.ReceivePurchaseOrderRequest{
			Items: []models.ReceiveLine{{ItemID: po.Items[0].ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestOnTime(t *testing.T) {
	expected := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, OnTime(nil, time.Now()))
	assert.True(t, OnTime(&expected, time.Date(2024, 5, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, OnTime(&expected, time.Date(2024, 5, 11, 0, 0, 1, 0, time.UTC)))
}
