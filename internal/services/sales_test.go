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

type salesFixture struct {
	repo    *mocks.MockSalesRepository
	stock   *mocks.MockStockRepository
	catalog *mocks.MockCatalogRepository
	finance *financeFixture
	service *SalesService
}

func newSalesFixture() *salesFixture {
	stock := new(mocks.MockStockRepository)
	catalog := new(mocks.MockCatalogRepository)
	f := &salesFixture{
		repo:    &mocks.MockSalesRepository{StockRepo: stock},
		stock:   stock,
		catalog: catalog,
		finance: newFinanceFixture(),
	}
	f.service = &SalesService{
		repo:      f.repo,
		catalog:   catalog,
		finance:   f.finance.service,
		inventory: newInventoryService(stock, catalog),
		logger:    testLogger(),
	}
	return f
}

// expectExistingReceivable lets the receivable hook find the order already invoiced
func expectExistingReceivable(f *salesFixture, order *models.Order) {
	f.finance.sales.On("GetOrder", mock.Anything, "t", order.ID).Return(order, nil)
	f.finance.repo.On("GetReceivableByOrder", mock.Anything, "t", order.ID).Return(&models.Receivable{OrderID: order.ID}, nil)
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()

	customer := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeCustomer}
	widget := testProduct("t")
	gadget := &models.Product{ID: uuid.New(), Price: 20}
	missing := uuid.New()

	f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)
	f.catalog.On("GetProduct", ctx, "t", widget.ID).Return(widget, nil)
	f.catalog.On("GetProduct", ctx, "t", gadget.ID).Return(gadget, nil)
	f.catalog.On("GetProduct", ctx, "t", missing).Return(nil, repository.ErrNotFound)
	f.finance.repo.On("GetCredit", ctx, "t", customer.ID).Return(nil, repository.ErrNotFound)
	f.repo.On("CreateOrder", ctx, mock.Anything).Return(nil)

	order, err := f.service.CreateOrder(ctx, "t", "seller-1", models.CreateOrderRequest{
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{ProductID: widget.ID, Quantity: 2},
			{ProductID: gadget.ID, Quantity: 1, UnitPrice: 18},
			{ProductID: missing, Quantity: 5},
			{ProductID: widget.ID, Quantity: 0},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "seller-1", order.SellerID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.0, order.Items[0].Subtotal)
	assert.Equal(t, 18.0, order.Items[1].Price)
	assert.Equal(t, 28.0, order.TotalAmount)
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{4}$`, order.OrderNo)
}

func TestCreateOrder_Rejections(t *testing.T) {
	ctx := context.Background()
	customer := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeCustomer}
	product := testProduct("t")

	t.Run("no usable lines", func(t *testing.T) {
		f := newSalesFixture()
		f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)

		_, err := f.service.CreateOrder(ctx, "t", "s", models.CreateOrderRequest{
			CustomerID: customer.ID,
			Items:      []models.OrderItemInput{{ProductID: product.ID, Quantity: 0}},
		})
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("supplier as customer", func(t *testing.T) {
		f := newSalesFixture()
		supplier := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeSupplier}
		f.catalog.On("GetPartner", ctx, "t", supplier.ID).Return(supplier, nil)

		_, err := f.service.CreateOrder(ctx, "t", "s", models.CreateOrderRequest{CustomerID: supplier.ID})
		assert.ErrorIs(t, err, ErrNotCustomer)
	})

	t.Run("credit exceeded", func(t *testing.T) {
		f := newSalesFixture()
		f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)
		f.catalog.On("GetProduct", ctx, "t", product.ID).Return(product, nil)
		f.finance.repo.On("GetCredit", ctx, "t", customer.ID).Return(&models.CustomerCredit{CreditLimit: 100, UsedCredit: 95}, nil)

		_, err := f.service.CreateOrder(ctx, "t", "s", models.CreateOrderRequest{
			CustomerID: customer.ID,
			Items:      []models.OrderItemInput{{ProductID: product.ID, Quantity: 2}},
		})
		assert.ErrorIs(t, err, ErrCreditExceeded)
		f.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("new orders cannot start shipped", func(t *testing.T) {
		f := newSalesFixture()
		f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)

		_, err := f.service.CreateOrder(ctx, "t", "s", models.CreateOrderRequest{CustomerID: customer.ID, Status: models.OrderStatusShipped})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr bool
	}{
		{"pending to paid", models.OrderStatusPending, models.OrderStatusPaid, false},
		{"shipped to done", models.OrderStatusShipped, models.OrderStatusDone, false},
		{"pending to done", models.OrderStatusPending, models.OrderStatusDone, true},
		{"done is final", models.OrderStatusDone, models.OrderStatusPaid, true},
		{"shipping needs its own operation", models.OrderStatusPaid, models.OrderStatusShipped, true},
		{"cancelling needs its own operation", models.OrderStatusPending, models.OrderStatusCancelled, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSalesFixture()
			order := &models.Order{ID: uuid.New(), Status: tc.from}
			f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
			f.repo.On("UpdateOrder", ctx, order).Return(nil)
			expectExistingReceivable(f, order)

			_, err := f.service.UpdateStatus(ctx, "t", order.ID, tc.to)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidState)
				assert.Equal(t, tc.from, order.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, order.Status)
		})
	}
}

func TestShip(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	warehouseID := uuid.New()
	product := testProduct("t")
	order := &models.Order{
		ID:      uuid.New(),
		OrderNo: "ORD-1",
		Status:  models.OrderStatusPaid,
		Items:   []models.OrderItem{{ProductID: product.ID, Product: product, Quantity: 3}},
	}
	stock := &models.Stock{ProductID: product.ID, WarehouseID: warehouseID, Quantity: 5}

	f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
	f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{ID: warehouseID}, nil)
	f.stock.On("LockStock", ctx, "t", product.ID, warehouseID).Return(stock, nil)
	f.stock.On("SaveStock", ctx, stock).Return(nil)
	f.stock.On("CreateLog", ctx, mock.MatchedBy(func(l *models.InventoryLog) bool {
		return l.MoveType == models.MoveTypeOutbound && l.QtyChange == -3 && l.TransactionCode == "ORD-1"
	})).Return(nil)
	f.stock.On("InvalidateStock", ctx, "t", product.ID, warehouseID).Return()
	f.repo.On("UpdateOrder", ctx, order).Return(nil)
	expectExistingReceivable(f, order)

	shipped, err := f.service.Ship(ctx, "t", "picker", order.ID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
	assert.NotNil(t, shipped.ShippedAt)
	assert.Equal(t, warehouseID, *shipped.WarehouseID)
	assert.Equal(t, 2, stock.Quantity)
	f.stock.AssertExpectations(t)
}

func TestShip_ShortageAbortsWholeOrder(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	warehouseID := uuid.New()
	first, second := testProduct("t"), testProduct("t")
	order := &models.Order{
		ID:     uuid.New(),
		Status: models.OrderStatusPaid,
		Items: []models.OrderItem{
			{ProductID: first.ID, Quantity: 1},
			{ProductID: second.ID, Quantity: 9},
		},
	}

	f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
	f.stock.On("GetWarehouse", ctx, "t", warehouseID).Return(&models.Warehouse{}, nil)
	f.stock.On("LockStock", ctx, "t", first.ID, warehouseID).Return(&models.Stock{Quantity: 4}, nil)
	f.stock.On("LockStock", ctx, "t", second.ID, warehouseID).Return(&models.Stock{Quantity: 2}, nil)
	f.stock.On("SaveStock", ctx, mock.Anything).Return(nil)
	f.stock.On("CreateLog", ctx, mock.Anything).Return(nil)

	_, err := f.service.Ship(ctx, "t", "picker", order.ID, warehouseID)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	f.repo.AssertNotCalled(t, "UpdateOrder", mock.Anything, mock.Anything)
	f.stock.AssertNotCalled(t, "InvalidateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("paid order records the reason", func(t *testing.T) {
		f := newSalesFixture()
		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPaid}
		f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
		f.repo.On("UpdateOrder", ctx, order).Return(nil)

		_, err := f.service.Cancel(ctx, "t", "op", order.ID, "customer changed mind")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, order.Status)
		require.NotNil(t, order.CancelReason)
		assert.Equal(t, "customer changed mind", *order.CancelReason)
	})

	t.Run("shipped orders cannot be cancelled", func(t *testing.T) {
		f := newSalesFixture()
		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusShipped}
		f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)

		_, err := f.service.Cancel(ctx, "t", "op", order.ID, "")
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestUpdateStatus_PaidBooksReceivable(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	customerID := uuid.New()
	order := &models.Order{ID: uuid.New(), OrderNo: "ORD-9", CustomerID: customerID, Status: models.OrderStatusPending, TotalAmount: 120}

	f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
	f.repo.On("UpdateOrder", ctx, order).Return(nil)
	f.finance.sales.On("GetOrder", ctx, "t", order.ID).Return(order, nil)
	f.finance.repo.On("GetReceivableByOrder", ctx, "t", order.ID).Return(nil, repository.ErrNotFound)
	f.finance.repo.On("CreateReceivable", ctx, mock.MatchedBy(func(r *models.Receivable) bool {
		return r.OrderID == order.ID && r.CustomerID == customerID && r.TotalAmount == 120
	})).Return(nil).Once()
	f.finance.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(&models.CustomerCredit{CustomerID: customerID, CreditLimit: 10000, WarningThreshold: 80}, nil)
	f.finance.repo.On("SaveCredit", ctx, mock.MatchedBy(func(c *models.CustomerCredit) bool { return c.UsedCredit == 120 })).Return(nil).Once()

	_, err := f.service.UpdateStatus(ctx, "t", order.ID, models.OrderStatusPaid)
	require.NoError(t, err)
	f.finance.repo.AssertExpectations(t)
}

func TestUpdateStatus_DoneDoesNotBookReceivable(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusShipped}
	f.repo.On("GetOrderForUpdate", ctx, "t", order.ID).Return(order, nil)
	f.repo.On("UpdateOrder", ctx, order).Return(nil)

	_, err := f.service.UpdateStatus(ctx, "t", order.ID, models.OrderStatusDone)
	require.NoError(t, err)
	f.finance.repo.AssertNotCalled(t, "CreateReceivable", mock.Anything, mock.Anything)
}

func TestCreateOrder_PaidBooksReceivable(t *testing.T) {
	ctx := context.Background()
	f := newSalesFixture()
	customer := &models.Partner{ID: uuid.New(), Type: models.PartnerTypeCustomer}
	widget := testProduct("t")

	f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)
	f.catalog.On("GetProduct", ctx, "t", widget.ID).Return(widget, nil)
	f.finance.repo.On("GetCredit", ctx, "t", customer.ID).Return(nil, repository.ErrNotFound)
	f.repo.On("CreateOrder", ctx, mock.Anything).Return(nil)
	f.finance.sales.On("GetOrder", ctx, "t", mock.Anything).Return(&models.Order{CustomerID: customer.ID, Status: models.OrderStatusPaid, TotalAmount: 10}, nil)
	f.finance.repo.On("GetReceivableByOrder", ctx, "t", mock.Anything).Return(nil, repository.ErrNotFound)
	f.finance.repo.On("CreateReceivable", ctx, mock.Anything).Return(nil).Once()
	f.finance.repo.On("GetCreditForUpdate", ctx, "t", customer.ID).Return(nil, repository.ErrNotFound)
	f.finance.repo.On("CreateCredit", ctx, mock.Anything).Return(nil)
	f.finance.repo.On("SaveCredit", ctx, mock.MatchedBy(func(c *models.CustomerCredit) bool { return c.UsedCredit == 10 })).Return(nil).Once()

	order, err := f.service.CreateOrder(ctx, "t", "seller-1", models.CreateOrderRequest{
		CustomerID: customer.ID,
		Status:     models.OrderStatusPaid,
		Items:      []models.OrderItemInput{{ProductID: widget.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	f.finance.repo.AssertExpectations(t)
}
