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

type financeFixture struct {
	repo     *mocks.MockFinanceRepository
	sales    *mocks.MockSalesRepository
	catalog  *mocks.MockCatalogRepository
	notifyDB *mocks.MockNotificationRepository
	service  *FinanceService
}

func newFinanceFixture() *financeFixture {
	f := &financeFixture{
		repo:     new(mocks.MockFinanceRepository),
		sales:    new(mocks.MockSalesRepository),
		catalog:  new(mocks.MockCatalogRepository),
		notifyDB: new(mocks.MockNotificationRepository),
	}
	f.service = &FinanceService{
		repo:     f.repo,
		sales:    f.sales,
		catalog:  f.catalog,
		notifier: &NotificationService{repo: f.notifyDB, logger: testLogger()},
		config:   FinanceConfig{DefaultCreditLimit: 10000, DueDays: 30},
		logger:   testLogger(),
	}
	return f
}

func TestCheckCredit(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	reason := "late payments"

	cases := []struct {
		name    string
		credit  *models.CustomerCredit
		repoErr error
		amount  float64
		wantErr error
	}{
		{"no credit line passes", nil, repository.ErrNotFound, 1e9, nil},
		{"within available", &models.CustomerCredit{CreditLimit: 1000, UsedCredit: 400}, nil, 600, nil},
		{"exceeds available", &models.CustomerCredit{CreditLimit: 1000, UsedCredit: 400}, nil, 600.5, ErrCreditExceeded},
		{"frozen", &models.CustomerCredit{CreditLimit: 1000, IsFrozen: true, FrozenReason: &reason}, nil, 1, ErrCreditFrozen},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFinanceFixture()
			if tc.credit == nil {
				f.repo.On("GetCredit", ctx, "t", customerID).Return(nil, tc.repoErr)
			} else {
				f.repo.On("GetCredit", ctx, "t", customerID).Return(tc.credit, nil)
			}

			err := f.service.CheckCredit(ctx, "t", customerID, tc.amount)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestGetOrCreateCredit_OpensDefaultLine(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture()
	customerID := uuid.New()

	f.repo.On("GetCredit", ctx, "t", customerID).Return(nil, repository.ErrNotFound)
	f.catalog.On("GetPartner", ctx, "t", customerID).Return(&models.Partner{ID: customerID, Type: models.PartnerTypeCustomer}, nil)
	f.repo.On("CreateCredit", ctx, mock.Anything).Return(nil)

	credit, err := f.service.GetOrCreateCredit(ctx, "t", customerID)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, credit.CreditLimit)
	assert.Equal(t, float64(defaultWarningThreshold), credit.WarningThreshold)
	assert.Zero(t, credit.UsedCredit)
}

func TestGetOrCreateCredit_RejectsSupplier(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture()
	supplierID := uuid.New()

	f.repo.On("GetCredit", ctx, "t", supplierID).Return(nil, repository.ErrNotFound)
	f.catalog.On("GetPartner", ctx, "t", supplierID).Return(&models.Partner{ID: supplierID, Type: models.PartnerTypeSupplier}, nil)

	_, err := f.service.GetOrCreateCredit(ctx, "t", supplierID)
	assert.ErrorIs(t, err, ErrNotCustomer)
	f.repo.AssertNotCalled(t, "CreateCredit", mock.Anything, mock.Anything)
}

func TestUseCredit_WarnsOnceWhenThresholdCrossed(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("crossing the threshold notifies admins", func(t *testing.T) {
		f := newFinanceFixture()
		credit := &models.CustomerCredit{TenantID: "t", CustomerID: customerID, CreditLimit: 1000, UsedCredit: 700, WarningThreshold: 80}
		f.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(credit, nil)
		f.repo.On("SaveCredit", ctx, credit).Return(nil)
		f.catalog.On("GetPartner", ctx, "t", customerID).Return(&models.Partner{Name: "ACME"}, nil)
		f.notifyDB.On("CreateNotifications", ctx, mock.MatchedBy(func(rows []models.Notification) bool {
			return len(rows) == 1 && rows[0].UserID == "role:admin" && rows[0].Type == models.NotificationWarning
		})).Return(nil)

		_, err := f.service.UseCredit(ctx, "t", customerID, 150)
		require.NoError(t, err)
		assert.Equal(t, 850.0, credit.UsedCredit)
		f.notifyDB.AssertExpectations(t)
	})

	t.Run("already above the threshold stays quiet", func(t *testing.T) {
		f := newFinanceFixture()
		credit := &models.CustomerCredit{TenantID: "t", CustomerID: customerID, CreditLimit: 1000, UsedCredit: 850, WarningThreshold: 80}
		f.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(credit, nil)
		f.repo.On("SaveCredit", ctx, credit).Return(nil)

		_, err := f.service.UseCredit(ctx, "t", customerID, 50)
		require.NoError(t, err)
		f.notifyDB.AssertNotCalled(t, "CreateNotifications", mock.Anything, mock.Anything)
	})
}

func TestReleaseCredit_NeverNegative(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture()
	customerID := uuid.New()
	credit := &models.CustomerCredit{CreditLimit: 1000, UsedCredit: 30}
	f.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(credit, nil)
	f.repo.On("SaveCredit", ctx, credit).Return(nil)

	require.NoError(t, f.service.ReleaseCredit(ctx, "t", customerID, 100))
	assert.Zero(t, credit.UsedCredit)
}

func TestCreateReceivable(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	t.Run("books the order total against credit", func(t *testing.T) {
		f := newFinanceFixture()
		order := &models.Order{ID: uuid.New(), CustomerID: customerID, OrderNo: "SO-1", TotalAmount: 250, Status: models.OrderStatusPaid}
		credit := &models.CustomerCredit{CustomerID: customerID, CreditLimit: 1000, WarningThreshold: 80}
		f.sales.On("GetOrder", ctx, "t", order.ID).Return(order, nil)
		f.repo.On("GetReceivableByOrder", ctx, "t", order.ID).Return(nil, repository.ErrNotFound)
		f.repo.On("CreateReceivable", ctx, mock.Anything).Return(nil)
		f.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(credit, nil)
		f.repo.On("SaveCredit", ctx, credit).Return(nil)

		dueDays := 10
		receivable, err := f.service.CreateReceivable(ctx, "t", models.CreateReceivableRequest{OrderID: order.ID, DueDays: &dueDays})
		require.NoError(t, err)
		assert.Equal(t, 250.0, receivable.TotalAmount)
		assert.Equal(t, models.ReceivableStatusPending, receivable.Status)
		assert.Regexp(t, `^AR-\d{8}-[0-9A-F]{4}$`, receivable.ReceivableNo)
		y, m, d := time.Now().Date()
		assert.Equal(t, time.Date(y, m, d+10, 0, 0, 0, 0, time.UTC), receivable.DueDate)
		assert.Equal(t, 250.0, credit.UsedCredit)
	})

	t.Run("pending orders have no revenue yet", func(t *testing.T) {
		f := newFinanceFixture()
		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
		f.sales.On("GetOrder", ctx, "t", order.ID).Return(order, nil)

		_, err := f.service.CreateReceivable(ctx, "t", models.CreateReceivableRequest{OrderID: order.ID})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("one receivable per order", func(t *testing.T) {
		f := newFinanceFixture()
		order := &models.Order{ID: uuid.New(), Status: models.OrderStatusDone}
		f.sales.On("GetOrder", ctx, "t", order.ID).Return(order, nil)
		f.repo.On("GetReceivableByOrder", ctx, "t", order.ID).Return(&models.Receivable{}, nil)

		_, err := f.service.CreateReceivable(ctx, "t", models.CreateReceivableRequest{OrderID: order.ID})
		assert.ErrorIs(t, err, ErrReceivableExists)
		f.repo.AssertNotCalled(t, "CreateReceivable", mock.Anything, mock.Anything)
	})
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()

	cases := []struct {
		name       string
		paid       float64
		amount     float64
		wantStatus models.ReceivableStatus
	}{
		{"partial payment", 0, 40, models.ReceivableStatusPartial},
		{"settles the balance", 60, 40, models.ReceivableStatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFinanceFixture()
			receivable := &models.Receivable{ID: uuid.New(), CustomerID: customerID, TotalAmount: 100, PaidAmount: tc.paid, Status: models.ReceivableStatusPending}
			credit := &models.CustomerCredit{CreditLimit: 1000, UsedCredit: 100}
			f.repo.On("GetReceivableForUpdate", ctx, "t", receivable.ID).Return(receivable, nil)
			f.repo.On("CreatePayment", ctx, mock.Anything).Return(nil)
			f.repo.On("SaveReceivable", ctx, receivable).Return(nil)
			f.repo.On("GetCreditForUpdate", ctx, "t", customerID).Return(credit, nil)
			f.repo.On("SaveCredit", ctx, credit).Return(nil)

			payment, err := f.service.RecordPayment(ctx, "t", "cashier", models.RecordPaymentRequest{ReceivableID: receivable.ID, Amount: tc.amount})
			require.NoError(t, err)
			assert.Equal(t, models.PaymentMethodBank, payment.Method)
			assert.Equal(t, "cashier", payment.Operator)
			assert.Equal(t, tc.wantStatus, receivable.Status)
			assert.Equal(t, tc.paid+tc.amount, receivable.PaidAmount)
			assert.Equal(t, 100-tc.amount, credit.UsedCredit)
		})
	}
}

func TestRecordPayment_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("overpayment", func(t *testing.T) {
		f := newFinanceFixture()
		receivable := &models.Receivable{ID: uuid.New(), TotalAmount: 100, PaidAmount: 90, Status: models.ReceivableStatusPartial}
		f.repo.On("GetReceivableForUpdate", ctx, "t", receivable.ID).Return(receivable, nil)

		_, err := f.service.RecordPayment(ctx, "t", "op", models.RecordPaymentRequest{ReceivableID: receivable.ID, Amount: 10.01})
		assert.ErrorIs(t, err, ErrOverpayment)
		f.repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("already paid", func(t *testing.T) {
		f := newFinanceFixture()
		receivable := &models.Receivable{ID: uuid.New(), TotalAmount: 100, PaidAmount: 100, Status: models.ReceivableStatusPaid}
		f.repo.On("GetReceivableForUpdate", ctx, "t", receivable.ID).Return(receivable, nil)

		_, err := f.service.RecordPayment(ctx, "t", "op", models.RecordPaymentRequest{ReceivableID: receivable.ID, Amount: 1})
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		f := newFinanceFixture()
		_, err := f.service.RecordPayment(ctx, "t", "op", models.RecordPaymentRequest{ReceivableID: uuid.New(), Amount: 0})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestBuildAgingReport(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	due := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

	receivables := []models.Receivable{
		{TotalAmount: 100, DueDate: due(-5), Status: models.ReceivableStatusPending},
		{TotalAmount: 200, PaidAmount: 50, DueDate: due(10), Status: models.ReceivableStatusPartial},
		{TotalAmount: 300, DueDate: due(45), Status: models.ReceivableStatusOverdue},
		{TotalAmount: 400, DueDate: due(120), Status: models.ReceivableStatusOverdue},
		{TotalAmount: 500, PaidAmount: 500, DueDate: due(120), Status: models.ReceivableStatusPaid},
	}

	report := BuildAgingReport(receivables, now)

	require.Len(t, report.Buckets, len(models.AgeBuckets))
	amounts := map[models.AgeBucket]float64{}
	for _, b := range report.Buckets {
		amounts[b.Bucket] = b.Amount
	}
	assert.Equal(t, 100.0, amounts[models.AgeBucketCurrent])
	assert.Equal(t, 150.0, amounts[models.AgeBucket0To30])
	assert.Equal(t, 300.0, amounts[models.AgeBucket31To60])
	assert.Equal(t, 0.0, amounts[models.AgeBucket61To90])
	assert.Equal(t, 400.0, amounts[models.AgeBucketOver90])
	assert.Equal(t, 4, report.TotalCount)
	assert.Equal(t, 950.0, report.TotalAmount)
}

func TestGenerateStatement(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture()
	customer := &models.Partner{ID: uuid.New(), Name: "ACME", Type: models.PartnerTypeCustomer}
	start := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 9, 0, 0, 0, time.UTC)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	f.catalog.On("GetPartner", ctx, "t", customer.ID).Return(customer, nil)
	f.repo.On("LatestStatementBefore", ctx, "t", customer.ID, from).Return(&models.Statement{ClosingBalance: 120}, nil)
	f.repo.On("SumSales", ctx, "t", customer.ID, from, until).Return(500.0, nil)
	f.repo.On("SumPayments", ctx, "t", customer.ID, from, until).Return(300.0, nil)
	f.repo.On("CreateStatement", ctx, mock.Anything).Return(nil)

	statement, err := f.service.GenerateStatement(ctx, "t", "clerk", models.GenerateStatementRequest{CustomerID: customer.ID, StartDate: start, EndDate: end})
	require.NoError(t, err)
	assert.Equal(t, 120.0, statement.OpeningBalance)
	assert.Equal(t, 320.0, statement.ClosingBalance)
	assert.Equal(t, from, statement.StartDate)
	assert.Equal(t, "ACME", statement.Customer.Name)

	_, err = f.service.GenerateStatement(ctx, "t", "clerk", models.GenerateStatementRequest{CustomerID: customer.ID, StartDate: end, EndDate: start})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestConfirmStatement_Once(t *testing.T) {
	ctx := context.Background()
	f := newFinanceFixture()
	statement := &models.Statement{ID: uuid.New()}
	f.repo.On("GetStatement", ctx, "t", statement.ID).Return(statement, nil)
	f.repo.On("SaveStatement", ctx, statement).Return(nil)

	_, err := f.service.ConfirmStatement(ctx, "t", statement.ID)
	require.NoError(t, err)
	assert.True(t, statement.IsConfirmed)
	assert.NotNil(t, statement.ConfirmedAt)

	_, err = f.service.ConfirmStatement(ctx, "t", statement.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}
