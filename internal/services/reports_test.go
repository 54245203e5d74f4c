package services

import (
	"context"
	"errors"
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

type reportFixture struct {
	repo          *mocks.MockReportRepository
	notifications *mocks.MockNotificationRepository
	service       *ReportService
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		repo:          new(mocks.MockReportRepository),
		notifications: new(mocks.MockNotificationRepository),
	}
	f.service = &ReportService{
		repo:          f.repo,
		notifications: f.notifications,
		notifier:      &NotificationService{repo: f.notifications, logger: testLogger()},
		cache:         repository.NewCache(nil),
		ttl:           time.Minute,
		logger:        testLogger(),
	}
	return f
}

func TestGenerate_UnknownType(t *testing.T) {
	f := newReportFixture()
	_, err := f.service.Generate(context.Background(), "t", "weather", time.Now())
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestGenerate_SalesDaily(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	now := time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)
	today := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	f.repo.On("SalesTotals", ctx, "t", today, tomorrow).Return(&models.SalesTotals{Orders: 4, Amount: 120}, nil)
	f.repo.On("SalesSeries", ctx, "t", today, tomorrow, "hour").Return([]models.SalesPoint{}, nil)
	f.repo.On("TopProducts", ctx, "t", today, tomorrow, 10).Return([]models.ProductSales{}, nil)

	report, err := f.service.Generate(ctx, "t", models.ReportSalesDaily, now)
	require.NoError(t, err)
	assert.Equal(t, "Daily sales report", report.Name)
	assert.Equal(t, "2024-06-03", report.Period)
	data, ok := report.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, &models.SalesTotals{Orders: 4, Amount: 120}, data["totals"])
}

func TestGenerate_WeeklyPeriod(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	f.repo.On("SalesTotals", ctx, "t", mock.Anything, mock.Anything).Return(&models.SalesTotals{}, nil)
	f.repo.On("SalesSeries", ctx, "t", mock.Anything, mock.Anything, "day").Return([]models.SalesPoint{}, nil)

	report, err := f.service.Generate(ctx, "t", models.ReportSalesWeekly, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-28 ~ 2024-06-03", report.Period)
}

func TestProcessSubscriptions(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

	due := models.ReportSubscription{ID: uuid.New(), TenantID: "t", UserID: "user-1", ReportType: models.ReportInventorySummary, Frequency: models.FrequencyDaily, SendHour: 8, IsActive: true}
	later := models.ReportSubscription{ID: uuid.New(), TenantID: "t", UserID: "user-2", ReportType: models.ReportInventorySummary, Frequency: models.FrequencyDaily, SendHour: 17, IsActive: true}
	broken := models.ReportSubscription{ID: uuid.New(), TenantID: "t", UserID: "user-3", ReportType: models.ReportProductRanking, Frequency: models.FrequencyDaily, SendHour: 8, IsActive: true}

	f.notifications.On("ActiveSubscriptions", ctx, "t").Return([]models.ReportSubscription{due, later, broken}, nil)
	f.repo.On("InventorySummary", ctx, "t").Return(&models.InventorySummary{TotalProducts: 3}, nil)
	f.repo.On("TopProducts", ctx, "t", mock.Anything, mock.Anything, 10).Return([]models.ProductSales(nil), errors.New("db down"))
	f.notifications.On("CreateSnapshot", ctx, mock.MatchedBy(func(s *models.ReportSnapshot) bool {
		return s.ReportType == models.ReportInventorySummary && s.GeneratedBy == "subscription"
	})).Return(nil)
	f.notifications.On("CreateNotifications", ctx, mock.MatchedBy(func(rows []models.Notification) bool {
		return len(rows) == 1 && rows[0].UserID == "user-1" && rows[0].Category == models.CategoryReport
	})).Return(nil)
	f.notifications.On("SaveSubscription", ctx, mock.MatchedBy(func(s *models.ReportSubscription) bool {
		return s.ID == due.ID && s.LastSentAt != nil && s.LastSentAt.Equal(now)
	})).Return(nil)

	processed, err := f.service.ProcessSubscriptions(ctx, "t", now)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	f.notifications.AssertNumberOfCalls(t, "SaveSubscription", 1)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture()
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	f.repo.On("SalesTotals", ctx, "t", mock.Anything, mock.Anything).Return(&models.SalesTotals{Orders: 2, Amount: 55.5}, nil)
	f.repo.On("CountOrders", ctx, "t", models.OrderStatusPending).Return(int64(3), nil)
	f.repo.On("InventorySummary", ctx, "t").Return(&models.InventorySummary{LowStockCount: 4}, nil)
	f.repo.On("CountActiveAlerts", ctx, "t").Return(int64(5), nil)
	f.repo.On("ReceivablesOutstanding", ctx, "t").Return(800.0, nil)

	stats, err := f.service.Dashboard(ctx, "t", now)
	require.NoError(t, err)
	assert.Equal(t, 55.5, stats.TodaySales)
	assert.Equal(t, int64(2), stats.TodayOrders)
	assert.Equal(t, int64(3), stats.PendingOrders)
	assert.Equal(t, int64(4), stats.LowStockCount)
	assert.Equal(t, int64(5), stats.ActiveAlerts)
	assert.Equal(t, 800.0, stats.ReceivablesOutstanding)
}
