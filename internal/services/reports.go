package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const rankingSize = 10

var reportNames = map[string]string{
	models.ReportSalesDaily:        "Daily sales report",
	models.ReportSalesWeekly:       "Weekly sales report",
	models.ReportSalesMonthly:      "Monthly sales report",
	models.ReportInventorySummary:  "Inventory summary",
	models.ReportInventoryMovement: "Inventory movement report",
	models.ReportReceivableAging:   "Receivable aging report",
	models.ReportCustomerRanking:   "Customer ranking",
	models.ReportProductRanking:    "Product ranking",
}

// ReportService generates reports, delivers subscriptions and serves the dashboard
type ReportService struct {
	repo          repository.ReportRepositoryInterface
	notifications repository.NotificationRepositoryInterface
	finance       *FinanceService
	notifier      *NotificationService
	cache         *repository.Cache
	ttl           time.Duration
	logger        *logrus.Entry
}

func NewReportService(repo repository.ReportRepositoryInterface, notifications repository.NotificationRepositoryInterface, finance *FinanceService, notifier *NotificationService, cache *repository.Cache, ttl time.Duration, logger *logrus.Logger) *ReportService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportService{
		repo:          repo,
		notifications: notifications,
		finance:       finance,
		notifier:      notifier,
		cache:         cache,
		ttl:           ttl,
		logger:        logger.WithField("component", "reports"),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Generate builds a report as of now. Results are cached per tenant, type and day.
func (s *ReportService) Generate(ctx context.Context, tenantID, reportType string, now time.Time) (*models.Report, error) {
	name, ok := reportNames[reportType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, reportType)
	}

	key := fmt.Sprintf("report:%s:%s:%s", tenantID, reportType, now.Format("2006-01-02"))
	var cached models.Report
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	data, period, err := s.build(ctx, tenantID, reportType, now)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", reportType, err)
	}
	report := &models.Report{
		Type:        reportType,
		Name:        name,
		Period:      period,
		GeneratedAt: now.Format(time.RFC3339),
		Data:        data,
	}
	s.cache.SetJSON(ctx, key, report, s.ttl)
	return report, nil
}

func (s *ReportService) build(ctx context.Context, tenantID, reportType string, now time.Time) (interface{}, string, error) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch reportType {
	case models.ReportSalesDaily:
		totals, err := s.repo.SalesTotals(ctx, tenantID, today, tomorrow)
		if err != nil {
			return nil, "", err
		}
		hourly, err := s.repo.SalesSeries(ctx, tenantID, today, tomorrow, "hour")
		if err != nil {
			return nil, "", err
		}
		top, err := s.repo.TopProducts(ctx, tenantID, today, tomorrow, rankingSize)
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"totals": totals, "hourly": hourly, "topProducts": top}, today.Format("2006-01-02"), nil

	case models.ReportSalesWeekly:
		from := today.AddDate(0, 0, -6)
		totals, err := s.repo.SalesTotals(ctx, tenantID, from, tomorrow)
		if err != nil {
			return nil, "", err
		}
		daily, err := s.repo.SalesSeries(ctx, tenantID, from, tomorrow, "day")
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"totals": totals, "daily": daily}, periodLabel(from, today), nil

	case models.ReportSalesMonthly:
		from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		totals, err := s.repo.SalesTotals(ctx, tenantID, from, tomorrow)
		if err != nil {
			return nil, "", err
		}
		daily, err := s.repo.SalesSeries(ctx, tenantID, from, tomorrow, "day")
		if err != nil {
			return nil, "", err
		}
		customers, err := s.repo.TopCustomers(ctx, tenantID, from, tomorrow, rankingSize)
		if err != nil {
			return nil, "", err
		}
		return map[string]interface{}{"totals": totals, "daily": daily, "topCustomers": customers}, from.Format("2006-01"), nil

	case models.ReportInventorySummary:
		summary, err := s.repo.InventorySummary(ctx, tenantID)
		return summary, today.Format("2006-01-02"), err

	case models.ReportInventoryMovement:
		from := today.AddDate(0, 0, -6)
		movements, err := s.repo.MovementSummary(ctx, tenantID, from, tomorrow)
		return movements, periodLabel(from, today), err

	case models.ReportReceivableAging:
		if s.finance == nil {
			return nil, "", fmt.Errorf("finance is not configured")
		}
		aging, err := s.finance.AgingAnalysis(ctx, tenantID, nil)
		return aging, today.Format("2006-01-02"), err

	case models.ReportCustomerRanking:
		from := today.AddDate(0, 0, -29)
		customers, err := s.repo.TopCustomers(ctx, tenantID, from, tomorrow, rankingSize)
		return customers, periodLabel(from, today), err

	case models.ReportProductRanking:
		from := today.AddDate(0, 0, -29)
		products, err := s.repo.TopProducts(ctx, tenantID, from, tomorrow, rankingSize)
		return products, periodLabel(from, today), err
	}
	return nil, "", fmt.Errorf("%w: %q", ErrUnknownReport, reportType)
}

func periodLabel(from, to time.Time) string {
	return from.Format("2006-01-02") + " ~ " + to.Format("2006-01-02")
}

// ProcessSubscriptions delivers every due subscription of the tenant and returns how many were sent
func (s *ReportService) ProcessSubscriptions(ctx context.Context, tenantID string, now time.Time) (int, error) {
	subs, err := s.notifications.ActiveSubscriptions(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range subs {
		sub := &subs[i]
		if !ShouldGenerate(sub, now) {
			continue
		}
		if err := s.deliver(ctx, sub, now); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"tenantId":       tenantID,
				"subscriptionId": sub.ID,
				"reportType":     sub.ReportType,
			}).Warn("Failed to deliver report subscription")
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *ReportService) deliver(ctx context.Context, sub *models.ReportSubscription, now time.Time) error {
	report, err := s.Generate(ctx, sub.TenantID, sub.ReportType, now)
	if err != nil {
		return err
	}
	data, err := json.Marshal(report.Data)
	if err != nil {
		return err
	}

	snapshot := &models.ReportSnapshot{
		ID:          uuid.New(),
		TenantID:    sub.TenantID,
		ReportType:  report.Type,
		Name:        report.Name,
		Period:      report.Period,
		Data:        datatypes.JSON(data),
		GeneratedBy: "subscription",
		SentCount:   1,
	}
	if err := s.notifications.CreateSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if s.notifier != nil {
		err = s.notifier.Notify(ctx, sub.TenantID, []string{sub.UserID}, NotificationInput{
			Title:       "Report ready - " + report.Name,
			Content:     fmt.Sprintf("Your subscribed %s for %s is ready.", report.Name, report.Period),
			Type:        models.NotificationInfo,
			Category:    models.CategoryReport,
			RelatedType: "report",
			RelatedID:   snapshot.ID.String(),
		})
		if err != nil {
			return err
		}
	}

	sub.LastSentAt = &now
	return s.notifications.SaveSubscription(ctx, sub)
}

func (s *ReportService) ListSnapshots(ctx context.Context, tenantID, reportType string, params models.ListParams) ([]models.ReportSnapshot, int64, error) {
	return s.notifications.ListSnapshots(ctx, tenantID, reportType, params)
}

// Dashboard summarises today's activity. The result is cached for the report TTL.
func (s *ReportService) Dashboard(ctx context.Context, tenantID string, now time.Time) (*models.DashboardStats, error) {
	key := "dashboard:" + tenantID
	var stats models.DashboardStats
	if s.cache.GetJSON(ctx, key, &stats) {
		return &stats, nil
	}

	today := startOfDay(now)
	totals, err := s.repo.SalesTotals(ctx, tenantID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	stats.TodaySales = totals.Amount
	stats.TodayOrders = totals.Orders

	if stats.PendingOrders, err = s.repo.CountOrders(ctx, tenantID, models.OrderStatusPending); err != nil {
		return nil, err
	}
	inventory, err := s.repo.InventorySummary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = inventory.LowStockCount
	if stats.ActiveAlerts, err = s.repo.CountActiveAlerts(ctx, tenantID); err != nil {
		return nil, err
	}
	if stats.ReceivablesOutstanding, err = s.repo.ReceivablesOutstanding(ctx, tenantID); err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, key, &stats, s.ttl)
	return &stats, nil
}
