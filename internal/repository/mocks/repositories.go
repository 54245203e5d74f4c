// Package mocks holds testify mocks of the repository interfaces
package mocks

import (
	"context"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAlertRepository is a testify mock of repository.AlertRepositoryInterface
type MockAlertRepository struct {
	mock.Mock
}

var _ repository.AlertRepositoryInterface = (*MockAlertRepository)(nil)

func (m *MockAlertRepository) ActiveAlert(ctx context.Context, tenantID string, productID uuid.UUID) (*models.StockAlert, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockAlert), args.Error(1)
}

func (m *MockAlertRepository) CreateAlert(ctx context.Context, alert *models.StockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) SaveAlert(ctx context.Context, alert *models.StockAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertRepository) GetAlert(ctx context.Context, tenantID string, id uuid.UUID) (*models.StockAlert, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockAlert), args.Error(1)
}

func (m *MockAlertRepository) ResolveActive(ctx context.Context, tenantID string, productID uuid.UUID, note string) (int64, error) {
	args := m.Called(ctx, tenantID, productID, note)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAlertRepository) ListActive(ctx context.Context, tenantID string, params models.ListParams) ([]models.StockAlert, int64, error) {
	args := m.Called(ctx, tenantID, params)
	return args.Get(0).([]models.StockAlert), args.Get(1).(int64), args.Error(2)
}

func (m *MockAlertRepository) AlertStatistics(ctx context.Context, tenantID string) (*models.AlertStatistics, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AlertStatistics), args.Error(1)
}

func (m *MockAlertRepository) HasPendingSuggestion(ctx context.Context, tenantID string, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockAlertRepository) CreateSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockAlertRepository) GetSuggestion(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReplenishmentSuggestion, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReplenishmentSuggestion), args.Error(1)
}

func (m *MockAlertRepository) SaveSuggestion(ctx context.Context, suggestion *models.ReplenishmentSuggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockAlertRepository) ListSuggestions(ctx context.Context, tenantID string, status models.SuggestionStatus, params models.ListParams) ([]models.ReplenishmentSuggestion, int64, error) {
	args := m.Called(ctx, tenantID, status, params)
	return args.Get(0).([]models.ReplenishmentSuggestion), args.Get(1).(int64), args.Error(2)
}

// MockAssistantRepository is a testify mock of repository.AssistantRepositoryInterface
type MockAssistantRepository struct {
	mock.Mock
}

var _ repository.AssistantRepositoryInterface = (*MockAssistantRepository)(nil)

func (m *MockAssistantRepository) CreateSession(ctx context.Context, session *models.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAssistantRepository) GetSession(ctx context.Context, tenantID, userID string, id uuid.UUID) (*models.ChatSession, error) {
	args := m.Called(ctx, tenantID, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatSession), args.Error(1)
}

func (m *MockAssistantRepository) TouchSession(ctx context.Context, session *models.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockAssistantRepository) ListSessions(ctx context.Context, tenantID, userID string, params models.ListParams) ([]models.ChatSession, int64, error) {
	args := m.Called(ctx, tenantID, userID, params)
	return args.Get(0).([]models.ChatSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssistantRepository) CreateMessages(ctx context.Context, messages []models.ChatMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func (m *MockAssistantRepository) ListMessages(ctx context.Context, tenantID string, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	args := m.Called(ctx, tenantID, sessionID)
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

// MockAuditRepository is a testify mock of repository.AuditRepositoryInterface
type MockAuditRepository struct {
	mock.Mock
}

var _ repository.AuditRepositoryInterface = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogs(ctx context.Context, tenantID string, filter models.AuditLogFilter) ([]models.AuditLog, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.AuditLog), args.Get(1).(int64), args.Error(2)
}

// MockCatalogRepository is a testify mock of repository.CatalogRepositoryInterface
type MockCatalogRepository struct {
	mock.Mock
}

var _ repository.CatalogRepositoryInterface = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetProduct(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) GetProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error) {
	args := m.Called(ctx, tenantID, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockCatalogRepository) ListProducts(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) AllProducts(ctx context.Context, tenantID string) ([]models.Product, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockCatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteProduct(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.Category, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCatalogRepository) DeleteCategory(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListTags(ctx context.Context, tenantID string) ([]models.Tag, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockCatalogRepository) GetPartner(ctx context.Context, tenantID string, id uuid.UUID) (*models.Partner, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockCatalogRepository) GetPartnerByName(ctx context.Context, tenantID, name string, partnerType models.PartnerType) (*models.Partner, error) {
	args := m.Called(ctx, tenantID, name, partnerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Partner), args.Error(1)
}

func (m *MockCatalogRepository) ListPartners(ctx context.Context, tenantID string, filter models.PartnerFilter) ([]models.Partner, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Partner), args.Get(1).(int64), args.Error(2)
}

func (m *MockCatalogRepository) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeletePartner(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) Tenants(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockContentRepository is a testify mock of repository.ContentRepositoryInterface
type MockContentRepository struct {
	mock.Mock
}

var _ repository.ContentRepositoryInterface = (*MockContentRepository)(nil)

func (m *MockContentRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockContentRepository) GetArticle(ctx context.Context, tenantID string, id uuid.UUID) (*models.Article, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockContentRepository) SaveArticle(ctx context.Context, article *models.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockContentRepository) IncrementViews(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockContentRepository) ListArticles(ctx context.Context, tenantID string, filter models.ArticleFilter) ([]models.Article, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Article), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentRepository) DeleteArticle(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockContentRepository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockContentRepository) GetAttachment(ctx context.Context, tenantID string, id uuid.UUID) (*models.Attachment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attachment), args.Error(1)
}

func (m *MockContentRepository) ListAttachments(ctx context.Context, tenantID string, params models.ListParams) ([]models.Attachment, int64, error) {
	args := m.Called(ctx, tenantID, params)
	return args.Get(0).([]models.Attachment), args.Get(1).(int64), args.Error(2)
}

func (m *MockContentRepository) DeleteAttachment(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockFinanceRepository is a testify mock of repository.FinanceRepositoryInterface
type MockFinanceRepository struct {
	mock.Mock
}

var _ repository.FinanceRepositoryInterface = (*MockFinanceRepository)(nil)

func (m *MockFinanceRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.FinanceRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockFinanceRepository) GetCredit(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerCredit), args.Error(1)
}

func (m *MockFinanceRepository) GetCreditForUpdate(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	args := m.Called(ctx, tenantID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerCredit), args.Error(1)
}

func (m *MockFinanceRepository) CreateCredit(ctx context.Context, credit *models.CustomerCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockFinanceRepository) SaveCredit(ctx context.Context, credit *models.CustomerCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListCredits(ctx context.Context, tenantID string, params models.ListParams) ([]models.CustomerCredit, int64, error) {
	args := m.Called(ctx, tenantID, params)
	return args.Get(0).([]models.CustomerCredit), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinanceRepository) CreateReceivable(ctx context.Context, receivable *models.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetReceivable(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receivable), args.Error(1)
}

func (m *MockFinanceRepository) GetReceivableForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receivable), args.Error(1)
}

func (m *MockFinanceRepository) GetReceivableByOrder(ctx context.Context, tenantID string, orderID uuid.UUID) (*models.Receivable, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receivable), args.Error(1)
}

func (m *MockFinanceRepository) SaveReceivable(ctx context.Context, receivable *models.Receivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListReceivables(ctx context.Context, tenantID string, filter models.ReceivableFilter) ([]models.Receivable, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Receivable), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinanceRepository) OutstandingReceivables(ctx context.Context, tenantID string, customerID *uuid.UUID) ([]models.Receivable, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).([]models.Receivable), args.Error(1)
}

func (m *MockFinanceRepository) MarkOverdue(ctx context.Context, tenantID string, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFinanceRepository) CreatePayment(ctx context.Context, payment *models.PaymentRecord) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListPayments(ctx context.Context, tenantID string, receivableID *uuid.UUID, params models.ListParams) ([]models.PaymentRecord, int64, error) {
	args := m.Called(ctx, tenantID, receivableID, params)
	return args.Get(0).([]models.PaymentRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockFinanceRepository) SumPayments(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error) {
	args := m.Called(ctx, tenantID, customerID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceRepository) SumSales(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error) {
	args := m.Called(ctx, tenantID, customerID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceRepository) CreateStatement(ctx context.Context, statement *models.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetStatement(ctx context.Context, tenantID string, id uuid.UUID) (*models.Statement, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statement), args.Error(1)
}

func (m *MockFinanceRepository) LatestStatementBefore(ctx context.Context, tenantID string, customerID uuid.UUID, before time.Time) (*models.Statement, error) {
	args := m.Called(ctx, tenantID, customerID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Statement), args.Error(1)
}

func (m *MockFinanceRepository) SaveStatement(ctx context.Context, statement *models.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockFinanceRepository) ListStatements(ctx context.Context, tenantID string, customerID *uuid.UUID, params models.ListParams) ([]models.Statement, int64, error) {
	args := m.Called(ctx, tenantID, customerID, params)
	return args.Get(0).([]models.Statement), args.Get(1).(int64), args.Error(2)
}

// MockNotificationRepository is a testify mock of repository.NotificationRepositoryInterface
type MockNotificationRepository struct {
	mock.Mock
}

var _ repository.NotificationRepositoryInterface = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) CreateNotifications(ctx context.Context, notifications []models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListForUser(ctx context.Context, tenantID, userID string, roles []string, unreadOnly bool, params models.ListParams) ([]models.Notification, int64, error) {
	args := m.Called(ctx, tenantID, userID, roles, unreadOnly, params)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) UnreadCount(ctx context.Context, tenantID, userID string, roles []string) (int64, error) {
	args := m.Called(ctx, tenantID, userID, roles)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, recipients, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, tenantID string, recipients []string) (int64, error) {
	args := m.Called(ctx, tenantID, recipients)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteNotification(ctx context.Context, tenantID string, recipients []string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, recipients, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateSubscription(ctx context.Context, sub *models.ReportSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetSubscription(ctx context.Context, tenantID string, id uuid.UUID) (*models.ReportSubscription, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportSubscription), args.Error(1)
}

func (m *MockNotificationRepository) SaveSubscription(ctx context.Context, sub *models.ReportSubscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListSubscriptions(ctx context.Context, tenantID, userID string) ([]models.ReportSubscription, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]models.ReportSubscription), args.Error(1)
}

func (m *MockNotificationRepository) ActiveSubscriptions(ctx context.Context, tenantID string) ([]models.ReportSubscription, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.ReportSubscription), args.Error(1)
}

func (m *MockNotificationRepository) CreateSnapshot(ctx context.Context, snapshot *models.ReportSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListSnapshots(ctx context.Context, tenantID, reportType string, params models.ListParams) ([]models.ReportSnapshot, int64, error) {
	args := m.Called(ctx, tenantID, reportType, params)
	return args.Get(0).([]models.ReportSnapshot), args.Get(1).(int64), args.Error(2)
}

// MockPurchaseRepository is a testify mock of repository.PurchaseRepositoryInterface
type MockPurchaseRepository struct {
	mock.Mock
	StockRepo *MockStockRepository
}

var _ repository.PurchaseRepositoryInterface = (*MockPurchaseRepository)(nil)

func (m *MockPurchaseRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.PurchaseRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockPurchaseRepository) Stock() repository.StockRepositoryInterface {
	return m.StockRepo
}

func (m *MockPurchaseRepository) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseRepository) GetPurchaseOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseRepository) GetPurchaseOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseRepository) UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	args := m.Called(ctx, po)
	return args.Error(0)
}

func (m *MockPurchaseRepository) UpdatePurchaseOrderItem(ctx context.Context, item *models.PurchaseOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockPurchaseRepository) ListPurchaseOrders(ctx context.Context, tenantID string, filter models.PurchaseOrderFilter) ([]models.PurchaseOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseRepository) CreatePriceHistory(ctx context.Context, entry *models.PriceHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPurchaseRepository) LatestPrice(ctx context.Context, tenantID string, productID, supplierID uuid.UUID) (*models.PriceHistory, error) {
	args := m.Called(ctx, tenantID, productID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceHistory), args.Error(1)
}

func (m *MockPurchaseRepository) ListPriceHistory(ctx context.Context, tenantID string, productID uuid.UUID) ([]models.PriceHistory, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).([]models.PriceHistory), args.Error(1)
}

func (m *MockPurchaseRepository) GetPerformanceForUpdate(ctx context.Context, tenantID string, supplierID uuid.UUID) (*models.SupplierPerformance, error) {
	args := m.Called(ctx, tenantID, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierPerformance), args.Error(1)
}

func (m *MockPurchaseRepository) SavePerformance(ctx context.Context, perf *models.SupplierPerformance) error {
	args := m.Called(ctx, perf)
	return args.Error(0)
}

func (m *MockPurchaseRepository) ListPerformance(ctx context.Context, tenantID string) ([]models.SupplierPerformance, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]models.SupplierPerformance), args.Error(1)
}

// MockReportRepository is a testify mock of repository.ReportRepositoryInterface
type MockReportRepository struct {
	mock.Mock
}

var _ repository.ReportRepositoryInterface = (*MockReportRepository)(nil)

func (m *MockReportRepository) SalesTotals(ctx context.Context, tenantID string, from, to time.Time) (*models.SalesTotals, error) {
	args := m.Called(ctx, tenantID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SalesTotals), args.Error(1)
}

func (m *MockReportRepository) SalesSeries(ctx context.Context, tenantID string, from, to time.Time, unit string) ([]models.SalesPoint, error) {
	args := m.Called(ctx, tenantID, from, to, unit)
	return args.Get(0).([]models.SalesPoint), args.Error(1)
}

func (m *MockReportRepository) TopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.ProductSales, error) {
	args := m.Called(ctx, tenantID, from, to, limit)
	return args.Get(0).([]models.ProductSales), args.Error(1)
}

func (m *MockReportRepository) TopCustomers(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]models.CustomerSales, error) {
	args := m.Called(ctx, tenantID, from, to, limit)
	return args.Get(0).([]models.CustomerSales), args.Error(1)
}

func (m *MockReportRepository) InventorySummary(ctx context.Context, tenantID string) (*models.InventorySummary, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventorySummary), args.Error(1)
}

func (m *MockReportRepository) MovementSummary(ctx context.Context, tenantID string, from, to time.Time) ([]models.MovementSummary, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Get(0).([]models.MovementSummary), args.Error(1)
}

func (m *MockReportRepository) CountOrders(ctx context.Context, tenantID string, status models.OrderStatus) (int64, error) {
	args := m.Called(ctx, tenantID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) ReceivablesOutstanding(ctx context.Context, tenantID string) (float64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockReportRepository) CountActiveAlerts(ctx context.Context, tenantID string) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSalesRepository is a testify mock of repository.SalesRepositoryInterface
type MockSalesRepository struct {
	mock.Mock
	StockRepo *MockStockRepository
}

var _ repository.SalesRepositoryInterface = (*MockSalesRepository)(nil)

func (m *MockSalesRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.SalesRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockSalesRepository) Stock() repository.StockRepositoryInterface {
	return m.StockRepo
}

func (m *MockSalesRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesRepository) GetOrder(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockSalesRepository) GetOrderForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockSalesRepository) UpdateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesRepository) ListOrders(ctx context.Context, tenantID string, filter models.OrderFilter) ([]models.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesRepository) AvgDailySales(ctx context.Context, tenantID string, productID uuid.UUID, days int) (float64, error) {
	args := m.Called(ctx, tenantID, productID, days)
	return args.Get(0).(float64), args.Error(1)
}

// MockStockRepository is a testify mock of repository.StockRepositoryInterface
type MockStockRepository struct {
	mock.Mock
}

var _ repository.StockRepositoryInterface = (*MockStockRepository)(nil)

func (m *MockStockRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.StockRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockStockRepository) LockStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error) {
	args := m.Called(ctx, tenantID, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockRepository) SaveStock(ctx context.Context, stock *models.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) CreateLog(ctx context.Context, log *models.InventoryLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockStockRepository) GetStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) (*models.Stock, error) {
	args := m.Called(ctx, tenantID, productID, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockRepository) ListStocks(ctx context.Context, tenantID string, filter models.StockFilter) ([]models.Stock, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Stock), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) WarehouseStocks(ctx context.Context, tenantID string, warehouseID uuid.UUID, productIDs []uuid.UUID, positiveOnly bool) ([]models.Stock, error) {
	args := m.Called(ctx, tenantID, warehouseID, productIDs, positiveOnly)
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockRepository) LeastRecentlyCounted(ctx context.Context, tenantID string, warehouseID uuid.UUID, limit int) ([]models.Stock, error) {
	args := m.Called(ctx, tenantID, warehouseID, limit)
	return args.Get(0).([]models.Stock), args.Error(1)
}

func (m *MockStockRepository) ListLogs(ctx context.Context, tenantID string, filter models.InventoryLogFilter) ([]models.InventoryLog, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.InventoryLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) InvalidateStock(ctx context.Context, tenantID string, productID, warehouseID uuid.UUID) {
	m.Called(ctx, tenantID, productID, warehouseID)
}

func (m *MockStockRepository) CreateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockStockRepository) GetWarehouse(ctx context.Context, tenantID string, id uuid.UUID) (*models.Warehouse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockStockRepository) GetWarehouseByName(ctx context.Context, tenantID, name string) (*models.Warehouse, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Warehouse), args.Error(1)
}

func (m *MockStockRepository) ListWarehouses(ctx context.Context, tenantID string, params models.ListParams) ([]models.Warehouse, int64, error) {
	args := m.Called(ctx, tenantID, params)
	return args.Get(0).([]models.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) UpdateWarehouse(ctx context.Context, warehouse *models.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockStockRepository) DeleteWarehouse(ctx context.Context, tenantID string, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockStocktakeRepository is a testify mock of repository.StocktakeRepositoryInterface
type MockStocktakeRepository struct {
	mock.Mock
	StockRepo *MockStockRepository
}

var _ repository.StocktakeRepositoryInterface = (*MockStocktakeRepository)(nil)

func (m *MockStocktakeRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.StocktakeRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockStocktakeRepository) Stock() repository.StockRepositoryInterface {
	return m.StockRepo
}

func (m *MockStocktakeRepository) Create(ctx context.Context, take *models.Stocktake) error {
	args := m.Called(ctx, take)
	return args.Error(0)
}

func (m *MockStocktakeRepository) Get(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stocktake), args.Error(1)
}

func (m *MockStocktakeRepository) GetForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Stocktake, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stocktake), args.Error(1)
}

func (m *MockStocktakeRepository) Update(ctx context.Context, take *models.Stocktake) error {
	args := m.Called(ctx, take)
	return args.Error(0)
}

func (m *MockStocktakeRepository) List(ctx context.Context, tenantID string, filter models.StocktakeFilter) ([]models.Stocktake, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]models.Stocktake), args.Get(1).(int64), args.Error(2)
}

func (m *MockStocktakeRepository) HasOpen(ctx context.Context, tenantID string, warehouseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, warehouseID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockStocktakeRepository) CreateItems(ctx context.Context, items []models.StocktakeItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockStocktakeRepository) GetItem(ctx context.Context, tenantID string, stocktakeID, itemID uuid.UUID) (*models.StocktakeItem, error) {
	args := m.Called(ctx, tenantID, stocktakeID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StocktakeItem), args.Error(1)
}

func (m *MockStocktakeRepository) UpdateItem(ctx context.Context, item *models.StocktakeItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStocktakeRepository) CountCounted(ctx context.Context, tenantID string, stocktakeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, stocktakeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStocktakeRepository) AddHistory(ctx context.Context, entry *models.StocktakeHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStocktakeRepository) ListHistory(ctx context.Context, tenantID string, stocktakeID uuid.UUID) ([]models.StocktakeHistory, error) {
	args := m.Called(ctx, tenantID, stocktakeID)
	return args.Get(0).([]models.StocktakeHistory), args.Error(1)
}
