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
	defaultWarningThreshold = 80
	// amounts closer than a cent are equal
	amountEpsilon = 0.005
)

// FinanceConfig carries the tenant-independent finance defaults
type FinanceConfig struct {
	DefaultCreditLimit float64
	DueDays            int
}

// FinanceService manages customer credit, receivables, payments and statements
type FinanceService struct {
	repo      repository.FinanceRepositoryInterface
	sales     repository.SalesRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	notifier  *NotificationService
	publisher EventPublisher
	config    FinanceConfig
	logger    *logrus.Entry
}

func NewFinanceService(repo repository.FinanceRepositoryInterface, sales repository.SalesRepositoryInterface, catalog repository.CatalogRepositoryInterface, notifier *NotificationService, publisher EventPublisher, config FinanceConfig, logger *logrus.Logger) *FinanceService {
	if config.DefaultCreditLimit <= 0 {
		config.DefaultCreditLimit = 10000
	}
	if config.DueDays <= 0 {
		config.DueDays = 30
	}
	return &FinanceService{
		repo:      repo,
		sales:     sales,
		catalog:   catalog,
		notifier:  notifier,
		publisher: publisher,
		config:    config,
		logger:    logger.WithField("component", "finance"),
	}
}

// ========== Credit ==========

func (s *FinanceService) newCredit(tenantID string, customerID uuid.UUID) *models.CustomerCredit {
	return &models.CustomerCredit{
		ID:               uuid.New(),
		TenantID:         tenantID,
		CustomerID:       customerID,
		CreditLimit:      s.config.DefaultCreditLimit,
		WarningThreshold: defaultWarningThreshold,
	}
}

// GetOrCreateCredit returns the customer's credit line, opening one at the default limit when missing
func (s *FinanceService) GetOrCreateCredit(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	credit, err := s.repo.GetCredit(ctx, tenantID, customerID)
	if err == nil {
		return credit, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer, err := s.catalog.GetPartner(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	if customer.Type != models.PartnerTypeCustomer {
		return nil, ErrNotCustomer
	}

	credit = s.newCredit(tenantID, customerID)
	if err := s.repo.CreateCredit(ctx, credit); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.repo.GetCredit(ctx, tenantID, customerID)
		}
		return nil, err
	}
	return credit, nil
}

func (s *FinanceService) SetCreditLimit(ctx context.Context, tenantID string, customerID uuid.UUID, limit float64) (*models.CustomerCredit, error) {
	if limit < 0 {
		return nil, ErrInvalidAmount
	}
	credit, err := s.GetOrCreateCredit(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	credit.CreditLimit = limit
	if err := s.repo.SaveCredit(ctx, credit); err != nil {
		return nil, err
	}
	return credit, nil
}

// CheckCredit rejects an amount the customer cannot take on. Customers without a credit line pass.
func (s *FinanceService) CheckCredit(ctx context.Context, tenantID string, customerID uuid.UUID, amount float64) error {
	credit, err := s.repo.GetCredit(ctx, tenantID, customerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if credit.IsFrozen {
		reason := ""
		if credit.FrozenReason != nil {
			reason = *credit.FrozenReason
		}
		return fmt.Errorf("%w: %s", ErrCreditFrozen, reason)
	}
	if amount > credit.AvailableCredit()+amountEpsilon {
		return fmt.Errorf("%w: available %.2f, requested %.2f", ErrCreditExceeded, credit.AvailableCredit(), amount)
	}
	return nil
}

// lockCredit locks the credit row inside a transaction, opening it when missing
func (s *FinanceService) lockCredit(ctx context.Context, txRepo repository.FinanceRepositoryInterface, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	credit, err := txRepo.GetCreditForUpdate(ctx, tenantID, customerID)
	if err == nil {
		return credit, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	credit = s.newCredit(tenantID, customerID)
	if err := txRepo.CreateCredit(ctx, credit); err != nil {
		return nil, err
	}
	return credit, nil
}

// useCredit adds amount to the used credit. crossed is true when this pushed usage over the warning threshold.
func (s *FinanceService) useCredit(ctx context.Context, txRepo repository.FinanceRepositoryInterface, tenantID string, customerID uuid.UUID, amount float64) (*models.CustomerCredit, bool, error) {
	credit, err := s.lockCredit(ctx, txRepo, tenantID, customerID)
	if err != nil {
		return nil, false, err
	}
	wasWarning := credit.IsWarning()
	credit.UsedCredit += amount
	if err := txRepo.SaveCredit(ctx, credit); err != nil {
		return nil, false, err
	}
	return credit, !wasWarning && credit.IsWarning(), nil
}

func (s *FinanceService) releaseCredit(ctx context.Context, txRepo repository.FinanceRepositoryInterface, tenantID string, customerID uuid.UUID, amount float64) error {
	credit, err := s.lockCredit(ctx, txRepo, tenantID, customerID)
	if err != nil {
		return err
	}
	credit.UsedCredit = math.Max(0, credit.UsedCredit-amount)
	return txRepo.SaveCredit(ctx, credit)
}

// UseCredit books amount against the customer's credit and warns admins when the threshold is crossed
func (s *FinanceService) UseCredit(ctx context.Context, tenantID string, customerID uuid.UUID, amount float64) (*models.CustomerCredit, error) {
	var (
		credit  *models.CustomerCredit
		crossed bool
	)
	err := s.repo.WithTransaction(ctx, func(txRepo repository.FinanceRepositoryInterface) error {
		var err error
		credit, crossed, err = s.useCredit(ctx, txRepo, tenantID, customerID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	if crossed {
		s.warnCredit(ctx, credit)
	}
	return credit, nil
}

// ReleaseCredit returns amount to the customer's credit line; used credit never drops below zero
func (s *FinanceService) ReleaseCredit(ctx context.Context, tenantID string, customerID uuid.UUID, amount float64) error {
	return s.repo.WithTransaction(ctx, func(txRepo repository.FinanceRepositoryInterface) error {
		return s.releaseCredit(ctx, txRepo, tenantID, customerID, amount)
	})
}

func (s *FinanceService) warnCredit(ctx context.Context, credit *models.CustomerCredit) {
	if s.notifier == nil {
		return
	}
	name := credit.CustomerID.String()
	if customer, err := s.catalog.GetPartner(ctx, credit.TenantID, credit.CustomerID); err == nil {
		name = customer.Name
	}
	s.notifier.NotifyAdmins(ctx, credit.TenantID, NotificationInput{
		Title:       "Credit warning - " + name,
		Content:     fmt.Sprintf("Customer %s has used %.1f%% of its credit, above the %.0f%% warning threshold.", name, credit.UsageRate(), credit.WarningThreshold),
		Type:        models.NotificationWarning,
		Category:    models.CategoryOrder,
		RelatedType: "customer",
		RelatedID:   credit.CustomerID.String(),
	})
}

func (s *FinanceService) Freeze(ctx context.Context, tenantID, operator string, customerID uuid.UUID, reason string) (*models.CustomerCredit, error) {
	credit, err := s.GetOrCreateCredit(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	credit.IsFrozen = true
	credit.FrozenReason = &reason
	credit.FrozenAt = &now
	credit.FrozenBy = &operator
	if err := s.repo.SaveCredit(ctx, credit); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":   tenantID,
		"customerId": customerID,
		"operator":   operator,
	}).Info("Customer credit frozen")
	return credit, nil
}

func (s *FinanceService) Unfreeze(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	credit, err := s.GetOrCreateCredit(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	credit.IsFrozen = false
	credit.FrozenReason = nil
	credit.FrozenAt = nil
	credit.FrozenBy = nil
	if err := s.repo.SaveCredit(ctx, credit); err != nil {
		return nil, err
	}
	return credit, nil
}

func (s *FinanceService) ListCredits(ctx context.Context, tenantID string, params models.ListParams) ([]models.CustomerCredit, int64, error) {
	return s.repo.ListCredits(ctx, tenantID, params)
}

// ========== Receivables ==========

// CreateReceivable raises the receivable of a sold order and books its amount against credit
func (s *FinanceService) CreateReceivable(ctx context.Context, tenantID string, req models.CreateReceivableRequest) (*models.Receivable, error) {
	order, err := s.sales.GetOrder(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order: %w", err)
	}
	if !order.Status.IsRevenue() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidState, order.Status)
	}

	dueDays := s.config.DueDays
	if req.DueDays != nil {
		dueDays = *req.DueDays
	}
	now := time.Now()
	y, m, d := now.Date()

	receivable := &models.Receivable{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ReceivableNo: repository.GenerateNumber("AR", now),
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		TotalAmount:  order.TotalAmount,
		DueDate:      time.Date(y, m, d+dueDays, 0, 0, 0, 0, time.UTC),
		Status:       models.ReceivableStatusPending,
	}

	var (
		credit  *models.CustomerCredit
		crossed bool
	)
	err = s.repo.WithTransaction(ctx, func(txRepo repository.FinanceRepositoryInterface) error {
		if _, err := txRepo.GetReceivableByOrder(ctx, tenantID, order.ID); err == nil {
			return ErrReceivableExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := txRepo.CreateReceivable(ctx, receivable); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrReceivableExists
			}
			return err
		}
		var err error
		credit, crossed, err = s.useCredit(ctx, txRepo, tenantID, order.CustomerID, order.TotalAmount)
		return err
	})
	if err != nil {
		return nil, err
	}
	if crossed {
		s.warnCredit(ctx, credit)
	}

	s.logger.WithFields(logrus.Fields{
		"tenantId":     tenantID,
		"receivableNo": receivable.ReceivableNo,
		"orderNo":      order.OrderNo,
		"amount":       receivable.TotalAmount,
	}).Info("Receivable created")
	return receivable, nil
}

// RecordPayment applies a payment to a locked receivable and releases the matching credit
func (s *FinanceService) RecordPayment(ctx context.Context, tenantID, operator string, req models.RecordPaymentRequest) (*models.PaymentRecord, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	method := req.Method
	if method == "" {
		method = models.PaymentMethodBank
	}

	var (
		payment    *models.PaymentRecord
		receivable *models.Receivable
	)
	err := s.repo.WithTransaction(ctx, func(txRepo repository.FinanceRepositoryInterface) error {
		var err error
		receivable, err = txRepo.GetReceivableForUpdate(ctx, tenantID, req.ReceivableID)
		if err != nil {
			return err
		}
		if receivable.Status == models.ReceivableStatusPaid || receivable.Status == models.ReceivableStatusBadDebt {
			return fmt.Errorf("%w: receivable is %s", ErrInvalidState, receivable.Status)
		}
		if req.Amount > receivable.UnpaidAmount()+amountEpsilon {
			return fmt.Errorf("%w: unpaid %.2f, paid %.2f", ErrOverpayment, receivable.UnpaidAmount(), req.Amount)
		}

		now := time.Now()
		payment = &models.PaymentRecord{
			ID:           uuid.New(),
			TenantID:     tenantID,
			PaymentNo:    repository.GenerateNumber("PAY", now),
			ReceivableID: receivable.ID,
			CustomerID:   receivable.CustomerID,
			Amount:       req.Amount,
			Method:       method,
			PaymentDate:  now,
			Reference:    req.Reference,
			Operator:     operator,
			Remark:       req.Remark,
		}
		if err := txRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}

		receivable.PaidAmount += req.Amount
		if receivable.UnpaidAmount() <= amountEpsilon {
			receivable.Status = models.ReceivableStatusPaid
		} else {
			receivable.Status = models.ReceivableStatusPartial
		}
		if err := txRepo.SaveReceivable(ctx, receivable); err != nil {
			return err
		}
		return s.releaseCredit(ctx, txRepo, tenantID, receivable.CustomerID, req.Amount)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPaymentCaptured(ctx, payment, receivable); err != nil {
			s.logger.WithError(err).WithField("paymentNo", payment.PaymentNo).Warn("Failed to publish payment captured event")
		}
	}
	s.logger.WithFields(logrus.Fields{
		"tenantId":     tenantID,
		"paymentNo":    payment.PaymentNo,
		"receivableNo": receivable.ReceivableNo,
		"amount":       payment.Amount,
		"status":       receivable.Status,
	}).Info("Payment recorded")
	return payment, nil
}

// UpdateOverdue flags receivables past their due date and returns how many changed
func (s *FinanceService) UpdateOverdue(ctx context.Context, tenantID string) (int64, error) {
	return s.repo.MarkOverdue(ctx, tenantID, time.Now())
}

// AgingAnalysis buckets the unpaid amount of every outstanding receivable by days overdue
func (s *FinanceService) AgingAnalysis(ctx context.Context, tenantID string, customerID *uuid.UUID) (*models.AgingReport, error) {
	receivables, err := s.repo.OutstandingReceivables(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	return BuildAgingReport(receivables, time.Now()), nil
}

// BuildAgingReport groups receivables into the fixed aging buckets
func BuildAgingReport(receivables []models.Receivable, now time.Time) *models.AgingReport {
	totals := make(map[models.AgeBucket]*models.AgingBucketTotal, len(models.AgeBuckets))
	report := &models.AgingReport{Buckets: make([]models.AgingBucketTotal, len(models.AgeBuckets))}
	for i, bucket := range models.AgeBuckets {
		report.Buckets[i].Bucket = bucket
		totals[bucket] = &report.Buckets[i]
	}

	for i := range receivables {
		r := &receivables[i]
		if r.Status == models.ReceivableStatusPaid || r.Status == models.ReceivableStatusBadDebt {
			continue
		}
		bucket := totals[r.AgeBucket(now)]
		bucket.Count++
		bucket.Amount += r.UnpaidAmount()
		report.TotalCount++
		report.TotalAmount += r.UnpaidAmount()
	}
	return report
}

func (s *FinanceService) GetReceivable(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error) {
	return s.repo.GetReceivable(ctx, tenantID, id)
}

func (s *FinanceService) ListReceivables(ctx context.Context, tenantID string, filter models.ReceivableFilter) ([]models.Receivable, int64, error) {
	return s.repo.ListReceivables(ctx, tenantID, filter)
}

func (s *FinanceService) ListPayments(ctx context.Context, tenantID string, receivableID *uuid.UUID, params models.ListParams) ([]models.PaymentRecord, int64, error) {
	return s.repo.ListPayments(ctx, tenantID, receivableID, params)
}

// ========== Statements ==========

// GenerateStatement summarises a customer's account for the days start through end inclusive
func (s *FinanceService) GenerateStatement(ctx context.Context, tenantID, operator string, req models.GenerateStatementRequest) (*models.Statement, error) {
	start := dayStart(req.StartDate)
	end := dayStart(req.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidPeriod
	}
	customer, err := s.catalog.GetPartner(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer: %w", err)
	}
	if customer.Type != models.PartnerTypeCustomer {
		return nil, ErrNotCustomer
	}

	opening := 0.0
	previous, err := s.repo.LatestStatementBefore(ctx, tenantID, customer.ID, start)
	switch {
	case err == nil:
		opening = previous.ClosingBalance
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	until := end.AddDate(0, 0, 1)
	sales, err := s.repo.SumSales(ctx, tenantID, customer.ID, start, until)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.SumPayments(ctx, tenantID, customer.ID, start, until)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	statement := &models.Statement{
		ID:             uuid.New(),
		TenantID:       tenantID,
		StatementNo:    repository.GenerateNumber("STM", now),
		CustomerID:     customer.ID,
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: opening,
		SalesAmount:    sales,
		PaymentAmount:  payments,
		ClosingBalance: opening + sales - payments,
		GeneratedBy:    operator,
		GeneratedAt:    now,
	}
	if err := s.repo.CreateStatement(ctx, statement); err != nil {
		return nil, err
	}
	statement.Customer = customer
	return statement, nil
}

func (s *FinanceService) ConfirmStatement(ctx context.Context, tenantID string, id uuid.UUID) (*models.Statement, error) {
	statement, err := s.repo.GetStatement(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if statement.IsConfirmed {
		return nil, fmt.Errorf("%w: statement already confirmed", ErrInvalidState)
	}
	now := time.Now()
	statement.IsConfirmed = true
	statement.ConfirmedAt = &now
	if err := s.repo.SaveStatement(ctx, statement); err != nil {
		return nil, err
	}
	return statement, nil
}

func (s *FinanceService) GetStatement(ctx context.Context, tenantID string, id uuid.UUID) (*models.Statement, error) {
	return s.repo.GetStatement(ctx, tenantID, id)
}

func (s *FinanceService) ListStatements(ctx context.Context, tenantID string, customerID *uuid.UUID, params models.ListParams) ([]models.Statement, int64, error) {
	return s.repo.ListStatements(ctx, tenantID, customerID, params)
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
