package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FinanceRepositoryInterface persists credit lines, receivables, payments and statements
type FinanceRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo FinanceRepositoryInterface) error) error

	// Credit
	GetCredit(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error)
	GetCreditForUpdate(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error)
	CreateCredit(ctx context.Context, credit *models.CustomerCredit) error
	SaveCredit(ctx context.Context, credit *models.CustomerCredit) error
	ListCredits(ctx context.Context, tenantID string, params models.ListParams) ([]models.CustomerCredit, int64, error)

	// Receivables
	CreateReceivable(ctx context.Context, receivable *models.Receivable) error
	GetReceivable(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error)
	GetReceivableForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error)
	GetReceivableByOrder(ctx context.Context, tenantID string, orderID uuid.UUID) (*models.Receivable, error)
	SaveReceivable(ctx context.Context, receivable *models.Receivable) error
	ListReceivables(ctx context.Context, tenantID string, filter models.ReceivableFilter) ([]models.Receivable, int64, error)
	OutstandingReceivables(ctx context.Context, tenantID string, customerID *uuid.UUID) ([]models.Receivable, error)
	MarkOverdue(ctx context.Context, tenantID string, today time.Time) (int64, error)

	// Payments
	CreatePayment(ctx context.Context, payment *models.PaymentRecord) error
	ListPayments(ctx context.Context, tenantID string, receivableID *uuid.UUID, params models.ListParams) ([]models.PaymentRecord, int64, error)
	SumPayments(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error)
	SumSales(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error)

	// Statements
	CreateStatement(ctx context.Context, statement *models.Statement) error
	GetStatement(ctx context.Context, tenantID string, id uuid.UUID) (*models.Statement, error)
	LatestStatementBefore(ctx context.Context, tenantID string, customerID uuid.UUID, before time.Time) (*models.Statement, error)
	SaveStatement(ctx context.Context, statement *models.Statement) error
	ListStatements(ctx context.Context, tenantID string, customerID *uuid.UUID, params models.ListParams) ([]models.Statement, int64, error)
}

type FinanceRepository struct {
	db *gorm.DB
}

var _ FinanceRepositoryInterface = (*FinanceRepository)(nil)

func NewFinanceRepository(db *gorm.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) WithTransaction(ctx context.Context, fn func(txRepo FinanceRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FinanceRepository{db: tx})
	})
}

// ========== Credit ==========

func (r *FinanceRepository) GetCredit(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	var credit models.CustomerCredit
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		First(&credit).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &credit, nil
}

func (r *FinanceRepository) GetCreditForUpdate(ctx context.Context, tenantID string, customerID uuid.UUID) (*models.CustomerCredit, error) {
	var credit models.CustomerCredit
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		First(&credit).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &credit, nil
}

func (r *FinanceRepository) CreateCredit(ctx context.Context, credit *models.CustomerCredit) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(credit).Error)
}

func (r *FinanceRepository) SaveCredit(ctx context.Context, credit *models.CustomerCredit) error {
	credit.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(credit).Error
}

func (r *FinanceRepository) ListCredits(ctx context.Context, tenantID string, params models.ListParams) ([]models.CustomerCredit, int64, error) {
	var credits []models.CustomerCredit
	var total int64
	query := r.db.WithContext(ctx).Model(&models.CustomerCredit{}).Where("tenant_id = ?", tenantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Preload("Customer").Order("used_credit DESC").Find(&credits).Error
	return credits, total, err
}

// ========== Receivables ==========

func (r *FinanceRepository) CreateReceivable(ctx context.Context, receivable *models.Receivable) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(receivable).Error)
}

func (r *FinanceRepository) GetReceivable(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error) {
	var receivable models.Receivable
	err := r.db.WithContext(ctx).
		Preload("Order").Preload("Customer").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&receivable).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &receivable, nil
}

func (r *FinanceRepository) GetReceivableForUpdate(ctx context.Context, tenantID string, id uuid.UUID) (*models.Receivable, error) {
	var receivable models.Receivable
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&receivable).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &receivable, nil
}

func (r *FinanceRepository) GetReceivableByOrder(ctx context.Context, tenantID string, orderID uuid.UUID) (*models.Receivable, error) {
	var receivable models.Receivable
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND order_id = ?", tenantID, orderID).First(&receivable).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &receivable, nil
}

func (r *FinanceRepository) SaveReceivable(ctx context.Context, receivable *models.Receivable) error {
	receivable.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(receivable).Error
}

func (r *FinanceRepository) ListReceivables(ctx context.Context, tenantID string, filter models.ReceivableFilter) ([]models.Receivable, int64, error) {
	var receivables []models.Receivable
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Receivable{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(receivable_no) LIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, filter.ListParams).
		Preload("Customer").Preload("Order").
		Order("due_date ASC").
		Find(&receivables).Error
	return receivables, total, err
}

// OutstandingReceivables returns receivables that still carry an unpaid balance
func (r *FinanceRepository) OutstandingReceivables(ctx context.Context, tenantID string, customerID *uuid.UUID) ([]models.Receivable, error) {
	var receivables []models.Receivable
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status NOT IN ?", tenantID,
			[]models.ReceivableStatus{models.ReceivableStatusPaid, models.ReceivableStatusBadDebt})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	err := query.Preload("Customer").Order("due_date ASC").Find(&receivables).Error
	return receivables, err
}

// MarkOverdue flags pending and partial receivables whose due date has passed
func (r *FinanceRepository) MarkOverdue(ctx context.Context, tenantID string, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Receivable{}).
		Where("tenant_id = ? AND status IN ? AND due_date < ?", tenantID,
			[]models.ReceivableStatus{models.ReceivableStatusPending, models.ReceivableStatusPartial},
			today.Format("2006-01-02")).
		Updates(map[string]interface{}{"status": models.ReceivableStatusOverdue, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// ========== Payments ==========

func (r *FinanceRepository) CreatePayment(ctx context.Context, payment *models.PaymentRecord) error {
	return mapError(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *FinanceRepository) ListPayments(ctx context.Context, tenantID string, receivableID *uuid.UUID, params models.ListParams) ([]models.PaymentRecord, int64, error) {
	var payments []models.PaymentRecord
	var total int64
	query := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).Where("tenant_id = ?", tenantID)
	if receivableID != nil {
		query = query.Where("receivable_id = ?", *receivableID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Order("payment_date DESC").Find(&payments).Error
	return payments, total, err
}

// SumPayments totals a customer's payments dated inside [start, end)
func (r *FinanceRepository) SumPayments(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.PaymentRecord{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("tenant_id = ? AND customer_id = ? AND payment_date >= ? AND payment_date < ?", tenantID, customerID, start, end).
		Scan(&total).Error
	return total, err
}

// SumSales totals a customer's revenue orders created inside [start, end)
func (r *FinanceRepository) SumSales(ctx context.Context, tenantID string, customerID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("tenant_id = ? AND customer_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			tenantID, customerID, models.RevenueStatuses, start, end).
		Scan(&total).Error
	return total, err
}

// ========== Statements ==========

func (r *FinanceRepository) CreateStatement(ctx context.Context, statement *models.Statement) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(statement).Error)
}

func (r *FinanceRepository) GetStatement(ctx context.Context, tenantID string, id uuid.UUID) (*models.Statement, error) {
	var statement models.Statement
	err := r.db.WithContext(ctx).Preload("Customer").Where("tenant_id = ? AND id = ?", tenantID, id).First(&statement).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &statement, nil
}

// LatestStatementBefore returns the customer's most recent statement ending before the date
func (r *FinanceRepository) LatestStatementBefore(ctx context.Context, tenantID string, customerID uuid.UUID, before time.Time) (*models.Statement, error) {
	var statement models.Statement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND end_date < ?", tenantID, customerID, before).
		Order("end_date DESC").
		First(&statement).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &statement, nil
}

func (r *FinanceRepository) SaveStatement(ctx context.Context, statement *models.Statement) error {
	statement.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(statement).Error
}

func (r *FinanceRepository) ListStatements(ctx context.Context, tenantID string, customerID *uuid.UUID, params models.ListParams) ([]models.Statement, int64, error) {
	var statements []models.Statement
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Statement{}).Where("tenant_id = ?", tenantID)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query, params).Preload("Customer").Order("end_date DESC").Find(&statements).Error
	return statements, total, err
}
