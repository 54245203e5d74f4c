package models

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerCredit tracks the credit line granted to a customer
type CustomerCredit struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID         string     `json:"tenantId" gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_credit"`
	CustomerID       uuid.UUID  `json:"customerId" gorm:"type:uuid;not null;uniqueIndex:idx_customer_credit"`
	Customer         *Partner   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	CreditLimit      float64    `json:"creditLimit" gorm:"type:decimal(14,2);default:10000"`
	UsedCredit       float64    `json:"usedCredit" gorm:"type:decimal(14,2);default:0"`
	WarningThreshold float64    `json:"warningThreshold" gorm:"type:decimal(5,2);default:80"`
	IsFrozen         bool       `json:"isFrozen" gorm:"default:false"`
	FrozenReason     *string    `json:"frozenReason,omitempty" gorm:"type:varchar(200)"`
	FrozenAt         *time.Time `json:"frozenAt,omitempty"`
	FrozenBy         *string    `json:"frozenBy,omitempty" gorm:"type:varchar(255)"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// AvailableCredit never goes below zero
func (c *CustomerCredit) AvailableCredit() float64 {
	return math.Max(0, c.CreditLimit-c.UsedCredit)
}

// UsageRate is used credit as a percentage of the limit, one decimal
func (c *CustomerCredit) UsageRate() float64 {
	if c.CreditLimit <= 0 {
		return 0
	}
	return round1(c.UsedCredit / c.CreditLimit * 100)
}

func (c *CustomerCredit) IsWarning() bool {
	return c.UsageRate() >= c.WarningThreshold
}

func (c CustomerCredit) MarshalJSON() ([]byte, error) {
	type alias CustomerCredit
	return json.Marshal(struct {
		alias
		AvailableCredit float64 `json:"availableCredit"`
		UsageRate       float64 `json:"usageRate"`
		IsWarning       bool    `json:"isWarning"`
	}{alias(c), c.AvailableCredit(), c.UsageRate(), c.IsWarning()})
}

// ReceivableStatus represents the collection state of a receivable
type ReceivableStatus string

const (
	ReceivableStatusPending ReceivableStatus = "pending"
	ReceivableStatusPartial ReceivableStatus = "partial"
	ReceivableStatusPaid    ReceivableStatus = "paid"
	ReceivableStatusOverdue ReceivableStatus = "overdue"
	ReceivableStatusBadDebt ReceivableStatus = "bad_debt"
)

// AgeBucket groups receivables by days overdue
type AgeBucket string

const (
	AgeBucketCurrent AgeBucket = "current"
	AgeBucket0To30   AgeBucket = "0-30"
	AgeBucket31To60  AgeBucket = "31-60"
	AgeBucket61To90  AgeBucket = "61-90"
	AgeBucketOver90  AgeBucket = "90+"
)

// AgeBuckets lists the buckets in reporting order
var AgeBuckets = []AgeBucket{AgeBucketCurrent, AgeBucket0To30, AgeBucket31To60, AgeBucket61To90, AgeBucketOver90}

// BucketFor maps days overdue to its aging bucket
func BucketFor(overdueDays int) AgeBucket {
	switch {
	case overdueDays <= 0:
		return AgeBucketCurrent
	case overdueDays <= 30:
		return AgeBucket0To30
	case overdueDays <= 60:
		return AgeBucket31To60
	case overdueDays <= 90:
		return AgeBucket61To90
	default:
		return AgeBucketOver90
	}
}

// Receivable is money owed by a customer for an order
type Receivable struct {
	ID           uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string           `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	ReceivableNo string           `json:"receivableNo" gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID      uuid.UUID        `json:"orderId" gorm:"type:uuid;not null;index"`
	Order        *Order           `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	CustomerID   uuid.UUID        `json:"customerId" gorm:"type:uuid;not null;index"`
	Customer     *Partner         `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	TotalAmount  float64          `json:"totalAmount" gorm:"type:decimal(14,2);not null"`
	PaidAmount   float64          `json:"paidAmount" gorm:"type:decimal(14,2);default:0"`
	DueDate      time.Time        `json:"dueDate" gorm:"type:date;not null;index"`
	Status       ReceivableStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Remark       *string          `json:"remark,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (r *Receivable) UnpaidAmount() float64 {
	return r.TotalAmount - r.PaidAmount
}

// OverdueDays counts whole days past the due date, 0 once paid
func (r *Receivable) OverdueDays(now time.Time) int {
	if r.Status == ReceivableStatusPaid {
		return 0
	}
	today := truncateDay(now)
	due := truncateDay(r.DueDate)
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due).Hours() / 24)
}

func (r *Receivable) AgeBucket(now time.Time) AgeBucket {
	return BucketFor(r.OverdueDays(now))
}

func (r Receivable) MarshalJSON() ([]byte, error) {
	type alias Receivable
	now := time.Now()
	return json.Marshal(struct {
		alias
		UnpaidAmount float64   `json:"unpaidAmount"`
		OverdueDays  int       `json:"overdueDays"`
		AgeBucket    AgeBucket `json:"ageBucket"`
	}{alias(r), r.UnpaidAmount(), r.OverdueDays(now), r.AgeBucket(now)})
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PaymentMethod is how a customer paid
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodWechat PaymentMethod = "wechat"
	PaymentMethodAlipay PaymentMethod = "alipay"
	PaymentMethodCheck  PaymentMethod = "check"
	PaymentMethodOther  PaymentMethod = "other"
)

// PaymentRecord is money received against a receivable
type PaymentRecord struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string        `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	PaymentNo    string        `json:"paymentNo" gorm:"type:varchar(50);not null;uniqueIndex"`
	ReceivableID uuid.UUID     `json:"receivableId" gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID     `json:"customerId" gorm:"type:uuid;not null;index"`
	Amount       float64       `json:"amount" gorm:"type:decimal(14,2);not null"`
	Method       PaymentMethod `json:"method" gorm:"type:varchar(20);not null;default:'bank'"`
	PaymentDate  time.Time     `json:"paymentDate" gorm:"not null;index"`
	Reference    *string       `json:"reference,omitempty" gorm:"type:varchar(100)"`
	Operator     string        `json:"operator" gorm:"type:varchar(255)"`
	Remark       *string       `json:"remark,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Statement is a customer account summary for a period
type Statement struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID       string     `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	StatementNo    string     `json:"statementNo" gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID     uuid.UUID  `json:"customerId" gorm:"type:uuid;not null;index"`
	Customer       *Partner   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	StartDate      time.Time  `json:"startDate" gorm:"type:date;not null"`
	EndDate        time.Time  `json:"endDate" gorm:"type:date;not null;index"`
	OpeningBalance float64    `json:"openingBalance" gorm:"type:decimal(14,2);default:0"`
	SalesAmount    float64    `json:"salesAmount" gorm:"type:decimal(14,2);default:0"`
	PaymentAmount  float64    `json:"paymentAmount" gorm:"type:decimal(14,2);default:0"`
	ClosingBalance float64    `json:"closingBalance" gorm:"type:decimal(14,2);default:0"`
	GeneratedBy    string     `json:"generatedBy" gorm:"type:varchar(255)"`
	GeneratedAt    time.Time  `json:"generatedAt"`
	IsConfirmed    bool       `json:"isConfirmed" gorm:"default:false"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// AgingBucketTotal is one row of an aging analysis
type AgingBucketTotal struct {
	Bucket AgeBucket `json:"bucket"`
	Count  int       `json:"count"`
	Amount float64   `json:"amount"`
}

// AgingReport summarises outstanding receivables by bucket
type AgingReport struct {
	Buckets     []AgingBucketTotal `json:"buckets"`
	TotalCount  int                `json:"totalCount"`
	TotalAmount float64            `json:"totalAmount"`
}

// ============================================================================
// Request Models
// ============================================================================

// SetCreditLimitRequest updates a customer's credit limit
type SetCreditLimitRequest struct {
	CreditLimit float64 `json:"creditLimit" binding:"gte=0"`
}

// FreezeCreditRequest freezes a customer's credit line
type FreezeCreditRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// CreateReceivableRequest raises a receivable for an order
type CreateReceivableRequest struct {
	OrderID uuid.UUID `json:"orderId" binding:"required"`
	DueDays *int      `json:"dueDays,omitempty" binding:"omitempty,gte=0"`
}

// RecordPaymentRequest records money received
type RecordPaymentRequest struct {
	ReceivableID uuid.UUID     `json:"receivableId" binding:"required"`
	Amount       float64       `json:"amount" binding:"required,gt=0"`
	Method       PaymentMethod `json:"method" binding:"omitempty,oneof=cash bank wechat alipay check other"`
	Reference    *string       `json:"reference,omitempty"`
	Remark       *string       `json:"remark,omitempty"`
}

// GenerateStatementRequest builds a statement for a period
type GenerateStatementRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
}

// ReceivableFilter narrows receivable listings
type ReceivableFilter struct {
	ListParams
	Status     ReceivableStatus
	CustomerID *uuid.UUID
}
