package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType is the visual severity of a notification
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationAlert   NotificationType = "alert"
	NotificationSuccess NotificationType = "success"
)

// NotificationCategory groups notifications by source
type NotificationCategory string

const (
	CategoryStock    NotificationCategory = "stock"
	CategoryOrder    NotificationCategory = "order"
	CategoryApproval NotificationCategory = "approval"
	CategorySystem   NotificationCategory = "system"
	CategoryReport   NotificationCategory = "report"
)

// Notification is an in-app message addressed to one user
type Notification struct {
	ID          uuid.UUID            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string               `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	UserID      string               `json:"userId" gorm:"type:varchar(255);not null;index"`
	Title       string               `json:"title" gorm:"type:varchar(200);not null"`
	Content     string               `json:"content" gorm:"type:text"`
	Type        NotificationType     `json:"type" gorm:"type:varchar(20);default:'info'"`
	Category    NotificationCategory `json:"category" gorm:"type:varchar(20);default:'system'"`
	RelatedType *string              `json:"relatedType,omitempty" gorm:"type:varchar(50)"`
	RelatedID   *string              `json:"relatedId,omitempty" gorm:"type:varchar(255)"`
	IsRead      bool                 `json:"isRead" gorm:"default:false;index"`
	ReadAt      *time.Time           `json:"readAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReportFrequency controls how often a subscribed report is generated
type ReportFrequency string

const (
	FrequencyDaily   ReportFrequency = "daily"
	FrequencyWeekly  ReportFrequency = "weekly"
	FrequencyMonthly ReportFrequency = "monthly"
)

// ReportSubscription schedules a report for a user
type ReportSubscription struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string          `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	UserID      string          `json:"userId" gorm:"type:varchar(255);not null;index"`
	ReportType  string          `json:"reportType" gorm:"type:varchar(50);not null"`
	Frequency   ReportFrequency `json:"frequency" gorm:"type:varchar(20);not null;default:'daily'"`
	SendHour    int             `json:"sendHour" gorm:"default:8"`
	SendWeekday int             `json:"sendWeekday" gorm:"default:1"`
	SendDay     int             `json:"sendDay" gorm:"default:1"`
	IsActive    bool            `json:"isActive" gorm:"default:true;index"`
	LastSentAt  *time.Time      `json:"lastSentAt,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReportSnapshot stores the output of one report run
type ReportSnapshot struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string         `json:"tenantId" gorm:"type:varchar(255);not null;index"`
	ReportType  string         `json:"reportType" gorm:"type:varchar(50);not null;index"`
	Name        string         `json:"name" gorm:"type:varchar(200)"`
	Period      string         `json:"period" gorm:"type:varchar(50)"`
	Data        datatypes.JSON `json:"data" gorm:"type:jsonb"`
	GeneratedBy string         `json:"generatedBy" gorm:"type:varchar(255)"`
	SentCount   int            `json:"sentCount" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ============================================================================
// Request Models
// ============================================================================

// CreateSubscriptionRequest subscribes the caller to a report
type CreateSubscriptionRequest struct {
	ReportType  string          `json:"reportType" binding:"required"`
	Frequency   ReportFrequency `json:"frequency" binding:"required,oneof=daily weekly monthly"`
	SendHour    *int            `json:"sendHour,omitempty" binding:"omitempty,gte=0,lte=23"`
	SendWeekday *int            `json:"sendWeekday,omitempty" binding:"omitempty,gte=0,lte=6"`
	SendDay     *int            `json:"sendDay,omitempty" binding:"omitempty,gte=1,lte=31"`
}
