package services

import (
	"context"
	"fmt"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AdminRole receives broadcast notifications such as credit warnings and stock alerts
const AdminRole = "admin"

// NotificationInput is the content of a notification before it is addressed
type NotificationInput struct {
	Title       string
	Content     string
	Type        models.NotificationType
	Category    models.NotificationCategory
	RelatedType string
	RelatedID   string
}

type NotificationService struct {
	repo   repository.NotificationRepositoryInterface
	logger *logrus.Entry
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger.WithField("component", "notifications"),
	}
}

// Notify writes one notification per recipient. Recipients are user ids or role addresses.
func (s *NotificationService) Notify(ctx context.Context, tenantID string, recipients []string, in NotificationInput) error {
	if len(recipients) == 0 {
		return nil
	}
	if in.Type == "" {
		in.Type = models.NotificationInfo
	}
	if in.Category == "" {
		in.Category = models.CategorySystem
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, recipient := range recipients {
		n := models.Notification{
			ID:       uuid.New(),
			TenantID: tenantID,
			UserID:   recipient,
			Title:    in.Title,
			Content:  in.Content,
			Type:     in.Type,
			Category: in.Category,
		}
		if in.RelatedType != "" {
			relatedType := in.RelatedType
			n.RelatedType = &relatedType
		}
		if in.RelatedID != "" {
			relatedID := in.RelatedID
			n.RelatedID = &relatedID
		}
		rows = append(rows, n)
	}
	return s.repo.CreateNotifications(ctx, rows)
}

// NotifyAdmins broadcasts to every user holding the admin role.
// Failures are logged, never returned, since callers have already committed.
func (s *NotificationService) NotifyAdmins(ctx context.Context, tenantID string, in NotificationInput) {
	if err := s.Notify(ctx, tenantID, []string{repository.RoleRecipient(AdminRole)}, in); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"tenantId": tenantID,
			"title":    in.Title,
		}).Warn("Failed to notify admins")
	}
}

func (s *NotificationService) ListForUser(ctx context.Context, tenantID, userID string, roles []string, unreadOnly bool, params models.ListParams) ([]models.Notification, int64, error) {
	return s.repo.ListForUser(ctx, tenantID, userID, roles, unreadOnly, params)
}

func (s *NotificationService) UnreadCount(ctx context.Context, tenantID, userID string, roles []string) (int64, error) {
	return s.repo.UnreadCount(ctx, tenantID, userID, roles)
}

func (s *NotificationService) MarkRead(ctx context.Context, tenantID, userID string, roles []string, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, tenantID, repository.Recipients(userID, roles), id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, tenantID, userID string, roles []string) (int64, error) {
	return s.repo.MarkAllRead(ctx, tenantID, repository.Recipients(userID, roles))
}

func (s *NotificationService) Delete(ctx context.Context, tenantID, userID string, roles []string, id uuid.UUID) error {
	return s.repo.DeleteNotification(ctx, tenantID, repository.Recipients(userID, roles), id)
}

// ========== Report subscriptions ==========

func (s *NotificationService) CreateSubscription(ctx context.Context, tenantID, userID string, req models.CreateSubscriptionRequest) (*models.ReportSubscription, error) {
	if !validReportType(req.ReportType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, req.ReportType)
	}
	sub := &models.ReportSubscription{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		ReportType:  req.ReportType,
		Frequency:   req.Frequency,
		SendHour:    8,
		SendWeekday: 1,
		SendDay:     1,
		IsActive:    true,
	}
	if req.SendHour != nil {
		sub.SendHour = *req.SendHour
	}
	if req.SendWeekday != nil {
		sub.SendWeekday = *req.SendWeekday
	}
	if req.SendDay != nil {
		sub.SendDay = *req.SendDay
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription deactivates a subscription owned by userID
func (s *NotificationService) CancelSubscription(ctx context.Context, tenantID, userID string, id uuid.UUID) error {
	sub, err := s.repo.GetSubscription(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if sub.UserID != userID {
		return repository.ErrNotFound
	}
	sub.IsActive = false
	return s.repo.SaveSubscription(ctx, sub)
}

func (s *NotificationService) ListSubscriptions(ctx context.Context, tenantID, userID string) ([]models.ReportSubscription, error) {
	return s.repo.ListSubscriptions(ctx, tenantID, userID)
}

func validReportType(reportType string) bool {
	for _, t := range models.ReportTypes {
		if t == reportType {
			return true
		}
	}
	return false
}

// ShouldGenerate reports whether a subscription is due at now.
// SendWeekday follows time.Weekday, so 0 is Sunday.
func ShouldGenerate(sub *models.ReportSubscription, now time.Time) bool {
	if !sub.IsActive || now.Hour() != sub.SendHour {
		return false
	}

	if sub.LastSentAt == nil {
		switch sub.Frequency {
		case models.FrequencyWeekly:
			return int(now.Weekday()) == sub.SendWeekday
		case models.FrequencyMonthly:
			return now.Day() == sub.SendDay
		}
		return true
	}

	last := sub.LastSentAt.In(now.Location())
	switch sub.Frequency {
	case models.FrequencyDaily:
		return !sameDay(last, now) && last.Before(now)
	case models.FrequencyWeekly:
		return daysBetween(last, now) >= 7 && int(now.Weekday()) == sub.SendWeekday
	case models.FrequencyMonthly:
		sameMonth := last.Year() == now.Year() && last.Month() == now.Month()
		return !sameMonth && now.Day() == sub.SendDay
	}
	return false
}

// daysBetween counts calendar days from a to b, ignoring the time of day
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
