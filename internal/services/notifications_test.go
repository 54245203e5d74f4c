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

func TestNotify_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	service := &NotificationService{repo: repo, logger: testLogger()}

	repo.On("CreateNotifications", ctx, mock.MatchedBy(func(rows []models.Notification) bool {
		if len(rows) != 2 {
			return false
		}
		n := rows[1]
		return n.UserID == "role:admin" && n.Type == models.NotificationInfo &&
			n.Category == models.CategorySystem && n.RelatedType == nil && n.RelatedID == nil
	})).Return(nil)

	err := service.Notify(ctx, "t", []string{"user-1", "role:admin"}, NotificationInput{Title: "Hello"})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	require.NoError(t, service.Notify(ctx, "t", nil, NotificationInput{Title: "nobody"}))
	repo.AssertNumberOfCalls(t, "CreateNotifications", 1)
}

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	service := &NotificationService{repo: repo, logger: testLogger()}
	repo.On("CreateSubscription", ctx, mock.Anything).Return(nil)

	hour := 18
	sub, err := service.CreateSubscription(ctx, "t", "user-1", models.CreateSubscriptionRequest{
		ReportType: models.ReportSalesDaily,
		Frequency:  models.FrequencyDaily,
		SendHour:   &hour,
	})
	require.NoError(t, err)
	assert.Equal(t, 18, sub.SendHour)
	assert.Equal(t, 1, sub.SendWeekday)
	assert.True(t, sub.IsActive)

	_, err = service.CreateSubscription(ctx, "t", "user-1", models.CreateSubscriptionRequest{ReportType: "weather", Frequency: models.FrequencyDaily})
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestCancelSubscription_OwnerOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockNotificationRepository)
	service := &NotificationService{repo: repo, logger: testLogger()}
	sub := &models.ReportSubscription{ID: uuid.New(), UserID: "owner", IsActive: true}
	repo.On("GetSubscription", ctx, "t", sub.ID).Return(sub, nil)
	repo.On("SaveSubscription", ctx, sub).Return(nil)

	err := service.CancelSubscription(ctx, "t", "intruder", sub.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.True(t, sub.IsActive)

	require.NoError(t, service.CancelSubscription(ctx, "t", "owner", sub.ID))
	assert.False(t, sub.IsActive)
}

func TestShouldGenerate(t *testing.T) {
	// 2024-06-03 is a Monday
	monday8 := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	at := func(d time.Time) *time.Time { return &d }

	cases := []struct {
		name string
		sub  models.ReportSubscription
		now  time.Time
		want bool
	}{
		{
			name: "inactive",
			sub:  models.ReportSubscription{Frequency: models.FrequencyDaily, SendHour: 8},
			now:  monday8,
			want: false,
		},
		{
			name: "wrong hour",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyDaily, SendHour: 9},
			now:  monday8,
			want: false,
		},
		{
			name: "daily never sent",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyDaily, SendHour: 8},
			now:  monday8,
			want: true,
		},
		{
			name: "daily already sent today",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyDaily, SendHour: 8, LastSentAt: at(monday8.Add(-time.Minute * 30))},
			now:  monday8,
			want: false,
		},
		{
			name: "daily sent yesterday",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyDaily, SendHour: 8, LastSentAt: at(monday8.AddDate(0, 0, -1))},
			now:  monday8,
			want: true,
		},
		{
			name: "weekly on the right weekday",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyWeekly, SendHour: 8, SendWeekday: 1},
			now:  monday8,
			want: true,
		},
		{
			name: "weekly sunday is zero",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyWeekly, SendHour: 8, SendWeekday: 0},
			now:  monday8.AddDate(0, 0, -1),
			want: true,
		},
		{
			name: "weekly sent six days ago",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyWeekly, SendHour: 8, SendWeekday: 1, LastSentAt: at(monday8.AddDate(0, 0, -6))},
			now:  monday8,
			want: false,
		},
		{
			name: "weekly sent last week just after the hour",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyWeekly, SendHour: 8, SendWeekday: 1, LastSentAt: at(monday8.AddDate(0, 0, -7).Add(4 * time.Second))},
			now:  monday8,
			want: true,
		},
		{
			name: "monthly same month",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyMonthly, SendHour: 8, SendDay: 3, LastSentAt: at(monday8.AddDate(0, 0, -1))},
			now:  monday8,
			want: false,
		},
		{
			name: "monthly next month",
			sub:  models.ReportSubscription{IsActive: true, Frequency: models.FrequencyMonthly, SendHour: 8, SendDay: 3, LastSentAt: at(monday8.AddDate(0, -1, 0))},
			now:  monday8,
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldGenerate(&tc.sub, tc.now))
		})
	}
}
