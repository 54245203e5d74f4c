package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTenants struct {
	ids []string
	err error
}

func (s stubTenants) Tenants(ctx context.Context) ([]string, error) { return s.ids, s.err }

type stubFinance struct {
	perTenant map[string]int64
	failing   map[string]bool
}

func (s stubFinance) UpdateOverdue(ctx context.Context, tenantID string) (int64, error) {
	if s.failing[tenantID] {
		return 0, errors.New("db down")
	}
	return s.perTenant[tenantID], nil
}

type stubAlerts struct {
	checked     []string
	suggestions int
}

func (s *stubAlerts) CheckAll(ctx context.Context, tenantID string) (int, error) {
	s.checked = append(s.checked, tenantID)
	return 2, nil
}

func (s *stubAlerts) GenerateSuggestions(ctx context.Context, tenantID string) (int, error) {
	return s.suggestions, nil
}

type stubReports struct {
	at time.Time
}

func (s *stubReports) ProcessSubscriptions(ctx context.Context, tenantID string, now time.Time) (int, error) {
	s.at = now
	return 1, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunOverdue_SkipsFailingTenant(t *testing.T) {
	s := NewScheduler(
		stubTenants{ids: []string{"t1", "t2", "t3"}},
		stubFinance{perTenant: map[string]int64{"t1": 3, "t3": 4}, failing: map[string]bool{"t2": true}},
		&stubAlerts{}, &stubReports{}, quietLogger(),
	)

	n, err := s.RunOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestRunOverdue_TenantListError(t *testing.T) {
	s := NewScheduler(stubTenants{err: errors.New("boom")}, stubFinance{}, &stubAlerts{}, &stubReports{}, quietLogger())

	_, err := s.RunOverdue(context.Background())
	assert.Error(t, err)
}

func TestRunAlerts(t *testing.T) {
	alerts := &stubAlerts{suggestions: 1}
	s := NewScheduler(stubTenants{ids: []string{"t1", "t2"}}, stubFinance{}, alerts, &stubReports{}, quietLogger())

	n, err := s.RunAlerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []string{"t1", "t2"}, alerts.checked)
}

func TestRunSubscriptions_UsesClock(t *testing.T) {
	reports := &stubReports{}
	s := NewScheduler(stubTenants{ids: []string{"t1"}}, stubFinance{}, &stubAlerts{}, reports, quietLogger())
	fixed := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	n, err := s.RunSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, fixed, reports.at)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	alerts := &stubAlerts{}
	s := NewScheduler(stubTenants{ids: []string{"t1", "t2"}}, stubFinance{}, alerts, &stubReports{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RunAlerts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, alerts.checked)
}

func TestStartRegistersJobs(t *testing.T) {
	s := NewScheduler(stubTenants{}, stubFinance{}, &stubAlerts{}, &stubReports{}, quietLogger())

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, s.Entries())
	s.Stop()
}
