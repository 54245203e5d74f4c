// Package jobs runs the periodic tenant sweeps: overdue receivables,
// stock alerts with replenishment suggestions, and report subscriptions.
package jobs

import (
	"context"
	"fmt"
	"time"

	"erp-service/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	JobOverdue       = "overdue"
	JobAlerts        = "alerts"
	JobSubscriptions = "subscriptions"
)

// Default schedules in standard five-field cron syntax
const (
	OverdueSchedule       = "0 1 * * *"
	AlertsSchedule        = "*/30 * * * *"
	SubscriptionsSchedule = "0 * * * *"
)

type TenantLister interface {
	Tenants(ctx context.Context) ([]string, error)
}

type OverdueUpdater interface {
	UpdateOverdue(ctx context.Context, tenantID string) (int64, error)
}

type AlertChecker interface {
	CheckAll(ctx context.Context, tenantID string) (int, error)
	GenerateSuggestions(ctx context.Context, tenantID string) (int, error)
}

type SubscriptionProcessor interface {
	ProcessSubscriptions(ctx context.Context, tenantID string, now time.Time) (int, error)
}

// Scheduler owns the cron runner. Every job walks all tenants and keeps going when one tenant fails.
type Scheduler struct {
	cron    *cron.Cron
	tenants TenantLister
	finance OverdueUpdater
	alerts  AlertChecker
	reports SubscriptionProcessor
	logger  *logrus.Entry
	now     func() time.Time
}

func NewScheduler(tenants TenantLister, finance OverdueUpdater, alerts AlertChecker, reports SubscriptionProcessor, logger *logrus.Logger) *Scheduler {
	entry := logger.WithField("component", "jobs")
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{entry}), cron.SkipIfStillRunning(cronLogger{entry}))),
		tenants: tenants,
		finance: finance,
		alerts:  alerts,
		reports: reports,
		logger:  entry,
		now:     time.Now,
	}
}

// Start registers the jobs and starts the runner. Jobs stop receiving new runs once ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context) (int, error)
	}{
		{JobOverdue, OverdueSchedule, s.RunOverdue},
		{JobAlerts, AlertsSchedule, s.RunAlerts},
		{JobSubscriptions, SubscriptionsSchedule, s.RunSubscriptions},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.schedule, func() {
			if ctx.Err() != nil {
				return
			}
			s.run(ctx, job.name, job.run)
		}); err != nil {
			return fmt.Errorf("schedule %s: %w", job.name, err)
		}
	}
	s.cron.Start()
	s.logger.WithField("jobs", len(jobs)).Info("Job scheduler started")
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Job scheduler stopped")
}

// Entries reports how many jobs are registered
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(ctx context.Context, name string, fn func(context.Context) (int, error)) {
	started := time.Now()
	count, err := fn(ctx)
	metrics.ObserveJob(name, started)

	fields := logrus.Fields{
		"job":      name,
		"count":    count,
		"duration": time.Since(started).String(),
	}
	if err != nil {
		s.logger.WithError(err).WithFields(fields).Error("Job failed")
		return
	}
	s.logger.WithFields(fields).Info("Job finished")
}

func (s *Scheduler) forEachTenant(ctx context.Context, job string, fn func(tenantID string) (int, error)) (int, error) {
	tenants, err := s.tenants.Tenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tenants: %w", err)
	}
	total := 0
	for _, tenantID := range tenants {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		n, err := fn(tenantID)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"job": job, "tenantId": tenantID}).Warn("Tenant sweep failed")
			continue
		}
		total += n
	}
	return total, nil
}

// RunOverdue marks receivables past their due date as overdue
func (s *Scheduler) RunOverdue(ctx context.Context) (int, error) {
	return s.forEachTenant(ctx, JobOverdue, func(tenantID string) (int, error) {
		n, err := s.finance.UpdateOverdue(ctx, tenantID)
		return int(n), err
	})
}

// RunAlerts re-evaluates stock alerts and then drafts replenishment suggestions
func (s *Scheduler) RunAlerts(ctx context.Context) (int, error) {
	return s.forEachTenant(ctx, JobAlerts, func(tenantID string) (int, error) {
		alerts, err := s.alerts.CheckAll(ctx, tenantID)
		if err != nil {
			return 0, err
		}
		suggestions, err := s.alerts.GenerateSuggestions(ctx, tenantID)
		if err != nil {
			return alerts, err
		}
		return alerts + suggestions, nil
	})
}

// RunSubscriptions delivers the report subscriptions that are due
func (s *Scheduler) RunSubscriptions(ctx context.Context) (int, error) {
	return s.forEachTenant(ctx, JobSubscriptions, func(tenantID string) (int, error) {
		return s.reports.ProcessSubscriptions(ctx, tenantID, s.now())
	})
}

// cronLogger routes cron's own messages into logrus
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(kv(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithError(err).WithFields(kv(keysAndValues)).Error(msg)
}

func kv(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
