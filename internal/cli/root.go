package cli

import (
	"context"
	"database/sql"
	"fmt"

	"erp-service/internal/clients"
	"erp-service/internal/config"
	"erp-service/internal/jobs"
	"erp-service/internal/repository"
	"erp-service/internal/services"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	okMark   = color.New(color.FgHiGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// NewRootCmd builds the erpctl command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "erpctl",
		Short: "Operate the ERP service database and background jobs",
		Long: `erpctl runs schema migrations, seeds demo data and triggers the
scheduled jobs of the ERP service by hand. It reads the same environment
variables as the service itself.`,
		SilenceUsage: true,
	}

	root.AddCommand(MigrateCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(JobsCmd())
	root.AddCommand(AlertsCmd())
	root.AddCommand(StatusCmd())
	return root
}

// app holds the services a command needs, wired the same way as the HTTP service
type app struct {
	cfg       *config.Config
	db        *gorm.DB
	sqlDB     *sql.DB
	logger    *logrus.Logger
	catalog   *services.CatalogService
	inventory *services.InventoryService
	finance   *services.FinanceService
	sales     *services.SalesService
	alerts    *services.AlertService
	reports   *services.ReportService
	scheduler *jobs.Scheduler
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logger := config.NewLogger(cfg)
	logger.SetLevel(logrus.WarnLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = nil
	}
	cache := repository.NewCache(redisClient)

	catalogRepo := repository.NewCatalogRepository(db)
	stockRepo := repository.NewStockRepository(db, cache)
	salesRepo := repository.NewSalesRepository(db, cache)
	notificationRepo := repository.NewNotificationRepository(db)

	notifier := services.NewNotificationService(notificationRepo, logger)
	inventory := services.NewInventoryService(stockRepo, catalogRepo, nil, logger)
	finance := services.NewFinanceService(repository.NewFinanceRepository(db), salesRepo, catalogRepo, notifier, nil, services.FinanceConfig{
		DefaultCreditLimit: cfg.CreditDefault,
		DueDays:            cfg.ReceivableDueDays,
	}, logger)
	purchases := services.NewPurchaseService(repository.NewPurchaseRepository(db, cache), catalogRepo, inventory, logger)
	alerts := services.NewAlertService(repository.NewAlertRepository(db), catalogRepo, salesRepo, purchases, notifier, nil, logger)
	inventory.SetAlertEvaluator(alerts)
	reports := services.NewReportService(repository.NewReportRepository(db), notificationRepo, finance, notifier, cache, cfg.CacheTTL, logger)

	return &app{
		cfg:       cfg,
		db:        db,
		sqlDB:     sqlDB,
		logger:    logger,
		catalog:   services.NewCatalogService(catalogRepo, finance, logger),
		inventory: inventory,
		finance:   finance,
		sales:     services.NewSalesService(salesRepo, catalogRepo, finance, inventory, nil, logger),
		alerts:    alerts,
		reports:   reports,
		scheduler: jobs.NewScheduler(catalogRepo, finance, alerts, reports, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.sqlDB.Close()
}

// assistantConfigured reports whether chat requests will reach the AI backend
func assistantConfigured(cfg *config.Config) bool {
	return clients.NewChatClient(cfg.AI).Configured()
}

func requireTenant(tenantID string) error {
	if tenantID == "" {
		return fmt.Errorf("--tenant is required")
	}
	return nil
}
