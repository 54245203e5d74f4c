package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"erp-service/internal/clients"
	"erp-service/internal/config"
	"erp-service/internal/events"
	"erp-service/internal/handlers"
	"erp-service/internal/jobs"
	"erp-service/internal/middleware"
	"erp-service/internal/migrations"
	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/services"
	"erp-service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/rbac"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

const serviceName = "erp-service"

type routeHandlers struct {
	health        *handlers.HealthHandler
	catalog       *handlers.CatalogHandler
	inventory     *handlers.InventoryHandler
	purchases     *handlers.PurchaseHandler
	sales         *handlers.SalesHandler
	stocktakes    *handlers.StocktakeHandler
	finance       *handlers.FinanceHandler
	alerts        *handlers.AlertHandler
	notifications *handlers.NotificationHandler
	reports       *handlers.ReportHandler
	content       *handlers.ContentHandler
	assistant     *handlers.AssistantHandler
	dataio        *handlers.DataIOHandler
	audit         *handlers.AuditHandler
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle:", err)
	}
	if err := migrations.Apply(ctx, sqlDB); err != nil {
		log.Fatal("Failed to apply database constraints:", err)
	}
	log.Println("✓ Database migrated")

	// Redis is optional, the cache degrades to a no-op
	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		log.Printf("WARNING: Redis unavailable: %v (continuing without cache)", err)
	} else if redisClient != nil {
		log.Println("✓ Redis connected")
	}
	cache := repository.NewCache(redisClient)

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("✓ Connected to NATS JetStream for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Repositories
	catalogRepo := repository.NewCatalogRepository(db)
	stockRepo := repository.NewStockRepository(db, cache)
	purchaseRepo := repository.NewPurchaseRepository(db, cache)
	salesRepo := repository.NewSalesRepository(db, cache)
	stocktakeRepo := repository.NewStocktakeRepository(db, cache)
	financeRepo := repository.NewFinanceRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	contentRepo := repository.NewContentRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Services
	notifier := services.NewNotificationService(notificationRepo, logger)
	inventory := services.NewInventoryService(stockRepo, catalogRepo, eventPublisher, logger)
	finance := services.NewFinanceService(financeRepo, salesRepo, catalogRepo, notifier, eventPublisher, services.FinanceConfig{
		DefaultCreditLimit: cfg.CreditDefault,
		DueDays:            cfg.ReceivableDueDays,
	}, logger)
	catalog := services.NewCatalogService(catalogRepo, finance, logger)
	purchases := services.NewPurchaseService(purchaseRepo, catalogRepo, inventory, logger)
	sales := services.NewSalesService(salesRepo, catalogRepo, finance, inventory, eventPublisher, logger)
	stocktakes := services.NewStocktakeService(stocktakeRepo, catalogRepo, inventory, logger)
	alerts := services.NewAlertService(alertRepo, catalogRepo, salesRepo, purchases, notifier, eventPublisher, logger)
	inventory.SetAlertEvaluator(alerts)
	reports := services.NewReportService(reportRepo, notificationRepo, finance, notifier, cache, cfg.CacheTTL, logger)
	audit := services.NewAuditService(auditRepo, logger)
	documents := services.NewDocumentService(purchases, sales, finance, cfg.CompanyName)
	dataio := services.NewDataIOService(catalogRepo, stockRepo, catalog, inventory, finance, sales, logger)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize attachment storage:", err)
	}
	log.Printf("✓ Attachment storage initialized (%s)", store.Driver())
	content := services.NewContentService(contentRepo, store, cfg.Storage.MaxBytes, logger)

	chatClient := clients.NewChatClient(cfg.AI)
	if !chatClient.Configured() {
		log.Println("AI_API_KEY not configured, assistant answers locally")
	}
	assistant := services.NewAssistantService(assistantRepo, catalogRepo, chatClient, cfg.AI.Fallback, logger)

	handlers.ConfigurePaging(cfg.DefaultPageSize, cfg.MaxPageSize)

	var eventStatus handlers.ConnectionStatus
	if eventPublisher != nil {
		eventStatus = eventPublisher
	}
	h := routeHandlers{
		health:        handlers.NewHealthHandler(sqlDB, cache, eventStatus),
		catalog:       handlers.NewCatalogHandler(catalog),
		inventory:     handlers.NewInventoryHandler(inventory),
		purchases:     handlers.NewPurchaseHandler(purchases, documents),
		sales:         handlers.NewSalesHandler(sales, documents),
		stocktakes:    handlers.NewStocktakeHandler(stocktakes),
		finance:       handlers.NewFinanceHandler(finance, documents),
		alerts:        handlers.NewAlertHandler(alerts),
		notifications: handlers.NewNotificationHandler(notifier),
		reports:       handlers.NewReportHandler(reports),
		content:       handlers.NewContentHandler(content),
		assistant:     handlers.NewAssistantHandler(assistant),
		dataio:        handlers.NewDataIOHandler(dataio, cfg.Storage.MaxBytes),
		audit:         handlers.NewAuditHandler(audit),
	}

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.JobsEnabled {
		scheduler = jobs.NewScheduler(catalogRepo, finance, alerts, reports, logger)
		if err := scheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start job scheduler:", err)
		}
		log.Printf("✓ Job scheduler started (%d jobs)", scheduler.Entries())
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.Run(ctx)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig(serviceName))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig(serviceName))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "erp_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize RBAC middleware
	rbacMiddleware := rbac.NewMiddlewareWithURL(cfg.StaffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, h, metrics, rateLimiter, audit, rbacMiddleware)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("ERP service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Shutting down erp-service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
		log.Println("✓ Job scheduler stopped")
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("ERP service stopped")
}

func setupRouter(cfg *config.Config, h routeHandlers, metrics *gosharedmw.Metrics, rateLimiter *middleware.RateLimiter, audit middleware.AuditRecorder, rbacMiddleware *rbac.Middleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware(serviceName))

	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/health/extended", h.health.ExtendedHealthCheck)
	router.GET("/ready", h.health.Ready)
	router.GET("/metrics", gosharedmw.Handler())

	api := router.Group("/api/v1")

	// Istio validates the JWT and injects x-jwt-claim-* headers
	if cfg.DevAuth {
		log.Println("WARNING: DEV_AUTH enabled, identities are read from request headers")
		api.Use(middleware.DevelopmentAuthMiddleware())
	} else {
		api.Use(gosharedmw.IstioAuth(gosharedmw.IstioAuthConfig{
			RequireAuth:        true,
			AllowLegacyHeaders: false,
			SkipPaths:          []string{"/health", "/ready", "/metrics"},
		}))
	}
	api.Use(middleware.TenantMiddleware())
	api.Use(rateLimiter.Middleware())
	api.Use(middleware.Audit(audit))

	perm := rbacMiddleware.RequirePermission

	products := api.Group("/products")
	{
		products.POST("", perm(rbac.PermissionProductsCreate), h.catalog.CreateProduct)
		products.GET("", perm(rbac.PermissionProductsRead), h.catalog.ListProducts)
		products.GET("/:id", perm(rbac.PermissionProductsRead), h.catalog.GetProduct)
		products.PUT("/:id", perm(rbac.PermissionProductsUpdate), h.catalog.UpdateProduct)
		products.DELETE("/:id", perm(rbac.PermissionProductsDelete), h.catalog.DeleteProduct)
	}

	categories := api.Group("/categories")
	{
		categories.POST("", perm(rbac.PermissionCategoriesCreate), h.catalog.CreateCategory)
		categories.GET("", perm(rbac.PermissionCategoriesRead), h.catalog.ListCategories)
		categories.DELETE("/:id", perm(rbac.PermissionCategoriesDelete), h.catalog.DeleteCategory)
	}

	tags := api.Group("/tags")
	{
		tags.POST("", perm(rbac.PermissionProductsUpdate), h.catalog.CreateTag)
		tags.GET("", perm(rbac.PermissionProductsRead), h.catalog.ListTags)
	}

	partners := api.Group("/partners")
	{
		partners.POST("", perm(rbac.PermissionCustomersCreate), h.catalog.CreatePartner)
		partners.GET("", perm(rbac.PermissionCustomersRead), h.catalog.ListPartners)
		partners.GET("/:id", perm(rbac.PermissionCustomersRead), h.catalog.GetPartner)
		partners.PUT("/:id", perm(rbac.PermissionCustomersUpdate), h.catalog.UpdatePartner)
		partners.DELETE("/:id", perm(rbac.PermissionCustomersDelete), h.catalog.DeletePartner)
	}

	warehouses := api.Group("/warehouses")
	{
		warehouses.POST("", perm(rbac.PermissionInventoryUpdate), h.inventory.CreateWarehouse)
		warehouses.GET("", perm(rbac.PermissionInventoryRead), h.inventory.ListWarehouses)
		warehouses.GET("/:id", perm(rbac.PermissionInventoryRead), h.inventory.GetWarehouse)
		warehouses.PUT("/:id", perm(rbac.PermissionInventoryUpdate), h.inventory.UpdateWarehouse)
		warehouses.DELETE("/:id", perm(rbac.PermissionInventoryUpdate), h.inventory.DeleteWarehouse)
	}

	stock := api.Group("/stock")
	{
		stock.GET("", perm(rbac.PermissionInventoryRead), h.inventory.ListStocks)
		stock.GET("/level", perm(rbac.PermissionInventoryRead), h.inventory.GetStock)
		stock.GET("/logs", perm(rbac.PermissionInventoryRead), h.inventory.ListLogs)
		stock.POST("/adjust", perm(rbac.PermissionInventoryAdjust), h.inventory.AdjustStock)
		stock.POST("/transfer", perm(rbac.PermissionInventoryAdjust), h.inventory.TransferStock)
	}

	purchaseOrders := api.Group("/purchase-orders")
	{
		purchaseOrders.POST("", perm(rbac.PermissionInventoryUpdate), h.purchases.CreatePurchaseOrder)
		purchaseOrders.GET("", perm(rbac.PermissionInventoryRead), h.purchases.ListPurchaseOrders)
		purchaseOrders.GET("/price-history/:productId", perm(rbac.PermissionInventoryRead), h.purchases.PriceHistory)
		purchaseOrders.GET("/supplier-performance", perm(rbac.PermissionVendorsRead), h.purchases.SupplierPerformance)
		purchaseOrders.GET("/:id", perm(rbac.PermissionInventoryRead), h.purchases.GetPurchaseOrder)
		purchaseOrders.GET("/:id/pdf", perm(rbac.PermissionInventoryRead), h.purchases.PurchaseOrderPDF)
		purchaseOrders.POST("/:id/submit", perm(rbac.PermissionInventoryUpdate), h.purchases.SubmitPurchaseOrder)
		purchaseOrders.POST("/:id/approve", perm(rbac.PermissionApprovalsManage), h.purchases.ApprovePurchaseOrder)
		purchaseOrders.POST("/:id/order", perm(rbac.PermissionInventoryUpdate), h.purchases.MarkOrdered)
		purchaseOrders.POST("/:id/cancel", perm(rbac.PermissionInventoryUpdate), h.purchases.CancelPurchaseOrder)
		purchaseOrders.POST("/:id/receive", perm(rbac.PermissionInventoryAdjust), h.purchases.ReceivePurchaseOrder)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", perm(rbac.PermissionOrdersCreate), h.sales.CreateOrder)
		orders.GET("", perm(rbac.PermissionOrdersRead), h.sales.ListOrders)
		orders.GET("/:id", perm(rbac.PermissionOrdersRead), h.sales.GetOrder)
		orders.GET("/:id/delivery-note", perm(rbac.PermissionOrdersRead), h.sales.DeliveryNotePDF)
		orders.PUT("/:id/status", perm(rbac.PermissionOrdersUpdate), h.sales.UpdateOrderStatus)
		orders.POST("/:id/ship", perm(rbac.PermissionOrdersShip), h.sales.ShipOrder)
		orders.POST("/:id/cancel", perm(rbac.PermissionOrdersUpdate), h.sales.CancelOrder)
	}

	stocktakes := api.Group("/stocktakes")
	{
		stocktakes.POST("", perm(rbac.PermissionInventoryAdjust), h.stocktakes.CreateStocktake)
		stocktakes.GET("", perm(rbac.PermissionInventoryRead), h.stocktakes.ListStocktakes)
		stocktakes.GET("/history", perm(rbac.PermissionInventoryRead), h.stocktakes.History)
		stocktakes.GET("/:id", perm(rbac.PermissionInventoryRead), h.stocktakes.GetStocktake)
		stocktakes.GET("/:id/variance", perm(rbac.PermissionInventoryRead), h.stocktakes.VarianceSummary)
		stocktakes.POST("/:id/start", perm(rbac.PermissionInventoryAdjust), h.stocktakes.StartStocktake)
		stocktakes.POST("/:id/counts", perm(rbac.PermissionInventoryAdjust), h.stocktakes.InputCount)
		stocktakes.POST("/:id/counts/batch", perm(rbac.PermissionInventoryAdjust), h.stocktakes.BatchInputCount)
		stocktakes.POST("/:id/items/:itemId/confirm", perm(rbac.PermissionInventoryAdjust), h.stocktakes.ConfirmItem)
		stocktakes.POST("/:id/complete", perm(rbac.PermissionInventoryAdjust), h.stocktakes.CompleteStocktake)
		stocktakes.POST("/:id/approve", perm(rbac.PermissionApprovalsManage), h.stocktakes.ApproveStocktake)
		stocktakes.POST("/:id/cancel", perm(rbac.PermissionInventoryAdjust), h.stocktakes.CancelStocktake)
	}

	finance := api.Group("/finance")
	{
		credits := finance.Group("/credits")
		credits.GET("", perm(rbac.PermissionPaymentsRead), h.finance.ListCredits)
		credits.GET("/:customerId", perm(rbac.PermissionPaymentsRead), h.finance.GetCredit)
		credits.PUT("/:customerId/limit", perm(rbac.PermissionCustomersUpdate), h.finance.SetCreditLimit)
		credits.POST("/:customerId/freeze", perm(rbac.PermissionCustomersUpdate), h.finance.FreezeCredit)
		credits.POST("/:customerId/unfreeze", perm(rbac.PermissionCustomersUpdate), h.finance.UnfreezeCredit)

		receivables := finance.Group("/receivables")
		receivables.POST("", perm(rbac.PermissionOrdersUpdate), h.finance.CreateReceivable)
		receivables.GET("", perm(rbac.PermissionPaymentsRead), h.finance.ListReceivables)
		receivables.GET("/aging", perm(rbac.PermissionPaymentsRead), h.finance.AgingAnalysis)
		receivables.POST("/overdue", perm(rbac.PermissionOrdersUpdate), h.finance.UpdateOverdue)
		receivables.GET("/:id", perm(rbac.PermissionPaymentsRead), h.finance.GetReceivable)

		payments := finance.Group("/payments")
		payments.POST("", perm(rbac.PermissionOrdersUpdate), h.finance.RecordPayment)
		payments.GET("", perm(rbac.PermissionPaymentsRead), h.finance.ListPayments)

		statements := finance.Group("/statements")
		statements.POST("", perm(rbac.PermissionOrdersUpdate), h.finance.GenerateStatement)
		statements.GET("", perm(rbac.PermissionPaymentsRead), h.finance.ListStatements)
		statements.GET("/:id", perm(rbac.PermissionPaymentsRead), h.finance.GetStatement)
		statements.GET("/:id/pdf", perm(rbac.PermissionPaymentsRead), h.finance.StatementPDF)
		statements.POST("/:id/confirm", perm(rbac.PermissionCustomersUpdate), h.finance.ConfirmStatement)
	}

	alerts := api.Group("/alerts")
	{
		alerts.GET("", perm(rbac.PermissionInventoryRead), h.alerts.ListAlerts)
		alerts.GET("/summary", perm(rbac.PermissionInventoryRead), h.alerts.GetAlertSummary)
		alerts.POST("/check", perm(rbac.PermissionInventoryUpdate), h.alerts.CheckAll)
		alerts.POST("/:id/resolve", perm(rbac.PermissionInventoryUpdate), h.alerts.ResolveAlert)
		alerts.POST("/:id/ignore", perm(rbac.PermissionInventoryUpdate), h.alerts.IgnoreAlert)
	}

	replenishment := api.Group("/replenishment")
	{
		replenishment.GET("", perm(rbac.PermissionInventoryRead), h.alerts.ListSuggestions)
		replenishment.POST("/generate", perm(rbac.PermissionInventoryUpdate), h.alerts.GenerateSuggestions)
		replenishment.POST("/:id/accept", perm(rbac.PermissionInventoryUpdate), h.alerts.AcceptSuggestion)
		replenishment.POST("/:id/reject", perm(rbac.PermissionInventoryUpdate), h.alerts.RejectSuggestion)
	}

	// Notifications belong to the caller, authentication is enough
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.notifications.ListNotifications)
		notifications.GET("/unread-count", h.notifications.UnreadCount)
		notifications.POST("/read-all", h.notifications.MarkAllRead)
		notifications.POST("/:id/read", h.notifications.MarkRead)
		notifications.DELETE("/:id", h.notifications.DeleteNotification)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/snapshots", perm(rbac.PermissionOrdersRead), h.reports.ListSnapshots)
		reports.GET("/subscriptions", h.notifications.ListSubscriptions)
		reports.POST("/subscriptions", perm(rbac.PermissionOrdersRead), h.notifications.CreateSubscription)
		reports.DELETE("/subscriptions/:id", h.notifications.CancelSubscription)
		reports.GET("/:type", perm(rbac.PermissionOrdersRead), h.reports.GenerateReport)
	}
	api.GET("/dashboard", perm(rbac.PermissionOrdersRead), h.reports.Dashboard)

	articles := api.Group("/articles")
	{
		articles.POST("", perm(rbac.PermissionMarketingCampaignsManage), h.content.CreateArticle)
		articles.GET("", perm(rbac.PermissionMarketingCampaignsView), h.content.ListArticles)
		articles.GET("/:id", perm(rbac.PermissionMarketingCampaignsView), h.content.GetArticle)
		articles.PUT("/:id", perm(rbac.PermissionMarketingCampaignsManage), h.content.UpdateArticle)
		articles.POST("/:id/publish", perm(rbac.PermissionMarketingCampaignsManage), h.content.PublishArticle)
		articles.POST("/:id/unpublish", perm(rbac.PermissionMarketingCampaignsManage), h.content.UnpublishArticle)
		articles.DELETE("/:id", perm(rbac.PermissionMarketingCampaignsManage), h.content.DeleteArticle)
	}

	attachments := api.Group("/attachments")
	{
		attachments.POST("", perm(rbac.PermissionMarketingCampaignsManage), h.content.UploadAttachment)
		attachments.GET("", perm(rbac.PermissionMarketingCampaignsView), h.content.ListAttachments)
		attachments.GET("/:id", perm(rbac.PermissionMarketingCampaignsView), h.content.DownloadAttachment)
		attachments.DELETE("/:id", perm(rbac.PermissionMarketingCampaignsManage), h.content.DeleteAttachment)
	}

	assistant := api.Group("/assistant")
	{
		assistant.POST("/chat", h.assistant.Chat)
		assistant.POST("/analyze-inventory", perm(rbac.PermissionInventoryRead), h.assistant.AnalyzeInventory)
		assistant.POST("/estimate-cost", h.assistant.EstimateCost)
		assistant.POST("/count-tokens", h.assistant.CountTokens)
		assistant.GET("/sessions", h.assistant.ListSessions)
		assistant.GET("/sessions/:id/messages", h.assistant.ListMessages)
	}

	dataio := api.Group("/data")
	{
		dataio.GET("/kinds", perm(rbac.PermissionProductsRead), h.dataio.ImportKinds)
		dataio.GET("/templates/:kind", perm(rbac.PermissionProductsImport), h.dataio.GetImportTemplate)
		dataio.POST("/import/:kind", perm(rbac.PermissionProductsImport), h.dataio.Import)
		dataio.GET("/export/:kind", perm(rbac.PermissionProductsExport), h.dataio.Export)
	}

	api.GET("/audit-logs", middleware.RequireRole("admin"), perm(rbac.PermissionApprovalsRead), h.audit.ListAuditLogs)

	return router
}
