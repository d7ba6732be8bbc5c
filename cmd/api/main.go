package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/service-orders/internal/advisory"
	httptransport "github.com/spec-kit/service-orders/internal/api/http"
	"github.com/spec-kit/service-orders/internal/api/http/handlers"
	"github.com/spec-kit/service-orders/internal/config"
	"github.com/spec-kit/service-orders/internal/events"
	"github.com/spec-kit/service-orders/internal/lifecycle"
	"github.com/spec-kit/service-orders/internal/observability"
	"github.com/spec-kit/service-orders/internal/persistence"
	"github.com/spec-kit/service-orders/internal/repository"
	"github.com/spec-kit/service-orders/internal/service"
	"github.com/spec-kit/service-orders/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer := observability.InitTracer(cfg.Tracing, cfg.App.Version, logger)
	defer shutdownTracer()

	store := repository.NewStore()
	seed := repository.DefaultSeed()
	if cfg.Store.SeedFile != "" {
		seed, err = repository.ReadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			logger.Fatal("failed to read seed file", zap.Error(err))
		}
	}
	if err := repository.LoadSeed(store, seed, time.Now()); err != nil {
		logger.Fatal("failed to load seed", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	gemini, err := advisory.NewGeminiConnector(ctx, advisory.GeminiConfig{
		APIKey:  cfg.Advisory.APIKey,
		Model:   cfg.Advisory.Model,
		Timeout: cfg.Advisory.Timeout(),
	}, logger.Named("advisory"))
	if err != nil {
		logger.Fatal("failed to create advisory connector", zap.Error(err))
	}
	var cache advisory.Cache = advisory.NewMemoryCache(cfg.Advisory.CacheSize)
	if redis.Configured() {
		cache = advisory.NewRedisCache(redis.Client, logger)
	}
	advisor := advisory.NewCachedConnector(gemini, cache, cfg.Advisory.CacheTTL())

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	referenceService := service.NewReferenceService(service.ReferenceDependencies{
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
		Logger:           logger,
	})
	orderService := service.NewServiceOrderService(service.ServiceOrderDependencies{
		OrderRepo:        store.ServiceOrders(),
		BuildingRepo:     store.Buildings(),
		SectorRepo:       store.Sectors(),
		TeamRepo:         store.Teams(),
		ProfessionalRepo: store.Professionals(),
		ReasonRepo:       store.Reasons(),
		Engine:           lifecycle.NewEngine(store.ServiceOrders()),
		Advisor:          advisor,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})
	listViewService := service.NewListViewService(store.ServiceOrders())
	printService := service.NewPrintService(store.ServiceOrders(), referenceService, listViewService)
	dashboardService := service.NewDashboardService(store.ServiceOrders())

	sweeperDone := worker.StartFormSweeper(ctx, orderService, cfg.Forms.SweepInterval(), cfg.Forms.IdleTimeout(), logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, metrics),
		References: handlers.NewReferenceHandler(referenceService),
		Orders:     handlers.NewOrdersHandler(orderService, listViewService),
		Views:      handlers.NewViewHandler(listViewService, printService, dashboardService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-sweeperDone
	orderService.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
