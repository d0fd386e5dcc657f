package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/babel-30/sugarplum-backend/internal/application/catalog"
	checkoutapp "github.com/babel-30/sugarplum-backend/internal/application/checkout"
	inventoryapp "github.com/babel-30/sugarplum-backend/internal/application/inventory"
	orderapp "github.com/babel-30/sugarplum-backend/internal/application/order"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/cache"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/config"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/ecommerce"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/logger"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/notification"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/persistence"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/scheduler"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/handler"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Sugar Plum backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	square, err := ecommerce.NewSquareAdapter(&ecommerce.SquareConfig{
		AccessToken:    cfg.Square.AccessToken,
		Environment:    cfg.Square.Environment,
		LocationID:     cfg.Square.LocationID,
		TimeoutSeconds: cfg.Square.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to configure Square adapter", zap.Error(err))
	}

	snapshots := cache.NewSnapshotCache(square,
		cache.WithCatalogTTL(cfg.Cache.CatalogTTL),
		cache.WithInventoryTTL(cfg.Cache.InventoryTTL),
		cache.WithSnapshotLogger(log),
	)

	submissions := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		if err := submissions.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	mailer := notification.NewMailer(cfg.SMTP, log)

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	flagRepo := persistence.NewGormFlagRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB,
		persistence.WithDefaultShipping(cfg.Shipping.FlatRateAmount(), cfg.Shipping.FreeThresholdAmount()),
	)

	listingService := catalogapp.NewListingService(snapshots, flagRepo, log)
	checkoutService := checkoutapp.NewService(
		snapshots, square, orderRepo, settingsRepo, submissions, mailer,
		cfg.Square.RedirectURL, log,
	)
	orderService := orderapp.NewService(orderRepo, mailer, log)
	adjustmentService := inventoryapp.NewService(snapshots, square, log)

	engine := router.New(log, cfg.HTTP.CORSAllowOrigins, router.Handlers{
		Health:       handler.NewHealthHandler(snapshots, db),
		Products:     handler.NewProductHandler(listingService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Shop:         handler.NewShopHandler(settingsRepo),
		AdminProduct: handler.NewAdminProductHandler(listingService),
		Orders:       handler.NewOrderHandler(orderService),
		Inventory:    handler.NewInventoryHandler(adjustmentService, snapshots),
	})

	refreshScheduler := scheduler.NewRefreshScheduler(scheduler.RefreshSchedulerConfig{
		CatalogInterval:   cfg.Cache.CatalogTTL,
		InventoryInterval: cfg.Cache.InventoryTTL,
	}, snapshots, log)
	if err := refreshScheduler.Start(context.Background()); err != nil {
		log.Error("Failed to start refresh scheduler", zap.Error(err))
	}

	// Warm the cache so the first storefront hit doesn't pay for the
	// full catalog walk. Failure is fine, reads fall back to on-demand.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := snapshots.RefreshInventory(warmCtx); err != nil {
			log.Warn("Initial snapshot warm-up failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := refreshScheduler.Stop(ctx); err != nil {
		log.Error("Refresh scheduler forced to stop", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
