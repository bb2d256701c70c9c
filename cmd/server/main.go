package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/markethub/backend/internal/application/catalog"
	checkoutapp "github.com/markethub/backend/internal/application/checkout"
	inventoryapp "github.com/markethub/backend/internal/application/inventory"
	notificationapp "github.com/markethub/backend/internal/application/notification"
	reconcileapp "github.com/markethub/backend/internal/application/reconcile"
	subscriptionapp "github.com/markethub/backend/internal/application/subscription"
	"github.com/markethub/backend/internal/domain/notification"
	"github.com/markethub/backend/internal/infrastructure/auth"
	"github.com/markethub/backend/internal/infrastructure/cache"
	"github.com/markethub/backend/internal/infrastructure/carrier"
	"github.com/markethub/backend/internal/infrastructure/config"
	"github.com/markethub/backend/internal/infrastructure/event"
	"github.com/markethub/backend/internal/infrastructure/logger"
	"github.com/markethub/backend/internal/infrastructure/notify"
	paymentinfra "github.com/markethub/backend/internal/infrastructure/payment"
	"github.com/markethub/backend/internal/infrastructure/persistence"
	"github.com/markethub/backend/internal/infrastructure/scheduler"
	"github.com/markethub/backend/internal/infrastructure/storage"
	"github.com/markethub/backend/internal/interfaces/http/handler"
	"github.com/markethub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

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

	log.Info("Starting MarketHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	subOrderRepo := persistence.NewGormSubOrderRepository(db)
	transactionRepo := persistence.NewGormTransactionRepository(db)
	userRepo := persistence.NewGormUserRepository(db)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db)
	checkoutUoW := persistence.NewGormCheckoutUnitOfWork(db)

	// Shared infrastructure
	idempotencyStore := cache.NewRedisIdempotencyStore(redisClient, "")
	tokenCache := cache.NewRedisTokenCache(redisClient, "")

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var notifier notification.Notifier
	if cfg.AMQP.URL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			log.Warn("AMQP notifier unavailable, falling back to log notifier", zap.Error(err))
			notifier = notify.NewLogNotifier(log)
		} else {
			defer func() {
				if err := amqpNotifier.Close(); err != nil {
					log.Error("Error closing AMQP notifier", zap.Error(err))
				}
			}()
			notifier = amqpNotifier
		}
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	eventBus.Subscribe(notificationapp.NewOrderDeliveredHandler(userRepo, notifier, log))

	gateways, err := paymentinfra.NewGatewayRegistry(cfg.Payment)
	if err != nil {
		log.Fatal("Failed to build payment gateway registry", zap.Error(err))
	}

	shippingCarrier, err := carrier.NewHTTPCarrier(&carrier.Config{
		BaseURL:  cfg.Carrier.BaseURL,
		Username: cfg.Carrier.Username,
		Password: cfg.Carrier.Password,
		Timeout:  cfg.Carrier.Timeout,
		TokenTTL: cfg.Carrier.TokenTTL,
	}, tokenCache, log)
	if err != nil {
		log.Fatal("Failed to build carrier adapter", zap.Error(err))
	}

	objectStorage, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to build object storage", zap.Error(err))
	}

	// Application services
	ledger := inventoryapp.NewLedger(productRepo, log)

	checkoutService := checkoutapp.NewService(checkoutapp.ServiceConfig{
		Ledger:           ledger,
		UserRepo:         userRepo,
		SubscriptionRepo: subscriptionRepo,
		OrderRepo:        orderRepo,
		TransactionRepo:  transactionRepo,
		CheckoutUoW:      checkoutUoW,
		Gateways:         gateways,
		EventPublisher:   eventBus,
		CallbackURL:      cfg.Payment.CallbackURL,
		Logger:           log,
	})

	reconcileService := reconcileapp.NewService(reconcileapp.ServiceConfig{
		OrderRepo:       orderRepo,
		SubOrderRepo:    subOrderRepo,
		TransactionRepo: transactionRepo,
		ProductRepo:     productRepo,
		UserRepo:        userRepo,
		Gateways:        gateways,
		Carrier:         shippingCarrier,
		Notifier:        notifier,
		Idempotency:     idempotencyStore,
		EventPublisher:  eventBus,
		Logger:          log,
	})

	subscriptionService := subscriptionapp.NewService(subscriptionRepo, log)

	catalogService := catalogapp.NewService(catalogapp.ServiceConfig{
		Products: productRepo,
		Storage:  objectStorage,
		Logger:   log,
	})

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, jwtService, router.Handlers{
		Health:       handler.NewHealthHandler(cfg.App.Name, version),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		SubOrder:     handler.NewSubOrderHandler(reconcileService),
		Webhook:      handler.NewWebhookHandler(reconcileService, log),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Catalog:      handler.NewCatalogHandler(catalogService),
	}, log)

	var sweeper *scheduler.SubscriptionSweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewSubscriptionSweeper(scheduler.SubscriptionSweeperConfig{
			Interval: cfg.Scheduler.SubscriptionSweep,
			Timeout:  cfg.Scheduler.SweepTimeout,
		}, subscriptionService, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start subscription sweeper", zap.Error(err))
		}
	}

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

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if sweeper != nil {
		if err := sweeper.Stop(ctx); err != nil {
			log.Error("Error stopping subscription sweeper", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newObjectStorage picks the upload backend from configuration. Local disk is
// the default so a development instance runs without cloud credentials.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (catalogapp.ObjectStorage, error) {
	if cfg.Storage.Provider == "s3" {
		return storage.NewS3ObjectStorage(&cfg.Storage, log)
	}
	dir := cfg.Storage.LocalDir
	if dir == "" {
		dir = "./uploads"
	}
	return storage.NewLocalObjectStorage(dir, cfg.Storage.BaseURL)
}
