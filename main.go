package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// A missing signing secret stops the process here, before any request is served.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// --- Catalog ---
	// Loaded once; a broken dataset leaves the store running with no products.
	snapshot, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog, serving an empty one", zap.String("path", cfg.CatalogPath), zap.Error(err))
		snapshot = catalog.NewSnapshot(nil)
	} else {
		logger.Info("catalog loaded", zap.Int("products", snapshot.Len()))
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// --- Auth ---
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("invalid token configuration", zap.Error(err))
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)

	// --- Events ---
	dispatcher := events.NewInMemoryDispatcher()
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Fatal("failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()

		events.Forward(dispatcher, mqClient, logger, events.EventUserRegistered, events.EventUserLoggedIn)
		if cfg.RabbitMQConsume {
			err = mqClient.Consume(func(msg amqp.Delivery) error {
				logger.Info("account event received", zap.String("type", msg.Type), zap.Uint64("tag", msg.DeliveryTag))
				return nil
			})
			if err != nil {
				logger.Warn("failed to start account event consumer", zap.Error(err))
			}
		}
	}

	// --- Services ---
	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), hasher, tokens, dispatcher, logger)
	productService := services.NewProductService(repositories.NewCatalogProductRepository(snapshot))

	app := newApp(appDeps{
		Logger:         logger,
		DB:             db,
		AuthService:    authService,
		ProductService: productService,
		ImagesDir:      cfg.ImagesDir,
		CORSOrigins:    cfg.CORSOrigins,
		AccessLog:      true,
	})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}
