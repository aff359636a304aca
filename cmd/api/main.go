package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-service/internal/config"
	"stock-service/internal/events"
	"stock-service/internal/handlers"
	"stock-service/internal/repository"
	"stock-service/internal/services"
	"stock-service/pkg/logger"
	"stock-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "stock-service/docs" // Import docs for Swagger
)

const serviceName = "stock-service"

func init() {
	// Decimals render as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// @title           Stock Service API
// @version         1.0
// @description     Catalog and inventory API: categories, products and per-product stock levels.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @schemes   http https
func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment, serviceName, cfg.LogLevel)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting Stock Service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	appLogger.Info("🗄️ Database Configuration",
		zap.String("driver", cfg.DBDriver),
		zap.String("sqlite_path", cfg.SQLitePath),
		zap.Bool("seed_data", cfg.SeedData),
	)

	if cfg.UseKafka {
		appLogger.Info("📡 Kafka Configuration",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic_catalog", cfg.KafkaTopicCatalog),
			zap.String("topic_inventory", cfg.KafkaTopicInventory),
			zap.String("client_id", cfg.KafkaClientID),
			zap.String("acks", cfg.KafkaAcks),
			zap.Int("retries", cfg.KafkaRetries),
		)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger.Info("🔧 Opening database...")
	store, err := repository.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	appLogger.Info("✅ Database ready", zap.String("driver", store.Driver()))

	if cfg.SeedData {
		seeded, err := services.NewSeeder(store, appLogger).Seed(context.Background())
		if err != nil {
			appLogger.Fatal("Failed to seed database", zap.Error(err))
		}
		appLogger.Info("Seed step finished", zap.Bool("seeded", seeded))
	}

	publisher, closePublisher := newEventPublisher(cfg, appLogger)
	requestIDStore, closeRequestIDStore := newRequestIDStore(cfg, appLogger)

	router := newRouter(cfg, appLogger, store, publisher, requestIDStore)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Starting stock service",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	closeRequestIDStore()
	closePublisher()
	if err := store.Close(); err != nil {
		appLogger.Warn("Failed to close database", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// newRouter builds the gin engine with the middleware chain and every route
// mounted under /api.
func newRouter(
	cfg *config.Config,
	appLogger *zap.Logger,
	store repository.Store,
	publisher events.EventPublisher,
	requestIDStore middleware.RequestIDStore,
) *gin.Engine {
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigin))

	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))

	// Request ID middleware (must be early in the chain)
	router.Use(middleware.RequestIDMiddleware(appLogger))

	// Idempotency middleware (for write operations)
	router.Use(middleware.IdempotencyMiddleware(requestIDStore, appLogger))

	// Error handler middleware
	router.Use(middleware.ErrorHandler(appLogger))

	// Store response middleware (for idempotency)
	ttl := time.Duration(cfg.IdempotencyTTL) * time.Second
	router.Use(middleware.StoreResponseMiddleware(requestIDStore, appLogger, ttl))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	categoryService := services.NewCategoryService(store, publisher, appLogger)
	productService := services.NewProductService(store, categoryService, publisher, appLogger)
	inventoryService := services.NewInventoryService(store, productService, publisher, appLogger)
	cleanupService := services.NewCleanupService(store, appLogger)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.NewHealthHandler(store, serviceName).HealthCheck)

		handlers.NewCategoryHandler(appLogger, categoryService).RegisterRoutes(api)
		handlers.NewProductHandler(appLogger, productService).RegisterRoutes(api)
		handlers.NewInventoryHandler(appLogger, inventoryService).RegisterRoutes(api)
		handlers.NewDataHandler(appLogger, cleanupService).RegisterRoutes(api)
	}

	return router
}

// newEventPublisher returns the Kafka publisher when enabled and reachable,
// otherwise the in-memory one. The returned func releases the producer.
func newEventPublisher(cfg *config.Config, appLogger *zap.Logger) (events.EventPublisher, func()) {
	if cfg.UseKafka {
		appLogger.Info("🔧 Initializing Kafka event publisher...")
		kafkaPublisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
		if err == nil {
			appLogger.Info("✅ Kafka event publisher initialized successfully")
			return kafkaPublisher, func() {
				if err := kafkaPublisher.Close(); err != nil {
					appLogger.Warn("Failed to close Kafka producer", zap.Error(err))
				}
			}
		}
		appLogger.Warn("Failed to initialize Kafka publisher, falling back to in-memory events", zap.Error(err))
	}

	return events.NewInMemoryEventPublisher(appLogger), func() {}
}

// newRequestIDStore returns the Redis idempotency store when enabled and
// reachable, otherwise the in-memory one.
func newRequestIDStore(cfg *config.Config, appLogger *zap.Logger) (middleware.RequestIDStore, func()) {
	if cfg.UseRedis {
		appLogger.Info("🔧 Initializing Redis request ID store...")
		redisStore, err := middleware.NewRedisRequestIDStore(middleware.RedisOptions{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, appLogger)
		if err == nil {
			appLogger.Info("✅ Redis request ID store initialized successfully")
			return redisStore, func() {
				if err := redisStore.Close(); err != nil {
					appLogger.Warn("Failed to close Redis client", zap.Error(err))
				}
			}
		}
		appLogger.Warn("Failed to connect to Redis, falling back to in-memory request ID store", zap.Error(err))
	}

	memoryStore := middleware.NewInMemoryRequestIDStore()
	return memoryStore, func() { _ = memoryStore.Close() }
}
