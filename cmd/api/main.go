package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/patwikx/retail-inventory-service/config"
	"github.com/patwikx/retail-inventory-service/internal/auth"
	catalogRepoPkg "github.com/patwikx/retail-inventory-service/internal/catalog/repository"
	catalogUCPkg "github.com/patwikx/retail-inventory-service/internal/catalog/usecase"
	invH "github.com/patwikx/retail-inventory-service/internal/inventory/handler"
	invListenerPkg "github.com/patwikx/retail-inventory-service/internal/inventory/listener"
	invRepoPkg "github.com/patwikx/retail-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/patwikx/retail-inventory-service/internal/inventory/usecase"
	"github.com/patwikx/retail-inventory-service/internal/legacy"
	syncPkg "github.com/patwikx/retail-inventory-service/internal/sync"
	syncH "github.com/patwikx/retail-inventory-service/internal/sync/handler"
	"github.com/patwikx/retail-inventory-service/pkg/broker"
	"github.com/patwikx/retail-inventory-service/pkg/cache"
	"github.com/patwikx/retail-inventory-service/pkg/database/postgres"
	"github.com/patwikx/retail-inventory-service/pkg/logger"
	"github.com/patwikx/retail-inventory-service/pkg/search"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Kafka consumer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch (optional: the service runs without search)
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (product indexing disabled)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Connect to the legacy POS SQL Server (optional: sync disabled without it)
	var legacySource legacy.Source
	legacyClient, err := legacy.NewClient(cfg.Legacy)
	if err != nil {
		appLogger.Warn("Could not connect to legacy SQL Server (inventory sync disabled)", zap.Error(err))
	} else {
		defer legacyClient.Close()
		legacySource = legacyClient
		appLogger.Info("Connected to legacy SQL Server", zap.String("host", cfg.Legacy.Host))
	}

	// 8. Initialize Repositories and UseCases
	catalogRepo := catalogRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)

	resolver := catalogUCPkg.NewResolver(catalogRepo, esClient, cfg.Sync, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, appLogger)

	// 9. Start the order listener
	invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, invUC, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go invListener.Start(ctx)

	// 10. Initialize Handlers and Router
	invHandler := invH.NewInventoryHandler(invUC, appLogger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(auth.Middleware(cfg.JWT.SecretKey))

	r.Route("/api/v1", func(r chi.Router) {
		invHandler.Routes(r)
		if legacySource != nil {
			orchestrator := syncPkg.NewOrchestrator(legacySource, resolver, invUC, appLogger)
			syncHandler := syncH.NewSyncHandler(orchestrator, appLogger)
			syncHandler.Routes(r)
		}
	})

	// 11. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: r,
		// No WriteTimeout: sync streams stay open for the length of a run.
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
