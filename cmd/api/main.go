package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/guineapos/checkout-service/config"
	"github.com/guineapos/checkout-service/internal/auth"
	"github.com/guineapos/checkout-service/pkg/broker"
	"github.com/guineapos/checkout-service/pkg/cache"
	"github.com/guineapos/checkout-service/pkg/logger"
	"github.com/guineapos/checkout-service/pkg/postgres"
	"github.com/guineapos/checkout-service/pkg/search"

	catH "github.com/guineapos/checkout-service/internal/category/handler"
	catRepoPkg "github.com/guineapos/checkout-service/internal/category/repository"
	catUCPkg "github.com/guineapos/checkout-service/internal/category/usecase"

	chkH "github.com/guineapos/checkout-service/internal/checkout/handler"
	chkRepoPkg "github.com/guineapos/checkout-service/internal/checkout/repository"
	chkUCPkg "github.com/guineapos/checkout-service/internal/checkout/usecase"

	custH "github.com/guineapos/checkout-service/internal/customer/handler"
	custRepoPkg "github.com/guineapos/checkout-service/internal/customer/repository"
	custUCPkg "github.com/guineapos/checkout-service/internal/customer/usecase"

	invH "github.com/guineapos/checkout-service/internal/inventory/handler"
	invListenerPkg "github.com/guineapos/checkout-service/internal/inventory/listener"
	invRepoPkg "github.com/guineapos/checkout-service/internal/inventory/repository"
	invUCPkg "github.com/guineapos/checkout-service/internal/inventory/usecase"

	ordH "github.com/guineapos/checkout-service/internal/order/handler"
	ordRepoPkg "github.com/guineapos/checkout-service/internal/order/repository"
	ordUCPkg "github.com/guineapos/checkout-service/internal/order/usecase"

	posH "github.com/guineapos/checkout-service/internal/pos/handler"
	posRepoPkg "github.com/guineapos/checkout-service/internal/pos/repository"
	posUCPkg "github.com/guineapos/checkout-service/internal/pos/usecase"

	prodH "github.com/guineapos/checkout-service/internal/product/handler"
	prodRepoPkg "github.com/guineapos/checkout-service/internal/product/repository"
	prodUCPkg "github.com/guineapos/checkout-service/internal/product/usecase"

	setH "github.com/guineapos/checkout-service/internal/settings/handler"
	setRepoPkg "github.com/guineapos/checkout-service/internal/settings/repository"
	setUCPkg "github.com/guineapos/checkout-service/internal/settings/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
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

	// 5. Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()

	kafkaProducer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer kafkaProducer.Close()
	appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, product search falls back to the database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	ordRepo := ordRepoPkg.NewPGRepository(db)
	custRepo := custRepoPkg.NewPGRepository(db)
	posRepo := posRepoPkg.NewPGRepository(db)
	setRepo := setRepoPkg.NewPGRepository(db)
	cartStore := chkRepoPkg.NewRedisCartStore(redisClient, time.Duration(cfg.Checkout.CartTTL)*time.Minute)

	// 8. Initialize UseCases
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, invRepo, redisClient, esClient, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, redisClient, appLogger)
	ordUC := ordUCPkg.NewOrderUseCase(ordRepo, invUC, appLogger)
	custUC := custUCPkg.NewCustomerUseCase(custRepo, appLogger)
	posUC := posUCPkg.NewPosUseCase(posRepo, appLogger)
	setUC := setUCPkg.NewSettingsUseCase(setRepo, redisClient, appLogger)
	chkUC := chkUCPkg.NewCheckoutUseCase(
		cartStore, prodUC, setUC, ordRepo, redisClient, kafkaProducer,
		time.Duration(cfg.Checkout.SubmitLockTTL)*time.Second, appLogger,
	)

	// 9. Start the order event listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	invListener := invListenerPkg.NewOrderListener(kafkaConsumer, invUC, appLogger)
	go invListener.Run(ctx)

	// 10. HTTP server
	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Server.PrometheusEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := engine.Group("/api/v1")
	api.Use(auth.Middleware())

	catH.NewCategoryHandler(catUC, appLogger).RegisterRoutes(api)
	prodH.NewProductHandler(prodUC, appLogger).RegisterRoutes(api)
	invH.NewInventoryHandler(invUC, appLogger).RegisterRoutes(api)
	ordH.NewOrderHandler(ordUC, appLogger).RegisterRoutes(api)
	custH.NewCustomerHandler(custUC, appLogger).RegisterRoutes(api)
	posH.NewPosHandler(posUC, appLogger).RegisterRoutes(api)
	setH.NewSettingsHandler(setUC, appLogger).RegisterRoutes(api)
	chkH.NewCheckoutHandler(chkUC, appLogger).RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: engine,
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
