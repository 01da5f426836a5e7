package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-picklist-service/config"
	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/broker"
	"github.com/fekuna/omnipos-picklist-service/internal/cache"
	"github.com/fekuna/omnipos-picklist-service/internal/database/postgres"
	"github.com/fekuna/omnipos-picklist-service/internal/image"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/product"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"github.com/fekuna/omnipos-picklist-service/internal/search"
	"github.com/fekuna/omnipos-picklist-service/internal/server"

	catH "github.com/fekuna/omnipos-picklist-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-picklist-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-picklist-service/internal/category/usecase"

	imgH "github.com/fekuna/omnipos-picklist-service/internal/image/handler"
	imgUCPkg "github.com/fekuna/omnipos-picklist-service/internal/image/usecase"

	orderH "github.com/fekuna/omnipos-picklist-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/omnipos-picklist-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/omnipos-picklist-service/internal/order/usecase"

	prodH "github.com/fekuna/omnipos-picklist-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-picklist-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-picklist-service/internal/product/usecase"

	rtH "github.com/fekuna/omnipos-picklist-service/internal/realtime/handler"

	setH "github.com/fekuna/omnipos-picklist-service/internal/settings/handler"
	setRepoPkg "github.com/fekuna/omnipos-picklist-service/internal/settings/repository"
	setUCPkg "github.com/fekuna/omnipos-picklist-service/internal/settings/usecase"

	storeH "github.com/fekuna/omnipos-picklist-service/internal/store/handler"
	storeRepoPkg "github.com/fekuna/omnipos-picklist-service/internal/store/repository"
	storeUCPkg "github.com/fekuna/omnipos-picklist-service/internal/store/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
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

	if cfg.Postgres.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
		appLogger.Info("Database schema is up to date")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize Repositories
	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	storeRepo := storeRepoPkg.NewPGRepository(db)
	setRepo := setRepoPkg.NewPGRepository(db)

	if present, err := prodRepo.Capabilities(ctx); err != nil {
		appLogger.Warn("Could not inspect products table", zap.Error(err))
	} else {
		appLogger.Info("Product columns", zap.Bool("brand", present["brand"]), zap.Bool("weight", present["weight"]))
	}

	// 5. Initialize Redis
	var appCache cache.Cache = cache.Nop{}
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			appCache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Initialize Elasticsearch
	var productIndex product.SearchIndex
	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to the database", zap.Error(err))
		} else {
			esRepo := prodRepoPkg.NewESRepository(esClient, cfg.Elastic.Index)
			if err := esRepo.EnsureIndex(ctx); err != nil {
				appLogger.Warn("Could not create product index", zap.Error(err))
			}
			productIndex = esRepo
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize change feed
	hub := realtime.NewHub()
	var notifier realtime.Notifier = hub
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()

		// Every instance needs every change for its own SSE clients.
		consumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: consumerGroup(cfg.Kafka.GroupPrefix),
		})
		defer consumer.Close()

		notifier = realtime.NewKafkaNotifier(producer)
		go realtime.NewListener(consumer, hub, appLogger).Start(ctx)
		appLogger.Info("Connected to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 8. Initialize UseCases
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	catUC := catUCPkg.NewCategoryUseCase(catRepo, notifier, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, productIndex, appCache, notifier, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, prodUC, catRepo, notifier, appLogger)
	storeUC := storeUCPkg.NewStoreUseCase(storeRepo, tokens, cfg.Auth.AdminPasswordHash, notifier, appLogger)
	setUC := setUCPkg.NewSettingsUseCase(setRepo, notifier, appLogger)
	imgUC := imgUCPkg.NewImageUseCase(
		image.NewCodec(cfg.Image.Salt),
		image.NewCDNClient(&image.Config{
			BaseURL:   cfg.Image.BaseURL,
			UserAgent: cfg.Image.UserAgent,
			Timeout:   cfg.Image.Timeout,
		}),
		appCache,
		cfg.Image.CacheTTL,
		appLogger,
	)

	// 9. Initialize Handlers
	router := server.NewRouter(&server.Config{
		AppEnv:       cfg.Server.AppEnv,
		Version:      cfg.Server.Version,
		AllowOrigins: cfg.Server.AllowOrigins,
		Ping:         db.PingContext,
	}, tokens, &server.Handlers{
		Store:    storeH.NewStoreHandler(storeUC, appLogger),
		Category: catH.NewCategoryHandler(catUC, appLogger),
		Product:  prodH.NewProductHandler(prodUC, appLogger),
		Order:    orderH.NewOrderHandler(orderUC, appLogger),
		Settings: setH.NewSettingsHandler(setUC, appLogger),
		Image:    imgH.NewImageHandler(imgUC, appLogger),
		Events:   rtH.NewEventsHandler(hub, appLogger),
	}, appLogger)

	httpServer := &http.Server{
		Addr:              listenAddr(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 10. Start gRPC health server
	lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr), zap.String("version", cfg.Server.Version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown incomplete", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func listenAddr(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func consumerGroup(prefix string) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "instance"
	}
	return prefix + "-" + host + "-" + uuid.NewString()[:8]
}
