// Package main is the entry point for the product-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"product-search-service/internal/app/service"
	"product-search-service/internal/config"
	"product-search-service/internal/domain"
	"product-search-service/internal/infra/catalog/registry"
	"product-search-service/internal/infra/memory"
	"product-search-service/internal/infra/postgres"
	"product-search-service/internal/infra/postgres/migrations"
	rediscache "product-search-service/internal/infra/redis"
	"product-search-service/internal/job"
	"product-search-service/internal/logger"
	"product-search-service/internal/transport/httpserver"
	"product-search-service/internal/transport/httpserver/dto"
	"product-search-service/internal/transport/httpserver/middleware"
	"product-search-service/internal/validator"
	"product-search-service/pkg/locker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting product-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("search_strategy", cfg.Search.Strategy),
	)

	ctx := context.Background()
	var readiness []middleware.ReadinessCheck

	// Product store
	var repo domain.ProductRepository
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo = memory.NewRepository()
		log.Warn("using in-memory product store, data is lost on restart")
	default:
		db := connectPostgres(ctx, cfg, log)
		defer func() { _ = postgres.Close(db) }()

		repo = postgres.NewRepository(db)
		readiness = append(readiness, func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, db)
		})
	}

	// Redis backs the product cache and the sync lock.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = rediscache.NewClient(ctx, rediscache.ClientConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		readiness = append(readiness, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("connected to Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, cfg.Cache.KeyPrefix, log)
		log.Info("product cache enabled",
			zap.Duration("product_ttl", cfg.Cache.ProductTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("product cache disabled")
	}

	providers := registry.NewProviders(cfg.Catalog, log)
	log.Info("catalog providers configured", zap.Int("count", len(providers)))

	// Services
	strategy, err := service.ParseStrategy(cfg.Search.Strategy)
	if err != nil {
		log.Fatal("invalid search strategy", zap.Error(err))
	}

	searchSvc := service.NewSearchService(repo, service.SearchOptions{
		Strategy:     strategy,
		FetchTimeout: cfg.Search.FetchTimeout,
	}, log)
	productSvc := service.NewProductService(repo, cache, cfg.Cache.ProductTTL, log)
	syncSvc := service.NewSyncService(repo, providers, cache, log)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:        cfg.App.Port,
			BodyLimit:   1024 * 1024, // 1MB
			Debug:       cfg.App.Debug,
			CORSOrigins: cfg.App.CORSOrigins,
			ReadTimeout: cfg.App.ReadTimeout,
			Paging: dto.Paging{
				DefaultPageSize: cfg.Search.DefaultPageSize,
				MaxPageSize:     cfg.Search.MaxPageSize,
			},
		},
		httpserver.Services{
			Search:   searchSvc,
			Products: productSvc,
			Sync:     syncSvc,
		},
		readiness,
		validator.New(),
		log,
	)

	// Catalog sync with distributed locking
	var scheduler *job.SyncScheduler
	switch {
	case !cfg.Sync.Enabled:
		log.Info("catalog sync disabled")
	case redisClient == nil:
		log.Warn("catalog sync needs redis for its lock, scheduler not started")
	default:
		scheduler = job.NewSyncScheduler(
			syncSvc,
			job.SyncConfig{
				Interval:  cfg.Sync.Interval,
				Timeout:   cfg.Sync.Timeout,
				OnStartup: cfg.Sync.OnStartup,
			},
			locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix+"-lock", log),
			log,
		)
		scheduler.Start(ctx)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := postgres.NewConnection(ctx,
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
			LogQueries:   cfg.Database.LogQueries,
		},
		log,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.Database.Migrate {
		if err := migrations.Run(db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("database migrations completed")
	}

	return db
}
