package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/forecastapp/api/internal/auth"
	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/config"
	"github.com/forecastapp/api/internal/database"
	"github.com/forecastapp/api/internal/logging"
	"github.com/forecastapp/api/internal/repository"
	"github.com/forecastapp/api/internal/server"
	"github.com/forecastapp/api/internal/service"
)

// @title          Forecast API
// @version        1.0
// @description    Backend-for-frontend for sales data uploads and demand forecasts.
// @host           localhost:8000
// @BasePath       /
// @schemes        http https
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
// @description    Enter your bearer token in the format **Bearer &lt;token&gt;**
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Log)
	ctx := context.Background()

	// Metadata store (optional - fails requests with 503 if not configured)
	var store service.MetadataStore = repository.Disabled{}
	var db service.Pinger
	if cfg.Database.URL != "" {
		if pool, err := openDatabase(ctx, cfg, logger); err != nil {
			logger.Warn().Err(err).Msg("metadata store not initialized")
		} else {
			defer pool.Close()
			store = repository.NewPostgres(pool)
			db = database.NewReadinessChecker(pool)
		}
	} else {
		logger.Info().Msg("database not configured, metadata store disabled")
	}

	objects := newObjectStore(ctx, cfg, logger)
	if closer, ok := objects.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	mlClient := client.NewMLClient(&cfg.ML)

	// Token verifiers: JWKS first when configured, then the shared secret
	var verifiers []auth.TokenVerifier
	if cfg.Auth.JWKSURL != "" || cfg.Auth.Issuer != "" {
		jwksVerifier, err := auth.NewJWKSVerifier(&cfg.Auth)
		if err != nil {
			logger.Warn().Err(err).Msg("JWKS verifier not initialized")
		} else {
			defer jwksVerifier.Close()
			verifiers = append(verifiers, jwksVerifier)
		}
	}
	if cfg.Auth.JWTSecret != "" {
		verifiers = append(verifiers, auth.NewHMACVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience))
	}
	if len(verifiers) == 0 {
		logger.Warn().Msg("no token verifier configured, protected routes will reject every request")
	}

	// Redis (optional - rate limiting is skipped without it)
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis not available")
		}
	}

	app := server.New(cfg, server.Deps{
		Store:     store,
		Objects:   objects,
		Processor: mlClient,
		DB:        db,
		Verifiers: verifiers,
		Redis:     redisClient,
		Logger:    logger,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	addr := ":" + cfg.Server.Port
	logger.Info().
		Str("addr", addr).
		Str("env", cfg.Server.Env).
		Str("storage", objects.Name()).
		Str("ml_service", mlClient.BaseURL()).
		Msg("server starting")
	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// newObjectStore picks the configured backend, falling back to the
// disabled adapter when it is incomplete or fails to initialize.
func newObjectStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) client.ObjectStore {
	switch cfg.Storage.Provider {
	case "gcs":
		if cfg.GCS.Bucket == "" {
			break
		}
		gcs, err := client.NewGCSClient(ctx, &cfg.GCS)
		if err != nil {
			logger.Warn().Err(err).Msg("GCS client not initialized")
			break
		}
		return gcs
	default:
		if cfg.S3.Bucket == "" || cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" {
			break
		}
		s3c, err := client.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			logger.Warn().Err(err).Msg("S3 client not initialized")
			break
		}
		return s3c
	}

	logger.Info().Str("provider", cfg.Storage.Provider).Msg("object storage not configured, uploads disabled")
	return client.DisabledObjectStore{}
}

// openDatabase runs pending migrations when enabled, then connects.
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(&cfg.Database, logger); err != nil {
			return nil, err
		}
	}
	return database.Connect(ctx, &cfg.Database, logger)
}
