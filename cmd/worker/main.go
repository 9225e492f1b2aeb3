// The worker runs the scheduled digest dispatcher. On every cron tick it
// loads enabled schedule preferences, selects the ones due at the tick
// time and dispatches a digest per recipient, recording outcomes to the
// analytics sink. It exposes its own health and metrics endpoints and
// shares the fetch pipeline with the API server.
package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"follow-digest/internal/config"
	"follow-digest/internal/infra/adapter/persistence/postgres"
	infraAnalytics "follow-digest/internal/infra/analytics"
	"follow-digest/internal/infra/cache"
	"follow-digest/internal/infra/db"
	"follow-digest/internal/infra/delivery"
	"follow-digest/internal/infra/enhance"
	"follow-digest/internal/infra/search"
	"follow-digest/internal/infra/worker"
	"follow-digest/internal/observability/logging"
	"follow-digest/internal/platform"
	"follow-digest/internal/repository"
	"follow-digest/internal/usecase/dispatch"
	fetchUC "follow-digest/internal/usecase/fetch"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := worker.NewWorkerMetrics()

	workerCfg, err := worker.LoadConfigFromEnv(logger, metrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerCfg.CronSchedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.Int("dispatch_max_concurrent", workerCfg.DispatchMaxConcurrent),
		slog.Duration("dispatch_timeout", workerCfg.DispatchTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := openDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis client", slog.Any("error", err))
		}
	}()

	esClient, err := elastic.NewClient(
		elastic.SetURL(cfg.Elastic.URL),
		elastic.SetSniff(false),
	)
	if err != nil {
		logger.Error("failed to connect to elasticsearch", slog.Any("error", err))
		os.Exit(1)
	}
	if err := search.InitIndex(esClient); err != nil {
		logger.Error("failed to initialize followings index", slog.Any("error", err))
		os.Exit(1)
	}

	mongoClient, outcomes := connectMongo(logger, cfg)
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error("failed to disconnect mongo client", slog.Any("error", err))
		}
	}()

	fetchSvc := buildFetchService(logger, cfg, redisClient, esClient)
	sender := createSender(logger, cfg)
	dispatchSvc := dispatch.NewService(fetchSvc, sender, outcomes, logger)
	prefRepo := postgres.NewPreferenceRepo(database)

	healthServer := worker.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger)

	scheduler := worker.NewScheduler(prefRepo, dispatchSvc, workerCfg, logger, metrics)

	healthServer.SetReady(true)
	logger.Info("digest worker started", slog.String("cron_schedule", workerCfg.CronSchedule))

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	healthServer.SetReady(false)
	logger.Info("digest worker stopped")
}

func openDatabase(logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
	poolCfg := db.DefaultConnectionConfig()
	poolCfg.MaxOpenConns = cfg.Postgres.MaxOpenConns
	poolCfg.MaxIdleConns = cfg.Postgres.MaxIdleConns
	poolCfg.ConnMaxLifetime = cfg.Postgres.ConnMaxLifetime

	database, err := db.Open(cfg.Postgres.DSN, poolCfg)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func connectMongo(logger *slog.Logger, cfg *config.AppConfig) (*mongo.Client, repository.OutcomeRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Error("failed to connect to mongodb", slog.Any("error", err))
		os.Exit(1)
	}

	mongoDB := mongoClient.Database(cfg.Mongo.Database)
	if err := infraAnalytics.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Error("failed to ensure analytics indexes", slog.Any("error", err))
		os.Exit(1)
	}

	return mongoClient, infraAnalytics.NewMongoOutcomeRepo(mongoDB)
}

func buildFetchService(logger *slog.Logger, cfg *config.AppConfig, redisClient redis.Cmdable, esClient *elastic.Client) *fetchUC.Service {
	registry := platform.NewRegistry(&http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	})
	snapshotCache := cache.NewRedisStoreWithTTL(redisClient, cfg.Redis.TTL)
	index := search.NewElasticIndex(esClient)

	var enhancer fetchUC.ContentEnhancer
	if cfg.Enhance.Enabled {
		enhanceCfg := enhance.DefaultConfig()
		enhanceCfg.Timeout = cfg.Enhance.Timeout
		enhanceCfg.Parallelism = cfg.Enhance.Parallelism
		enhanceCfg.MaxDescription = cfg.Enhance.MaxDescription
		enhancer = enhance.NewReadabilityEnhancer(enhanceCfg, logger)
	}

	return fetchUC.NewService(registry, snapshotCache, index, enhancer, logger)
}

func createSender(logger *slog.Logger, cfg *config.AppConfig) delivery.Sender {
	switch cfg.Delivery.Mode {
	case "smtp":
		return delivery.NewSMTPSender(delivery.SMTPConfig{
			Host:     cfg.Delivery.SMTP.Host,
			Port:     cfg.Delivery.SMTP.Port,
			Username: cfg.Delivery.SMTP.Username,
			Password: cfg.Delivery.SMTP.Password,
			From:     cfg.Delivery.SMTP.From,
		}, logger)
	case "webhook":
		return delivery.NewWebhookSender(delivery.WebhookConfig{
			URL:     cfg.Delivery.Webhook.URL,
			Timeout: cfg.Delivery.Webhook.Timeout,
		}, logger)
	default:
		logger.Warn("digest delivery disabled (noop sender)")
		return delivery.NewNoopSender(logger)
	}
}
