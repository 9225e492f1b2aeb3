package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
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
	"follow-digest/internal/observability/logging"
	"follow-digest/internal/observability/tracing"
	"follow-digest/internal/platform"
	"follow-digest/internal/repository"

	analyticsUC "follow-digest/internal/usecase/analytics"
	"follow-digest/internal/usecase/dispatch"
	fetchUC "follow-digest/internal/usecase/fetch"

	hhttp "follow-digest/internal/handler/http"
	hanalytics "follow-digest/internal/handler/http/analytics"
	hcontents "follow-digest/internal/handler/http/contents"
	hdigest "follow-digest/internal/handler/http/digest"
	hfollowings "follow-digest/internal/handler/http/followings"
	"follow-digest/internal/handler/http/requestid"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger, cfg)
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

	esClient := initElastic(logger, cfg)

	mongoClient, outcomes := initMongo(logger, cfg)
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error("failed to disconnect mongo client", slog.Any("error", err))
		}
	}()

	fetchSvc := setupFetchService(logger, cfg, redisClient, esClient)
	sender := createSender(logger, cfg)
	dispatchSvc := dispatch.NewService(fetchSvc, sender, outcomes, logger)
	analyticsSvc := analyticsUC.NewService(outcomes)
	prefRepo := postgres.NewPreferenceRepo(database)

	handler := setupRoutes(logger, cfg, database, redisClient, mongoClient, fetchSvc, dispatchSvc, analyticsSvc, prefRepo)

	runServer(logger, cfg, handler)
}

// initDatabase opens the preference store and runs migrations.
func initDatabase(logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
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

// initElastic connects to Elasticsearch and ensures the followings index.
func initElastic(logger *slog.Logger, cfg *config.AppConfig) *elastic.Client {
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
	return esClient
}

// initMongo connects to the analytics sink and ensures its indexes.
func initMongo(logger *slog.Logger, cfg *config.AppConfig) (*mongo.Client, repository.OutcomeRepository) {
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

// setupFetchService wires the cache-aside fetch orchestrator.
func setupFetchService(logger *slog.Logger, cfg *config.AppConfig, redisClient redis.Cmdable, esClient *elastic.Client) *fetchUC.Service {
	registry := platform.NewRegistry(createHTTPClient())
	snapshotCache := cache.NewRedisStoreWithTTL(redisClient, cfg.Redis.TTL)
	index := search.NewElasticIndex(esClient)

	var enhancer fetchUC.ContentEnhancer
	if cfg.Enhance.Enabled {
		enhanceCfg := enhance.DefaultConfig()
		enhanceCfg.Timeout = cfg.Enhance.Timeout
		enhanceCfg.Parallelism = cfg.Enhance.Parallelism
		enhanceCfg.MaxDescription = cfg.Enhance.MaxDescription
		enhancer = enhance.NewReadabilityEnhancer(enhanceCfg, logger)
		logger.Info("content enhancement enabled",
			slog.Duration("timeout", enhanceCfg.Timeout),
			slog.Int("parallelism", enhanceCfg.Parallelism))
	} else {
		logger.Info("content enhancement disabled")
	}

	return fetchUC.NewService(registry, snapshotCache, index, enhancer, logger)
}

// createSender selects the digest delivery channel from configuration.
func createSender(logger *slog.Logger, cfg *config.AppConfig) delivery.Sender {
	switch cfg.Delivery.Mode {
	case "smtp":
		logger.Info("digest delivery via smtp",
			slog.String("host", cfg.Delivery.SMTP.Host),
			slog.Int("port", cfg.Delivery.SMTP.Port))
		return delivery.NewSMTPSender(delivery.SMTPConfig{
			Host:     cfg.Delivery.SMTP.Host,
			Port:     cfg.Delivery.SMTP.Port,
			Username: cfg.Delivery.SMTP.Username,
			Password: cfg.Delivery.SMTP.Password,
			From:     cfg.Delivery.SMTP.From,
		}, logger)
	case "webhook":
		logger.Info("digest delivery via webhook")
		return delivery.NewWebhookSender(delivery.WebhookConfig{
			URL:     cfg.Delivery.Webhook.URL,
			Timeout: cfg.Delivery.Webhook.Timeout,
		}, logger)
	default:
		logger.Warn("digest delivery disabled (noop sender)")
		return delivery.NewNoopSender(logger)
	}
}

// createHTTPClient creates the HTTP client used by the platform fetchers.
// TLS 1.2+ is enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// setupRoutes registers all HTTP routes and wraps them in the middleware chain.
func setupRoutes(
	logger *slog.Logger,
	cfg *config.AppConfig,
	database *sql.DB,
	redisClient redis.Cmdable,
	mongoClient *mongo.Client,
	fetchSvc *fetchUC.Service,
	dispatchSvc *dispatch.Service,
	analyticsSvc *analyticsUC.Service,
	prefRepo repository.PreferenceRepository,
) http.Handler {
	mux := http.NewServeMux()

	hfollowings.Register(mux, fetchSvc)
	hcontents.Register(mux, fetchSvc)
	hanalytics.Register(mux, analyticsSvc)

	// The manual trigger fans out to every due recipient, so it gets its
	// own tight per-IP limit instead of the shared Register path.
	digestLimiter := hhttp.NewRateLimiter(cfg.RateLimit.DigestLimit, cfg.RateLimit.DigestWindow)
	mux.Handle("POST /digest/run", digestLimiter.Limit(hdigest.RunHandler{Prefs: prefRepo, Svc: dispatchSvc}))

	mux.Handle("GET /healthz", &hhttp.HealthHandler{
		DB:      database,
		Redis:   redisClient,
		Mongo:   mongoClient,
		Version: cfg.Server.Version,
	})
	mux.Handle("GET /readyz", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /livez", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Middleware chain, applied in reverse (innermost first):
	// request ID -> tracing -> logging -> recover -> timeout -> input
	// validation -> metrics -> routes.
	var handler http.Handler = mux
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.InputValidation()(handler)
	handler = hhttp.Timeout(cfg.Server.RequestTimeout)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = tracing.Middleware(handler)
	handler = requestid.Middleware(handler)

	return handler
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.AppConfig, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second, // prevent Slowloris
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Server.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
