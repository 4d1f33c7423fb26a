// cmd/career-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career-guide/internal/api"
	"career-guide/internal/career/skillgap"
	awsclients "career-guide/internal/common/aws"
	"career-guide/internal/common/camunda"
	"career-guide/internal/common/config"
	"career-guide/internal/common/database"
	"career-guide/internal/common/events"
	"career-guide/internal/common/llm"
	"career-guide/internal/common/logger"
	"career-guide/internal/common/observability"
	"career-guide/internal/common/predictor"
	"career-guide/internal/common/storage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.Build(cfg.Logging)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting career-guide server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name, cfg.Tracing.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- PostgreSQL (required) ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	if err := database.EnsureSchema(ctx, pg.GetDB()); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Redis and Elasticsearch (optional) ---
	var cache redis.Cmdable
	var redisClient *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		rc, err := connectRedis(ctx, cfg.Database.Redis)
		if err != nil {
			zapLog.Warn("redis unavailable, job insights will not be cached", zap.Error(err))
		} else {
			redisClient = rc
			cache = rc.Client
			defer rc.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	var search *elasticsearch.Client
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.GetURL() != "" {
		ec, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err == nil {
			err = ec.Ping(ctx)
		}
		if err == nil {
			err = ec.EnsurePredictionIndex(ctx, cfg.Database.Elasticsearch.PredictionIndex)
		}
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, prediction history search disabled", zap.Error(err))
		} else {
			esClient = ec
			search = ec.Client
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Integrations ---
	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		zapLog.Fatal("event publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	store, uploads, err := newStore(ctx, cfg)
	if err != nil {
		zapLog.Fatal("storage init failed", zap.Error(err))
	}

	generator, err := llm.New(ctx, cfg.APIs.LLM)
	if err != nil {
		zapLog.Fatal("llm init failed", zap.Error(err))
	}

	tables, err := skillgap.LoadTables(cfg.Skills.TablesPath)
	if err != nil {
		zapLog.Fatal("skill tables failed to load", zap.Error(err))
	}

	var careerModel, streamModel predictor.Predictor
	modelTimeout := config.GetDuration(cfg.APIs.Models.Timeout)
	if cfg.APIs.Models.CareerURL != "" {
		careerModel = predictor.NewHTTPPredictor(cfg.APIs.Models.CareerURL, modelTimeout)
	} else {
		zapLog.Warn("career model URL not configured, /predict will answer 503")
	}
	if cfg.APIs.Models.StreamURL != "" {
		streamModel = predictor.NewHTTPPredictor(cfg.APIs.Models.StreamURL, modelTimeout)
	}

	var ses awsclients.SESAPI
	if cfg.Integrations.AWS.SES.Enabled {
		client, err := awsclients.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		ses = client
	}

	w, err := buildWorkers(cfg, workerDeps{
		db:          pg.GetDB(),
		cache:       cache,
		search:      search,
		publisher:   publisher,
		store:       store,
		generator:   generator,
		tables:      tables,
		careerModel: careerModel,
		streamModel: streamModel,
		ses:         ses,
		log:         log,
	})
	if err != nil {
		zapLog.Fatal("worker construction failed", zap.Error(err))
	}

	// --- Zeebe job workers (optional) ---
	var zeebe *camunda.Client
	var jobWorkers []worker.JobWorker
	if cfg.Camunda.BrokerAddress != "" {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
			return err
		}, 5, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Error("zeebe unavailable, job workers not started", zap.Error(err))
		} else {
			jobWorkers = w.register(zeebe.GetClient(), cfg, obs, log)
			zapLog.Info("Zeebe workers registered", zap.Int("count", len(jobWorkers)))
		}
	}

	// --- HTTP server ---
	checks := map[string]api.ReadinessCheck{"postgres": pg.Ping}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}
	if esClient != nil {
		checks["elasticsearch"] = esClient.Ping
	}
	if zeebe != nil {
		checks["zeebe"] = zeebe.HealthCheck
	}

	deps := w.apiDependencies()
	deps.Uploads = uploads
	deps.ReadinessChecks = checks
	deps.CORSOrigins = cfg.Server.CORSOrigins
	deps.Observability = obs
	deps.Logger = log

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(deps).Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	for _, jw := range jobWorkers {
		jw.Close()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("career-guide server stopped gracefully")
}

// connectRedis opens the cache client and verifies it answers.
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*database.RedisClient, error) {
	rc, err := database.NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := rc.Ping(ctx); err != nil {
		rc.Close()
		return nil, err
	}
	return rc, nil
}

func newPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "amqp":
		return events.NewAMQPPublisher(cfg.Integrations.RabbitMQ.URL, cfg.Integrations.RabbitMQ.Exchange)
	case "sns":
		client, err := awsclients.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			return nil, err
		}
		return events.NewSNSPublisher(client, cfg.Integrations.AWS.SNS.TopicARN), nil
	default:
		return events.NopPublisher{}, nil
	}
}

// newStore returns the upload store. The local store is also returned so the
// API can serve /uploads; it is nil when S3 is used.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, *storage.LocalStore, error) {
	s3cfg := cfg.Integrations.AWS.S3
	if s3cfg.Enabled {
		client, err := awsclients.NewS3Client(ctx, cfg.Integrations.AWS.Region, s3cfg)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3Store(client, s3cfg.Bucket, cfg.Integrations.AWS.Region, s3cfg.PublicBaseURL), nil, nil
	}

	local, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Server.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}
