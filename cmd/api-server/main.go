// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mavuno-backend/internal/api"
	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/config"
	"mavuno-backend/internal/common/database"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/common/observability"
	"mavuno-backend/internal/common/ratelimit"
	"mavuno-backend/internal/common/storage"
	"mavuno-backend/internal/generation"
	"mavuno-backend/internal/handlers/chat"
	"mavuno-backend/internal/handlers/listings"
	"mavuno-backend/internal/handlers/marketanalyze"
	"mavuno-backend/internal/handlers/qualitycheck"
	"mavuno-backend/internal/handlers/weatheranalyze"
	"mavuno-backend/internal/notify"
	"mavuno-backend/internal/search"
	"mavuno-backend/internal/store"
	"mavuno-backend/internal/weather"

	commonaws "mavuno-backend/internal/common/aws"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api-server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
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
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch (optional) ---
	var listingIndex *search.ListingIndex
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		listingIndex = search.NewListingIndex(esClient.Client, cfg.Database.Elasticsearch.ListingsIndex, log)
		zapLog.Info("Elasticsearch connected successfully")
	} else {
		zapLog.Info("Elasticsearch disabled; listing search falls back to PostgreSQL")
	}

	// --- External service clients ---
	verifier := auth.NewGoTrueClient(cfg.Auth.BaseURL, cfg.Auth.ServiceKey, time.Duration(cfg.Auth.Timeout)*time.Millisecond)

	weatherClient := weather.NewClient(weather.Config{
		GeocodeURL:   cfg.Weather.GeocodingURL,
		ForecastURL:  cfg.Weather.ForecastURL,
		Timezone:     cfg.Weather.Timezone,
		ForecastDays: cfg.Weather.ForecastDays,
		Timeout:      time.Duration(cfg.Weather.Timeout) * time.Millisecond,
	})

	uploader, err := storage.NewS3Uploader(ctx, cfg.Storage)
	if err != nil {
		zapLog.Fatal("s3 uploader init failed", zap.Error(err))
	}

	sesClient, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client init failed", zap.Error(err))
	}
	snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client init failed", zap.Error(err))
	}
	notifier := notify.New(notify.Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
	}, sesClient, snsClient, log)

	// --- Generation transports ---
	predictClient := generation.NewPredictClient(generation.PredictConfig{
		Endpoint:       cfg.Generation.PredictURL,
		APIKey:         cfg.Generation.APIKey,
		MaxRetries:     cfg.Generation.MaxRetries,
		InitialBackoff: time.Duration(cfg.Generation.InitialBackoff) * time.Millisecond,
	}, log)
	predictPipeline := generation.NewPipeline(predictClient, log)

	chatClient, err := generation.NewChatClient(ctx, generation.ChatConfig{
		APIKey:         cfg.Generation.APIKey,
		Model:          cfg.Generation.ChatModel,
		MaxRetries:     cfg.Generation.MaxRetries,
		InitialBackoff: time.Duration(cfg.Generation.InitialBackoff) * time.Millisecond,
	}, log)
	if err != nil {
		zapLog.Fatal("chat client init failed", zap.Error(err))
	}
	chatPipeline := generation.NewPipeline(chatClient, log)

	zapLog.Info("All external service clients initialized")

	// --- Domain wiring ---
	db := store.New(pg.DB, log)
	limiter := ratelimit.New(redisClient.Client, cfg.RateLimit.MaxCallsPerWindow, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)

	deps := api.Deps{
		Config:        cfg,
		Logger:        log,
		Observability: obs,
		Verifier:      verifier,

		Chat:           chat.NewHandler(chat.LoadConfig(), chatPipeline, db, limiter, log),
		QualityCheck:   qualitycheck.NewHandler(qualitycheck.LoadConfig(), predictPipeline, db, limiter, uploader, notifier, log),
		MarketAnalyze:  marketanalyze.NewHandler(marketanalyze.LoadConfig(), predictPipeline, db, log),
		WeatherAnalyze: weatheranalyze.NewHandler(weatheranalyze.LoadConfig(), predictPipeline, weatherClient, db, log),
		Listings:       listings.NewHandler(listings.LoadConfig(), db, listingSearchOrNil(listingIndex), uploader, log),

		HealthChecks: []api.HealthCheck{
			{Name: "postgres", Check: pg.Ping},
			{Name: "redis", Check: redisClient.Ping},
		},
	}

	server := api.NewServer(cfg.Server, api.NewRouter(deps), log)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(runCtx); err != nil {
		zapLog.Fatal("server exited with error", zap.Error(err))
	}
	zapLog.Info("api-server stopped")
}

// listingSearchOrNil keeps the nil-interface pitfall out of the handler: a
// nil *ListingIndex must become a nil interface, not a non-nil interface
// holding a nil pointer.
func listingSearchOrNil(index *search.ListingIndex) listings.SearchIndex {
	if index == nil {
		return nil
	}
	return index
}
