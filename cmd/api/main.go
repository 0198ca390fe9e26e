package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/silverland/property-agent/cmd/mainconfig"
	"github.com/silverland/property-agent/internal/agent"
	"github.com/silverland/property-agent/internal/api/router"
	"github.com/silverland/property-agent/internal/bookings"
	"github.com/silverland/property-agent/internal/cache"
	"github.com/silverland/property-agent/internal/catalog"
	appconfig "github.com/silverland/property-agent/internal/config"
	"github.com/silverland/property-agent/internal/leads"
	"github.com/silverland/property-agent/internal/llm"
	"github.com/silverland/property-agent/internal/observability/metrics"
	"github.com/silverland/property-agent/internal/websearch"
	"github.com/silverland/property-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting property-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()

	// Redis backs conversation state and response caching.
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	responseCache := cache.NewRedisCache(redisClient, logger)
	stateStore := agent.NewRedisStateStore(redisClient, cfg.ConversationTTL)

	// Postgres backs the catalog, leads, and bookings. Without a
	// DATABASE_URL the server runs on in-memory repositories, which
	// suits local development against seeded fixtures.
	var (
		dbPool      *pgxpool.Pool
		catalogRepo catalog.SearchProvider
		leadRepo    leads.Repository
		bookingRepo bookings.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		dbPool = pool
		defer dbPool.Close()
		catalogRepo = catalog.NewPostgresRepository(dbPool, logger)
		leadRepo = leads.NewPostgresRepository(dbPool)
		bookingRepo = bookings.NewPostgresRepository(dbPool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		catalogRepo = catalog.NewMemoryRepository()
		leadRepo = leads.NewInMemoryRepository()
		bookingRepo = bookings.NewInMemoryRepository()
	}

	llmClient, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}

	var webSearcher agent.WebSearcher
	if cfg.TavilyAPIKey != "" {
		webSearcher = websearch.NewTavilyClient(cfg.TavilyAPIKey, logger,
			websearch.WithEndpoint(cfg.TavilyBaseURL),
			websearch.WithCache(responseCache, cfg.WebSearchCacheTTL),
		)
	}

	conversationMetrics := metrics.NewConversationMetrics(prometheus.DefaultRegisterer)

	bookingService := bookings.NewService(bookingRepo, leadRepo, catalogRepo, logger)
	engine := agent.NewEngine(agent.Deps{
		LLMClient:      llmClient,
		Catalog:        catalogRepo,
		NLSearcher:     catalog.NewNLSearcher(llmClient, catalogRepo, logger),
		Leads:          leadRepo,
		Bookings:       bookingService,
		WebSearch:      webSearcher,
		Cache:          responseCache,
		Metrics:        conversationMetrics,
		Logger:         logger,
		MaxTokens:      int32(cfg.LLMMaxTokens),
		SupportEmail:   cfg.SupportEmail,
		IntentCacheTTL: cfg.IntentCacheTTL,
		SearchCacheTTL: cfg.SearchCacheTTL,
	})

	routerCfg := &router.Config{
		Logger:            logger,
		ChatHandler:       agent.NewHandler(engine, stateStore, logger),
		MetricsHandler:    promhttp.Handler(),
		ChatRatePerSecond: 5,
		ChatBurst:         10,
		RedisPing: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}
	if dbPool != nil {
		routerCfg.PostgresPing = dbPool.Ping
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using bedrock LLM provider", "model", cfg.BedrockModelID, "region", cfg.AWSRegion)
		return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), nil
	}
}
