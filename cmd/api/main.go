package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/medikita/triage-ai/internal/adapters/cache"
	"github.com/medikita/triage-ai/internal/api/handlers"
	"github.com/medikita/triage-ai/internal/api/routes"
	"github.com/medikita/triage-ai/internal/application/services"
	"github.com/medikita/triage-ai/internal/domain/providers"
	"github.com/medikita/triage-ai/internal/infrastructure/clients/openai"
	"github.com/medikita/triage-ai/internal/infrastructure/clients/redis"
	"github.com/medikita/triage-ai/internal/infrastructure/observability"
	"github.com/medikita/triage-ai/pkg/config"
)

func main() {
	// Load .env if present, environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics := observability.InitMetrics()

	// Redis is optional, the narrative service runs uncached without it
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, narrative caching disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
	}

	// The LLM client is optional, narratives fall back to templates
	var generator providers.NarrativeGenerator
	llmClient, err := openai.NewClient(&cfg.LLM)
	if err != nil {
		logger.Warn().Err(err).Msg("LLM client unavailable, using fallback narratives")
	} else {
		generator = llmClient
		logger.Info().Str("model", cfg.LLM.Model).Msg("LLM client initialized")
	}

	// Core engine components
	normalizer := services.NewNormalizer()
	urgencyEngine := services.NewUrgencyEngine(cfg.Rules.Path, logger)

	classifier := services.NewClassifier()
	if err := classifier.LoadModel(cfg.Model.Dir); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Model.Dir).
			Msg("classifier model not loaded, triage endpoint will return 503")
	} else {
		logger.Info().Strs("categories", classifier.Categories()).Msg("classifier model loaded")
	}

	narrativeService := services.NewNarrativeService(generator, cacheProvider, services.NarrativeOptions{
		MaxRetries: cfg.LLM.MaxRetries,
		CacheTTL:   cfg.LLM.CacheTTL,
	}, metrics, logger)

	triageService := services.NewTriageService(normalizer, urgencyEngine, classifier, narrativeService, logger)

	triageHandler := handlers.NewTriageHandler(triageService, narrativeService, urgencyEngine)

	router := routes.NewRouter(triageHandler, metrics)
	handler := router.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	logger.Info().Msg("server exited")
}
