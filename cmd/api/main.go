package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/divetribe/divedirectory/internal/adapters/cache"
	"github.com/divetribe/divedirectory/internal/adapters/database"
	"github.com/divetribe/divedirectory/internal/adapters/events"
	"github.com/divetribe/divedirectory/internal/adapters/search"
	"github.com/divetribe/divedirectory/internal/api/handlers"
	"github.com/divetribe/divedirectory/internal/api/routes"
	"github.com/divetribe/divedirectory/internal/application/services"
	"github.com/divetribe/divedirectory/internal/domain/providers"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	"github.com/divetribe/divedirectory/internal/infrastructure/clients/postgres"
	"github.com/divetribe/divedirectory/internal/infrastructure/clients/redis"
	"github.com/divetribe/divedirectory/internal/infrastructure/clients/typesense"
	"github.com/divetribe/divedirectory/internal/infrastructure/observability"
	"github.com/divetribe/divedirectory/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs untraced without it
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Postgres is required; everything else degrades gracefully
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache and events")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, running without suggestions")
		typesenseClient = nil
	}

	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	var searchIndex repositories.OperatorSearchIndex
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		searchIndex = adapter
	}

	var operatorRepo repositories.OperatorRepository = database.NewOperatorAdapter(pgClient)
	if cacheProvider != nil {
		operatorRepo = database.NewCachedOperatorAdapter(operatorRepo, cacheProvider, metrics)
		log.Info().Msg("operator adapter wrapped with caching layer")
	}
	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	directoryService := services.NewDirectoryService(operatorRepo, userRepo, searchIndex, eventBus)
	reviewService := services.NewReviewService(reviewRepo, operatorRepo)

	operatorHandler := handlers.NewOperatorHandler(directoryService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	router := routes.NewRouter(operatorHandler, reviewHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
