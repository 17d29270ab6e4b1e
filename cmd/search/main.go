package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/catalog-search/internal/activity"
	activityHTTP "github.com/tair/catalog-search/internal/activity/delivery/http"
	activityRepo "github.com/tair/catalog-search/internal/activity/repository"
	activityCommand "github.com/tair/catalog-search/internal/activity/usecase/command"
	activityQuery "github.com/tair/catalog-search/internal/activity/usecase/query"
	"github.com/tair/catalog-search/internal/search"
	"github.com/tair/catalog-search/internal/search/cache"
	searchHTTP "github.com/tair/catalog-search/internal/search/delivery/http"
	searchRepo "github.com/tair/catalog-search/internal/search/repository"
	"github.com/tair/catalog-search/kafka"
	"github.com/tair/catalog-search/pkg/database"
	"github.com/tair/catalog-search/pkg/logger"
	"github.com/tair/catalog-search/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "search-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting search service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "catalogdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Separate raw connection for health checks
	sqlDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer sqlDB.Close()

	// Run migrations
	productRepository := searchRepo.NewGormProductRepository(db)
	if err := productRepository.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run product migrations")
	}
	activityRepository := activityRepo.NewGormActivityRepository(db)
	if err := activityRepository.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run activity migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Wrap catalog access with tracing spans
	catalog := searchRepo.NewTracingProductRepository(productRepository)

	if count, err := catalog.Count(context.Background()); err == nil {
		logger.Logger.Info().Int64("products", count).Msg("Catalog loaded")
	}

	// Initialize Redis for response caching
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - response caching will be disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", redisAddr).
			Msg("Connected to Redis for response caching")
	}
	resultCache := cache.NewResultCache(redisClient, cache.DefaultTTL)

	// Initialize Kafka publisher for the activity analytics stream
	var publisher activityCommand.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("brokers", brokers).
				Msg("Failed to connect to Kafka - activity events will not be published")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	// Initialize handlers with Wire DI
	views := activityQuery.NewMostViewedHandler(activityRepository)
	searchHandler, err := search.InitializeHTTPHandler(catalog, views, resultCache)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize search handler")
	}
	activityHandler, err := activity.InitializeHTTPHandler(activityRepository, catalog, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize activity handler")
	}

	logger.Logger.Info().Msg("Search and activity handlers initialized")

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8085")
	startHTTPServer(searchHandler, activityHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(searchHandler *searchHTTP.SearchHandler, activityHandler *activityHTTP.ActivityHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	searchHandler.RegisterRoutes(router)
	activityHandler.RegisterRoutes(router)

	// Health check endpoint
	searchHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	// Trace all incoming requests
	traced := otelhttp.NewHandler(c.Handler(router), "http.server")

	if err := http.ListenAndServe(":"+port, traced); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
