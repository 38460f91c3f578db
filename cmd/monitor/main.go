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

	"github.com/tair/inventory-monitor/internal/forecast"
	"github.com/tair/inventory-monitor/internal/inventory"
	httpDelivery "github.com/tair/inventory-monitor/internal/inventory/delivery/http"
	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/inventory/repository"
	"github.com/tair/inventory-monitor/internal/notify"
	"github.com/tair/inventory-monitor/kafka"
	"github.com/tair/inventory-monitor/pkg/database"
	"github.com/tair/inventory-monitor/pkg/logger"
	"github.com/tair/inventory-monitor/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-monitor")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting inventory monitor")

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

	// Historical record store: postgres by default, csv for file-backed runs
	records, sqlDB := setupRecordStore()

	// Demand score store (optional)
	scores := setupScoreStore()

	// Notification channels
	dispatcher, publisher := setupDispatcher()
	if publisher != nil {
		defer publisher.Close()
	}

	// Pretrained demand models
	registry, err := forecast.LoadRegistry(getEnv("MODEL_DIR", "models"))
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load demand models")
	}

	// Initialize handler with Wire DI
	handler, err := inventory.InitializeMonitorHandler(records, scores, dispatcher, registry)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	startHTTPServer(handler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

// setupRecordStore selects the historical record store backend. The sql.DB is
// nil for the csv backend; health checks skip the ping in that case.
func setupRecordStore() (domain.RecordRepository, *sql.DB) {
	backend := getEnv("RECORD_STORE", "postgres")

	if backend == "csv" {
		path := getEnv("INVENTORY_CSV", "data/inventory.csv")
		logger.Logger.Info().
			Str("backend", backend).
			Str("path", path).
			Msg("Using csv record store")
		return repository.NewTracingRecordRepository(repository.NewCSVRecordRepository(path)), nil
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "inventorydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	repo := repository.NewGormRecordRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Str("backend", backend).Msg("Database initialized successfully")
	return repository.NewTracingRecordRepository(repo), sqlDB
}

// setupScoreStore connects the redis demand-score store; the placeholder
// score is used for every item when redis is absent.
func setupScoreStore() domain.DemandScoreStore {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set, demand scores use the placeholder")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis, demand scores use the placeholder")
		return nil
	}

	logger.Logger.Info().Str("redis_addr", redisAddr).Msg("Connected to Redis for demand scores")
	return forecast.NewRedisScoreStore(client)
}

// setupDispatcher assembles the notification channels. A channel with
// missing credentials is skipped with a warning; it must never block the
// other channels or evaluation itself.
func setupDispatcher() (*notify.Dispatcher, *kafka.Publisher) {
	var channels []notify.Channel
	var publisher *kafka.Publisher

	if sms, err := notify.NewTwilioChannel(notify.TwilioConfigFromEnv()); err != nil {
		logger.Logger.Warn().Err(err).Msg("SMS channel disabled")
	} else {
		channels = append(channels, sms)
	}

	if email, err := notify.NewSendGridChannel(notify.SendGridConfigFromEnv()); err != nil {
		logger.Logger.Warn().Err(err).Msg("Email channel disabled")
	} else {
		channels = append(channels, email)
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		pub, err := kafka.NewPublisher(splitHosts(brokers))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka channel disabled")
		} else {
			publisher = pub
			channels = append(channels, notify.NewKafkaChannel(pub))
		}
	}

	dispatcher := notify.NewDispatcher(channels...)
	logger.Logger.Info().
		Strs("channels", dispatcher.Channels()).
		Msg("Notification dispatcher initialized")
	return dispatcher, publisher
}

func startHTTPServer(handler *httpDelivery.MonitorHandler, db *sql.DB, port string) {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	corsHandler := httpDelivery.SetupCORS(middlewareConfig)

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("form_endpoint", "/form").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, corsHandler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

func splitHosts(csv string) []string {
	var hosts []string
	for _, h := range strings.Split(csv, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
