package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tair/inventory-monitor/internal/notify"
	"github.com/tair/inventory-monitor/internal/rules"
	"github.com/tair/inventory-monitor/kafka"
	"github.com/tair/inventory-monitor/pkg/logger"
	"github.com/tair/inventory-monitor/pkg/tracing"
)

// The notifier consumes stock alert events published by the monitor and
// delivers them over the direct channels. Running it separately keeps slow
// provider calls out of the request path.
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-notifier")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Msg("Starting inventory notifier")

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

	dispatcher := setupDispatcher()

	brokers := splitHosts(getEnv("KAFKA_BROKERS", "localhost:9092"))
	groupID := getEnv("KAFKA_GROUP_ID", "inventory-notifier")

	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicStockAlerts})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeStockAlert, func(ctx context.Context, event kafka.StockAlertEvent) error {
		alert := rules.Alert{
			Kind:      rules.AlertKind(event.Kind),
			ItemName:  event.ItemName,
			Reason:    event.Reason,
			Timestamp: event.Timestamp,
		}

		report := dispatcher.Dispatch(ctx, []rules.Alert{alert})
		logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("alert_kind", event.Kind).
			Str("item_name", event.ItemName).
			Int("delivered", report.Delivered).
			Int("failed", report.Failed).
			Msg("Alert event dispatched")

		// Delivery failures are terminal here: there is no retry policy,
		// so the message is not replayed.
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
}

// setupDispatcher builds the direct channels only; publishing back to Kafka
// from the consumer would loop.
func setupDispatcher() *notify.Dispatcher {
	var channels []notify.Channel

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

	dispatcher := notify.NewDispatcher(channels...)
	logger.Logger.Info().
		Strs("channels", dispatcher.Channels()).
		Msg("Notification dispatcher initialized")
	return dispatcher
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
