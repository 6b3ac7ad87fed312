// FloresYa notifier.
// Consumes order events from Kafka and records customer notifications.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/floresya/floresya/internal/notification/application"
	notificationdomain "github.com/floresya/floresya/internal/notification/domain"
	notificationpg "github.com/floresya/floresya/internal/notification/infrastructure/persistence/postgres"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/config"
	"github.com/floresya/floresya/pkg/db"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/metrics"
	"github.com/floresya/floresya/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/notifier/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info(ctx, "Starting FloresYa notifier",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(&notificationdomain.Notification{}); err != nil {
		logger.Fatal(ctx, "Failed to migrate database", "error", err)
	}

	consumer, err := mq.NewConsumer(mq.KafkaConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		SessionTimeout: cfg.Kafka.SessionTimeout,
	}, cfg.Kafka.OrderTopic)
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Kafka consumer", "error", err)
	}
	defer consumer.Close()

	m := metrics.New("notifier")
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	service := application.NewNotificationService(
		notificationpg.NewNotificationRepository(database.DB),
		application.LogSender{},
		m,
	)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down")
		cancel()
	}()

	for {
		msg, err := consumer.ReadMessage(ctx)
		if errors.Is(err, context.Canceled) {
			break
		}
		if err != nil {
			logger.Error(ctx, "Failed to read message", "error", err)
			continue
		}

		var event orderdomain.OrderEvent
		if err := msg.UnmarshalPayload(&event); err != nil {
			logger.Error(ctx, "Failed to decode order event",
				"topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}

		if err := service.HandleOrderEvent(ctx, event); err != nil {
			logger.Error(ctx, "Failed to handle order event",
				"type", event.Type, "order_number", event.OrderNumber, "error", err)
		}
	}

	logger.Info(ctx, "Notifier stopped")
}
