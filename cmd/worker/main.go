package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/storelink/woosync/config"
	"github.com/storelink/woosync/internal/adapters/logger"
	"github.com/storelink/woosync/internal/adapters/messaging"
	"github.com/storelink/woosync/internal/adapters/storage"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/utils"
)

// The worker consumes product-update events queued by the webhook endpoint
// and persists them into the relational catalog.
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting worker",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "topic", Value: cfg.Kafka.ProductTopic},
	)

	postgresCon, err := utils.GenerateConnectionString(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
		cfg.Postgres.Port,
		cfg.Postgres.PoolSize,
		cfg.Postgres.Timeout,
	)
	if err != nil {
		log.Fatal("failed to build postgres connection string",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}

	db, err := storage.NewPostgresStorage(ctx, postgresCon, log)
	if err != nil {
		log.Fatal("failed to init postgres storage",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer db.Close()

	broker, err := messaging.NewKafkaMessaging(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-worker", log)
	if err != nil {
		log.Fatal("failed to init messaging",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer broker.Close()

	handler := func(ctx context.Context, msg *interfaces.Message) error {
		var event messaging.ProductUpdated
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("unparseable product event",
				interfaces.LogField{Key: "message_id", Value: msg.ID},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
			// Malformed events are dropped, not retried.
			return nil
		}

		if err := db.SaveProduct(ctx, event.UserID, &event.Product); err != nil {
			return fmt.Errorf("failed to persist product update: %w", err)
		}

		log.InfoWithContext(ctx, "product update persisted",
			interfaces.LogField{Key: "user_id", Value: event.UserID},
			interfaces.LogField{Key: "product_id", Value: event.Product.ID},
		)
		return nil
	}

	unsubscribe, err := broker.Subscribe(ctx, cfg.Kafka.ProductTopic, handler)
	if err != nil {
		log.Fatal("failed to subscribe",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer unsubscribe()

	log.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker stopped")
}
