package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storelink/woosync/config"
	"github.com/storelink/woosync/internal/adapters/docstore"
	"github.com/storelink/woosync/internal/adapters/logger"
	"github.com/storelink/woosync/internal/adapters/messaging"
	"github.com/storelink/woosync/internal/adapters/storage"
	"github.com/storelink/woosync/internal/adapters/wooapi"
	"github.com/storelink/woosync/internal/api"
	"github.com/storelink/woosync/internal/domain/services"
	"github.com/storelink/woosync/internal/security"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/tx"
	"github.com/storelink/woosync/pkg/utils"
)

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

	log.Info("starting service",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
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
	log.Info("postgres storage initialized")

	docs, err := docstore.NewRedisDocumentStore(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		log.Fatal("failed to init document store",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer docs.Close()
	log.Info("document store initialized")

	broker, err := messaging.NewKafkaMessaging(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
	if err != nil {
		log.Fatal("failed to init messaging",
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer broker.Close()
	log.Info("messaging initialized")

	tokens := security.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration, cfg.AppName)
	txManager := tx.NewManager(db.Pool(), log)
	wooGateway := wooapi.NewGateway(log)

	authService := services.NewAuthService(
		db, docs, wooGateway, txManager, tokens, log,
		cfg.IsProduction(), cfg.Woo.DefaultBaseURL,
	)
	productService := services.NewProductService(
		db, docs, wooGateway, broker, log,
		cfg.IsProduction(), cfg.Woo.DefaultBaseURL,
		cfg.Kafka.SyncTopic, cfg.Kafka.ProductTopic,
	)
	log.Info("services initialized")

	router := api.SetupRouter(authService, productService, productService, tokens, log, cfg.Security.CORSAllowOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server started", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed",
				interfaces.LogField{Key: "error", Value: err.Error()})
		}
		close(done)
	}()

	<-done
	log.Info("server stopped")
}
