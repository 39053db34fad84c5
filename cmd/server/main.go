package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/events"
	"vitashop/internal/infrastructure/logger"
	"vitashop/internal/infrastructure/mysql"
	"vitashop/internal/infrastructure/redis"
	"vitashop/internal/middleware"
	"vitashop/internal/order"
	"vitashop/internal/payment/gateway"
	"vitashop/internal/payment/split"
	"vitashop/internal/product"
	"vitashop/internal/server"
)

const serviceName = "vitashop"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg, err := commons.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(context.Background(), cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	txRunner := mysql.NewTxRunner(db, cfg.Order.ReservationTxTimeout)

	var cache redis.Cache = redis.NopCache{}
	if cfg.Redis.Addr != "" {
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := redis.NewClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		cancelPing()
		if err != nil {
			zapLogger.Warn("redis unavailable, payment status cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			cache = redis.NewRedisCache(client, serviceName)
			zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Brokers != "" {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
		zapLogger.Info("publishing order events", zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	if cfg.Auth.JWTSecret == "" {
		zapLogger.Warn("AUTH_JWT_SECRET is empty, every authenticated request will be rejected")
	}
	authenticator := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.AdminRole, zapLogger)

	productModule := product.NewModule(db, txRunner, zapLogger)
	orderModule := order.NewModule(order.Dependencies{
		DB:        db,
		TxRunner:  txRunner,
		Products:  productModule,
		Gateway:   gateway.NewClient(cfg.Payment, zapLogger),
		Split:     split.NewPolicy(split.NewMySQLConfigRepository(db), cfg.Split.Enabled, zapLogger),
		Cache:     cache,
		Publisher: publisher,
	}, cfg, zapLogger)

	router := server.NewRouter(productModule, orderModule, authenticator, db, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	if err := srv.Shutdown(context.Background()); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
