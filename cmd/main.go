package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/marketplace-service/internal/api"
	"github.com/fathima-sithara/marketplace-service/internal/auth"
	"github.com/fathima-sithara/marketplace-service/internal/config"
	"github.com/fathima-sithara/marketplace-service/internal/events"
	"github.com/fathima-sithara/marketplace-service/internal/logger"
	"github.com/fathima-sithara/marketplace-service/internal/repository"
	"github.com/fathima-sithara/marketplace-service/internal/service"
	"github.com/fathima-sithara/marketplace-service/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(logger.Config{Development: cfg.App.Development()})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx := context.Background()
	mc, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	db := mc.Database(cfg.Mongo.DB)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	tm := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)

	authSvc := service.NewAuthService(userRepo, tm)
	userSvc := service.NewUserService(userRepo, productRepo)
	productSvc := service.NewProductService(productRepo, userRepo)
	messagingSvc := service.NewMessagingService(messageRepo, userRepo, productRepo, zlog)

	var uploadSvc *service.UploadService
	if cfg.S3.Bucket != "" {
		store, err := storage.NewImageStore(ctx, cfg.S3)
		if err != nil {
			zlog.Fatalw("s3 init", "err", err)
		}
		uploadSvc = service.NewUploadService(store, "marketplace")
	}

	var pub *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
		defer func() { _ = pub.Close() }()
	}

	var limiter *api.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = api.NewRateLimiter(rdb, "rl", cfg.App.RatePerMin, time.Minute)
	}

	h := api.NewHandlers(authSvc, userSvc, productSvc, messagingSvc, uploadSvc, pub, zlog)
	app := api.NewServer(cfg, h, tm, limiter)

	go func() {
		if err := app.Listen(":" + cfg.App.PortString()); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("marketplace-service started", "port", cfg.App.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownSeconds)*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	zlog.Info("marketplace-service stopped")
}
