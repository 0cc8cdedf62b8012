package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/aliasadad-hash/Journeyman/internal/ai"
	"github.com/aliasadad-hash/Journeyman/internal/auth"
	"github.com/aliasadad-hash/Journeyman/internal/config"
	"github.com/aliasadad-hash/Journeyman/internal/events"
	"github.com/aliasadad-hash/Journeyman/internal/giphy"
	"github.com/aliasadad-hash/Journeyman/internal/handlers"
	"github.com/aliasadad-hash/Journeyman/internal/httpclient"
	"github.com/aliasadad-hash/Journeyman/internal/location"
	"github.com/aliasadad-hash/Journeyman/internal/logger"
	"github.com/aliasadad-hash/Journeyman/internal/metrics"
	"github.com/aliasadad-hash/Journeyman/internal/middleware"
	"github.com/aliasadad-hash/Journeyman/internal/presence"
	"github.com/aliasadad-hash/Journeyman/internal/realtime"
	"github.com/aliasadad-hash/Journeyman/internal/repository"
	"github.com/aliasadad-hash/Journeyman/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	lg, err := logger.New(logger.Config{Development: cfg.Server.Development})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer lg.Sync()

	metrics.Init()

	ctx := context.Background()

	mongoClient, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		lg.Fatalw("mongo connect", "err", err)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.Mongo.Database)

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	messages := repository.NewMessageRepo(db)
	matches := repository.NewMatchRepo(db)
	notifications := repository.NewNotificationRepo(db)
	schedules := repository.NewScheduleRepo(db)
	media := repository.NewMediaRepo(db)
	views := repository.NewViewRepo(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	mirrors := []realtime.PresenceMirror{users}
	if cfg.Redis.Addr != "" {
		mirrors = append(mirrors, presence.NewRedisMirror(rdb, cfg.Redis.Prefix, 2*time.Hour))
	}
	hub := realtime.NewHub(lg, mirrors...)

	var sink realtime.EventSink
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		sink = producer
	}
	router := realtime.NewRouter(hub, messages, notifications, sink, lg)
	wsServer := realtime.NewWSServer(hub, router, lg)

	var store *storage.S3Store
	if cfg.S3.Bucket != "" {
		store, err = storage.NewS3Store(ctx, storage.S3Config{
			Region:     cfg.S3.Region,
			Bucket:     cfg.S3.Bucket,
			AccessKey:  os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey:  os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PublicRead: cfg.S3.PublicRead,
		})
		if err != nil {
			lg.Fatalw("s3 init", "err", err)
		}
	}

	var aiHandler *handlers.AIHandler
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			lg.Fatalw("ai client init", "err", err)
		}
		aiHandler = handlers.NewAIHandler(ai.NewService(gemini), users, matches, lg)
	}

	httpc := httpclient.New(httpclient.DefaultConfig())
	maker := auth.NewTokenMaker(cfg.Auth.JWTSecret, cfg.SessionTTL)

	var limiter *middleware.RateLimiter
	if cfg.Redis.Addr != "" {
		limiter = middleware.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
	}

	app := handlers.NewApp(handlers.Deps{
		Auth:          handlers.NewAuthHandler(users, sessions, maker, httpc, cfg.Auth.OAuthSessionURL, cfg.SessionTTL, lg),
		Profile:       handlers.NewProfileHandler(users, views, router, lg),
		Discovery:     handlers.NewDiscoveryHandler(users, matches, schedules, messages, router, lg),
		Chat:          handlers.NewChatHandler(messages, matches, users, router, lg),
		Schedules:     handlers.NewScheduleHandler(schedules, users, lg),
		Notifications: handlers.NewNotificationHandler(notifications, users),
		Media:         handlers.NewMediaHandler(media, users, store, giphy.New(httpc, cfg.Giphy.APIKey), lg),
		Location:      handlers.NewLocationHandler(location.New(httpc)),
		AI:            aiHandler,
		WS:            wsServer,
		AuthGuard:     auth.Middleware(maker, sessions, users),
		RateLimiter:   limiter,
		CORSOrigins:   cfg.CORSList(),
		Log:           lg,
	})

	errs := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		lg.Infow("starting server", "addr", addr)
		errs <- app.Listen(addr)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case e := <-errs:
		lg.Fatalw("server error", "err", e)
	case s := <-sig:
		lg.Infow("signal received", "signal", s.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		lg.Warnw("shutdown", "err", err)
	}
	lg.Info("shutting down")
}
