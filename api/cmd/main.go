package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/config"
	rediscache "github.com/teamdesk/activity-service/internal/infrastructure/caching/redis"
	"github.com/teamdesk/activity-service/internal/infrastructure/db/postgres"
	"github.com/teamdesk/activity-service/internal/infrastructure/directory"
	rabbitpub "github.com/teamdesk/activity-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/teamdesk/activity-service/internal/logger"
	"github.com/teamdesk/activity-service/internal/transport/http/handlers"
	"github.com/teamdesk/activity-service/internal/transport/http/router"
	zlog "github.com/rs/zerolog/log"
)

// sysClock implements activity.Clock using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Publisher *rabbitpub.Publisher
	Cache     *rediscache.Client
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	u, _ := url.Parse(cfg.DatabaseURL)
	zlog.Info().
		Str("db_user", u.User.Username()).
		Str("db_host", u.Host).
		Str("db_db", u.Path).
		Msg("db config loaded")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := NewApp(rootCtx, cfg, db)
	defer func() {
		if app.Publisher != nil {
			_ = app.Publisher.Close()
		}
		if app.Cache != nil {
			_ = app.Cache.Close()
		}
	}()

	go func() {
		<-rootCtx.Done()
		zlog.Info().Msg("shutdown signal received")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Server.Shutdown(ctx); err != nil {
			zlog.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(ctx context.Context, cfg *config.Config, db *sql.DB) *App {
	// 1) Infrastructure
	repo := postgres.New(db)

	var rabbit *rabbitpub.Publisher
	var pub activity.Publisher = activity.NoopPublisher{}

	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	var cacheClient *rediscache.Client
	var cache activity.Cache
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable, caching disabled")
		} else {
			cacheClient = c
			cache = c
		}
	}

	users := directory.NewUsers(cfg.UserServiceURL, 0)
	events := directory.NewEvents(cfg.EventServiceURL, 0)

	// outbox drains into rabbit; with the noop publisher rows stay pending
	repo.StartOutboxWorker(ctx, pub)

	// 2) Application
	svc := activity.New(
		repo, users, events, sysClock{}, pub, cache,
		cfg.CacheTTLDetails, cfg.CacheTTLList, cfg.CacheTTLStats,
	)

	// 3) Transport
	h := handlers.NewActivitiesHandler(svc)
	z := handlers.NewHealthHandler(db)

	// 4) Router
	httpHandler := router.New(h, z, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Publisher: rabbit,
		Cache:     cacheClient,
	}
}
