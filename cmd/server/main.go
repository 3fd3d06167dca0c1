package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/prasowlabs/moi-kanakku/internal/config"
	"github.com/prasowlabs/moi-kanakku/internal/es"
	"github.com/prasowlabs/moi-kanakku/internal/jobs"
	"github.com/prasowlabs/moi-kanakku/internal/logging"
	"github.com/prasowlabs/moi-kanakku/internal/mykafka"
	"github.com/prasowlabs/moi-kanakku/internal/notify"
	"github.com/prasowlabs/moi-kanakku/internal/service"
	"github.com/prasowlabs/moi-kanakku/internal/session"
	"github.com/prasowlabs/moi-kanakku/internal/token"
	httpserver "github.com/prasowlabs/moi-kanakku/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := config.SeedBootstrapAdmin(db, configuration.ADMIN_EMAIL); err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch unavailable, person search disabled", "error", err)
		esClient = nil
	}

	// Sessions live in redis when an address is configured so that
	// replicas agree on the current token; otherwise they stay in memory
	// and a restart logs everyone out.
	var store session.Store = session.NewMemoryStore()
	var jobClient *jobs.Client
	if configuration.REDIS_ADDR != "" {
		store = session.NewRedisStore(redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR}))
		jobClient = jobs.NewClient(asynq.RedisClientOpt{Addr: configuration.REDIS_ADDR})
	}
	tokens := token.NewService(store, []byte(configuration.JWT_SECRET), token.DefaultTTL)

	push, err := notify.NewPushSender(context.Background(), configuration.FIREBASE_CREDENTIALS)
	if err != nil {
		log.Fatalf("firebase init error: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	httpserver.Register(e, httpserver.Deps{
		DB:       db,
		Cfg:      configuration,
		Tokens:   tokens,
		Perms:    &service.PermissionService{DB: db},
		Producer: prod,
		Jobs:     jobClient,
		ES:       esClient,
		Push:     push,
	})

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server listening", "port", configuration.PORT)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := jobClient.Close(); err != nil {
		logger.Error("jobs close error", "error", err)
	}

	logger.Info("shutdown complete")
}
