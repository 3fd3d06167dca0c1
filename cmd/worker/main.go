package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/prasowlabs/moi-kanakku/internal/config"
	"github.com/prasowlabs/moi-kanakku/internal/jobs"
	"github.com/prasowlabs/moi-kanakku/internal/logging"
	"github.com/prasowlabs/moi-kanakku/internal/notify"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(configuration.LOG_LEVEL)

	if configuration.REDIS_ADDR == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	push, err := notify.NewPushSender(context.Background(), configuration.FIREBASE_CREDENTIALS)
	if err != nil {
		log.Fatalf("firebase init error: %v", err)
	}
	mailer, err := notify.NewMailer(configuration.EMAIL_HOST, configuration.EMAIL_PORT,
		configuration.EMAIL_USER, configuration.EMAIL_PASS)
	if err != nil {
		log.Fatalf("mailer init error: %v", err)
	}

	worker, err := jobs.NewWorker(
		asynq.RedisClientOpt{Addr: configuration.REDIS_ADDR},
		jobs.Deps{DB: db, Push: push, Mailer: mailer, Logger: logger},
	)
	if err != nil {
		log.Fatalf("worker init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("worker error: %v", err)
	}
	logger.Info("worker stopped")
}
