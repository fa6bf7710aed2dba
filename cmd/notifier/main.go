// Command notifier consumes ApplicationAccepted events from RabbitMQ and sends
// the acceptance emails through Gmail.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/config"
	"github.com/justsurfingit/job-board/internal/events"
	"github.com/justsurfingit/job-board/internal/logger"
	"github.com/justsurfingit/job-board/internal/queue"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.RabbitMQURL == "" {
		zlog.Fatal("RABBITMQ_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender events.Sender = services.LogSender{Logger: zlog}
	if cfg.GmailCredentialsFile != "" {
		// The first run asks for the authorization code on stdin and caches
		// the token for later starts.
		gmailService, err := auth.NewGmailService(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, os.Stdin)
		if err != nil {
			zlog.Fatal("gmail init failed", zap.Error(err))
		}
		sender = services.NewEmailService(gmailService, cfg.EmailFrom, zlog)
	} else {
		zlog.Warn("GMAIL_CREDENTIALS_FILE not set, acceptance emails will only be logged")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		zlog.Fatal("rabbitmq connection failed", zap.Error(err))
	}
	defer conn.Close()

	consumer := &queue.Consumer{
		Conn:     conn,
		Exchange: cfg.NotifyExchange,
		Queue:    cfg.NotifyQueue,
		Workers:  cfg.NotifierWorkers,
		Handler:  services.NewNotifyDispatcher(sender, cfg.NotifyMaxAttempts, cfg.NotifyBackoff, cfg.NotifyTimeout, zlog),
		Logger:   zlog,
	}
	zlog.Info("notifier started",
		zap.String("queue", cfg.NotifyQueue),
		zap.Int("workers", cfg.NotifierWorkers),
	)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal("consumer stopped", zap.Error(err))
	}
	zlog.Info("notifier stopped")
}
