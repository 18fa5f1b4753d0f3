package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reservation-backoffice/internal/config"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/queue"
	"reservation-backoffice/internal/service"
)

// mailer drains the email queue filled by the server when email.provider is "queue".
// Delivery uses SMTP unless a SendGrid key is configured.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	if cfg.AMQP.URL == "" {
		log.Fatalf("amqp.url is required to run the mailer")
	}

	var sender queue.Sender
	if cfg.SendGrid.APIKey != "" {
		sender = service.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.Email.From, cfg.Email.FromName)
		logger.Info("Delivering queued email via SendGrid")
	} else {
		sender = service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.Email.From, cfg.Email.FromName)
		logger.Info("Delivering queued email via SMTP", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, sender)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Email consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Email consumer stopped. Goodbye!")
}
