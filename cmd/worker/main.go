package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Krosebrook/oneuptime/internal/broker/nats"
	"github.com/Krosebrook/oneuptime/internal/channel"
	"github.com/Krosebrook/oneuptime/internal/config"
	"github.com/Krosebrook/oneuptime/internal/directory"
	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/httpclient"
	"github.com/Krosebrook/oneuptime/internal/logging"
	"github.com/Krosebrook/oneuptime/internal/notifier"
	"github.com/Krosebrook/oneuptime/internal/retry"
	"github.com/Krosebrook/oneuptime/internal/scheduler"
	"github.com/Krosebrook/oneuptime/internal/store/postgres"
	"github.com/Krosebrook/oneuptime/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logging.Init(cfg.LogFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("code", "DB_ERROR"), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", slog.String("code", "DB_ERROR"), slog.Any("error", err))
		os.Exit(1)
	}

	publisher, err := nats.New(ctx, cfg.NATSURL)
	if err != nil {
		slog.Error("failed to connect to NATS", slog.String("code", "BROKER_ERROR"), slog.Any("error", err))
		os.Exit(1)
	}
	defer publisher.Close()

	consumer, err := publisher.Consumer(ctx)
	if err != nil {
		slog.Error("failed to create delivery consumer", slog.String("code", "BROKER_ERROR"), slog.Any("error", err))
		os.Exit(1)
	}

	noteStore := postgres.NewPublicNoteStore(db)
	eventStore := postgres.NewEventStore(db)
	pageStore := postgres.NewStatusPageStore(db)
	attemptStore := postgres.NewDeliveryAttemptStore(db)
	feedStore := postgres.NewFeedStore(db)

	dir := directory.New(pageStore, cfg.BaseURL,
		domain.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			Username:  cfg.SMTP.Username,
			Password:  cfg.SMTP.Password,
			FromEmail: cfg.SMTP.FromEmail,
			FromName:  cfg.SMTP.FromName,
		},
		domain.SMSConfig{
			ProviderURL: cfg.SMS.ProviderURL,
			AccountSID:  cfg.SMS.AccountSID,
			AuthToken:   cfg.SMS.AuthToken,
			FromNumber:  cfg.SMS.FromNumber,
		},
	)

	httpClient := httpclient.New(time.Duration(cfg.HTTPTimeoutSec) * time.Second)
	channels := channel.NewRegistry(
		channel.NewEmailChannel(),
		channel.NewSMSChannel(httpClient),
		channel.NewWebhookChannel(httpClient),
	)

	incidentEngine := notifier.NewEngine(
		notifier.NewIncidentSource(eventStore),
		noteStore, pageStore, feedStore, dir, channels, publisher, cfg.BatchSize,
	)
	maintenanceEngine := notifier.NewEngine(
		notifier.NewScheduledMaintenanceSource(eventStore),
		noteStore, pageStore, feedStore, dir, channels, publisher, cfg.BatchSize,
	)

	sched := scheduler.New(ctx, slog.Default())
	for _, engine := range []*notifier.Engine{incidentEngine, maintenanceEngine} {
		if err := sched.Register(cfg.Schedule, engine.JobName(), engine.Run); err != nil {
			slog.Error("failed to register job", slog.String("code", "SYS_ERR"), slog.Any("error", err))
			os.Exit(1)
		}
	}

	deliveryWorker := worker.NewDeliveryWorker(channels, attemptStore, consumer, publisher, retry.DefaultPolicy())
	go func() {
		if err := deliveryWorker.Start(ctx); err != nil && ctx.Err() == nil {
			slog.Error("delivery worker stopped", slog.String("code", "SYS_ERR"), slog.Any("error", err))
		}
	}()

	sched.Start()
	slog.Info("worker started", slog.String("code", "SYS_STARTUP"), slog.String("schedule", cfg.Schedule))

	<-ctx.Done()

	<-sched.Stop().Done()
	slog.Info("worker stopped", slog.String("code", "SYS_SHUTDOWN"))
}
