package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/personal-finance-ledger/internal/activity_processor/consumer"
	"github.com/personal-finance-ledger/internal/activity_processor/service"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/logger"
	"github.com/personal-finance-ledger/internal/platform/messaging/consumers"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

func main() {
	cfg, err := config.LoadConfig("activity_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	if !cfg.Kafka.Enabled {
		log.Error("Activity processor requires KAFKA_ENABLED=true")
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("Activity processor stopped with errors", "error", err)
		os.Exit(1)
	}
	log.Info("Activity processor shutdown completed successfully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	log.Info("Starting activity processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"topic", cfg.Kafka.EventsTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)

	var dlq producers.DeadLetterPublisher
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		return fmt.Errorf("initialize DLQ producer: %w", err)
	}
	if dlqProducer != nil {
		dlq = dlqProducer
		defer func() {
			if err := dlqProducer.Close(); err != nil {
				log.Error("Error closing DLQ producer", "error", err)
			}
		}()
	}

	auditService := service.NewAuditService(log, cfg.Audit.DedupeWindow)
	pooled, err := service.NewWorkerPoolAuditService(auditService, service.WorkerPoolConfig{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		return fmt.Errorf("initialize worker pool: %w", err)
	}
	defer pooled.Shutdown()

	handler := consumer.NewEventHandler(log, pooled, dlq)

	kafkaConsumer := consumers.NewKafkaConsumer(log, &cfg.Kafka)
	if err := kafkaConsumer.Subscribe(appCtx, handler.HandleMessage); err != nil {
		return fmt.Errorf("subscribe to %s: %w", cfg.Kafka.EventsTopic, err)
	}

	<-appCtx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	select {
	case <-kafkaConsumer.Done():
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	stats := auditService.Stats()
	log.Info("Activity processed",
		"added", stats.Recorded[activity.KindTransactionAdded],
		"deleted", stats.Recorded[activity.KindTransactionDeleted],
		"duplicates", stats.Duplicates,
		"net_balance", stats.NetBalance.StringFixed(2),
	)
	return nil
}
