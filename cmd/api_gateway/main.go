package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/personal-finance-ledger/internal/api_gateway"
	"github.com/personal-finance-ledger/internal/api_gateway/outbox_poller"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/data/memory"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/personal-finance-ledger/internal/logger"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("API gateway stopped with errors", "error", err)
		os.Exit(1)
	}
	log.Info("API gateway shutdown completed successfully")
}

func run(cfg *config.Config, log *slog.Logger) error {
	appCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	loc := cfg.Ledger.Location()
	opts := []ledger.Option{ledger.WithLocation(loc)}
	if cfg.Ledger.SeedSampleData {
		opts = append(opts, ledger.WithTransactions(ledger.SampleTransactions(loc)))
	}
	book := ledger.New(opts...)
	log.Info("Ledger initialized", "transactions", book.Len(), "timezone", loc.String())

	var (
		publisher service.EventPublisher
		poller    *outbox_poller.Poller
	)
	if cfg.Kafka.Enabled {
		producer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			return fmt.Errorf("initialize ledger event producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error("Error closing ledger event producer", "error", err)
			}
		}()

		outboxRepo := memory.NewOutboxRepository(log, cfg.Outbox.Capacity)
		publisher = service.NewOutboxEventPublisher(log, outboxRepo)
		poller = outbox_poller.NewPoller(
			&cfg.Outbox,
			outboxRepo,
			outbox_poller.NewBrokerEventPublisher(outboxRepo, producer, log),
			log,
		)
	} else {
		log.Info("Kafka disabled, activity events will not be published")
	}

	ledgerService := service.NewLedgerService(log, book, publisher)
	server := api_gateway.NewServer(log, cfg, ledgerService)

	g, gCtx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		if err := server.Start(); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if poller != nil {
		g.Go(func() error {
			poller.Start(gCtx)
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Starting graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return err
		}
		if poller != nil {
			if err := poller.Flush(shutdownCtx); err != nil {
				log.Error("Error flushing outbox on shutdown", "error", err)
			}
		}
		return nil
	})

	return g.Wait()
}
