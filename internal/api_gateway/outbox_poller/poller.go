package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/personal-finance-ledger/internal/domain/outbox"
)

// Poller drains pending outbox messages to the broker
type Poller struct {
	outboxRepo       outbox.Repository
	publisher        EventPublisher
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	publisher EventPublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		publisher:        publisher,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start polls until ctx is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting outbox poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox poller stopping")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error processing pending outbox messages", "error", err)
			}
		}
	}
}

// Flush makes one pass over pending messages. Used on shutdown.
func (p *Poller) Flush(ctx context.Context) error {
	return p.processPendingMessages(ctx)
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}
	if len(messages) == 0 {
		return nil
	}

	p.logger.Debug("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		logger := p.logger.With("outbox_id", msg.ID, "transaction_id", msg.TransactionID, "kind", string(msg.Kind))

		if err := p.publisher.PublishEvent(ctx, msg); err != nil {
			if errors.Is(err, ErrUndecodablePayload) {
				logger.Warn("Dropped outbox message with undecodable payload", "error", err)
				continue
			}
			logger.Error("Failed to publish outbox message", "attempts", msg.Attempts, "error", err)

			if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
				logger.Error("Failed to increment attempts for outbox message", "error", errInc)
				continue
			}

			if msg.Attempts+1 >= p.maxRetryAttempts {
				logger.Warn("Max retry attempts reached, marking outbox message FAILED_TO_PUBLISH", "attempts", msg.Attempts+1)
				if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); errUpdate != nil {
					logger.Error("Failed to mark outbox message FAILED_TO_PUBLISH", "error", errUpdate)
				}
			}
		}
	}
	return nil
}
