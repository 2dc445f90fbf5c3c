package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/domain/outbox"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

// ErrUndecodablePayload marks a message that was already moved to FAILED_TO_PUBLISH
var ErrUndecodablePayload = errors.New("undecodable outbox payload")

// EventPublisher forwards one outbox message to the broker
type EventPublisher interface {
	PublishEvent(ctx context.Context, message *outbox.Message) error
}

// BrokerEventPublisher publishes outbox messages through a MessagePublisher
type BrokerEventPublisher struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

func NewBrokerEventPublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) *BrokerEventPublisher {
	return &BrokerEventPublisher{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishEvent decodes the stored event, publishes it keyed by transaction ID
// and marks the message PROCESSED. Undecodable payloads are marked FAILED_TO_PUBLISH
// right away since retrying cannot fix them.
func (p *BrokerEventPublisher) PublishEvent(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetEvent()
	if err != nil {
		p.logger.Error("Failed to decode activity event from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to mark outbox message FAILED_TO_PUBLISH", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("%w: outbox %d: %w", ErrUndecodablePayload, message.ID, err)
	}

	logger := p.logger
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	if err := p.producer.Publish(ctx, event.Transaction.ID, event); err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, outbox.StatusProcessed); err != nil {
		logger.Error("Failed to mark outbox message PROCESSED",
			"outbox_id", message.ID, "event_id", event.EventID.String(), "error", err,
		)
		return fmt.Errorf("event %s published, but marking outbox %d PROCESSED failed: %w", event.EventID, message.ID, err)
	}

	logger.Info("Activity event published",
		"outbox_id", message.ID,
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"transaction_id", event.Transaction.ID,
	)
	return nil
}
