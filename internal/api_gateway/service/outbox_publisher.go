package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/domain/outbox"
)

// OutboxEventPublisher stores activity events in the outbox for the poller to deliver
type OutboxEventPublisher struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxEventPublisher(logger *slog.Logger, outboxRepo outbox.Repository) *OutboxEventPublisher {
	return &OutboxEventPublisher{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

func (p *OutboxEventPublisher) Publish(ctx context.Context, event *activity.Event) error {
	msg, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message for event %s: %w", event.EventID, err)
	}

	if err := p.outboxRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to store outbox message for event %s: %w", event.EventID, err)
	}

	p.logger.Debug("Activity event stored in outbox",
		"outbox_id", msg.ID,
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
	)
	return nil
}
