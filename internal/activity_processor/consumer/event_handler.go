package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/activity_processor/service"
	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/platform/messaging/producers"
)

// EventHandler handles activity events consumed from Kafka
type EventHandler struct {
	auditService service.AuditService
	producer     producers.DeadLetterPublisher
	logger       *slog.Logger
}

// NewEventHandler creates a handler. producer may be nil when no DLQ is configured.
func NewEventHandler(
	logger *slog.Logger,
	auditService service.AuditService,
	producer producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		auditService: auditService,
		producer:     producer,
		logger:       logger,
	}
}

// HandleMessage decodes and records one event. A nil return commits the offset.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event activity.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return h.deadLetter(ctx, key, value, "unmarshal activity event", err)
	}
	if err := event.Validate(); err != nil {
		return h.deadLetter(ctx, key, value, "invalid activity event", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	if err := h.auditService.Record(ctx, &event); err != nil {
		logger.Error("Failed to record activity event",
			"event_id", event.EventID.String(),
			"transaction_id", event.Transaction.ID,
			"error", err,
		)
		return fmt.Errorf("recording event %s failed: %w", event.EventID, err)
	}
	return nil
}

// deadLetter parks an unprocessable message. If that fails too, the error is
// returned so the offset stays uncommitted.
func (h *EventHandler) deadLetter(ctx context.Context, key, value []byte, what string, cause error) error {
	reason := fmt.Sprintf("%s: %s", what, cause)
	h.logger.Error("Unprocessable activity message", "message_key", string(key), "error", cause)

	if h.producer == nil {
		return fmt.Errorf("%s: %w", what, cause)
	}
	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason); err != nil {
		h.logger.Error("Failed to publish message to DLQ", "message_key", string(key), "dlq_error", err)
		return errors.Join(fmt.Errorf("%s: %w", what, cause), err)
	}
	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
