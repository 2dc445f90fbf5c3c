package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// LedgerEventProducer writes activity events to the events topic
type LedgerEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewLedgerEventProducer ensures the events topic exists and opens a synchronous writer.
// Writes are synchronous so the outbox poller learns about failures and retries them.
func NewLedgerEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*LedgerEventProducer, error) {
	if cfg.EventsTopic == "" {
		return nil, fmt.Errorf("kafka events topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for ledger event producer: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.EventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure events topic %s exists: %w", cfg.EventsTopic, err)
	}

	return &LedgerEventProducer{
		logger: logger,
		writer: newKafkaWriter(cfg, cfg.EventsTopic, &kafka.Hash{}, kafka.RequireOne),
		topic:  cfg.EventsTopic,
	}, nil
}

// Publish marshals value to JSON and writes it keyed by key.
// Keys are transaction IDs so events about one transaction stay ordered.
func (p *LedgerEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish ledger event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published ledger event", "topic", p.topic, "key", key)
	return nil
}

func (p *LedgerEventProducer) Close() error {
	p.logger.Info("Closing ledger event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
