package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler) error
	Close() error
}

// Reader is the subset of *kafka.Reader the consumer depends on
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a Kafka consumer group
type KafkaConsumer struct {
	reader     Reader
	logger     *slog.Logger
	topic      string
	groupID    string
	fetchRetry time.Duration
	done       chan struct{}
}

func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	startOffset := cfg.StartOffset
	if startOffset == 0 {
		startOffset = kafka.FirstOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Brokers},
		Topic:       cfg.EventsTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: startOffset,
	})
	return newKafkaConsumer(logger, reader, cfg.EventsTopic, cfg.ConsumerGroup)
}

func newKafkaConsumer(logger *slog.Logger, reader Reader, topic, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		logger:     logger.With("topic", topic, "group_id", groupID),
		topic:      topic,
		groupID:    groupID,
		fetchRetry: time.Second,
		done:       make(chan struct{}),
	}
}

// Subscribe starts consuming in the background until ctx is canceled
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic")
	go func() {
		defer close(c.done)
		c.Run(ctx, handler)
	}()
	return nil
}

// Done is closed once a subscription started by Subscribe has stopped
func (c *KafkaConsumer) Done() <-chan struct{} {
	return c.done
}

// Run fetches, handles and commits messages until ctx is canceled.
// Offsets of messages the handler rejects are left uncommitted.
func (c *KafkaConsumer) Run(ctx context.Context, handler MessageHandler) {
	for {
		if ctx.Err() != nil {
			c.logger.Info("Context canceled, stopping consumer")
			return
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Context canceled, stopping consumer")
				return
			}
			c.logger.Error("Failed to fetch message from Kafka", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.fetchRetry):
			}
			continue
		}

		msgLogger := c.logger.With(
			"partition", msg.Partition,
			"offset", msg.Offset,
			"key", string(msg.Key),
		)
		msgLogger.Debug("Received message from Kafka")

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			msgLogger.Error("Failed to process message, will not commit offset", "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			msgLogger.Error("Failed to commit message after successful processing", "error", err)
			continue
		}
		msgLogger.Debug("Message committed successfully")
	}
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
