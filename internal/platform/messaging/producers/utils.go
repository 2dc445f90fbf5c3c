package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// newKafkaWriter builds a synchronous writer bounded by the producer write timeout
func newKafkaWriter(cfg *config.KafkaConfig, topic string, balancer kafka.Balancer, acks kafka.RequiredAcks) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        topic,
		Balancer:     balancer,
		RequiredAcks: acks,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// topicReadRetry bounds how long a partition lookup is retried before assuming the topic is missing
var topicReadRetry = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return backoff.WithMaxRetries(b, 4)
}

// createKafkaTopicIfNotExists creates the topic when its partitions cannot be read
func createKafkaTopicIfNotExists(conn TopicAdmin, topicName string, numPartitions int, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition

	log.Info("Checking if Kafka topic exists", "topic", topicName)
	err := backoff.RetryNotify(func() error {
		var readErr error
		partitions, readErr = conn.ReadPartitions(topicName)
		return readErr
	}, topicReadRetry(), func(err error, wait time.Duration) {
		log.Warn("Failed to read partitions, retrying...", "topic", topicName, "retry_in", wait, "error", err)
	})

	if err == nil && len(partitions) > 0 {
		log.Info("Kafka topic already exists", "topic", topicName)
		return nil
	}

	log.Info("Kafka topic does not exist or is not accessible, attempting to create it", "topic", topicName, "last_error_read", err)
	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if topicConfig.NumPartitions <= 0 {
		topicConfig.NumPartitions = 1
	}
	if topicConfig.ReplicationFactor <= 0 {
		topicConfig.ReplicationFactor = 1
	}

	if err := conn.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}
	log.Info("Successfully created Kafka topic", "topic", topicName)
	return nil
}
