// Package config provides configuration structures and validation for the ledger services.
// Values come from defaults, an optional .env file and environment variables, later sources winning.
package config

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds the complete application configuration.
// Each field is one subsystem and is validated during startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Ledger      LedgerConfig
	Kafka       KafkaConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Audit       AuditConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or text
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// LedgerConfig controls the in-memory ledger
type LedgerConfig struct {
	Timezone       string // IANA zone used to decide a transaction's calendar day
	SeedSampleData bool
	RecentLimit    int // Transactions shown on the summary by default
}

// Location resolves the configured timezone. validate guarantees it loads.
func (c LedgerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Enabled           bool
	Brokers           string
	EventsTopic       string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	WriteTimeout      time.Duration // Producer write deadline
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of retry attempts for outbox messages
	Capacity         int // Pending messages kept before the oldest is dropped
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// AuditConfig controls the activity processor's audit log
type AuditConfig struct {
	DedupeWindow int // Event IDs remembered for redelivery detection
}

// validate checks every section and reports all problems at once
func (c *Config) validate() error {
	var validationErrors []string

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		validationErrors = append(validationErrors, "LOG_FORMAT must be json or text")
	}

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Ledger config
	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		validationErrors = append(validationErrors, "LEDGER_TIMEZONE must be a valid IANA time zone")
	}
	if c.Ledger.RecentLimit <= 0 {
		validationErrors = append(validationErrors, "LEDGER_RECENT_LIMIT must be greater than 0")
	}

	// Kafka settings only matter when the broker is in use
	if c.Kafka.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.EventsTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_EVENTS_TOPIC is required")
		}
		if c.Kafka.ConsumerGroup == "" {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
		}
		if c.Kafka.MinBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
		}
		if c.Kafka.MaxBytes <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
		}
		if c.Kafka.MaxWait <= 0 {
			validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
	}

	// Validate Outbox config
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}
	if c.Outbox.Capacity < 0 {
		validationErrors = append(validationErrors, "OUTBOX_CAPACITY cannot be negative")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}
	if c.Audit.DedupeWindow <= 0 {
		validationErrors = append(validationErrors, "AUDIT_DEDUPE_WINDOW must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
