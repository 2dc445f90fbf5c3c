package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LoadConfigWithNameAndType loads configuration with explicit name and type specification
func LoadConfigWithNameAndType(configName, configType string) (*Config, error) {
	return loadConfig(configName, configType)
}

// LoadConfig loads configuration from <configName>.env, environment variables and defaults
func LoadConfig(configName string) (*Config, error) {
	configFileName := fmt.Sprintf("%s.env", configName)
	return loadConfig(configFileName, "env")
}

// loadConfig layers defaults, the config file and environment variables, then validates
func loadConfig(configName, configType string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	readConfigFile(v, configName, configType)
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// readConfigFile looks for the file in ./configs then the working directory.
// A missing file is not an error. Runs before the logger exists, hence fmt.
func readConfigFile(v *viper.Viper, configName, configType string) {
	v.SetConfigName(configName)
	if configType != "" {
		v.SetConfigType(configType)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		fmt.Printf("INFO: Config loaded from file: %s\n", v.ConfigFileUsed())
	case errors.As(err, &notFound):
		fmt.Printf("INFO: No config file '%s' found, relying on environment variables and defaults.\n", configName)
	default:
		fmt.Printf("WARNING: Error reading config file (%s): %v\n", v.ConfigFileUsed(), err)
	}
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		Ledger: LedgerConfig{
			Timezone:       v.GetString("LEDGER_TIMEZONE"),
			SeedSampleData: v.GetBool("LEDGER_SEED_SAMPLE_DATA"),
			RecentLimit:    v.GetInt("LEDGER_RECENT_LIMIT"),
		},
		Kafka: KafkaConfig{
			Enabled:           v.GetBool("KAFKA_ENABLED"),
			Brokers:           v.GetString("KAFKA_BROKERS"),
			EventsTopic:       v.GetString("KAFKA_EVENTS_TOPIC"),
			NumPartitions:     v.GetInt("KAFKA_NUM_PARTITIONS"),
			ReplicationFactor: v.GetInt("KAFKA_REPLICATION_FACTOR"),
			ConsumerGroup:     v.GetString("KAFKA_CONSUMER_GROUP"),
			MinBytes:          v.GetInt("KAFKA_CONSUMER_MIN_BYTES"),
			MaxBytes:          v.GetInt("KAFKA_CONSUMER_MAX_BYTES"),
			MaxWait:           v.GetDuration("KAFKA_CONSUMER_MAX_WAIT"),
			WriteTimeout:      v.GetDuration("KAFKA_WRITE_TIMEOUT"),
			StartOffset:       v.GetInt64("KAFKA_CONSUMER_START_OFFSET"),
			DLQTopic:          v.GetString("KAFKA_DLQ_TOPIC"),
		},
		Outbox: OutboxConfig{
			PollingInterval:  v.GetDuration("OUTBOX_POLLING_INTERVAL"),
			BatchSize:        v.GetInt("OUTBOX_BATCH_SIZE"),
			MaxRetryAttempts: v.GetInt("OUTBOX_MAX_RETRY_ATTEMPTS"),
			Capacity:         v.GetInt("OUTBOX_CAPACITY"),
		},
		WorkerPool: WorkerPoolConfig{
			Size: v.GetInt("WORKER_POOL_SIZE"),
		},
		Audit: AuditConfig{
			DedupeWindow: v.GetInt("AUDIT_DEDUPE_WINDOW"),
		},
	}
}

// setDefaults gives a working local setup with Kafka switched off
func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_READ_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 120*time.Second)

	v.SetDefault("LEDGER_TIMEZONE", "UTC")
	v.SetDefault("LEDGER_SEED_SAMPLE_DATA", true)
	v.SetDefault("LEDGER_RECENT_LIMIT", 5)

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "ledger_events")
	v.SetDefault("KAFKA_NUM_PARTITIONS", 1)
	v.SetDefault("KAFKA_REPLICATION_FACTOR", 1)
	v.SetDefault("KAFKA_CONSUMER_GROUP", "activity-processor-group")
	v.SetDefault("KAFKA_CONSUMER_MIN_BYTES", 10240)
	v.SetDefault("KAFKA_CONSUMER_MAX_BYTES", 10485760)
	v.SetDefault("KAFKA_CONSUMER_MAX_WAIT", time.Second)
	v.SetDefault("KAFKA_CONSUMER_START_OFFSET", 0)
	v.SetDefault("KAFKA_WRITE_TIMEOUT", 10*time.Second)
	v.SetDefault("KAFKA_DLQ_TOPIC", "ledger_events_dlq")

	v.SetDefault("OUTBOX_POLLING_INTERVAL", 2*time.Second)
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("OUTBOX_MAX_RETRY_ATTEMPTS", 5)
	v.SetDefault("OUTBOX_CAPACITY", 1000)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "personal-finance-ledger")

	v.SetDefault("WORKER_POOL_SIZE", 10)
	v.SetDefault("AUDIT_DEDUPE_WINDOW", 10000)
}
