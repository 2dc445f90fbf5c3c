package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Chdir(originalWD)
	})
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := chdirTemp(t)

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestLedger"
	testPort := 9090
	testLogLevel := "debug"
	testTimezone := "Europe/Berlin"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nLEDGER_TIMEZONE=%s\nLEDGER_RECENT_LIMIT=3\n",
		testAppName, testPort, testLogLevel, testTimezone,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testTimezone, cfg.Ledger.Timezone)
	assert.Equal(t, 3, cfg.Ledger.RecentLimit)
	assert.Equal(t, "Europe/Berlin", cfg.Ledger.Location().String())

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Ledger.SeedSampleData)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "ledger_events", cfg.Kafka.EventsTopic)
	assert.Equal(t, "ledger_events_dlq", cfg.Kafka.DLQTopic)
	assert.Equal(t, 1000, cfg.Outbox.Capacity)
	assert.Equal(t, 10, cfg.WorkerPool.Size)
	assert.Equal(t, 10*time.Second, cfg.Kafka.WriteTimeout)
	assert.Equal(t, time.Second, cfg.Kafka.MaxWait)
	assert.Equal(t, 10000, cfg.Audit.DedupeWindow)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	require.NotNil(t, cfgWithNameAndType)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	tempDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "override.env"), []byte("SERVER_PORT=7000\n"), 0644))
	t.Setenv("SERVER_PORT", "7100")
	t.Setenv("LEDGER_SEED_SAMPLE_DATA", "false")

	cfg, err := LoadConfig("override")
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Server.Port)
	assert.False(t, cfg.Ledger.SeedSampleData)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig("missing")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Ledger.Timezone)
	assert.Equal(t, 5, cfg.Ledger.RecentLimit)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("LEDGER_TIMEZONE", "Mars/Olympus")
	t.Setenv("SERVER_PORT", "0")

	cfg, err := LoadConfig("missing")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "LEDGER_TIMEZONE must be a valid IANA time zone")
	assert.Contains(t, err.Error(), "SERVER_PORT must be greater than 0")
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("DefaultsAreValid", func(t *testing.T) {
		assert.NoError(t, defaultConfig().validate(), "Default config should be valid")
	})

	t.Run("KafkaCheckedOnlyWhenEnabled", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Kafka.Brokers = ""
		cfg.Kafka.EventsTopic = ""
		assert.NoError(t, cfg.validate())

		cfg.Kafka.Enabled = true
		err := cfg.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KAFKA_BROKERS is required")
		assert.Contains(t, err.Error(), "KAFKA_EVENTS_TOPIC is required")
	})

	t.Run("KafkaWriteTimeoutRequiredWhenEnabled", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Kafka.WriteTimeout = 0
		assert.NoError(t, cfg.validate())

		cfg.Kafka.Enabled = true
		err := cfg.validate()
		require.Error(t, err)
		assert.Equal(t, "KAFKA_WRITE_TIMEOUT must be greater than 0", err.Error())
	})

	t.Run("AuditDedupeWindowMustBePositive", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Audit.DedupeWindow = 0
		err := cfg.validate()
		require.Error(t, err)
		assert.Equal(t, "AUDIT_DEDUPE_WINDOW must be greater than 0", err.Error())
	})

	t.Run("AccumulatesErrors", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Logging.Format = "xml"
		cfg.Ledger.RecentLimit = 0
		cfg.Outbox.Capacity = -1
		cfg.WorkerPool.Size = 0

		err := cfg.validate()
		require.Error(t, err)
		assert.Equal(t,
			"LOG_FORMAT must be json or text, LEDGER_RECENT_LIMIT must be greater than 0, OUTBOX_CAPACITY cannot be negative, WORKER_POOL_SIZE must be greater than 0",
			err.Error(),
		)
	})
}

func TestLedgerConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, LedgerConfig{Timezone: "UTC"}.Location())
	assert.Equal(t, time.UTC, LedgerConfig{Timezone: "nowhere"}.Location())
	assert.Equal(t, "Asia/Tokyo", LedgerConfig{Timezone: "Asia/Tokyo"}.Location().String())
}
