package producers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/personal-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	t.Run("WrapsOriginalMessage", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "ledger_events_dlq"}

		original := []byte(`{"event_id":"broken"`)
		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 || string(msgs[0].Key) != "1767225600000" {
				return false
			}
			var payload dlqMessage
			if err := json.Unmarshal(msgs[0].Value, &payload); err != nil {
				return false
			}
			return payload.OriginalValue == string(original) &&
				payload.DLQReason == "unmarshal_error" &&
				payload.Timestamp != "" &&
				len(msgs[0].Headers) == 1 && string(msgs[0].Headers[0].Value) == "unmarshal_error"
		})).Return(nil).Once()

		require.NoError(t, producer.PublishToDLQ(ctx, "1767225600000", original, "unmarshal_error"))
		mockWriter.AssertExpectations(t)
	})

	t.Run("WriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "ledger_events_dlq"}
		writerErr := errors.New("broker unavailable")
		mockWriter.On("WriteMessages", ctx, mock.Anything).Return(writerErr).Once()

		err := producer.PublishToDLQ(ctx, "k", []byte("v"), "reason")
		require.Error(t, err)
		assert.ErrorIs(t, err, writerErr)
	})

	t.Run("Disabled", func(t *testing.T) {
		var producer *DLQProducer
		assert.ErrorIs(t, producer.PublishToDLQ(ctx, "k", []byte("v"), "reason"), ErrDLQDisabled)

		noWriter := &DLQProducer{logger: logger}
		assert.ErrorIs(t, noWriter.PublishToDLQ(ctx, "k", []byte("v"), "reason"), ErrDLQDisabled)
	})
}

func TestDLQProducer_Close(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(errors.New("close failed")).Once()
	producer := &DLQProducer{logger: logger, writer: mockWriter, dlqTopic: "dlq"}
	assert.Error(t, producer.Close())

	var disabled *DLQProducer
	assert.NoError(t, disabled.Close())
}

func TestNewDLQProducer_NoTopic(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	producer, err := NewDLQProducer(context.Background(), logger, &config.KafkaConfig{})
	require.NoError(t, err)
	assert.Nil(t, producer)
}
