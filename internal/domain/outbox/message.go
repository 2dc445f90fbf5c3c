package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/personal-finance-ledger/internal/domain/activity"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message holds an activity event waiting to be published to the broker
type Message struct {
	ID            int64           `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	Kind          activity.Kind   `json:"kind"`
	TransactionID string          `json:"transaction_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *activity.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:       event.EventID,
		Kind:          event.Kind,
		TransactionID: event.Transaction.ID,
		Payload:       payload,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetEvent decodes the activity event from the payload
func (m *Message) GetEvent() (*activity.Event, error) {
	var event activity.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
