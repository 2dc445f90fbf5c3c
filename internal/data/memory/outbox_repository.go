package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/personal-finance-ledger/internal/domain/outbox"
)

// OutboxRepository is a bounded in-memory implementation of outbox.Repository.
// Messages leave the repository once they are no longer pending.
type OutboxRepository struct {
	mu       sync.Mutex
	logger   *slog.Logger
	capacity int
	nextID   int64
	order    []int64
	messages map[int64]*outbox.Message
}

// NewOutboxRepository creates a repository holding at most capacity messages.
// A capacity of zero or less means unbounded.
func NewOutboxRepository(logger *slog.Logger, capacity int) *OutboxRepository {
	return &OutboxRepository{
		logger:   logger,
		capacity: capacity,
		messages: make(map[int64]*outbox.Message),
	}
}

// Create assigns an ID and stores the message, evicting the oldest message when full
func (r *OutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capacity > 0 && len(r.order) >= r.capacity {
		oldest := r.order[0]
		dropped := r.messages[oldest]
		r.remove(oldest)
		r.logger.Warn("Outbox full, dropping oldest message",
			"outbox_id", oldest,
			"event_id", dropped.EventID.String(),
			"capacity", r.capacity,
		)
	}

	r.nextID++
	message.ID = r.nextID
	stored := *message
	r.messages[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	return nil
}

// GetPending returns copies of up to limit pending messages, oldest first
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		return []*outbox.Message{}, nil
	}

	messages := make([]*outbox.Message, 0, min(limit, len(r.order)))
	for _, id := range r.order {
		if len(messages) >= limit {
			break
		}
		msg := r.messages[id]
		if msg.Status != outbox.StatusPending {
			continue
		}
		cp := *msg
		messages = append(messages, &cp)
	}
	return messages, nil
}

// UpdateStatus records the new status. Processed and failed messages are released.
func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return outbox.ErrMessageNotFound{ID: id}
	}

	switch status {
	case outbox.StatusProcessed:
		msg.MarkAsProcessed()
	case outbox.StatusFailedToPublish:
		msg.MarkAsFailed()
	default:
		msg.Status = status
		now := time.Now()
		msg.LastAttemptAt = &now
	}

	if msg.Status != outbox.StatusPending {
		r.remove(id)
	}
	return nil
}

// IncrementAttempts bumps the retry counter of a message
func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok {
		return outbox.ErrMessageNotFound{ID: id}
	}
	msg.IncrementAttempts()
	return nil
}

// Delete removes a message regardless of its status
func (r *OutboxRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return outbox.ErrMessageNotFound{ID: id}
	}
	r.remove(id)
	return nil
}

// Len returns the number of messages held
func (r *OutboxRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *OutboxRepository) remove(id int64) {
	delete(r.messages, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
