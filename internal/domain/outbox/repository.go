package outbox

import (
	"context"
	"strconv"
)

// Repository keeps outbox messages until the poller has published them
type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	IncrementAttempts(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// ErrMessageNotFound indicates missing outbox message
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}
