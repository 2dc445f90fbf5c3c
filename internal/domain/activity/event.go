package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// Kind names the ledger mutation an event describes
type Kind string

const (
	KindTransactionAdded   Kind = "TRANSACTION_ADDED"
	KindTransactionDeleted Kind = "TRANSACTION_DELETED"
)

var (
	ErrUnknownKind    = errors.New("unknown activity event kind")
	ErrMissingEventID = errors.New("activity event has no id")
	ErrMissingTxID    = errors.New("activity event has no transaction id")
)

// Event records one mutation of the ledger
type Event struct {
	EventID       uuid.UUID          `json:"event_id"`
	Kind          Kind               `json:"kind"`
	Transaction   ledger.Transaction `json:"transaction"`
	CorrelationID string             `json:"correlation_id,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// NewEvent snapshots tx, picking the correlation ID up from ctx when present
func NewEvent(ctx context.Context, kind Kind, tx ledger.Transaction) *Event {
	return &Event{
		EventID:       uuid.New(),
		Kind:          kind,
		Transaction:   tx,
		CorrelationID: CorrelationIDFromContext(ctx),
		OccurredAt:    time.Now().UTC(),
	}
}

func (e *Event) Validate() error {
	if e.EventID == uuid.Nil {
		return ErrMissingEventID
	}
	switch e.Kind {
	case KindTransactionAdded, KindTransactionDeleted:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	if e.Transaction.ID == "" {
		return ErrMissingTxID
	}
	return nil
}

type correlationIDKey struct{}

// WithCorrelationID stores a request correlation ID in ctx
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or ""
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
