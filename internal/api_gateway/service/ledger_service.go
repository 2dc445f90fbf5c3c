package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// ErrInvalidDraft wraps every draft rejection
var ErrInvalidDraft = errors.New("invalid transaction")

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	ledger    *ledger.Ledger
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedgerService creates a ledger service. A nil publisher disables activity events.
func NewLedgerService(logger *slog.Logger, l *ledger.Ledger, publisher EventPublisher) *LedgerServiceImpl {
	if l == nil {
		panic("service: ledger must not be nil")
	}
	return &LedgerServiceImpl{
		ledger:    l,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// AddTransaction validates the draft, stores it and emits TRANSACTION_ADDED
func (s *LedgerServiceImpl) AddTransaction(ctx context.Context, draft ledger.Draft) (ledger.Transaction, error) {
	logger := s.requestLogger(ctx)

	if err := draft.Validate(); err != nil {
		logger.Warn("Rejected transaction draft",
			"type", string(draft.Type),
			"amount", draft.Amount.String(),
			"error", err,
		)
		return ledger.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidDraft, err)
	}
	if draft.Date.IsZero() {
		draft.Date = s.now()
	}

	tx := s.ledger.Add(draft)

	logger.Info("Transaction added",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"amount", tx.Amount.StringFixed(2),
		"category", tx.Category,
	)

	s.emit(ctx, logger, activity.KindTransactionAdded, tx)
	return tx, nil
}

// DeleteTransaction removes the transaction and emits TRANSACTION_DELETED if one was removed
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, id string) bool {
	logger := s.requestLogger(ctx)

	tx, removed := s.ledger.Remove(id)
	if !removed {
		logger.Info("Delete requested for unknown transaction", "transaction_id", id)
		return false
	}

	logger.Info("Transaction deleted",
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"amount", tx.Amount.StringFixed(2),
	)

	s.emit(ctx, logger, activity.KindTransactionDeleted, tx)
	return true
}

func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, id string) (ledger.Transaction, error) {
	tx, ok := s.ledger.Get(id)
	if !ok {
		return ledger.Transaction{}, ledger.ErrTransactionNotFound{ID: id}
	}
	return tx, nil
}

func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, filter ledger.Filter) []ledger.Transaction {
	return s.ledger.Filter(filter)
}

// GroupTransactions filters first and then groups, like the history screen
func (s *LedgerServiceImpl) GroupTransactions(ctx context.Context, filter ledger.Filter) []ledger.DateGroup {
	if filter == ledger.FilterAll || filter == "" {
		return s.ledger.GroupByDate()
	}
	return ledger.GroupTransactionsByDate(s.ledger.Filter(filter), s.ledger.Location())
}

func (s *LedgerServiceImpl) Summary(ctx context.Context, recent int) ledger.Summary {
	return s.ledger.Summary(recent)
}

func (s *LedgerServiceImpl) Categories(t ledger.Type) ([]string, error) {
	return ledger.SuggestedCategories(t)
}

// emit hands the event to the publisher. Failures are logged and never undo the mutation.
func (s *LedgerServiceImpl) emit(ctx context.Context, logger *slog.Logger, kind activity.Kind, tx ledger.Transaction) {
	if s.publisher == nil {
		return
	}

	event := activity.NewEvent(ctx, kind, tx)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish activity event",
			"event_id", event.EventID.String(),
			"kind", string(kind),
			"transaction_id", tx.ID,
			"error", err,
		)
		return
	}
	logger.Debug("Activity event queued", "event_id", event.EventID.String(), "kind", string(kind))
}

func (s *LedgerServiceImpl) requestLogger(ctx context.Context) *slog.Logger {
	if id := activity.CorrelationIDFromContext(ctx); id != "" {
		return s.logger.With("correlation_id", id)
	}
	return s.logger
}
