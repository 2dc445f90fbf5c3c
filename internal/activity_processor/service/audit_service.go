package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Stats summarizes the events recorded so far
type Stats struct {
	Recorded   map[activity.Kind]int
	Duplicates int
	// NetBalance is the balance change implied by recorded events
	NetBalance decimal.Decimal
}

// DefaultDedupeWindow is used when NewAuditService gets a non-positive window
const DefaultDedupeWindow = 10000

// AuditServiceImpl writes one audit log line per event and keeps running stats.
// Redelivered events are recognized by event ID and skipped. Only the most
// recent window of IDs is remembered, the oldest is forgotten first.
type AuditServiceImpl struct {
	logger *slog.Logger

	mu    sync.Mutex
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID // ring of remembered IDs, next points at the oldest once full
	next  int
	stats Stats
}

func NewAuditService(logger *slog.Logger, dedupeWindow int) *AuditServiceImpl {
	if dedupeWindow <= 0 {
		dedupeWindow = DefaultDedupeWindow
	}
	return &AuditServiceImpl{
		logger: logger,
		seen:   make(map[uuid.UUID]struct{}, dedupeWindow),
		order:  make([]uuid.UUID, 0, dedupeWindow),
		stats: Stats{
			Recorded:   make(map[activity.Kind]int),
			NetBalance: decimal.Zero,
		},
	}
}

func (s *AuditServiceImpl) Record(ctx context.Context, event *activity.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid activity event: %w", err)
	}

	logger := s.logger
	if event.CorrelationID != "" {
		logger = logger.With("correlation_id", event.CorrelationID)
	}

	s.mu.Lock()
	if _, dup := s.seen[event.EventID]; dup {
		s.stats.Duplicates++
		s.mu.Unlock()
		logger.Info("Skipping already recorded activity event", "event_id", event.EventID.String())
		return nil
	}
	s.remember(event.EventID)
	s.stats.Recorded[event.Kind]++
	s.stats.NetBalance = s.stats.NetBalance.Add(balanceEffect(event))
	s.mu.Unlock()

	tx := event.Transaction
	logger.InfoContext(ctx, "Ledger activity",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"transaction_id", tx.ID,
		"type", string(tx.Type),
		"amount", tx.Amount.StringFixed(2),
		"category", tx.Category,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

// remember must be called with mu held
func (s *AuditServiceImpl) remember(id uuid.UUID) {
	if len(s.order) < cap(s.order) {
		s.order = append(s.order, id)
		s.seen[id] = struct{}{}
		return
	}
	delete(s.seen, s.order[s.next])
	s.order[s.next] = id
	s.seen[id] = struct{}{}
	s.next = (s.next + 1) % len(s.order)
}

// Stats returns a copy of the running statistics
func (s *AuditServiceImpl) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	recorded := make(map[activity.Kind]int, len(s.stats.Recorded))
	for k, v := range s.stats.Recorded {
		recorded[k] = v
	}
	return Stats{
		Recorded:   recorded,
		Duplicates: s.stats.Duplicates,
		NetBalance: s.stats.NetBalance,
	}
}

func balanceEffect(event *activity.Event) decimal.Decimal {
	signed := event.Transaction.Amount
	if event.Transaction.Type == ledger.TypeExpense {
		signed = signed.Neg()
	}
	if event.Kind == activity.KindTransactionDeleted {
		signed = signed.Neg()
	}
	return signed
}
