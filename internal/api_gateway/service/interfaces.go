package service

import (
	"context"

	"github.com/personal-finance-ledger/internal/domain/activity"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// LedgerService defines the operations the HTTP API performs on the ledger
type LedgerService interface {
	// AddTransaction validates the draft and prepends it to the ledger.
	// Rejected drafts return an error wrapping ErrInvalidDraft and the ledger sentinel.
	AddTransaction(ctx context.Context, draft ledger.Draft) (ledger.Transaction, error)

	// DeleteTransaction removes a transaction, reporting whether anything was removed.
	// Unknown IDs are not an error.
	DeleteTransaction(ctx context.Context, id string) bool

	// GetTransaction returns ledger.ErrTransactionNotFound when the ID is unknown
	GetTransaction(ctx context.Context, id string) (ledger.Transaction, error)

	ListTransactions(ctx context.Context, filter ledger.Filter) []ledger.Transaction

	// GroupTransactions sections the filtered list by calendar day
	GroupTransactions(ctx context.Context, filter ledger.Filter) []ledger.DateGroup

	// Summary returns the aggregates and the newest recent transactions
	Summary(ctx context.Context, recent int) ledger.Summary

	// Categories lists suggested categories for a transaction type
	Categories(t ledger.Type) ([]string, error)
}

// EventPublisher receives an activity event for every ledger mutation
type EventPublisher interface {
	Publish(ctx context.Context, event *activity.Event) error
}
