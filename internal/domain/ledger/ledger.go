// Package ledger holds the in-memory transaction ledger and its derived aggregates.
//
// The ledger keeps transactions newest-insertion-first and never re-sorts them.
// Balance, income and expense totals are recomputed from the sequence on every call.
package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DateKeyLayout formats the calendar day used to group transactions
const DateKeyLayout = "2006-01-02"

// DateGroup is the set of transactions that fall on one calendar day
type DateGroup struct {
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// Summary is a consistent snapshot of the aggregates and the newest transactions
type Summary struct {
	Balance          decimal.Decimal `json:"balance"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	TransactionCount int             `json:"transaction_count"`
	Recent           []Transaction   `json:"recent"`
}

// Ledger is the single source of truth for transactions.
// All methods are safe for concurrent use.
type Ledger struct {
	mu           sync.RWMutex
	transactions []Transaction
	ids          IDGenerator
	location     *time.Location
}

// Option configures a Ledger
type Option func(*Ledger)

// WithIDGenerator replaces the default clock based ID generator
func WithIDGenerator(ids IDGenerator) Option {
	return func(l *Ledger) {
		l.ids = ids
	}
}

// WithLocation sets the time zone that decides which calendar day a transaction falls on
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		if loc != nil {
			l.location = loc
		}
	}
}

// WithTransactions seeds the ledger in list order. The slice is copied.
func WithTransactions(seed []Transaction) Option {
	return func(l *Ledger) {
		l.transactions = append([]Transaction(nil), seed...)
	}
}

// New creates a ledger. Without options it is empty, uses UTC and clock derived IDs.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.ids == nil {
		l.ids = NewClockIDGenerator(nil)
	}
	return l
}

// Location returns the time zone used for calendar day grouping
func (l *Ledger) Location() *time.Location {
	return l.location
}

// Add assigns a fresh ID to the draft and prepends the resulting transaction.
// The draft is stored as-is; callers validate it beforehand.
func (l *Ledger) Add(draft Draft) Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.ids.NextID()
	for l.indexOf(id) >= 0 {
		id = l.ids.NextID()
	}

	tx := Transaction{
		ID:          id,
		Type:        draft.Type,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Description: draft.Description,
		Date:        draft.Date,
	}

	transactions := make([]Transaction, 0, len(l.transactions)+1)
	transactions = append(transactions, tx)
	l.transactions = append(transactions, l.transactions...)

	return tx
}

// Remove deletes the transaction with the given ID and returns it.
// The boolean is false when no such transaction exists.
func (l *Ledger) Remove(id string) (Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return Transaction{}, false
	}

	removed := l.transactions[i]
	transactions := make([]Transaction, 0, len(l.transactions)-1)
	transactions = append(transactions, l.transactions[:i]...)
	l.transactions = append(transactions, l.transactions[i+1:]...)

	return removed, true
}

// Delete removes the transaction with the given ID, doing nothing if it is absent
func (l *Ledger) Delete(id string) {
	l.Remove(id)
}

// Get looks a transaction up by ID
func (l *Ledger) Get(id string) (Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.transactions[i], true
	}
	return Transaction{}, false
}

// Len returns the number of transactions
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// List returns a copy of all transactions, newest insertion first
func (l *Ledger) List() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Transaction{}, l.transactions...)
}

// Recent returns at most n of the newest transactions
func (l *Ledger) Recent(n int) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.recent(n)
}

// ListByType returns the transactions of one type, preserving order
func (l *Ledger) ListByType(t Type) []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return filterByType(l.transactions, t)
}

// Filter applies a list view filter
func (l *Ledger) Filter(f Filter) []Transaction {
	switch f {
	case FilterIncome:
		return l.ListByType(TypeIncome)
	case FilterExpense:
		return l.ListByType(TypeExpense)
	default:
		return l.List()
	}
}

// GroupByDate sections all transactions by calendar day in first-encountered order
func (l *Ledger) GroupByDate() []DateGroup {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return GroupTransactionsByDate(l.transactions, l.location)
}

// IncomeTotal sums the amounts of all income transactions
func (l *Ledger) IncomeTotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	income, _ := totals(l.transactions)
	return income
}

// ExpenseTotal sums the amounts of all expense transactions
func (l *Ledger) ExpenseTotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, expenses := totals(l.transactions)
	return expenses
}

// Balance is income total minus expense total
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	income, expenses := totals(l.transactions)
	return income.Sub(expenses)
}

// Summary computes the aggregates and the newest transactions from one snapshot
func (l *Ledger) Summary(recent int) Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	income, expenses := totals(l.transactions)
	return Summary{
		Balance:          income.Sub(expenses),
		Income:           income,
		Expenses:         expenses,
		TransactionCount: len(l.transactions),
		Recent:           l.recent(recent),
	}
}

// DateKey returns the calendar day a point in time falls on in the ledger's location
func (l *Ledger) DateKey(t time.Time) string {
	return t.In(l.location).Format(DateKeyLayout)
}

// GroupTransactionsByDate sections transactions by calendar day in loc.
// Groups follow the first occurrence of each day; order inside a group is preserved.
func GroupTransactionsByDate(transactions []Transaction, loc *time.Location) []DateGroup {
	if loc == nil {
		loc = time.UTC
	}

	groups := make([]DateGroup, 0)
	index := make(map[string]int)
	for _, tx := range transactions {
		key := tx.Date.In(loc).Format(DateKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DateGroup{Date: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, tx)
	}
	return groups
}

func (l *Ledger) indexOf(id string) int {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) recent(n int) []Transaction {
	if n < 0 {
		n = 0
	}
	if n > len(l.transactions) {
		n = len(l.transactions)
	}
	return append([]Transaction{}, l.transactions[:n]...)
}

func filterByType(transactions []Transaction, t Type) []Transaction {
	result := make([]Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Type == t {
			result = append(result, tx)
		}
	}
	return result
}

func totals(transactions []Transaction) (income, expenses decimal.Decimal) {
	income, expenses = decimal.Zero, decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case TypeIncome:
			income = income.Add(tx.Amount)
		case TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return income, expenses
}
