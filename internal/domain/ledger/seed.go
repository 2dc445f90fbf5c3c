package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SampleTransactions returns the five transactions a fresh ledger starts with, in list order.
// Dates are midnight in loc.
func SampleTransactions(loc *time.Location) []Transaction {
	if loc == nil {
		loc = time.UTC
	}
	day := func(d int) time.Time {
		return time.Date(2026, time.January, d, 0, 0, 0, 0, loc)
	}

	return []Transaction{
		{ID: "1", Type: TypeIncome, Amount: decimal.NewFromInt(3500), Category: "Salary", Description: "Monthly salary", Date: day(1)},
		{ID: "2", Type: TypeExpense, Amount: decimal.NewFromInt(1200), Category: "Rent", Description: "Monthly rent payment", Date: day(5)},
		{ID: "3", Type: TypeExpense, Amount: decimal.RequireFromString("85.50"), Category: "Groceries", Description: "Weekly groceries", Date: day(8)},
		{ID: "4", Type: TypeExpense, Amount: decimal.NewFromInt(45), Category: "Entertainment", Description: "Movie tickets", Date: day(10)},
		{ID: "5", Type: TypeIncome, Amount: decimal.NewFromInt(500), Category: "Freelance", Description: "Website design project", Date: day(12)},
	}
}

var suggestedCategories = map[Type][]string{
	TypeIncome:  {"Salary", "Freelance", "Investment", "Gift", "Other"},
	TypeExpense: {"Rent", "Groceries", "Entertainment", "Transport", "Bills", "Shopping", "Other"},
}

// SuggestedCategories lists the categories a creation form offers for t
func SuggestedCategories(t Type) ([]string, error) {
	categories, ok := suggestedCategories[t]
	if !ok {
		return nil, ErrInvalidType
	}
	return append([]string(nil), categories...), nil
}
