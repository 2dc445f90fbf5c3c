package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Draft validation errors
var (
	ErrInvalidType        = errors.New("transaction type must be income or expense")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountOutOfRange   = errors.New("amount must be below 1000000000000 with at most 2 decimal places")
	ErrEmptyCategory      = errors.New("category cannot be empty")
	ErrEmptyDescription   = errors.New("description cannot be empty")
	ErrInvalidFilter      = errors.New("filter must be all, income or expense")
	errValidationSentinel = []error{ErrInvalidType, ErrInvalidAmount, ErrAmountOutOfRange, ErrEmptyCategory, ErrEmptyDescription}
)

// MaxAmount is the exclusive upper bound for a single draft amount
var MaxAmount = decimal.New(1, 12)

// exponent bounds checked before any arithmetic so that inputs like 1e3000000 are never rescaled
const (
	maxAmountExponent = 12
	minAmountExponent = -20
)

// Type tells money coming in apart from money going out
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the two known variants
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single income or expense record. It is never modified after creation.
type Transaction struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// Draft is a transaction that has not been assigned an ID yet
type Draft struct {
	Type        Type
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// Validate performs the presence checks a creation form applies before adding a draft.
// The ledger itself accepts any draft.
func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return ErrInvalidType
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if exp := d.Amount.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return ErrAmountOutOfRange
	}
	if d.Amount.GreaterThanOrEqual(MaxAmount) || !d.Amount.Equal(d.Amount.Truncate(2)) {
		return ErrAmountOutOfRange
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// IsValidationError reports whether err was produced by Draft.Validate
func IsValidationError(err error) bool {
	for _, sentinel := range errValidationSentinel {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Filter selects which transactions a list view shows
type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

// ParseFilter converts a user supplied filter, treating an empty value as all
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterIncome:
		return FilterIncome, nil
	case FilterExpense:
		return FilterExpense, nil
	default:
		return "", ErrInvalidFilter
	}
}

// ErrTransactionNotFound indicates a missing transaction
type ErrTransactionNotFound struct {
	ID string
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID
}

// Is matches any ErrTransactionNotFound when the target carries no ID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
