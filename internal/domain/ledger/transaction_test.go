package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_Validate(t *testing.T) {
	valid := Draft{
		Type:        TypeExpense,
		Amount:      decimal.RequireFromString("12.34"),
		Category:    "Groceries",
		Description: "Market",
		Date:        time.Now(),
	}

	tests := []struct {
		name   string
		mutate func(d *Draft)
		err    error
	}{
		{"Valid", func(d *Draft) {}, nil},
		{"UnknownType", func(d *Draft) { d.Type = "transfer" }, ErrInvalidType},
		{"ZeroAmount", func(d *Draft) { d.Amount = decimal.Zero }, ErrInvalidAmount},
		{"NegativeAmount", func(d *Draft) { d.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"HugeExponent", func(d *Draft) { d.Amount = decimal.RequireFromString("1e3000000") }, ErrAmountOutOfRange},
		{"TinyExponent", func(d *Draft) { d.Amount = decimal.RequireFromString("1e-3000000") }, ErrAmountOutOfRange},
		{"AtCeiling", func(d *Draft) { d.Amount = MaxAmount }, ErrAmountOutOfRange},
		{"TooManyDecimals", func(d *Draft) { d.Amount = decimal.RequireFromString("1.234") }, ErrAmountOutOfRange},
		{"TrailingZeroDecimals", func(d *Draft) { d.Amount = decimal.RequireFromString("1.2300") }, nil},
		{"JustBelowCeiling", func(d *Draft) { d.Amount = decimal.RequireFromString("999999999999.99") }, nil},
		{"BlankCategory", func(d *Draft) { d.Category = "   " }, ErrEmptyCategory},
		{"BlankDescription", func(d *Draft) { d.Description = "" }, ErrEmptyDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)

			err := d.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.False(t, IsValidationError(errors.New("boom")))
	assert.False(t, IsValidationError(nil))
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"Income", FilterIncome, false},
		{" expense ", FilterExpense, false},
		{"transfer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrTransactionNotFound{ID: "7"})

	assert.ErrorIs(t, err, ErrTransactionNotFound{})
	assert.ErrorIs(t, err, ErrTransactionNotFound{ID: "7"})
	assert.NotErrorIs(t, err, ErrTransactionNotFound{ID: "8"})
	assert.Equal(t, "transaction not found: 7", ErrTransactionNotFound{ID: "7"}.Error())
}

func TestSuggestedCategories(t *testing.T) {
	income, err := SuggestedCategories(TypeIncome)
	require.NoError(t, err)
	assert.Equal(t, []string{"Salary", "Freelance", "Investment", "Gift", "Other"}, income)

	expense, err := SuggestedCategories(TypeExpense)
	require.NoError(t, err)
	assert.Contains(t, expense, "Bills")
	assert.Len(t, expense, 7)

	_, err = SuggestedCategories("transfer")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestClockIDGenerator(t *testing.T) {
	now := time.UnixMilli(1000)
	gen := NewClockIDGenerator(func() time.Time { return now })

	assert.Equal(t, "1000", gen.NextID())
	assert.Equal(t, "1001", gen.NextID())

	now = time.UnixMilli(900)
	assert.Equal(t, "1002", gen.NextID())

	now = time.UnixMilli(5000)
	assert.Equal(t, "5000", gen.NextID())
}
