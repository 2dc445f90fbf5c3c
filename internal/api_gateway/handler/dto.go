package handler

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/personal-finance-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var (
	errInvalidAmountFormat = errors.New("amount must be a decimal number")
	errInvalidDateFormat   = errors.New("date must be RFC 3339 or YYYY-MM-DD")
)

// CreateTransactionRequest is the body of POST /transactions.
// Amount accepts a JSON number or a numeric string.
type CreateTransactionRequest struct {
	Type        string      `json:"type" binding:"required,oneof=income expense"`
	Amount      json.Number `json:"amount" binding:"required"`
	Category    string      `json:"category" binding:"required"`
	Description string      `json:"description" binding:"required"`
	Date        string      `json:"date,omitempty"`
}

// toDraft converts the request, interpreting a bare date as midnight in loc
func (r CreateTransactionRequest) toDraft(loc *time.Location) (ledger.Draft, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount.String()))
	if err != nil {
		return ledger.Draft{}, errInvalidAmountFormat
	}

	var date time.Time
	if r.Date != "" {
		date, err = parseDate(r.Date, loc)
		if err != nil {
			return ledger.Draft{}, err
		}
	}

	return ledger.Draft{
		Type:        ledger.Type(r.Type),
		Amount:      amount,
		Category:    strings.TrimSpace(r.Category),
		Description: strings.TrimSpace(r.Description),
		Date:        date,
	}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(ledger.DateKeyLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidDateFormat
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Day         string `json:"day"`
}

// DateGroupResponse is one section of the grouped history
type DateGroupResponse struct {
	Date         string                `json:"date"`
	Transactions []TransactionResponse `json:"transactions"`
}

// SummaryResponse carries the aggregates and the newest transactions
type SummaryResponse struct {
	Balance          string                `json:"balance"`
	Income           string                `json:"income"`
	Expenses         string                `json:"expenses"`
	TransactionCount int                   `json:"transaction_count"`
	Recent           []TransactionResponse `json:"recent"`
}

// CategoriesResponse lists suggested categories for one type
type CategoriesResponse struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
}

// ListParams are the query parameters of the transaction list endpoints
type ListParams struct {
	Type string `form:"type"`
}

// SummaryParams are the query parameters of GET /summary
type SummaryParams struct {
	Recent *int `form:"recent" binding:"omitempty,min=0,max=100"`
}

// CategoryParams are the query parameters of GET /categories
type CategoryParams struct {
	Type string `form:"type" binding:"required,oneof=income expense"`
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func mapTransactionToResponse(tx ledger.Transaction, loc *time.Location) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      formatAmount(tx.Amount),
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date.In(loc).Format(time.RFC3339),
		Day:         tx.Date.In(loc).Format(ledger.DateKeyLayout),
	}
}

func mapTransactionsToResponse(txs []ledger.Transaction, loc *time.Location) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, mapTransactionToResponse(tx, loc))
	}
	return responses
}

func mapGroupsToResponse(groups []ledger.DateGroup, loc *time.Location) []DateGroupResponse {
	responses := make([]DateGroupResponse, 0, len(groups))
	for _, g := range groups {
		responses = append(responses, DateGroupResponse{
			Date:         g.Date,
			Transactions: mapTransactionsToResponse(g.Transactions, loc),
		})
	}
	return responses
}

func mapSummaryToResponse(s ledger.Summary, loc *time.Location) SummaryResponse {
	return SummaryResponse{
		Balance:          formatAmount(s.Balance),
		Income:           formatAmount(s.Income),
		Expenses:         formatAmount(s.Expenses),
		TransactionCount: s.TransactionCount,
		Recent:           mapTransactionsToResponse(s.Recent, loc),
	}
}
