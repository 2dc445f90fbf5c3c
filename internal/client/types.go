package client

import "encoding/json"

// Transaction mirrors the gateway's transaction representation
type Transaction struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Day         string `json:"day"`
}

type DateGroup struct {
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

type Summary struct {
	Balance          string        `json:"balance"`
	Income           string        `json:"income"`
	Expenses         string        `json:"expenses"`
	TransactionCount int           `json:"transaction_count"`
	Recent           []Transaction `json:"recent"`
}

type Categories struct {
	Type       string   `json:"type"`
	Categories []string `json:"categories"`
}

// NewTransaction is the body of an add request. Amount is sent verbatim.
type NewTransaction struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

type envelope struct {
	Data          json.RawMessage `json:"data"`
	Error         *errorInfo      `json:"error"`
	CorrelationID string          `json:"correlation_id"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
