package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	ledgerService service.LedgerService
	location      *time.Location
	logger        *slog.Logger
}

// NewTransactionHandler creates a transaction handler rendering dates in loc
func NewTransactionHandler(logger *slog.Logger, ledgerService service.LedgerService, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{
		ledgerService: ledgerService,
		location:      loc,
		logger:        logger,
	}
}

// Create adds a transaction from the creation form
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	draft, err := req.toDraft(h.location)
	if err != nil {
		h.logger.Warn("Invalid transaction fields", "error", err)
		RespondBadRequest(c, err.Error())
		return
	}

	tx, err := h.ledgerService.AddTransaction(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDraft) || ledger.IsValidationError(err) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to add transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(tx, h.location))
}

// List returns transactions newest first, optionally filtered by type
func (h *TransactionHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	txs := h.ledgerService.ListTransactions(c.Request.Context(), filter)
	RespondWithList(c, mapTransactionsToResponse(txs, h.location), len(txs), string(filter))
}

// Grouped returns the filtered transactions sectioned by calendar day
func (h *TransactionHandler) Grouped(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	groups := h.ledgerService.GroupTransactions(c.Request.Context(), filter)
	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}
	RespondWithList(c, mapGroupsToResponse(groups, h.location), total, string(filter))
}

// GetByID returns one transaction or 404
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	tx, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ledger.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx, h.location))
}

// Delete removes a transaction. Deleting an unknown ID also answers 204.
func (h *TransactionHandler) Delete(c *gin.Context) {
	h.ledgerService.DeleteTransaction(c.Request.Context(), c.Param("id"))
	RespondNoContent(c)
}

func (h *TransactionHandler) bindFilter(c *gin.Context) (ledger.Filter, bool) {
	var params ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return "", false
	}

	filter, err := ledger.ParseFilter(params.Type)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return "", false
	}
	return filter, true
}
