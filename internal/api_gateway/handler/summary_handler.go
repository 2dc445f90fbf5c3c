package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/personal-finance-ledger/internal/api_gateway/service"
	"github.com/personal-finance-ledger/internal/domain/ledger"
)

// SummaryHandler serves the balance overview and category suggestions
type SummaryHandler struct {
	ledgerService service.LedgerService
	location      *time.Location
	recentLimit   int
	logger        *slog.Logger
}

// NewSummaryHandler creates a summary handler showing recentLimit transactions by default
func NewSummaryHandler(logger *slog.Logger, ledgerService service.LedgerService, loc *time.Location, recentLimit int) *SummaryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryHandler{
		ledgerService: ledgerService,
		location:      loc,
		recentLimit:   recentLimit,
		logger:        logger,
	}
}

// Summary returns balance, income, expenses and the newest transactions
func (h *SummaryHandler) Summary(c *gin.Context) {
	var params SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	recent := h.recentLimit
	if params.Recent != nil {
		recent = *params.Recent
	}

	summary := h.ledgerService.Summary(c.Request.Context(), recent)
	RespondOK(c, mapSummaryToResponse(summary, h.location))
}

// Categories returns the suggestions offered by the creation form
func (h *SummaryHandler) Categories(c *gin.Context) {
	var params CategoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	t := ledger.Type(params.Type)
	categories, err := h.ledgerService.Categories(t)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	RespondOK(c, CategoriesResponse{Type: string(t), Categories: categories})
}
