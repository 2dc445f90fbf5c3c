package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/personal-finance-ledger/internal/api_gateway/handler"
	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	summaryHandler *handler.SummaryHandler,
	transactionHandler *handler.TransactionHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/summary", summaryHandler.Summary)
		v1.GET("/categories", summaryHandler.Categories)

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/grouped", transactionHandler.Grouped)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
