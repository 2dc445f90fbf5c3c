package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

type panicResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Recovery converts a handler panic into a 500 in the standard error envelope
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var resp panicResponse
			resp.Error.Code = "INTERNAL_SERVER_ERROR"
			resp.Error.Message = "An internal server error occurred"
			resp.CorrelationID = GetCorrelationID(c)

			logger.Error("Recovered from panic in HTTP handler",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("correlation_id", resp.CorrelationID),
				slog.String("stack", string(debug.Stack())),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()

		c.Next()
	}
}
