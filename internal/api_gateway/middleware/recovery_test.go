package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	t.Run("PanicBecomes500Envelope", func(t *testing.T) {
		var logs logRecorder
		engine := newEngine(CorrelationID(), Recovery(logs.logger()))
		engine.DELETE("/transactions/:id", func(c *gin.Context) {
			panic("ledger exploded")
		})

		rr := serve(engine, http.MethodDelete, "/transactions/7", "panic-corr")
		require.Equal(t, http.StatusInternalServerError, rr.Code)

		var body panicResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Error.Code)
		assert.Equal(t, "panic-corr", body.CorrelationID)

		lines := logs.lines(t)
		require.Len(t, lines, 1)
		assert.Equal(t, "ERROR", lines[0]["level"])
		assert.Equal(t, "ledger exploded", lines[0]["panic"])
		assert.Equal(t, "/transactions/7", lines[0]["path"])
		assert.Equal(t, "panic-corr", lines[0]["correlation_id"])
		assert.NotEmpty(t, lines[0]["stack"])
	})

	t.Run("PanicWithError", func(t *testing.T) {
		var logs logRecorder
		engine := newEngine(Recovery(logs.logger()))
		engine.GET("/summary", func(c *gin.Context) {
			var m map[string]int
			m["x"]++
		})

		rr := serve(engine, http.MethodGet, "/summary", "")
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, logs.lines(t)[0]["panic"], "nil map")
	})

	t.Run("PassesThroughWithoutPanic", func(t *testing.T) {
		var logs logRecorder
		engine := newEngine(Recovery(logs.logger()))
		engine.GET("/health", okHandler)

		rr := serve(engine, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, logs.lines(t))
	})
}
