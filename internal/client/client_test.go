package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noWait() backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithBackOff(noWait))
	require.NoError(t, err)
	return c
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data, "correlation_id": "c-1"})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":          map[string]string{"code": code, "message": msg},
		"correlation_id": "c-1",
	})
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8080")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}

func TestClient_Summary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/summary", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("recent"))
		writeData(w, http.StatusOK, Summary{Balance: "2669.50", Income: "4000.00", Expenses: "1330.50", TransactionCount: 5})
	})

	s, err := c.Summary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "2669.50", s.Balance)
	assert.Equal(t, 5, s.TransactionCount)
}

func TestClient_SummaryDefaultRecent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("recent"))
		writeData(w, http.StatusOK, Summary{})
	})
	_, err := c.Summary(context.Background(), -1)
	require.NoError(t, err)
}

func TestClient_ListAndGrouped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "income", r.URL.Query().Get("type"))
		switch r.URL.Path {
		case "/api/v1/transactions":
			writeData(w, http.StatusOK, []Transaction{{ID: "1"}, {ID: "5"}})
		case "/api/v1/transactions/grouped":
			writeData(w, http.StatusOK, []DateGroup{{Date: "2026-01-01", Transactions: []Transaction{{ID: "1"}}}})
		default:
			http.NotFound(w, r)
		}
	})

	txs, err := c.List(context.Background(), "income")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "5", txs[1].ID)

	groups, err := c.Grouped(context.Background(), "income")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "2026-01-01", groups[0].Date)
}

func TestClient_Add(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		var got NewTransaction
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "12.30", got.Amount)
		writeData(w, http.StatusCreated, Transaction{ID: "1767225600000", Amount: "12.30", Type: got.Type})
	})

	tx, err := c.Add(context.Background(), NewTransaction{Type: "expense", Amount: "12.30", Category: "Food", Description: "Lunch"})
	require.NoError(t, err)
	assert.Equal(t, "1767225600000", tx.ID)
}

func TestClient_DeleteAndGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transactions/42", r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, http.StatusNotFound, "NOT_FOUND", "transaction 42 not found")
	})

	require.NoError(t, c.Delete(context.Background(), "42"))

	_, err := c.Get(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_Categories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "expense", r.URL.Query().Get("type"))
		writeData(w, http.StatusOK, Categories{Type: "expense", Categories: []string{"Food", "Transport"}})
	})

	cats, err := c.Categories(context.Background(), "expense")
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Transport"}, cats.Categories)
}

func TestClient_Retries(t *testing.T) {
	t.Run("RetriesServerErrors", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "busy")
				return
			}
			writeData(w, http.StatusOK, []Transaction{})
		})

		_, err := c.List(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("GivesUpAfterMaxRetries", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "boom")
		})

		_, err := c.List(context.Background(), "")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("NeverRetriesClientErrors", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "amount must be positive")
		})

		_, err := c.Add(context.Background(), NewTransaction{Type: "expense", Amount: "-1"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		assert.Equal(t, "c-1", apiErr.CorrelationID)
		assert.Contains(t, apiErr.Error(), "amount must be positive")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
	t.Run("NeverResendsPostAfterDroppedConnection", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			_, _ = io.ReadAll(r.Body)
			hj, ok := w.(http.Hijacker)
			if !assert.True(t, ok) {
				return
			}
			conn, _, err := hj.Hijack()
			if assert.NoError(t, err) {
				_ = conn.Close()
			}
		})

		_, err := c.Add(context.Background(), NewTransaction{Type: "expense", Amount: "12.30", Category: "Food", Description: "Lunch"})
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("NeverResendsPostAfterServerError", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeError(w, http.StatusBadGateway, "INTERNAL_ERROR", "upstream timeout")
		})

		_, err := c.Add(context.Background(), NewTransaction{Type: "expense", Amount: "12.30", Category: "Food", Description: "Lunch"})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("RetriesDeleteAfterServerError", func(t *testing.T) {
		var calls int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 2 {
				writeError(w, http.StatusServiceUnavailable, "INTERNAL_ERROR", "busy")
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, c.Delete(context.Background(), "42"))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})
}
