package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// APIError is a non-2xx answer from the gateway
type APIError struct {
	StatusCode    int
	Code          string
	Message       string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the gateway
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the ledger gateway's /api/v1 endpoints.
// Transport errors and 5xx answers are retried for idempotent methods only.
// A failed POST may already have been applied, so it is never resent.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackOff sets the retry policy. f is called once per request.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = f }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 3)
}

// Summary fetches balance and totals. recent < 0 leaves the server default.
func (c *Client) Summary(ctx context.Context, recent int) (*Summary, error) {
	q := url.Values{}
	if recent >= 0 {
		q.Set("recent", strconv.Itoa(recent))
	}
	var s Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/summary", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns transactions newest first. filter is "", "all", "income" or "expense".
func (c *Client) List(ctx context.Context, filter string) ([]Transaction, error) {
	var txs []Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions", filterQuery(filter), nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) Grouped(ctx context.Context, filter string) ([]DateGroup, error) {
	var groups []DateGroup
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions/grouped", filterQuery(filter), nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodGet, "/api/v1/transactions/"+url.PathEscape(id), nil, nil, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (c *Client) Add(ctx context.Context, req NewTransaction) (*Transaction, error) {
	var tx Transaction
	if err := c.do(ctx, http.MethodPost, "/api/v1/transactions", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Delete succeeds whether or not the transaction existed
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/transactions/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) Categories(ctx context.Context, txType string) (*Categories, error) {
	var cats Categories
	q := url.Values{"type": []string{txType}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", q, nil, &cats); err != nil {
		return nil, err
	}
	return &cats, nil
}

func filterQuery(filter string) url.Values {
	if filter == "" {
		return nil
	}
	return url.Values{"type": []string{filter}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	target := *c.baseURL
	target.Path += path
	target.RawQuery = query.Encode()

	retryable := method != http.MethodPost
	giveUp := func(err error) error {
		if retryable {
			return err
		}
		return backoff.Permanent(err)
	}

	var env envelope
	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return giveUp(err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return giveUp(err)
		}

		env = envelope{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
				return backoff.Permanent(fmt.Errorf("decode response: %w", err))
			}
		}

		if resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode, CorrelationID: env.CorrelationID}
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			}
			if resp.StatusCode >= 500 {
				return giveUp(apiErr)
			}
			return backoff.Permanent(apiErr)
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		return err
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
