// Package client talks to a running panel over its JSON API. The CLI
// list and delete commands use it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"minimarket/dispatcher"

	"github.com/cenkalti/backoff/v4"
)

type Option func(*Client)

// WithToken sends token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets how often idempotent requests are retried on network
// errors and 5xx answers, starting at initial and backing off
// exponentially.
func WithRetries(n uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.initial = initial
	}
}

type Client struct {
	base    string
	token   string
	http    *http.Client
	retries uint64
	initial time.Duration
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		retries: 3,
		initial: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer. Message is the envelope message when
// the body had one.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Body)
}

// Response is the envelope of write operations.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ID        any    `json:"id,omitempty"`
}

func (c *Client) List(ctx context.Context, module string, p dispatcher.ListParams) (dispatcher.Page, error) {
	q := url.Values{"module": {module}}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset != nil {
		q.Set("offset", strconv.Itoa(*p.Offset))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}

	var page dispatcher.Page
	err := c.do(ctx, http.MethodGet, "/router", q, nil, true, &page)
	return page, err
}

// Create is never retried: a lost answer may still have inserted the row.
func (c *Client) Create(ctx context.Context, module string, payload map[string]any) (Response, error) {
	var r Response
	err := c.do(ctx, http.MethodPost, "/router", url.Values{"module": {module}}, payload, false, &r)
	return r, err
}

func (c *Client) Update(ctx context.Context, module string, id int64, payload map[string]any) (Response, error) {
	var r Response
	err := c.do(ctx, http.MethodPut, "/router", idQuery(module, id), payload, true, &r)
	return r, err
}

func (c *Client) Delete(ctx context.Context, module string, id int64) (Response, error) {
	var r Response
	err := c.do(ctx, http.MethodDelete, "/router", idQuery(module, id), nil, true, &r)
	return r, err
}

// Configuration returns the descriptor document as served.
func (c *Client) Configuration(ctx context.Context) (json.RawMessage, error) {
	var doc json.RawMessage
	err := c.do(ctx, http.MethodGet, "/configuration", nil, nil, true, &doc)
	return doc, err
}

func idQuery(module string, id int64) url.Values {
	return url.Values{"module": {module}, "id": {strconv.FormatInt(id, 10)}}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body any, retry bool, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
			var env Response
			if json.Unmarshal(raw, &env) == nil {
				apiErr.Message = env.Message
			}
			if resp.StatusCode >= http.StatusInternalServerError {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decoding %s %s: %w", method, path, err))
		}
		return nil
	}

	retries := c.retries
	if !retry {
		retries = 0
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initial
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(eb, retries), ctx))
}
