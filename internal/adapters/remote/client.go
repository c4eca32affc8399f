// Package remote is a client for the tasting backend: authentication,
// tasting upload, statistics, rankings, tasting sessions and user
// administration. The bearer token and the current user are kept in a
// kv.Store under the auth-token and current-user keys.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tasting/internal/adapters/kv"
	"github.com/okian/tasting/pkg/logger"
	"github.com/okian/tasting/pkg/metrics"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:3000/api"
	defaultTimeout = 10 * time.Second

	TokenKey = "auth-token"
	UserKey  = "current-user"

	headerRequestID = "X-Request-ID"
)

// Envelope is the body shape of every backend answer.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Decode unmarshals Data into v. A missing payload leaves v untouched.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Page selects a page of a listing endpoint.
type Page struct {
	Page  int
	Limit int
}

func (p Page) query(defaultLimit int) url.Values {
	q := url.Values{}
	page, limit := p.Page, p.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	q.Set("page", fmt.Sprint(page))
	q.Set("limit", fmt.Sprint(limit))
	return q
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the API base, e.g. "https://host/api".
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the time source used for cache busting and token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client talks to the backend one request at a time. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	store   kv.Store
	logger  logger.Logger
	now     func() time.Time
}

// New creates a client persisting its credentials in store.
func New(store kv.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("remote")
	}
	return c
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string { return c.baseURL }

// call describes one backend request. name labels metrics and logs.
type call struct {
	name   string
	method string
	path   string
	query  url.Values
	body   any
}

// do sends the request and returns the decoded envelope. A 401 answer
// clears the stored credentials before the error is returned.
func (c *Client) do(ctx context.Context, cl call) (*Envelope, error) {
	start := time.Now()
	env, err := c.send(ctx, cl)
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrAuthExpired):
		outcome = "auth_expired"
	default:
		outcome = "error"
	}
	metrics.RecordRemoteRequest(cl.name, outcome, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		c.logger.Warn(ctx, "remote request failed",
			logger.String("endpoint", cl.name),
			logger.String("method", cl.method),
			logger.Error(err))
	}
	return env, err
}

func (c *Client) send(ctx context.Context, cl call) (*Envelope, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("remote: encode %s: %w", cl.name, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("remote: build %s: %w", cl.name, err)
	}
	if err := c.setHeaders(ctx, req); err != nil {
		return nil, err
	}

	c.logger.Debug(ctx, "remote request",
		logger.String("endpoint", cl.name),
		logger.String("method", cl.method),
		logger.String("requestID", req.Header.Get(headerRequestID)))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %s: %w", cl.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return c.handleResponse(ctx, resp)
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) handleResponse(ctx context.Context, resp *http.Response) (*Envelope, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: read body: %w", err)
	}
	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, decodeErr)
		}
		return &env, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.Logout(ctx); err != nil {
			c.logger.Warn(ctx, "failed to clear credentials", logger.Error(err))
		}
		return nil, &Error{Status: resp.StatusCode, Message: msgSessionExpired}
	}

	msg := env.Message
	if decodeErr != nil || msg == "" {
		msg = msgServerError
	}
	return nil, &Error{Status: resp.StatusCode, Message: msg}
}
