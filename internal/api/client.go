package api

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
	"github.com/sethvargo/go-retry"

	"github.com/nutriscan/nutriscan/internal/logging"
)

// TokenSource supplies the current bearer token. An empty string means the
// request goes out unauthenticated (the backend will reject protected
// endpoints on its own).
type TokenSource interface {
	CurrentToken() string
}

// StaticToken is a fixed-token TokenSource, mostly useful in tests.
type StaticToken string

func (t StaticToken) CurrentToken() string { return string(t) }

// Client talks to the NutriScan backend. All methods honor context
// cancellation and apply the configured per-request timeout.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	log           logging.Logger
	timeout       time.Duration
	retryAttempts uint64
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }

func WithLogger(l logging.Logger) Option { return func(c *Client) { c.log = l } }

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithRetryAttempts sets how many times an idempotent read is retried after
// the first failure. Mutations are never retried regardless of this value.
func WithRetryAttempts(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryAttempts = uint64(n)
		}
	}
}

// New returns a Client for the given backend base URL (".../api", no
// trailing slash required).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		log:           logging.Nop(),
		timeout:       15 * time.Second,
		retryAttempts: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's uniform response wrapper. Endpoints that inline
// payload fields next to success (journal, statistics) decode into their own
// response structs instead.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// getJSON performs a GET with retry and decodes the raw body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewFibonacci(200*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.roundTrip(ctx, http.MethodGet, path, query, nil, "", out)
		// Only transport-level unavailability is worth retrying; auth,
		// validation and not-found outcomes are stable.
		if err != nil && isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// postJSON / putJSON / deleteJSON perform a single attempt, no retry.
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	return c.writeJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body any, out any) error {
	return c.writeJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.roundTrip(ctx, http.MethodDelete, path, nil, nil, "", out)
}

func (c *Client) writeJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.roundTrip(ctx, method, path, nil, reader, "application/json", out)
}

// postMultipart sends a prepared multipart body (meal image upload).
func (c *Client) postMultipart(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	return c.roundTrip(ctx, http.MethodPost, path, nil, body, contentType, out)
}

// roundTrip performs one HTTP exchange and decodes the response into out.
// Non-2xx statuses and transport failures are mapped to the package's error
// taxonomy; the raw body is never surfaced to callers.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.CurrentToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if err := c.mapStatus(resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts a non-2xx response into the error taxonomy.
func (c *Client) mapStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var env envelope
	_ = json.Unmarshal(body, &env)
	msg := env.Message
	if msg == "" {
		msg = env.Error
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: msg, Fields: env.Errors}
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return &APIError{Status: status, Message: msg}
	}
}

// decodeData unwraps the envelope's data field into out, converting
// success:false into an error even on a 2xx status.
func decodeData(body *envelope, out any) error {
	if !body.Success {
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return &APIError{Status: http.StatusOK, Message: msg}
	}
	if out == nil || len(body.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(body.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
