// Package shopapi is the typed REST client for the storefront backend. Every call carries the
// session cookie through the client's cookie jar and a fresh X-Request-Id header.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/google/uuid"
)

const (
	defaultBaseURL            = "http://localhost:5555"
	defaultTimeout            = 10 * time.Second
	errorBodyReadLimit  int64 = 4096
	RequestIDHeader           = "X-Request-Id"
	outcomeOK                 = "ok"
	outcomeAPIError           = "api_error"
	outcomeNetworkError       = "network_error"
)

// errUnreadableBody marks a 2xx response whose body could not be decoded. The backend
// accepted the request, so callers decide whether the missing payload matters.
var errUnreadableBody = errors.New("unreadable response body")

// Client talks to the storefront backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
	metrics    *metrics.APIMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The client is copied, so later
// options never touch the caller's value. A client without a jar gets one.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			cp := *client
			c.httpClient = &cp
		}
	}
}

// WithBaseURL overrides the backend base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithCookieJar replaces the in-memory jar, e.g. with a PersistentJar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		if jar != nil {
			c.httpClient.Jar = jar
		}
	}
}

// NewClient builds a client with an in-memory cookie jar.
func NewClient(opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout, Jar: jar},
		baseURL:    defaultBaseURL,
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient.Jar == nil {
		client.httpClient.Jar = jar
	}
	client.baseURL = strings.TrimRight(client.baseURL, "/")
	return client
}

// BaseURL returns the backend root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one backend request. fallback is the message used when a failed
// response carries no error text.
type call struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	fallback  string
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "storefront api client not configured")
	}

	endpoint := c.buildURL(req.path)
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.operation+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.operation+" request")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logCtx := c.logg.WithOperation(c.logg.WithRequestID(ctx, requestID), req.operation)
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"method": req.method,
		"path":   req.path,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.Observe(req.operation, outcomeNetworkError, time.Since(start))
		c.logg.Debug(c.logg.WithField(logCtx, "error", err.Error()), "storefront api call failed")
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "could not reach the storefront api")
	}
	defer func() { _ = resp.Body.Close() }()

	elapsed := time.Since(start)
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"status":      resp.StatusCode,
		"duration_ms": elapsed.Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.Observe(req.operation, outcomeAPIError, elapsed)
		c.logg.Debug(logCtx, "storefront api call rejected")
		return statusError(resp, req.fallback)
	}

	c.metrics.Observe(req.operation, outcomeOK, elapsed)
	c.logg.Debug(logCtx, "storefront api call completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "storefront api response body unreadable")
		return pkgerrors.Wrap(pkgerrors.CodeAPI, fmt.Errorf("%w: %v", errUnreadableBody, err), "Unexpected response from the storefront api")
	}
	return nil
}

// statusError maps a non-2xx response to a typed error carrying the server's message.
func statusError(resp *http.Response, fallback string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := ""
	var payload types.ErrorBody
	if err := json.Unmarshal(raw, &payload); err == nil {
		message = strings.TrimSpace(payload.Text())
	}
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	code := pkgerrors.CodeAPI
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		code = pkgerrors.CodeNotAuthenticated
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	}
	return pkgerrors.New(code, message).WithDetails(map[string]any{"status": resp.StatusCode})
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
