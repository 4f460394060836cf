// ABOUTME: HTTP gateway for the campus administration API
// ABOUTME: Injects the bearer token and tears the session down on 401

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoginPath is the redirect target handed to unauthorized handlers
const LoginPath = "/login"

// DefaultTimeout bounds a single request when no timeout is configured
const DefaultTimeout = 10 * time.Second

// Credentials is the part of the credential store the gateway needs
type Credentials interface {
	AccessToken() (string, bool)
	Clear() error
}

// UnauthorizedHandler receives the redirect target after a 401
type UnauthorizedHandler func(target string)

// Gateway sends every API call on behalf of the user
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	log        *slog.Logger

	mu       sync.RWMutex
	nextID   int
	handlers map[int]UnauthorizedHandler
}

// Option configures a Gateway
type Option func(*Gateway)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = c
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.log = l
	}
}

// New creates a gateway for baseURL reading tokens from creds
func New(baseURL string, creds Credentials, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		creds:    creds,
		log:      slog.Default(),
		handlers: make(map[int]UnauthorizedHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "gateway")
	return g
}

// BaseURL returns the API root the gateway talks to
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// OnUnauthorized registers fn to run after a 401 has cleared the session.
// The returned function unregisters it.
func (g *Gateway) OnUnauthorized(fn UnauthorizedHandler) (remove func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.handlers[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.handlers, id)
	}
}

// Get sends a GET request and decodes the response into out
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, http.MethodPost, path, body, out)
}

// Put sends body as JSON and decodes the response into out
func (g *Gateway) Put(ctx context.Context, path string, body, out any) error {
	return g.Do(ctx, http.MethodPut, path, body, out)
}

// Delete sends a DELETE request
func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one API call. A nil body sends no payload; a nil out discards
// the response body. Failures are returned as *Error.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := g.creds.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.Debug("api request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return &Error{Kind: KindTransport, Method: method, Path: path, Err: g.handleRequestError(ctx, err)}
	}
	defer resp.Body.Close()

	g.log.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.handleErrorResponse(method, path, resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid response from API: %w", err)
	}
	return nil
}

// Ping checks that the API answers at all. It sends no token, so it can
// never end the session; any HTTP response counts as reachable.
func (g *Gateway) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Kind: KindTransport, Method: http.MethodGet, Path: "/", Err: g.handleRequestError(ctx, err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return resp.StatusCode, nil
}

// handleRequestError converts context errors to user-friendly messages
func (g *Gateway) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", context.Canceled)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	return fmt.Errorf("cannot connect to API at %s: %w", g.baseURL, err)
}

// handleErrorResponse classifies a non-2xx response
func (g *Gateway) handleErrorResponse(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, Body: raw}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.Kind = KindUnauthorized
		g.expire()
	case StatusPasswordChangeRequired:
		apiErr.Kind = KindPasswordChangeRequired
	default:
		apiErr.Kind = KindStatus
	}
	return apiErr
}

// expire clears the credential store and notifies every handler once
func (g *Gateway) expire() {
	if err := g.creds.Clear(); err != nil {
		g.log.Warn("clear credentials after 401", "error", err)
	}
	g.log.Info("session rejected by API, redirecting", "target", LoginPath)

	g.mu.RLock()
	handlers := make([]UnauthorizedHandler, 0, len(g.handlers))
	for _, h := range g.handlers {
		handlers = append(handlers, h)
	}
	g.mu.RUnlock()

	for _, h := range handlers {
		h(LoginPath)
	}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
