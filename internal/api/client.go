// Package api is the console's only doorway to the school management
// backend. Every response, whatever its shape, is normalised here into the
// console error taxonomy so no other package branches on HTTP mechanics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/ishuri/school-console/pkg/errors"
)

// TokenSource supplies the auth token attached to backend requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Hooks receives client instrumentation events. All fields are optional.
type Hooks struct {
	ObserveRequest func(method, path string, status int, duration time.Duration)
	CountFailure   func(method, path string)
}

// Client calls the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	hooks   Hooks
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches bearer tokens from the given source.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHooks wires instrumentation callbacks.
func WithHooks(hooks Hooks) Option {
	return func(c *Client) { c.hooks = hooks }
}

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a backend client for the given base URL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's common response wrapper. Some endpoints return
// the payload bare; decode tolerates both and normalises to one shape.
type envelope struct {
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.hooks.CountFailure != nil {
			c.hooks.CountFailure(method, path)
		}
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.hooks.ObserveRequest != nil {
		c.hooks.ObserveRequest(method, path, resp.StatusCode, time.Since(start))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read response")
	}

	if resp.StatusCode/100 != 2 {
		if c.hooks.CountFailure != nil {
			c.hooks.CountFailure(method, path)
		}
		return c.decodeFailure(method, path, resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return decodePayload(raw, out)
}

// decodePayload unwraps the {data: ...} envelope when present and otherwise
// treats the body as the payload itself.
func decodePayload(raw []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		raw = env.Data
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unexpected response shape")
	}
	return nil
}

func (c *Client) decodeFailure(method, path string, status int, raw []byte) error {
	var env envelope
	_ = json.Unmarshal(raw, &env)

	c.logger.Warn("backend request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("message", env.Message),
	)

	withMessage := func(base *appErrors.Error) *appErrors.Error {
		if env.Message != "" {
			return appErrors.Clone(base, env.Message)
		}
		return base
	}

	switch status {
	case http.StatusUnauthorized:
		return withMessage(appErrors.ErrUnauthorized)
	case http.StatusForbidden:
		return withMessage(appErrors.ErrForbidden)
	case http.StatusNotFound:
		return withMessage(appErrors.ErrNotFound)
	case http.StatusConflict:
		return withMessage(appErrors.ErrConflict)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		if len(env.Errors) > 0 {
			return appErrors.WithFields(withMessage(appErrors.ErrBackendValidation), env.Errors)
		}
		return withMessage(appErrors.ErrBackendValidation)
	default:
		if status >= 500 {
			return withMessage(appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("server error (%d)", status)))
		}
		return withMessage(appErrors.ErrInternal)
	}
}
