// Package service is the HTTP client for the palette service.
//
// The service exposes two endpoints, both answering with a palette
// object (see palette.Response):
//
//	POST /predict        {"name": "ocean"}
//	POST /color_palette  {"color_value": "10,20,30"}
package service

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
	"unicode/utf8"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/domain"
	"nathanbeddoewebdev/swatch/internal/logging"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/retry"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	DefaultTimeout = 10 * time.Second

	// MaxNameLength is the longest name the prediction model accepts.
	MaxNameLength = palette.MaxNameLength

	maxResponseBytes = 1 << 20
)

// Client talks to the palette service.
type Client struct {
	baseURL string
	client  *http.Client
	retry   retry.Config
	logger  *slog.Logger

	inflight singleflight.Group
	sharedMu sync.Mutex
	shared   map[string]*sharedCall
}

// sharedCall is the context a coalesced request runs under. It is
// cancelled once no caller is waiting for the answer.
type sharedCall struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRetry replaces the retry policy.
func WithRetry(cfg retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the logger used for retries and failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		retry:   retry.DefaultConfig(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is a non-2xx answer from the palette service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", domain.ErrService, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", domain.ErrService, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return domain.ErrService }

// Transient reports whether the status is worth retrying.
func (e *StatusError) Transient() bool {
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ValidateName trims name and checks it is 1 to MaxNameLength characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidName)
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return "", fmt.Errorf("%w: %d characters exceeds the %d character limit", domain.ErrInvalidName, n, MaxNameLength)
	}
	return name, nil
}

// ByName asks the service to predict a color for name and build its palette.
func (c *Client) ByName(ctx context.Context, name string) (palette.Response, error) {
	name, err := ValidateName(name)
	if err != nil {
		return palette.Response{}, err
	}

	type request struct {
		Name string `json:"name"`
	}
	return c.post(ctx, "/predict", request{Name: name})
}

// ByRGB requests the palette for an RGB color.
func (c *Client) ByRGB(ctx context.Context, rgb color.RGB) (palette.Response, error) {
	if err := rgb.Validate(); err != nil {
		return palette.Response{}, err
	}

	type request struct {
		ColorValue string `json:"color_value"`
	}
	return c.post(ctx, "/color_palette", request{ColorValue: rgb.Param()})
}

// ByHex converts hex to RGB locally and requests its palette.
func (c *Client) ByHex(ctx context.Context, hex string) (palette.Response, error) {
	rgb, err := color.HexToRGB(hex)
	if err != nil {
		return palette.Response{}, err
	}
	return c.ByRGB(ctx, rgb)
}

// --- HTTP helpers ---

// post sends body as JSON to path and decodes the palette answer.
// Identical requests in flight at the same time share one round trip. Each
// caller stops waiting when its own ctx is done; the round trip itself is
// aborted when the last waiting caller leaves.
func (c *Client) post(ctx context.Context, path string, body any) (palette.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return palette.Response{}, fmt.Errorf("palette service: failed to encode request: %w", err)
	}

	key := path + " " + string(data)
	call := c.join(key)
	defer c.leave(key, call)

	ch := c.inflight.DoChan(key, func() (any, error) {
		return c.postWithRetry(call.ctx, path, data)
	})

	select {
	case <-ctx.Done():
		return palette.Response{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return palette.Response{}, res.Err
		}
		return res.Val.(palette.Response), nil
	}
}

func (c *Client) join(key string) *sharedCall {
	c.sharedMu.Lock()
	defer c.sharedMu.Unlock()

	if c.shared == nil {
		c.shared = make(map[string]*sharedCall)
	}
	call, ok := c.shared[key]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		call = &sharedCall{ctx: ctx, cancel: cancel}
		c.shared[key] = call
	}
	call.waiters++
	return call
}

func (c *Client) leave(key string, call *sharedCall) {
	c.sharedMu.Lock()
	defer c.sharedMu.Unlock()

	call.waiters--
	if call.waiters > 0 {
		return
	}
	call.cancel()
	if c.shared[key] == call {
		delete(c.shared, key)
	}
	// A later caller must not attach to the cancelled round trip.
	c.inflight.Forget(key)
}

func (c *Client) postWithRetry(ctx context.Context, path string, data []byte) (palette.Response, error) {
	cfg := c.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.logger.Warn("palette request failed, retrying",
			"path", path, "attempt", attempt, "delay", delay, "err", err)
	}

	var out palette.Response
	err := retry.Do(ctx, cfg, retry.IsRetryable, func(ctx context.Context) error {
		var err error
		out, err = c.do(ctx, path, data)
		return err
	})
	if err != nil {
		c.logger.Error("palette request failed", "path", path, "err", err)
		return palette.Response{}, err
	}
	c.logger.Debug("palette received", "path", path, "colors", out.Len())
	return out, nil
}

func (c *Client) do(ctx context.Context, path string, data []byte) (palette.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return palette.Response{}, fmt.Errorf("palette service: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return palette.Response{}, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return palette.Response{}, fmt.Errorf("%w: failed to read response: %w", domain.ErrNetwork, err)
	}

	var out palette.Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
			if len(msg) > 200 {
				msg = msg[:200]
			}
		}
		return palette.Response{}, &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return palette.Response{}, decodeErr
	}
	if out.Error != "" {
		return palette.Response{}, &StatusError{Code: resp.StatusCode, Message: out.Error}
	}
	if out.Len() == 0 {
		return palette.Response{}, fmt.Errorf("%w: response contains no colors", domain.ErrMalformedPalette)
	}
	return out, nil
}

// IsNetworkError reports whether err means the service was unreachable.
func IsNetworkError(err error) bool {
	return errors.Is(err, domain.ErrNetwork)
}
