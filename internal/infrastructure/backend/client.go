// Package backend holds the stateless HTTP clients for the inventory
// backend REST API. The portal owns no data: every entity read or write
// goes through these clients, with the session's bearer token attached.
package backend

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
	"time"

	"github.com/rs/zerolog"

	"github.com/carstock/admin-portal/internal/api/metrics"
	"github.com/carstock/admin-portal/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Client is the shared transport under the per-resource API wrappers.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a transport for the given base URL, e.g.
// "http://localhost:3000/api/v1". A non-positive timeout falls back to
// defaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// do issues one JSON request. op labels the backend_requests_total
// metric; token may be empty for unauthenticated calls; in/out may be
// nil. Non-2xx statuses are mapped onto the domain sentinel errors with
// the backend's own message attached when it sent one.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		return fmt.Errorf("%w: %s: %v", domain.ErrBackend, op, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(op, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
	}
	return nil
}

// errorBody covers the two envelope shapes the backend uses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// APIError carries the backend's HTTP status and message for one failed
// call. It unwraps to a domain sentinel so callers can errors.Is on it.
type APIError struct {
	Op      string
	Status  int
	Message string

	sentinel error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error { return e.sentinel }

// UserMessage returns the backend-supplied message carried by err, or
// fallback when err has none. Used by the login form, which shows the
// backend's own rejection text.
func UserMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

func (c *Client) statusError(op string, resp *http.Response) error {
	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)
	msg := eb.Error
	if msg == "" {
		msg = eb.Message
	}

	c.logger.Debug().Str("op", op).Int("status", resp.StatusCode).Str("message", msg).Msg("backend error response")

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = domain.ErrUnauthenticated
	case http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	default:
		sentinel = domain.ErrBackend
	}

	return &APIError{Op: op, Status: resp.StatusCode, Message: msg, sentinel: sentinel}
}
