// Package api is the gateway to the publishing platform's REST backend.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a Client.
type Options struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        Doer
	Logger            *slog.Logger
}

// Client issues authenticated JSON requests against the backend.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    Doer
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a Client. BaseURL must be an absolute http(s) URL.
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.Token,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c, nil
}

// request describes one call to the backend.
type request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Fallback string
}

// send performs the request and returns the raw body of a 2xx response.
// Every failure is returned as an *Error, except context cancellation.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, canceledOr(parent, err)
		}
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			"method", r.Method, "path", r.Path, "request_id", requestID, "error", err)
		return nil, canceledOr(parent, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, canceledOr(parent, err)
	}

	c.logger.Debug("api request",
		"method", r.Method, "path", r.Path, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errorFromResponse(resp.StatusCode, data, r.Fallback)
		if apiErr.Kind != KindNotFound {
			c.logger.Warn("api error response",
				"method", r.Method, "path", r.Path, "status", resp.StatusCode,
				"message", apiErr.Message, "request_id", requestID)
		}
		return nil, apiErr
	}
	return data, nil
}

// canceledOr returns the caller's cancellation untouched and reports
// anything else, including our own timeout, as a network error.
func canceledOr(parent context.Context, err error) error {
	if ctxErr := parent.Err(); ctxErr != nil {
		return ctxErr
	}
	return networkError(err)
}

// decode unmarshals a success body. Malformed bodies are network errors:
// the server answered, but not with anything usable.
func decode(data []byte, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindNetwork, Message: "Unexpected response from server", Err: err}
	}
	return nil
}

// TokenExpiry reports the expiry of the configured bearer token. The token
// is decoded without verification; the backend remains the authority.
func (c *Client) TokenExpiry() (time.Time, bool) {
	if c.token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
