// Package upstream talks to the clinic backend over HTTP and its server-sent event streams.
package upstream

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

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"clinic-desk-backend/config"
)

var (
	// ErrNotFound is returned for HTTP 404.
	ErrNotFound = errors.New("resource not found")
	// ErrTransport covers connection failures and unexpected HTTP statuses.
	ErrTransport = errors.New("transport failure")
	// ErrRejected means the backend answered a command with a non-success code.
	ErrRejected = errors.New("request rejected by backend")
)

// Client is the HTTP client for the clinic backend's doctor endpoints.
type Client struct {
	baseURL   string
	token     string
	headers   map[string]string
	transport http.RoundTripper
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg config.UpstreamConfig) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid upstream base url %q: %w", cfg.BaseURL, err)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Warn().Err(err).Str("proxy", cfg.HTTPProxy).Msg("invalid upstream proxy url; connecting directly")
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	limit := rate.Limit(cfg.RateLimitPerSec)
	if cfg.RateLimitPerSec <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.Token,
		headers:   cfg.Headers,
		transport: transport,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, burst),
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) authHeaders() map[string]string {
	h := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		h[k] = v
	}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

// do performs one request and returns the response body. A 500 whose body still carries
// an envelope code is handed back so callers can read the business code.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrTransport, err)
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.authHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrTransport, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode == http.StatusInternalServerError && hasEnvelopeCode(respBody):
		return respBody, nil
	default:
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrTransport, method, path, resp.StatusCode)
	}
}

func hasEnvelopeCode(body []byte) bool {
	var probe struct {
		Code *int `json:"code"`
	}
	return json.Unmarshal(body, &probe) == nil && probe.Code != nil
}
