package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/lucasrodor/projeto-financeiro/pkg/config"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// Client is an HTTP client wrapper with logging and optional rate limiting.
// Nothing is retried: a failed provider call surfaces to the user as is.
// ⭐ SSOT: toda requisição HTTP de saída passa por este cliente
type Client struct {
	httpClient *http.Client
	logger     *logger.Logger
	limiter    *rate.Limiter
	headers    http.Header
}

// New creates a new HTTP client from config
func New(cfg *config.Config, log *logger.Logger) *Client {
	timeout := cfg.LabFin.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
		headers:    make(http.Header),
	}

	if cfg.LabFin.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.LabFin.RateLimit), cfg.LabFin.RateLimit)
	}

	return c
}

// WithHeader sets a header sent on every request (e.g. Authorization)
func (c *Client) WithHeader(key, value string) *Client {
	c.headers.Set(key, value)
	return c
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.do(req)
}

// GetWithQuery performs a GET request with the given query parameters
func (c *Client) GetWithQuery(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	return c.Get(ctx, rawURL)
}

// do executes the request with rate limiting and logging
func (c *Client) do(req *http.Request) (*http.Response, error) {
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	startTime := time.Now()
	reqURL := redactedURL(req.URL)
	method := req.Method

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    reqURL,
	}).Debug("HTTP request started")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      reqURL,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         reqURL,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

// redactedURL drops the query string from logged URLs
func redactedURL(u *url.URL) string {
	clone := *u
	clone.RawQuery = ""
	return clone.String()
}
