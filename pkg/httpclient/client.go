package httpclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "movie-page-service/1.0"

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.httpClient.Timeout = d
	}
}

// WithAttempts sets how many times a request is issued before giving up
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryDelay sets the base delay of the exponential backoff
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// Client is an HTTP client with optional retry support
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
}

// NewClient creates a new HTTP client. By default every request is issued once.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		timeout:    10 * time.Second,
		attempts:   1,
		retryDelay: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch makes an HTTP GET request and returns the response body
func (c *Client) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			waitTime := c.retryDelay * time.Duration(math.Pow(2, float64(attempt-2)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(waitTime):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.Warn().
				Int("attempt", attempt).
				Err(err).
				Str("url", targetURL).
				Msg("Request failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		// Handle rate limiting
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close() // 立即关闭，避免泄漏
			lastErr = &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			log.Warn().
				Int("attempt", attempt).
				Int("status", resp.StatusCode).
				Str("url", targetURL).
				Msg("Request rate limited")
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			lastErr = &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close() // 立即关闭，不使用 defer

		if err != nil {
			lastErr = err
			continue
		}

		return body, nil
	}

	if c.attempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("all %d attempts failed: %w", c.attempts, lastErr)
}

// Attempts returns the configured number of attempts per request
func (c *Client) Attempts() int {
	return c.attempts
}

// Timeout returns the configured per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}
