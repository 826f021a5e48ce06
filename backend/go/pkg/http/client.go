package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"NEF_Emulator/backend/go/pkg/circuitbreaker"
)

// Client wraps the standard http.Client and optionally guards every call
// with a circuit breaker.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithBreaker guards requests with b. Transport errors and 5xx responses count as failures.
func WithBreaker(b circuitbreaker.CircuitBreaker) ClientOption {
	return func(c *Client) {
		c.breaker = b
	}
}

// NewClient creates a Client with a 30s timeout and no breaker.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{httpClient: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// serverError marks a 5xx response so the breaker records a failure
// while the caller still receives the response.
type serverError struct {
	status int
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error: received status code %d", e.status)
}

// Do executes an HTTP request. 5xx responses are returned to the caller as-is;
// an open circuit yields circuitbreaker.ErrCircuitOpen without touching the network.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	var resp *http.Response
	_, err := c.breaker.Execute(func() (interface{}, error) {
		var doErr error
		resp, doErr = c.httpClient.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &serverError{status: resp.StatusCode}
		}
		return resp, nil
	})

	var se *serverError
	if errors.As(err, &se) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
