package infra

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every external call. Calls are never retried.
const DefaultTimeout = 30 * time.Second

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// StatusError is returned for non-2xx responses from a remote API.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	side := "request rejected"
	if e.ServerSide() {
		side = "service unavailable"
	}
	return fmt.Sprintf("%s returned status %d (%s): %s", e.Service, e.StatusCode, side, e.Body)
}

// ServerSide reports whether the remote service failed rather than refusing
// the request.
func (e *StatusError) ServerSide() bool {
	return IsServerError(e.StatusCode)
}

// CheckResponse turns a non-2xx response into a *StatusError. The body is
// read (truncated) but not closed.
func CheckResponse(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Service:    service,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// IsServerError reports whether the status indicates the remote side failed
// rather than rejecting the request.
func IsServerError(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout ||
		statusCode >= 500
}
