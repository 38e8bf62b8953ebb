// Package httpx holds the HTTP error classification shared by the remote adapters.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rtmsync/internal/ports"
)

// StatusError is a non-retryable HTTP failure
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

func IsRetryableHTTPStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

// RetryAfter reads a Retry-After header given in seconds; 0 when absent or invalid
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// CheckResponse turns a failed response into *ports.TransientError or
// *StatusError. It returns nil for 2xx responses.
func CheckResponse(op string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	if IsRetryableHTTPStatus(resp.StatusCode) {
		return &ports.TransientError{
			Op:         op,
			StatusCode: resp.StatusCode,
			RetryAfter: RetryAfter(resp),
			Err:        statusErr,
		}
	}
	return statusErr
}

// TransportError wraps a failed round trip. Network failures are transient;
// a cancelled context is not.
func TransportError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &ports.TransientError{Op: op, Err: err}
}
