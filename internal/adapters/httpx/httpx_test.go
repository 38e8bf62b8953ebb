package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmsync/internal/ports"
)

func response(code int, retryAfter string) *http.Response {
	h := http.Header{}
	if retryAfter != "" {
		h.Set("Retry-After", retryAfter)
	}
	return &http.Response{StatusCode: code, Header: h, Body: io.NopCloser(strings.NewReader("details"))}
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		retry     string
		transient bool
		wantWait  time.Duration
	}{
		{name: "ok", code: 200},
		{name: "throttled", code: 429, retry: "30", transient: true, wantWait: 30 * time.Second},
		{name: "unavailable without hint", code: 503, transient: true},
		{name: "timeout", code: 408, transient: true},
		{name: "bad retry-after", code: 429, retry: "soon", transient: true},
		{name: "not found", code: 404},
		{name: "unauthorized", code: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckResponse("summary", response(tt.code, tt.retry))
			if tt.code < 300 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var transient *ports.TransientError
			assert.Equal(t, tt.transient, errors.As(err, &transient))
			if tt.transient {
				assert.Equal(t, tt.wantWait, transient.RetryAfter)
			}

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.code, statusErr.HTTPStatusCode())
			assert.Equal(t, "details", statusErr.Body)
		})
	}
}

func TestTransportError(t *testing.T) {
	err := TransportError(context.Background(), "summary", errors.New("connection reset"))
	var transient *ports.TransientError
	assert.True(t, errors.As(err, &transient))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = TransportError(ctx, "summary", context.Canceled)
	assert.False(t, errors.As(err, &transient))
	assert.ErrorIs(t, err, context.Canceled)
}
