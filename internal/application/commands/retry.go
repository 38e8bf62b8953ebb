package commands

import (
	"context"
	"errors"
	"time"

	"rtmsync/internal/application"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// RetryPolicy bounds retries of a single remote call
type RetryPolicy struct {
	MaxAttempts int
	Fallback    time.Duration // Wait used when the server gives no Retry-After
}

// DefaultRetryPolicy allows three attempts with a two minute fallback wait
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Fallback: 120 * time.Second}

// withRetry runs call until it succeeds, fails permanently or the policy is
// exhausted. Only *ports.TransientError is retried. Failures come back as
// *application.FetchError.
func withRetry[T any](
	ctx context.Context,
	policy RetryPolicy,
	sleep ports.SleepFunc,
	log *logger.Logger,
	op, id string,
	call func(ctx context.Context) (T, error),
) (T, error) {
	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var zero T
	for attempt := 1; ; attempt++ {
		res, err := call(ctx)
		if err == nil {
			return res, nil
		}

		var transient *ports.TransientError
		if !errors.As(err, &transient) || attempt >= maxAttempts {
			return zero, &application.FetchError{ID: id, Op: op, Attempts: attempt, Err: err}
		}

		wait := transient.RetryAfter
		if wait <= 0 {
			wait = policy.Fallback
		}
		log.Warn("transient failure, retrying",
			"op", op, "page_id", id, "attempt", attempt, "wait", wait.String(), "error", err)

		if err := sleep(ctx, wait); err != nil {
			return zero, &application.FetchError{ID: id, Op: op, Attempts: attempt, Err: err}
		}
	}
}
