package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

var ErrAttemptsExhausted = errors.New("attempts exhausted")

type Backoff struct {
	next        retry.Backoff
	maxAttempts uint64
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// RetryableError marks err as worth another attempt.
func RetryableError(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// Immediate retries without waiting. Meant for CPU-bound searches that redraw random values.
func Immediate() Backoff {
	return Backoff{
		next: retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		}),
		maxAttempts: 1,
	}
}

func Fibonacci(base time.Duration) Backoff {
	return Backoff{
		next:        retry.NewFibonacci(base),
		maxAttempts: 1,
	}
}

// WithMaxAttempts bounds the total number of calls, the first one included.
func (b Backoff) WithMaxAttempts(attempts uint64) Backoff {
	b.maxAttempts = attempts
	return b
}

// Do calls fn until it succeeds, returns an error not marked with RetryableError, or the attempts run out.
// Running out of attempts returns ErrAttemptsExhausted together with the last error.
func (b Backoff) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if b.maxAttempts == 0 {
		return ErrAttemptsExhausted
	}

	lastRetryable := false
	err := retry.Do(ctx, retry.WithMaxRetries(b.maxAttempts-1, b.next), func(ctx context.Context) error {
		err := fn(ctx)

		var rerr *retryableError
		lastRetryable = errors.As(err, &rerr)
		if lastRetryable {
			return retry.RetryableError(rerr.err)
		}
		return err
	})

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	case lastRetryable:
		return fmt.Errorf("%w: %w", ErrAttemptsExhausted, err)
	default:
		return err
	}
}
