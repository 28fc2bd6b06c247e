package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nais/rsacore/pkg/retry"
)

var errTransient = errors.New("transient")

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := retry.Immediate().WithMaxAttempts(5).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return retry.RetryableError(errTransient)
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retry.Immediate().WithMaxAttempts(4).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return retry.RetryableError(errTransient)
	})

	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := retry.Immediate().WithMaxAttempts(10).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.Equal(t, 1, calls)
}

func TestDoZeroAttempts(t *testing.T) {
	called := false
	err := retry.Immediate().WithMaxAttempts(0).Do(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.False(t, called)
}

func TestDoCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Immediate().WithMaxAttempts(10).Do(ctx, func(ctx context.Context) error {
		return retry.RetryableError(errTransient)
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, retry.ErrAttemptsExhausted)
}

func TestFibonacciWaitsBetweenAttempts(t *testing.T) {
	calls := 0
	start := time.Now()
	err := retry.Fibonacci(5 * time.Millisecond).WithMaxAttempts(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return retry.RetryableError(errTransient)
	})

	assert.ErrorIs(t, err, retry.ErrAttemptsExhausted)
	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}
