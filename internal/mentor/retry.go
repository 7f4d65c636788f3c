package mentor

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// retryProvider decorates a Provider with exponential backoff and jitter
// for transient errors.
type retryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &retryProvider{inner: p, cfg: cfg}
}

func (r *retryProvider) Advise(ctx context.Context, prompt Prompt) (*Reply, error) {
	var lastErr error

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		reply, err := r.inner.Advise(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !retryableProviderErr(err) {
			return nil, err
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return nil, lastErr
}

func (r *retryProvider) ModelID() string {
	return r.inner.ModelID()
}

func retryableProviderErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rateLimit *ErrRateLimit
	var unavailable *ErrProviderUnavailable
	return errors.As(err, &rateLimit) || errors.As(err, &unavailable)
}

// backoff computes the wait before the next attempt: exponential with
// full jitter, capped at MaxWait.
func (r *retryProvider) backoff(attempt int) time.Duration {
	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	if limit := float64(r.cfg.MaxWait); wait > limit {
		wait = limit
	}
	return time.Duration(rand.Float64() * wait)
}
