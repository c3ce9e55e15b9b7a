// Package retry retries transient upstream fetch failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/amishk599/boardsync/internal/model"
)

// RetryFetcher is a decorator that retries transient failures with exponential
// backoff and jitter before giving up.
type RetryFetcher struct {
	inner      model.Fetcher
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a Fetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is doubled on each retry. A Retry-After longer than maxDelay is
// not waited out: the error is returned so the run budget is not spent sleeping.
func NewRetryFetcher(inner model.Fetcher, maxRetries int, baseDelay, maxDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		logger:     logger,
	}
}

// Fetch fetches url, retrying on 429, 5xx and network errors.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.inner.Fetch(ctx, url)
	if err == nil {
		return body, nil
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if !isRetryable(ctx, lastErr) {
			return nil, lastErr
		}
		delay := f.backoffDelay(attempt, lastErr)
		if f.maxDelay > 0 && delay > f.maxDelay {
			return nil, lastErr
		}

		f.logger.Warn("retrying after transient error",
			"url", url,
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		body, err = f.inner.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After from the server takes precedence.
func (f *RetryFetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	// Exponential: baseDelay * 2^(attempt-1)
	delay := f.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient failure worth retrying.
// A per-call timeout is retryable while the caller's context is still live.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, model.ErrMalformedPayload) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	// Network, DNS and timeout errors.
	return true
}
