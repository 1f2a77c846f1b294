package retry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/amishk599/resumefit/internal/model"
)

// Ensure RetryFetcher implements model.ReportFetcher.
var _ model.ReportFetcher = (*RetryFetcher)(nil)

// RetryFetcher is a decorator that retries transient report download
// failures with exponential backoff and jitter. Each attempt is buffered,
// so w only ever receives one complete body.
type RetryFetcher struct {
	inner      model.ReportFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps a ReportFetcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryFetcher(inner model.ReportFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchReport downloads url into w, retrying on transient errors.
func (f *RetryFetcher) FetchReport(ctx context.Context, url string, w io.Writer) (int64, error) {
	var buf bytes.Buffer
	_, err := f.inner.FetchReport(ctx, url, &buf)
	if err == nil {
		return io.Copy(w, &buf)
	}

	if !isRetryable(err) {
		return 0, err
	}

	lastErr := err
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		delay := f.backoffDelay(attempt, lastErr)

		f.logger.Warn("retrying report download after transient error",
			"url", url,
			"attempt", attempt,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		buf.Reset()
		_, err = f.inner.FetchReport(ctx, url, &buf)
		if err == nil {
			return io.Copy(w, &buf)
		}

		if !isRetryable(err) {
			return 0, err
		}
		lastErr = err
	}

	return 0, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error includes a Retry-After duration (HTTP 429), that takes precedence.
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
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429): the report does not exist or was rejected.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) are retryable.
	return true
}
