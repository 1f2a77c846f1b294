package retry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/resumefit/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int, w io.Writer) error
}

func (m *mockFetcher) FetchReport(_ context.Context, _ string, w io.Writer) (int64, error) {
	m.calls++
	return 0, m.fn(m.calls, w)
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int, w io.Writer) error {
		_, err := w.Write([]byte("%PDF"))
		return err
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	var out bytes.Buffer
	n, err := rf.FetchReport(context.Background(), "http://h/download/r.pdf", &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 || out.String() != "%PDF" {
		t.Fatalf("got %d bytes %q", n, out.String())
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_DiscardsPartialBody(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int, w io.Writer) error {
		if attempt == 1 {
			w.Write([]byte("partial"))
			return &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		_, err := w.Write([]byte("complete"))
		return err
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	var out bytes.Buffer
	if _, err := rf.FetchReport(context.Background(), "u", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "complete" {
		t.Fatalf("body = %q, want only the successful attempt", out.String())
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockFetcher{fn: func(int, io.Writer) error {
		return &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	_, err := rf.FetchReport(context.Background(), "u", io.Discard)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected HTTPError with status 404, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(int, io.Writer) error {
		return &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, discardLogger())
	if _, err := rf.FetchReport(context.Background(), "u", io.Discard); err == nil {
		t.Fatal("expected error after max retries, got nil")
	}
	// 1 initial + 2 retries = 3
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_ZeroRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(int, io.Writer) error {
		return errors.New("connection reset")
	}}

	rf := NewRetryFetcher(mock, 0, 10*time.Millisecond, discardLogger())
	if _, err := rf.FetchReport(context.Background(), "u", io.Discard); err == nil {
		t.Fatal("expected error, got nil")
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(int, io.Writer) error {
		return &model.HTTPError{StatusCode: 500, Err: errors.New("internal error")}
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rf := NewRetryFetcher(mock, 2, time.Second, discardLogger())
	_, err := rf.FetchReport(ctx, "u", io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call before cancellation, got %d", mock.calls)
	}
}

func TestBackoffDelay_PrefersRetryAfter(t *testing.T) {
	rf := NewRetryFetcher(nil, 2, time.Second, discardLogger())
	err := &model.HTTPError{StatusCode: 429, RetryAfter: 7 * time.Second}
	if d := rf.backoffDelay(1, err); d != 7*time.Second {
		t.Errorf("backoffDelay = %v, want 7s", d)
	}
	d := rf.backoffDelay(2, errors.New("net"))
	if d < 1400*time.Millisecond || d > 2600*time.Millisecond {
		t.Errorf("backoffDelay(2) = %v, want 2s ±30%%", d)
	}
}
