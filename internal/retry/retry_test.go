package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amishk599/boardsync/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockFetcher calls a function on each invocation, tracking call count.
type mockFetcher struct {
	calls int
	fn    func(attempt int) ([]byte, error)
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	m.calls++
	return m.fn(m.calls)
}

const boardURL = "https://api.lever.co/v0/postings/acme?mode=json"

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return []byte(`[]`), nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, time.Second, discardLogger())
	got, err := rf.Fetch(context.Background(), boardURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("unexpected body: %s", got)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_RetriesOn5xx_SucceedsOnSecondAttempt(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]byte, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("service unavailable")}
		}
		return []byte(`[]`), nil
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, time.Second, discardLogger())
	if _, err := rf.Fetch(context.Background(), boardURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryOn4xx(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return nil, &model.HTTPError{StatusCode: 404, Err: errors.New("not found")}
	}}

	rf := NewRetryFetcher(mock, 2, 10*time.Millisecond, time.Second, discardLogger())
	_, err := rf.Fetch(context.Background(), boardURL)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 404 {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.calls)
	}
}

func TestRetry_DoesNotRetryMalformedPayload(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return nil, fmt.Errorf("fetch: %w", model.ErrMalformedPayload)
	}}

	rf := NewRetryFetcher(mock, 3, time.Millisecond, time.Second, discardLogger())
	if _, err := rf.Fetch(context.Background(), boardURL); !errors.Is(err, model.ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected 1 call, got %d", mock.calls)
	}
}

func TestRetry_ExhaustsRetries(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return nil, errors.New("connection refused")
	}}

	rf := NewRetryFetcher(mock, 2, time.Millisecond, time.Second, discardLogger())
	if _, err := rf.Fetch(context.Background(), boardURL); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if mock.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", mock.calls)
	}
}

func TestRetry_HonorsRetryAfter(t *testing.T) {
	mock := &mockFetcher{fn: func(attempt int) ([]byte, error) {
		if attempt == 1 {
			return nil, &model.HTTPError{StatusCode: 429, RetryAfter: 50 * time.Millisecond}
		}
		return []byte(`[]`), nil
	}}

	rf := NewRetryFetcher(mock, 1, time.Millisecond, time.Second, discardLogger())
	start := time.Now()
	if _, err := rf.Fetch(context.Background(), boardURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("expected to wait for Retry-After, waited %v", elapsed)
	}
}

func TestRetry_GivesUpOnLongRetryAfter(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return nil, &model.HTTPError{StatusCode: 429, RetryAfter: time.Hour}
	}}

	rf := NewRetryFetcher(mock, 2, time.Millisecond, time.Second, discardLogger())
	if _, err := rf.Fetch(context.Background(), boardURL); err == nil {
		t.Fatal("expected error")
	}
	if mock.calls != 1 {
		t.Fatalf("expected no retry for an hour-long Retry-After, got %d calls", mock.calls)
	}
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	mock := &mockFetcher{fn: func(_ int) ([]byte, error) {
		return nil, &model.HTTPError{StatusCode: 500}
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rf := NewRetryFetcher(mock, 5, 200*time.Millisecond, time.Second, discardLogger())
	if _, err := rf.Fetch(ctx, boardURL); err == nil {
		t.Fatal("expected error")
	}
	if mock.calls > 2 {
		t.Errorf("expected retries to stop on cancellation, got %d calls", mock.calls)
	}
}
