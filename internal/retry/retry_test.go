package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"
)

type testNetError struct {
	timeout bool
}

func (e testNetError) Error() string   { return "net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return false }

type testTransient bool

func (e testTransient) Error() string   { return "status error" }
func (e testTransient) Transient() bool { return bool(e) }

func TestDo_RetriesOnRetryableError(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func(context.Context) error {
		attempts++
		return testNetError{timeout: true}
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_NoRetryOnNonRetryable(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func(context.Context) error {
		attempts++
		return errors.New("boom")
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Config{MaxAttempts: 3}, IsRetryable, func(context.Context) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("wrapped: %w", testTransient(true))
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDo_OnRetryCalledBetweenAttempts(t *testing.T) {
	var calls []int
	cfg := Config{
		MaxAttempts: 3,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			calls = append(calls, attempt)
		},
	}
	_ = Do(context.Background(), cfg, IsRetryable, func(context.Context) error {
		return testNetError{timeout: true}
	})

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("expected OnRetry for attempts [1 2], got %v", calls)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, Config{MaxAttempts: 3}, IsRetryable, func(context.Context) error {
		attempts++
		return testNetError{timeout: true}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected 0 attempts, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"transient status", testTransient(true), true},
		{"permanent status", testTransient(false), false},
		{"timeout", testNetError{timeout: true}, true},
		{"dial refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoffDelay_NoBaseDelay(t *testing.T) {
	if delay := backoffDelay(0, time.Second, 1); delay != 0 {
		t.Fatalf("expected zero delay, got %v", delay)
	}
}

func TestBackoffDelay_CappedAtMax(t *testing.T) {
	for attempt := 1; attempt <= 10; attempt++ {
		if delay := backoffDelay(100*time.Millisecond, 500*time.Millisecond, attempt); delay > 500*time.Millisecond {
			t.Fatalf("attempt %d: delay %v exceeds max", attempt, delay)
		}
	}
}
