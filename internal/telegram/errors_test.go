package telegram_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-telegram/bot"

	"github.com/edgard/capbot/internal/telegram"
)

func forbidden(desc string) error {
	return fmt.Errorf("%w, %s", bot.ErrorForbidden, desc)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		blocked     bool
		deactivated bool
		forbidden   bool
	}{
		{name: "nil"},
		{name: "blocked", err: forbidden("Forbidden: bot was blocked by the user"), blocked: true, forbidden: true},
		{name: "deactivated", err: forbidden("Forbidden: user is deactivated"), deactivated: true, forbidden: true},
		{name: "other forbidden", err: forbidden("Forbidden: bot can't initiate conversation with a user"), forbidden: true},
		{name: "generic", err: errors.New("connection reset by peer")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := telegram.IsBlocked(tt.err); got != tt.blocked {
				t.Errorf("IsBlocked() = %v, want %v", got, tt.blocked)
			}
			if got := telegram.IsDeactivated(tt.err); got != tt.deactivated {
				t.Errorf("IsDeactivated() = %v, want %v", got, tt.deactivated)
			}
			if got := telegram.IsForbidden(tt.err); got != tt.forbidden {
				t.Errorf("IsForbidden() = %v, want %v", got, tt.forbidden)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("edit caption: %w", &bot.TooManyRequestsError{Message: "Too Many Requests", RetryAfter: 12})
	d, ok := telegram.RetryAfter(wrapped)
	if !ok || d != 12*time.Second {
		t.Errorf("RetryAfter() = %v, %v; want 12s, true", d, ok)
	}

	if _, ok := telegram.RetryAfter(errors.New("boom")); ok {
		t.Error("RetryAfter() matched a generic error")
	}
}

func TestRetryOnce(t *testing.T) {
	t.Parallel()

	limited := &bot.TooManyRequestsError{Message: "Too Many Requests", RetryAfter: 3}

	tests := []struct {
		name      string
		results   []error
		wantCalls int
		wantSleep []time.Duration
		wantErr   bool
	}{
		{name: "success first time", results: []error{nil}, wantCalls: 1},
		{name: "generic error not retried", results: []error{errors.New("boom")}, wantCalls: 1, wantErr: true},
		{name: "rate limited then ok", results: []error{limited, nil}, wantCalls: 2, wantSleep: []time.Duration{3 * time.Second}},
		{name: "rate limited twice", results: []error{limited, limited, nil}, wantCalls: 2, wantSleep: []time.Duration{3 * time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var slept []time.Duration
			sleep := func(_ context.Context, d time.Duration) error {
				slept = append(slept, d)
				return nil
			}

			calls := 0
			err := telegram.RetryOnce(context.Background(), sleep, func(context.Context) error {
				res := tt.results[calls]
				calls++
				return res
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("RetryOnce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if fmt.Sprint(slept) != fmt.Sprint(tt.wantSleep) {
				t.Errorf("slept = %v, want %v", slept, tt.wantSleep)
			}
		})
	}
}

func TestSleep_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := telegram.Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() = %v, want context.Canceled", err)
	}
}
