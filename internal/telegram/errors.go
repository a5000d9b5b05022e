package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-telegram/bot"
)

// Descriptions Telegram attaches to 403 responses for unreachable users.
const (
	descBlocked     = "bot was blocked by the user"
	descDeactivated = "user is deactivated"
)

// IsBlocked reports whether err means the recipient blocked the bot.
func IsBlocked(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), descBlocked)
}

// IsDeactivated reports whether err means the recipient account was deleted.
func IsDeactivated(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), descDeactivated)
}

// IsForbidden reports a 403 of any kind.
func IsForbidden(err error) bool {
	return errors.Is(err, bot.ErrorForbidden)
}

// RetryAfter extracts the wait period from a 429 response.
func RetryAfter(err error) (time.Duration, bool) {
	var tooMany *bot.TooManyRequestsError
	if errors.As(err, &tooMany) {
		return time.Duration(tooMany.RetryAfter) * time.Second, true
	}
	return 0, false
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the wall-clock SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryOnce calls fn and, if Telegram asks to slow down, sleeps for the
// requested period and calls fn exactly one more time.
func RetryOnce(ctx context.Context, sleep SleepFunc, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	wait, ok := RetryAfter(err)
	if !ok {
		return err
	}
	if sleep == nil {
		sleep = Sleep
	}
	if sleepErr := sleep(ctx, wait); sleepErr != nil {
		return sleepErr
	}
	return fn(ctx)
}
