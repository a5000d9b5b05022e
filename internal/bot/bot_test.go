package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestBot(components ...component) *Bot {
	return &Bot{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		components: components,
	}
}

func waitForever(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestBotRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	b := newTestBot(component{name: "a", run: waitForever}, component{name: "b", run: waitForever})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestBotRunComponentFailureStopsOthers(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	b := newTestBot(
		component{name: "waiter", run: waitForever},
		component{name: "failing", run: func(context.Context) error { return boom }},
	)

	err := b.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}
