// Package bot orchestrates the bot's long-running components: the Telegram
// update listener, the task scheduler and the metrics server.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"

	"github.com/edgard/capbot/internal/server"
)

// component is one long-running piece of the bot. run blocks until ctx is
// done or the component fails.
type component struct {
	name string
	run  func(ctx context.Context) error
}

// Bot owns the lifecycle of every component.
type Bot struct {
	logger     *slog.Logger
	components []component
}

// NewBot wires the listener, the scheduler and, when srv is non-nil, the
// metrics server.
func NewBot(logger *slog.Logger, tgBot *tgbot.Bot, scheduler *Scheduler, srv *server.Server) *Bot {
	b := &Bot{logger: logger.With("component", "bot_orchestrator")}

	b.components = append(b.components,
		component{name: "telegram_listener", run: listen(tgBot)},
		component{name: "scheduler", run: scheduler.runUntilDone},
	)
	if srv != nil {
		b.components = append(b.components, component{name: "metrics_server", run: srv.Run})
	}
	return b
}

// listen runs the long-polling loop. Returning before ctx is done means
// the listener died on its own.
func listen(tgBot *tgbot.Bot) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		tgBot.Start(ctx)
		if ctx.Err() == nil {
			return errors.New("telegram listener stopped unexpectedly")
		}
		return nil
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails, in which case the rest are stopped too.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...", "components", len(b.components))

	g, gCtx := errgroup.WithContext(ctx)
	for _, c := range b.components {
		g.Go(func() error {
			log := b.logger.With("name", c.name)
			log.Info("Starting component")
			if err := c.run(gCtx); err != nil {
				log.Error("Component failed", "error", err)
				return fmt.Errorf("%s: %w", c.name, err)
			}
			log.Info("Component stopped")
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
