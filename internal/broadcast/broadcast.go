// Package broadcast relays a message to every registered user, pruning
// recipients Telegram reports as permanently unreachable.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/edgard/capbot/internal/telegram"
)

// DefaultProgressEvery is how many successful sends pass between progress reports.
const DefaultProgressEvery = 10

// ErrAlreadyRunning is returned when a broadcast is started while another is in flight.
var ErrAlreadyRunning = errors.New("broadcast already in progress")

// Registry is the subset of the user store the loop needs.
type Registry interface {
	CountUsers(ctx context.Context) (int, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	DeleteUser(ctx context.Context, userID int64) error
}

// Copier copies a message to another chat. *bot.Bot satisfies it.
type Copier interface {
	CopyMessage(ctx context.Context, params *bot.CopyMessageParams) (*models.MessageID, error)
}

// Reporter receives progress and the final summary.
type Reporter interface {
	Report(ctx context.Context, stats Stats, done bool) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, stats Stats, done bool) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, stats Stats, done bool) error {
	return f(ctx, stats, done)
}

// Source identifies the message to relay.
type Source struct {
	ChatID    int64
	MessageID int
}

// Options tunes a Broadcaster. Zero values fall back to the defaults noted per field.
type Options struct {
	// Limiter paces sends. Defaults to one message per second.
	Limiter *rate.Limiter
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
	// PruneOnFailure also removes users whose delivery failed for an
	// unclassified reason.
	PruneOnFailure bool
	// Sleep defaults to telegram.Sleep.
	Sleep telegram.SleepFunc
	// OnOutcome is called once per recipient.
	OnOutcome func(Outcome)
}

// Broadcaster runs one broadcast at a time.
type Broadcaster struct {
	registry Registry
	copier   Copier
	logger   *slog.Logger
	opts     Options
	running  sync.Mutex
}

// New creates a Broadcaster.
func New(registry Registry, copier Copier, logger *slog.Logger, opts Options) *Broadcaster {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Limiter == nil {
		opts.Limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	if opts.Sleep == nil {
		opts.Sleep = telegram.Sleep
	}
	return &Broadcaster{
		registry: registry,
		copier:   copier,
		logger:   logger.With("component", "broadcast"),
		opts:     opts,
	}
}

// Run copies src to every registered user in sequence. Progress is reported
// every ProgressEvery successful sends and the summary is always reported at
// the end. The returned error is non-nil only when the registry could not be
// read or ctx ended mid-run.
func (b *Broadcaster) Run(ctx context.Context, src Source, rep Reporter) (Stats, error) {
	if !b.running.TryLock() {
		return Stats{}, ErrAlreadyRunning
	}
	defer b.running.Unlock()

	log := b.logger.With("run_id", uuid.NewString(), "from_chat_id", src.ChatID, "message_id", src.MessageID)

	total, err := b.registry.CountUsers(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}
	ids, err := b.registry.ListUserIDs(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list users: %w", err)
	}

	stats := Stats{Total: total}
	log.InfoContext(ctx, "Broadcast started", "total", total)
	startTime := time.Now()

	for _, userID := range ids {
		if err := b.opts.Limiter.Wait(ctx); err != nil {
			log.WarnContext(ctx, "Broadcast interrupted", "error", err, "processed", stats.Processed())
			return stats, fmt.Errorf("broadcast interrupted: %w", err)
		}

		outcome := b.deliver(ctx, src, userID)
		if ctx.Err() != nil {
			log.WarnContext(ctx, "Broadcast interrupted", "error", ctx.Err(), "processed", stats.Processed())
			return stats, fmt.Errorf("broadcast interrupted: %w", ctx.Err())
		}

		stats.record(outcome)
		log.DebugContext(ctx, "Delivery finished", "user_id", userID, "outcome", outcome)
		if b.opts.OnOutcome != nil {
			b.opts.OnOutcome(outcome)
		}
		b.prune(ctx, log, userID, outcome)

		if outcome == OutcomeSuccess && stats.Success%b.opts.ProgressEvery == 0 {
			b.reportProgress(ctx, log, rep, stats)
		}
	}

	err = telegram.RetryOnce(ctx, b.opts.Sleep, func(ctx context.Context) error {
		return rep.Report(ctx, stats, true)
	})
	if err != nil {
		log.WarnContext(ctx, "Failed to report broadcast summary", "error", err)
	}

	log.InfoContext(ctx, "Broadcast completed",
		"total", stats.Total,
		"success", stats.Success,
		"blocked", stats.Blocked,
		"deactivated", stats.Deactivated,
		"failed", stats.Failed,
		"duration", time.Since(startTime))
	return stats, nil
}

func (b *Broadcaster) deliver(ctx context.Context, src Source, userID int64) Outcome {
	params := &bot.CopyMessageParams{
		ChatID:     userID,
		FromChatID: src.ChatID,
		MessageID:  src.MessageID,
	}
	err := telegram.RetryOnce(ctx, b.opts.Sleep, func(ctx context.Context) error {
		_, err := b.copier.CopyMessage(ctx, params)
		return err
	})

	switch {
	case err == nil:
		return OutcomeSuccess
	case telegram.IsDeactivated(err):
		return OutcomeDeactivated
	case telegram.IsBlocked(err):
		return OutcomeBlocked
	default:
		b.logger.WarnContext(ctx, "Failed to deliver broadcast", "user_id", userID, "error", err)
		return OutcomeFailed
	}
}

func (b *Broadcaster) prune(ctx context.Context, log *slog.Logger, userID int64, outcome Outcome) {
	switch outcome {
	case OutcomeBlocked, OutcomeDeactivated:
	case OutcomeFailed:
		if !b.opts.PruneOnFailure {
			return
		}
	default:
		return
	}

	if err := b.registry.DeleteUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "Failed to prune user", "user_id", userID, "outcome", outcome, "error", err)
		return
	}
	log.InfoContext(ctx, "Pruned unreachable user", "user_id", userID, "outcome", outcome)
}

// reportProgress pauses the loop when the report itself is rate limited.
func (b *Broadcaster) reportProgress(ctx context.Context, log *slog.Logger, rep Reporter, stats Stats) {
	err := rep.Report(ctx, stats, false)
	if err == nil {
		return
	}
	if wait, ok := telegram.RetryAfter(err); ok {
		log.InfoContext(ctx, "Progress report rate limited, pausing", "retry_after", wait)
		if sleepErr := b.opts.Sleep(ctx, wait); sleepErr != nil {
			log.WarnContext(ctx, "Pause interrupted", "error", sleepErr)
		}
		return
	}
	log.WarnContext(ctx, "Failed to report broadcast progress", "error", err)
}
