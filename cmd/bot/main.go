// Package main contains the entrypoint for the caption bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	tgbot "github.com/go-telegram/bot"
	"github.com/jessevdk/go-flags"
	"golang.org/x/time/rate"

	"github.com/edgard/capbot/internal/bot"
	"github.com/edgard/capbot/internal/bot/handlers"
	"github.com/edgard/capbot/internal/bot/tasks"
	"github.com/edgard/capbot/internal/broadcast"
	"github.com/edgard/capbot/internal/caption"
	"github.com/edgard/capbot/internal/config"
	"github.com/edgard/capbot/internal/database"
	"github.com/edgard/capbot/internal/logger"
	"github.com/edgard/capbot/internal/metrics"
	"github.com/edgard/capbot/internal/server"
	"github.com/edgard/capbot/internal/telegram"
)

var opts struct {
	ConfigPath string `short:"c" long:"config" env:"BOT_CONFIG" default:"./config.yaml" description:"path to the YAML configuration file"`
}

// Revision is set at build time.
var Revision = "dev"

func main() {
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode, restart := run(ctx)
	stop()

	if restart {
		reexec()
	}
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code and whether /restart was requested.
func run(parent context.Context) (int, bool) {
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		slog.Error("Failed to load configuration", "path", opts.ConfigPath, "error", err)
		return 1, false
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "format", cfg.Logger.Format, "revision", Revision)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     Revision,
		}); err != nil {
			log.Error("Failed to initialize Sentry", "error", err)
			return 1, false
		}
		defer sentry.Flush(2 * time.Second)
		log.Info("Sentry error reporting enabled", "environment", cfg.Sentry.Environment)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	store, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("Failed to open database", "driver", cfg.Database.Driver, "error", err)
		return 1, false
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	m := metrics.New()

	var restartRequested atomic.Bool
	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Extractor: caption.NewExtractor(),
		Metrics:   m,
		Restart: func() {
			restartRequested.Store(true)
			cancel()
		},
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(handlers.Recover(hDeps), logger.Middleware(log)),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates{"message", "channel_post", "callback_query"}),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1, false
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1, false
	}
	hDeps.BotUsername = me.Username
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	hDeps.Broadcaster = broadcast.New(store, tg, log, broadcast.Options{
		Limiter:        rate.NewLimiter(rate.Limit(cfg.Broadcast.RatePerSecond), cfg.Broadcast.Burst),
		ProgressEvery:  cfg.Broadcast.ProgressEvery,
		PruneOnFailure: cfg.Broadcast.PruneOnFailure,
		OnOutcome: func(o broadcast.Outcome) {
			m.BroadcastOutcomes.WithLabelValues(o.String()).Inc()
		},
	})

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1, false
	}

	tDeps := tasks.TaskDeps{Logger: log, Store: store, Metrics: m}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps), m)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1, false
	}

	var srv *server.Server
	if cfg.Server.ListenAddr != "" {
		srv = server.New(cfg.Server.ListenAddr, m.Registry, store, log, cfg.Server.ShutdownTimeout)
	}

	app := bot.NewBot(log, tg, sched, srv)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		sentry.CaptureException(runErr)
		return 1, false
	}

	if restartRequested.Load() {
		log.Info("Restart requested, re-executing binary...")
		return 0, true
	}

	log.Info("Bot stopped gracefully.")
	return 0, false
}

// configPath returns the configured path, or "" when the default file is
// absent so that environment-only deployments work.
func configPath() string {
	if _, err := os.Stat(opts.ConfigPath); err != nil && errors.Is(err, os.ErrNotExist) && opts.ConfigPath == "./config.yaml" {
		return ""
	}
	return opts.ConfigPath
}

// reexec replaces the current process with a fresh copy of the binary.
func reexec() {
	exe, err := os.Executable()
	if err != nil {
		slog.Error("Failed to resolve executable for restart", "error", err)
		os.Exit(1)
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		slog.Error("Failed to re-execute binary", "error", err)
		os.Exit(1)
	}
}
