package handlers

import (
	"log/slog"

	"github.com/edgard/capbot/internal/broadcast"
	"github.com/edgard/capbot/internal/caption"
	"github.com/edgard/capbot/internal/config"
	"github.com/edgard/capbot/internal/database"
	"github.com/edgard/capbot/internal/metrics"
	"github.com/edgard/capbot/internal/telegram"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger      *slog.Logger
	Config      *config.Config
	Store       database.Store
	Broadcaster *broadcast.Broadcaster
	Extractor   *caption.Extractor
	Metrics     *metrics.Metrics

	// BotUsername is filled from getMe and used for the add-to-channel link.
	BotUsername string

	// Restart stops the bot so main can re-exec the binary.
	Restart func()

	// Sleep defaults to telegram.Sleep.
	Sleep telegram.SleepFunc
}

func (d HandlerDeps) sleep() telegram.SleepFunc {
	if d.Sleep == nil {
		return telegram.Sleep
	}
	return d.Sleep
}
