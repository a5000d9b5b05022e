// Package logger builds the application's slog logger and the update-logging
// middleware for the Telegram bot.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/lmittmann/tint"
)

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler returns a handler writing to w in the given format:
// "json", "text" or "console" (coloured, human-oriented).
func NewHandler(w io.Writer, levelStr, format string) slog.Handler {
	level := ParseLevel(levelStr)

	switch format {
	case "console":
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
}

// NewLogger creates a stdout logger and installs it as the slog default.
func NewLogger(levelStr, format string) *slog.Logger {
	logger := slog.New(NewHandler(os.Stdout, levelStr, format))
	slog.SetDefault(logger)
	return logger
}

// Middleware logs every update before and after the handler chain runs.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()

			logEntry := log.With("update_id", update.ID).With(updateAttrs(update)...)
			logEntry.DebugContext(ctx, "Processing update")

			next(ctx, b, update)

			logEntry.InfoContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

// updateAttrs describes the update for logging.
func updateAttrs(update *models.Update) []any {
	switch {
	case update.Message != nil:
		attrs := []any{"update_type", "message"}
		return append(attrs, messageAttrs(update.Message)...)

	case update.ChannelPost != nil:
		attrs := []any{"update_type", "channel_post"}
		return append(attrs, messageAttrs(update.ChannelPost)...)

	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		attrs := []any{
			"update_type", "callback_query",
			"callback_query_id", q.ID,
			"user_id", q.From.ID,
			"data", q.Data,
		}
		switch {
		case q.Message.Message != nil:
			attrs = append(attrs, "chat_id", q.Message.Message.Chat.ID, "message_accessible", true)
		case q.Message.InaccessibleMessage != nil:
			attrs = append(attrs, "chat_id", q.Message.InaccessibleMessage.Chat.ID, "message_accessible", false)
		}
		return attrs

	default:
		return []any{"update_type", "other"}
	}
}

func messageAttrs(msg *models.Message) []any {
	var userID int64
	if msg.From != nil {
		userID = msg.From.ID
	}
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	return []any{
		"message_id", msg.ID,
		"chat_id", msg.Chat.ID,
		"user_id", userID,
		"text_preview", truncateString(text, 50),
	}
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
