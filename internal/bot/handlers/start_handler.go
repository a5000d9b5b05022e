package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler registers the caller and shows the welcome panel.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	created, err := h.deps.Store.AddUser(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", userID)
		captureError(err, "start")
	} else if created {
		h.deps.Metrics.Registrations.Inc()
		log.InfoContext(ctx, "New user registered", "user_id", userID)
	}

	cfg := h.deps.Config
	text := startText(cfg, update.Message.From)
	keyboard := startKeyboard(cfg, h.deps.BotUsername)

	if cfg.Telegram.WelcomeImageURL != "" {
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: cfg.Telegram.WelcomeImageURL},
			Caption:     text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: keyboard,
		})
	} else {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: keyboard,
		})
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to send welcome panel", "error", err, "chat_id", chatID)
		return
	}
	log.DebugContext(ctx, "Successfully sent welcome panel", "chat_id", chatID)
}
