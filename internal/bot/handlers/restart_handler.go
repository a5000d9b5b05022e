package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRestartHandler returns a handler for the /restart command.
func NewRestartHandler(deps HandlerDeps) bot.HandlerFunc {
	return restartHandler{deps}.Handle
}

type restartHandler struct {
	deps HandlerDeps
}

func (h restartHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "restart")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Restart requested", "chat_id", chatID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      h.deps.Config.Messages.Restarting,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send restart message", "error", err, "chat_id", chatID)
	}

	if h.deps.Restart == nil {
		log.WarnContext(ctx, "Restart not supported in this process")
		return
	}
	h.deps.Restart()
}
