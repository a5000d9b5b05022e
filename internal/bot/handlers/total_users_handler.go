package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTotalUsersHandler returns a handler for the /total_users command.
func NewTotalUsersHandler(deps HandlerDeps) bot.HandlerFunc {
	return totalUsersHandler{deps}.Handle
}

type totalUsersHandler struct {
	deps HandlerDeps
}

func (h totalUsersHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "total_users")
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	wait, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.PleaseWait})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send wait message", "error", err, "chat_id", chatID)
		return
	}

	total, err := h.deps.Store.CountUsers(ctx)
	text := fmt.Sprintf(h.deps.Config.Messages.TotalUsers, total)
	if err != nil {
		log.ErrorContext(ctx, "Failed to count users", "error", err)
		captureError(err, "total_users")
		text = fmt.Sprintf(h.deps.Config.Messages.GeneralError, html.EscapeString(err.Error()))
	} else {
		h.deps.Metrics.RegisteredUsers.Set(float64(total))
	}

	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: wait.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit total users message", "error", err, "chat_id", chatID)
	}
}
