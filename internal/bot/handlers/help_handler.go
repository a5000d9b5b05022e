package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewPanelHandler returns the callback handler that switches the welcome
// panel between its start, help and about pages.
func NewPanelHandler(deps HandlerDeps) bot.HandlerFunc {
	return panelHandler{deps}.Handle
}

type panelHandler struct {
	deps HandlerDeps
}

func (h panelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "panel")

	q := update.CallbackQuery
	if q == nil {
		log.WarnContext(ctx, "Panel handler received update without callback query", "update_id", update.ID)
		return
	}
	defer h.answer(ctx, b, q.ID)

	msg := q.Message.Message
	if msg == nil {
		log.DebugContext(ctx, "Callback message is no longer accessible", "callback_query_id", q.ID)
		return
	}

	name := panelName(q.Data)
	text, keyboard, ok := panel(name, h.deps.Config, h.deps.BotUsername, &q.From)
	if !ok {
		log.WarnContext(ctx, "Unknown panel requested", "data", q.Data)
		return
	}

	var err error
	if len(msg.Photo) > 0 {
		_, err = b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			Caption:     text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: keyboard,
		})
	} else {
		disabled := true
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:             msg.Chat.ID,
			MessageID:          msg.ID,
			Text:               text,
			ParseMode:          models.ParseModeHTML,
			ReplyMarkup:        keyboard,
			LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: &disabled},
		})
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to switch panel", "error", err, "panel", name, "chat_id", msg.Chat.ID)
		return
	}
	log.DebugContext(ctx, "Switched panel", "panel", name, "chat_id", msg.Chat.ID)
}

func (h panelHandler) answer(ctx context.Context, b *bot.Bot, id string) {
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: id}); err != nil {
		h.deps.Logger.WarnContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", id)
	}
}

// panelName maps callback data to a panel, matching by prefix.
func panelName(data string) string {
	for _, name := range []string{panelStart, panelHelp, panelAbout} {
		if strings.HasPrefix(data, name) {
			return name
		}
	}
	return data
}
