package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/capbot/internal/broadcast"
)

// NewBroadcastHandler returns a handler for the /broadcast command. The
// admin must reply to the message that should be relayed.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	messages := h.deps.Config.Messages

	if msg.ReplyToMessage == nil {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          chatID,
			Text:            messages.BroadcastReply,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		}); err != nil {
			log.ErrorContext(ctx, "Failed to send broadcast usage", "error", err, "chat_id", chatID)
		}
		return
	}

	status, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: messages.Broadcasting})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send broadcast status message", "error", err, "chat_id", chatID)
		return
	}

	src := broadcast.Source{ChatID: chatID, MessageID: msg.ReplyToMessage.ID}
	stats, err := h.deps.Broadcaster.Run(ctx, src, statusReporter{b: b, chatID: chatID, messageID: status.ID})

	switch {
	case errors.Is(err, broadcast.ErrAlreadyRunning):
		log.WarnContext(ctx, "Broadcast refused, another one is running", "chat_id", chatID)
		h.editStatus(ctx, b, chatID, status.ID, messages.BroadcastBusy)
	case err != nil:
		log.ErrorContext(ctx, "Broadcast aborted", "error", err, "processed", stats.Processed())
		captureError(err, "broadcast")
	default:
		h.deps.Metrics.BroadcastRuns.Inc()
		log.InfoContext(ctx, "Broadcast completed", "total", stats.Total, "success", stats.Success,
			"blocked", stats.Blocked, "deactivated", stats.Deactivated, "failed", stats.Failed)
	}
}

func (h broadcastHandler) editStatus(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string) {
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}); err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to edit broadcast status", "error", err, "chat_id", chatID)
	}
}

// statusReporter renders broadcast stats into a single status message.
type statusReporter struct {
	b         *bot.Bot
	chatID    int64
	messageID int
}

func (r statusReporter) Report(ctx context.Context, stats broadcast.Stats, done bool) error {
	_, err := r.b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: r.messageID,
		Text:      broadcast.FormatStats(stats, done),
		ParseMode: models.ParseModeHTML,
	})
	return err
}
