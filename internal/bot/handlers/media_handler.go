package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/capbot/internal/caption"
	"github.com/edgard/capbot/internal/telegram"
)

// NewChannelMediaHandler returns the handler that rewrites captions of files
// posted in channels.
func NewChannelMediaHandler(deps HandlerDeps) bot.HandlerFunc {
	return channelMediaHandler{deps}.Handle
}

type channelMediaHandler struct {
	deps HandlerDeps
}

func (h channelMediaHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.ChannelPost
	fileName, attrs, ok := MediaAttributesFromMessage(msg)
	if !ok {
		return
	}
	channelID := msg.Chat.ID
	log := h.deps.Logger.With("handler", "channel_media", "channel_id", channelID, "message_id", msg.ID)

	rendered, err := h.render(ctx, channelID, fileName, msg.Caption, attrs)
	if err != nil {
		h.deps.Metrics.CaptionEdits.WithLabelValues("render_error").Inc()
		log.WarnContext(ctx, "Failed to render caption", "error", err)
		if _, replyErr := replyInChannel(ctx, b, msg, fmt.Sprintf(h.deps.Config.Messages.GeneralError, err)); replyErr != nil {
			log.ErrorContext(ctx, "Failed to report render error", "error", replyErr)
		}
		return
	}

	err = telegram.RetryOnce(ctx, h.deps.sleep(), func(ctx context.Context) error {
		_, err := b.EditMessageCaption(ctx, &bot.EditMessageCaptionParams{
			ChatID:    channelID,
			MessageID: msg.ID,
			Caption:   rendered,
			ParseMode: models.ParseMode(h.deps.Config.Caption.ParseMode),
		})
		return err
	})
	if err != nil {
		h.deps.Metrics.CaptionEdits.WithLabelValues("edit_error").Inc()
		log.ErrorContext(ctx, "Failed to edit caption", "error", err)
		captureError(err, "channel_media")
		return
	}

	h.deps.Metrics.CaptionEdits.WithLabelValues("ok").Inc()
	log.DebugContext(ctx, "Caption rewritten", "file_name", fileName)
}

// render extracts metadata and fills the channel's template, or the default.
func (h channelMediaHandler) render(ctx context.Context, channelID int64, fileName, original string, attrs *caption.MediaAttributes) (string, error) {
	tmpl, found, err := h.deps.Store.GetChannelCaption(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("failed to load caption template: %w", err)
	}
	if !found {
		tmpl = h.deps.Config.Caption.DefaultTemplate
	}

	values := h.deps.Extractor.Extract(fileName, original, attrs).Values()
	escape := escaperFor(h.deps.Config.Caption.ParseMode)
	for k, v := range values {
		values[k] = escape(v)
	}
	return caption.Render(tmpl, values)
}

// escaperFor returns the function that makes a value safe to splice into
// a caption sent with the given parse mode.
func escaperFor(parseMode string) func(string) string {
	switch models.ParseMode(parseMode) {
	case models.ParseModeHTML:
		return html.EscapeString
	case models.ParseModeMarkdown:
		return bot.EscapeMarkdown
	default:
		return func(s string) string { return s }
	}
}
