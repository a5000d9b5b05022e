package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/capbot/internal/caption"
	"github.com/edgard/capbot/internal/telegram"
)

// errorReplyTTL is how long a /del_cap error reply stays in the channel.
const errorReplyTTL = 5 * time.Second

// channelCommand matches a channel post carrying the named command.
func channelCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.ChannelPost == nil {
			return false
		}
		cmd, _, ok := telegram.ParseCommand(update.ChannelPost.Text)
		return ok && cmd == name
	}
}

// replyInChannel posts text as a reply to msg and returns the sent message.
func replyInChannel(ctx context.Context, b *bot.Bot, msg *models.Message, text string) (*models.Message, error) {
	return b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
}

// NewSetCaptionHandler returns a handler for /set_cap in channels.
func NewSetCaptionHandler(deps HandlerDeps) bot.HandlerFunc {
	return setCaptionHandler{deps}.Handle
}

type setCaptionHandler struct {
	deps HandlerDeps
}

func (h setCaptionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_cap")
	msg := update.ChannelPost
	if msg == nil {
		return
	}
	channelID := msg.Chat.ID
	messages := h.deps.Config.Messages

	_, tmpl, _ := telegram.ParseCommand(msg.Text)
	tmpl = strings.TrimSpace(tmpl)

	var reply string
	switch {
	case tmpl == "":
		reply = caption.Usage()

	default:
		if err := caption.Validate(tmpl); err != nil {
			log.InfoContext(ctx, "Rejected caption template", "channel_id", channelID, "error", err)
			reply = fmt.Sprintf(messages.GeneralError, err)
			break
		}

		created, err := h.deps.Store.SetChannelCaption(ctx, channelID, tmpl)
		if err != nil {
			log.ErrorContext(ctx, "Failed to save caption", "channel_id", channelID, "error", err)
			captureError(err, "set_cap")
			reply = fmt.Sprintf(messages.GeneralError, err)
			break
		}

		log.InfoContext(ctx, "Channel caption saved", "channel_id", channelID, "created", created)
		if created {
			reply = fmt.Sprintf(messages.CaptionCreated, tmpl)
		} else {
			reply = fmt.Sprintf(messages.CaptionUpdated, tmpl)
		}
	}

	if _, err := replyInChannel(ctx, b, msg, reply); err != nil {
		log.ErrorContext(ctx, "Failed to reply in channel", "channel_id", channelID, "error", err)
	}
}

// NewDeleteCaptionHandler returns a handler for /del_cap in channels.
func NewDeleteCaptionHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteCaptionHandler{deps}.Handle
}

type deleteCaptionHandler struct {
	deps HandlerDeps
}

func (h deleteCaptionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "del_cap")
	msg := update.ChannelPost
	if msg == nil {
		return
	}
	channelID := msg.Chat.ID
	messages := h.deps.Config.Messages

	deleted, err := h.deps.Store.DeleteChannelCaption(ctx, channelID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete caption", "channel_id", channelID, "error", err)
		captureError(err, "del_cap")
		h.replyTransient(ctx, b, msg, fmt.Sprintf(messages.GeneralError, err))
		return
	}

	reply := messages.CaptionDeleted
	if !deleted {
		reply = messages.CaptionMissing
	}
	log.InfoContext(ctx, "Channel caption removed", "channel_id", channelID, "existed", deleted)

	if _, err := replyInChannel(ctx, b, msg, reply); err != nil {
		log.ErrorContext(ctx, "Failed to reply in channel", "channel_id", channelID, "error", err)
	}
}

// replyTransient posts text and deletes it again after errorReplyTTL.
func (h deleteCaptionHandler) replyTransient(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	log := h.deps.Logger.With("handler", "del_cap")

	sent, err := replyInChannel(ctx, b, msg, text)
	if err != nil {
		log.ErrorContext(ctx, "Failed to send error reply", "channel_id", msg.Chat.ID, "error", err)
		return
	}
	if err := h.deps.sleep()(ctx, errorReplyTTL); err != nil {
		return
	}
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: msg.Chat.ID, MessageID: sent.ID}); err != nil {
		log.WarnContext(ctx, "Failed to delete error reply", "channel_id", msg.Chat.ID, "error", err)
	}
}
