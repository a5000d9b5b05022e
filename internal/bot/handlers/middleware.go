// Package handlers contains Telegram bot command, callback and channel-post
// handlers, along with their registration logic and middleware.
package handlers

import (
	"context"
	"fmt"

	"github.com/getsentry/sentry-go"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly creates a middleware that checks the message sender against the
// configured admin list. Others get the "not authorized" reply.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			if !deps.Config.IsAdmin(userID) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "AdminOnly")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotAuthorized,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}

// PrivateOnly drops messages that were not sent in a private chat.
func PrivateOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate {
				deps.Logger.DebugContext(ctx, "Ignoring command outside private chat", "update_id", update.ID)
				return
			}
			next(ctx, bot, update)
		}
	}
}

// Recover keeps a panicking handler from taking the process down and
// forwards the panic to Sentry when it is configured.
func Recover(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					deps.Logger.ErrorContext(ctx, "Handler panicked", "update_id", update.ID, "panic", fmt.Sprint(r))
					sentry.CurrentHub().Recover(r)
				}
			}()
			next(ctx, bot, update)
		}
	}
}

// captureError forwards err to Sentry. It is a no-op without a DSN.
func captureError(err error, handler string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("handler", handler)
		sentry.CaptureException(err)
	})
}
