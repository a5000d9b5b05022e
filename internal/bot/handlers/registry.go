package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/capbot/internal/telegram"
)

// RegisterAllCommands initializes and returns every route the bot serves:
// private commands, panel callbacks and channel posts.
func RegisterAllCommands(deps HandlerDeps) map[string]telegram.RegisteredHandler {
	handlers := make(map[string]telegram.RegisteredHandler)

	privateMiddleware := []tgbot.Middleware{PrivateOnly(deps)}
	adminMiddleware := []tgbot.Middleware{PrivateOnly(deps), AdminOnly(deps)}

	handlers["/start"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  privateMiddleware,
	}

	for _, name := range []string{panelStart, panelHelp, panelAbout} {
		handlers["callback:"+name] = telegram.RegisteredHandler{
			HandlerType: tgbot.HandlerTypeCallbackQueryData,
			Pattern:     name,
			Handler:     NewPanelHandler(deps),
			MatchType:   tgbot.MatchTypePrefix,
		}
	}

	handlers["/total_users"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "total_users",
		Handler:     NewTotalUsersHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlers["/broadcast"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "broadcast",
		Handler:     NewBroadcastHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}
	handlers["/restart"] = telegram.RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "restart",
		Handler:     NewRestartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  adminMiddleware,
	}

	handlers["channel:/set_cap"] = telegram.RegisteredHandler{
		MatchFunc: channelCommand("set_cap"),
		Handler:   NewSetCaptionHandler(deps),
	}
	handlers["channel:/del_cap"] = telegram.RegisteredHandler{
		MatchFunc: channelCommand("del_cap"),
		Handler:   NewDeleteCaptionHandler(deps),
	}
	handlers["channel:media"] = telegram.RegisteredHandler{
		MatchFunc: isChannelMedia,
		Handler:   NewChannelMediaHandler(deps),
	}

	return handlers
}
