package handlers

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/edgard/capbot/internal/config"
)

// Callback data understood by the panel handler.
const (
	panelStart = "start"
	panelHelp  = "help"
	panelAbout = "about"
)

// mention renders an HTML link to the user.
func mention(u *models.User) string {
	if u == nil {
		return "there"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, u.ID, html.EscapeString(name))
}

func startText(cfg *config.Config, u *models.User) string {
	return strings.ReplaceAll(cfg.Messages.StartText, "{mention}", mention(u))
}

func startKeyboard(cfg *config.Config, botUsername string) models.InlineKeyboardMarkup {
	return models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "➕️ Add Me To Your Channel ➕️", URL: fmt.Sprintf("https://t.me/%s?startchannel=true", botUsername)}},
		{
			{Text: "Help", CallbackData: panelHelp},
			{Text: "About", CallbackData: panelAbout},
		},
		{
			{Text: "🌐 Update", URL: cfg.Telegram.UpdateChannel},
			{Text: "📜 Support", URL: cfg.Telegram.SupportGroup},
		},
	}}
}

func helpKeyboard() models.InlineKeyboardMarkup {
	return models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "About", CallbackData: panelAbout}},
		{{Text: "↩ Back", CallbackData: panelStart}},
	}}
}

func aboutKeyboard() models.InlineKeyboardMarkup {
	return models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: "How to Use Me ❓", CallbackData: panelHelp}},
		{{Text: "↩ Back", CallbackData: panelStart}},
	}}
}

// panel returns the text and keyboard for a callback panel name.
func panel(name string, cfg *config.Config, botUsername string, u *models.User) (string, models.InlineKeyboardMarkup, bool) {
	switch name {
	case panelStart:
		return startText(cfg, u), startKeyboard(cfg, botUsername), true
	case panelHelp:
		return cfg.Messages.HelpText, helpKeyboard(), true
	case panelAbout:
		return cfg.Messages.AboutText, aboutKeyboard(), true
	default:
		return "", models.InlineKeyboardMarkup{}, false
	}
}
