package config

import "github.com/spf13/viper"

// Default values for configuration.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultDatabaseDriver   = "sqlite"
	DefaultDatabasePath     = "capbot.db"
	DefaultMongoDatabase    = "capbot"
	DefaultCaptionCacheSize = 1024

	DefaultCaptionTemplate  = "<b>File Name:- <code>{filename}</code>\n\n{filesize}</b>"
	DefaultCaptionParseMode = "HTML"

	DefaultWelcomeImageURL = "https://telegra.ph/file/21a8e96b45cd6ac4d3da6.jpg"

	// Telegram allows about 30 messages per second to different chats.
	DefaultBroadcastRate  = 20.0
	DefaultBroadcastBurst = 1
	DefaultProgressEvery  = 10

	DefaultMaintenanceSchedule = "0 4 * * 0"
	DefaultStatsSchedule       = "0 * * * *"
)

// defaultMessages are the user-facing texts. START/ABOUT take the user's mention.
var defaultMessages = map[string]string{
	"start_text": "<b>Hello {mention}\n\nI am an auto caption bot. Add me to your channel as an admin " +
		"and I will rewrite the caption of every file you post there.</b>",
	"help_text": "<b>How to use me\n\n1. Add me to your channel as an admin with edit rights.\n" +
		"2. Send <code>/set_cap Your Caption</code> in the channel to set a template.\n" +
		"3. Send <code>/del_cap</code> to go back to the default caption.\n\n" +
		"Send /set_cap without arguments to list the available variables.</b>",
	"about_text":      "<b>Auto caption bot\n\nRewrites file captions in your channels from the file name, size and media details.</b>",
	"not_authorized":  "🚫 Access denied. Please contact the administrator.",
	"please_wait":     "Please Wait...",
	"total_users":     "Total Users: <code>%d</code>",
	"broadcast_reply": "Please reply to a message to broadcast",
	"broadcast_busy":  "A broadcast is already running. Please wait for it to finish.",
	"broadcasting":    "Broadcasting started...",
	"restarting":      "<b>🔄 Processes Stopped. Bot is Restarting...</b>",
	"caption_created": "✅ New caption set:\n\n%s",
	"caption_updated": "✅ Caption updated:\n\n%s",
	"caption_deleted": "✅ Caption deleted. Now using default caption.",
	"caption_missing": "ℹ️ This channel has no custom caption. The default caption is already in use.",
	"general_error":   "❌ Error: %s",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.format", DefaultLogFormat)

	// Keys without a useful default are still registered so AutomaticEnv picks them up on Unmarshal.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_user_ids", []int64{})
	v.SetDefault("telegram.welcome_image_url", DefaultWelcomeImageURL)
	v.SetDefault("telegram.update_channel_url", "https://t.me/telegram")
	v.SetDefault("telegram.support_group_url", "https://t.me/telegram")

	v.SetDefault("database.driver", DefaultDatabaseDriver)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.mongo_uri", "")
	v.SetDefault("database.mongo_database", DefaultMongoDatabase)
	v.SetDefault("database.caption_cache_size", DefaultCaptionCacheSize)

	v.SetDefault("caption.default_template", DefaultCaptionTemplate)
	v.SetDefault("caption.parse_mode", DefaultCaptionParseMode)

	v.SetDefault("broadcast.rate_per_second", DefaultBroadcastRate)
	v.SetDefault("broadcast.burst", DefaultBroadcastBurst)
	v.SetDefault("broadcast.progress_every", DefaultProgressEvery)
	v.SetDefault("broadcast.prune_on_failure", false)

	v.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.db_maintenance.schedule", DefaultMaintenanceSchedule)
	v.SetDefault("scheduler.tasks.registry_stats.enabled", true)
	v.SetDefault("scheduler.tasks.registry_stats.schedule", DefaultStatsSchedule)

	v.SetDefault("server.listen_addr", "")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	for key, msg := range defaultMessages {
		v.SetDefault("messages."+key, msg)
	}
}
