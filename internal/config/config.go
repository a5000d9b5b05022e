// Package config loads the bot configuration from a YAML file and BOT_*
// environment variables, applies defaults and validates the result.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every load or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the immutable application configuration built once at startup.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Caption   CaptionConfig   `mapstructure:"caption"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Server    ServerConfig    `mapstructure:"server"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text console"`
}

// TelegramConfig holds bot credentials, admins and the links shown on the welcome panel.
type TelegramConfig struct {
	Token           string  `mapstructure:"token"              validate:"required"`
	AdminUserIDs    []int64 `mapstructure:"admin_user_ids"     validate:"required,min=1,dive,ne=0"`
	WelcomeImageURL string  `mapstructure:"welcome_image_url"  validate:"omitempty,url"`
	UpdateChannel   string  `mapstructure:"update_channel_url" validate:"required,url"`
	SupportGroup    string  `mapstructure:"support_group_url"  validate:"required,url"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Driver           string `mapstructure:"driver"             validate:"required,oneof=sqlite mongo"`
	Path             string `mapstructure:"path"               validate:"required_if=Driver sqlite"`
	MongoURI         string `mapstructure:"mongo_uri"          validate:"required_if=Driver mongo"`
	MongoDatabase    string `mapstructure:"mongo_database"     validate:"required_if=Driver mongo"`
	CaptionCacheSize int    `mapstructure:"caption_cache_size" validate:"gte=0"`
}

// CaptionConfig holds the default template applied to channels without an override.
type CaptionConfig struct {
	DefaultTemplate string `mapstructure:"default_template" validate:"required"`
	ParseMode       string `mapstructure:"parse_mode"       validate:"omitempty,oneof=HTML MarkdownV2"`
}

// BroadcastConfig tunes pacing and pruning of the broadcast loop.
type BroadcastConfig struct {
	RatePerSecond  float64 `mapstructure:"rate_per_second"  validate:"gt=0"`
	Burst          int     `mapstructure:"burst"            validate:"gte=1"`
	ProgressEvery  int     `mapstructure:"progress_every"   validate:"gte=1"`
	PruneOnFailure bool    `mapstructure:"prune_on_failure"`
}

// SchedulerConfig lists periodic tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// ServerConfig configures the metrics and health endpoint. Empty disables it.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"         validate:"omitempty,url"`
	Environment string `mapstructure:"environment"`
}

// MessagesConfig holds every user-facing text the bot sends.
type MessagesConfig struct {
	StartText      string `mapstructure:"start_text"      validate:"required"`
	HelpText       string `mapstructure:"help_text"       validate:"required"`
	AboutText      string `mapstructure:"about_text"      validate:"required"`
	NotAuthorized  string `mapstructure:"not_authorized"  validate:"required"`
	PleaseWait     string `mapstructure:"please_wait"     validate:"required"`
	TotalUsers     string `mapstructure:"total_users"     validate:"required"`
	BroadcastReply string `mapstructure:"broadcast_reply" validate:"required"`
	BroadcastBusy  string `mapstructure:"broadcast_busy"  validate:"required"`
	Broadcasting   string `mapstructure:"broadcasting"    validate:"required"`
	Restarting     string `mapstructure:"restarting"      validate:"required"`
	CaptionCreated string `mapstructure:"caption_created" validate:"required"`
	CaptionUpdated string `mapstructure:"caption_updated" validate:"required"`
	CaptionDeleted string `mapstructure:"caption_deleted" validate:"required"`
	CaptionMissing string `mapstructure:"caption_missing" validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
}

// LoadConfig reads configuration from the optional YAML file at path, then
// BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN), over the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %w", ErrConfiguration, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// IsAdmin reports whether userID is listed in telegram.admin_user_ids.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
