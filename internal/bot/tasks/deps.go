// Package tasks implements the bot's scheduled tasks.
package tasks

import (
	"log/slog"

	"github.com/edgard/capbot/internal/database"
	"github.com/edgard/capbot/internal/metrics"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Metrics *metrics.Metrics
}
