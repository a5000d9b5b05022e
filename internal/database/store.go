package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserRegistry persists one record per user who started the bot.
type UserRegistry interface {
	// AddUser registers userID. It reports false when the user already existed.
	AddUser(ctx context.Context, userID int64) (bool, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int, error)

	// ListUserIDs returns every registered user in insertion order.
	ListUserIDs(ctx context.Context) ([]int64, error)

	// DeleteUser removes userID. Deleting a missing user is not an error.
	DeleteUser(ctx context.Context, userID int64) error
}

// CaptionStore persists one caption template per channel.
type CaptionStore interface {
	// GetChannelCaption returns the channel's template and whether one is set.
	GetChannelCaption(ctx context.Context, channelID int64) (string, bool, error)

	// SetChannelCaption creates or overwrites the template. It reports true on create.
	SetChannelCaption(ctx context.Context, channelID int64, template string) (bool, error)

	// DeleteChannelCaption removes the override. It reports whether one existed.
	DeleteChannelCaption(ctx context.Context, channelID int64) (bool, error)
}

// Store defines the interface for database operations.
// Methods should accept context.Context for cancellation and timeouts.
type Store interface {
	UserRegistry
	CaptionStore

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RunMaintenance performs backend housekeeping (VACUUM on SQLite).
	RunMaintenance(ctx context.Context) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store", "driver", "sqlite"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.logger.Info("Database connection closed successfully.")
	return nil
}

func (s *sqlxStore) AddUser(ctx context.Context, userID int64) (bool, error) {
	if userID == 0 {
		return false, fmt.Errorf("user_id cannot be zero")
	}

	user := User{UserID: userID, CreatedAt: time.Now().UTC()}
	query := `
        INSERT INTO users (user_id, created_at)
        VALUES (:user_id, :created_at)
        ON CONFLICT (user_id) DO NOTHING;
    `

	result, err := s.db.NamedExecContext(ctx, query, user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error registering user", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to register user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count when registering user", "user_id", userID, "error", err)
		return false, nil
	}

	if affected == 1 {
		s.logger.DebugContext(ctx, "User registered", "user_id", userID)
	}
	return affected == 1, nil
}

func (s *sqlxStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		s.logger.ErrorContext(ctx, "Error counting users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *sqlxStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ids []int64
	err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY id`)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing users", "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed users", "count", len(ids))
	return ids, nil
}

func (s *sqlxStore) DeleteUser(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting user", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	affected, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "User deleted", "user_id", userID, "affected", affected)
	return nil
}

func (s *sqlxStore) GetChannelCaption(ctx context.Context, channelID int64) (string, bool, error) {
	var tmpl string
	err := s.db.GetContext(ctx, &tmpl, `SELECT template FROM channel_captions WHERE channel_id = ?`, channelID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching channel caption",
			"channel_id", channelID, "error", err)
		return "", false, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting channel caption", "channel_id", channelID, "error", err)
		return "", false, fmt.Errorf("failed to get caption for channel %d: %w", channelID, err)
	}

	return tmpl, true, nil
}

// SetChannelCaption inserts or updates the channel's template in one transaction.
func (s *sqlxStore) SetChannelCaption(ctx context.Context, channelID int64, template string) (bool, error) {
	now := time.Now().UTC()
	caption := ChannelCaption{
		ChannelID: channelID,
		Template:  template,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving channel caption",
			"channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM channel_captions WHERE channel_id = ? LIMIT 1`, channelID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if channel caption exists", "channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to check caption for channel %d: %w", channelID, err)
	}

	if exists {
		_, err = tx.NamedExecContext(ctx, `
			UPDATE channel_captions SET
				template = :template,
				updated_at = :updated_at
			WHERE channel_id = :channel_id
		`, caption)
	} else {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO channel_captions (channel_id, template, created_at, updated_at)
			VALUES (:channel_id, :template, :created_at, :updated_at)
		`, caption)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving channel caption", "channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to save caption for channel %d: %w", channelID, err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	operation := "updated"
	if !exists {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "Channel caption saved", "operation", operation, "channel_id", channelID)
	return !exists, nil
}

func (s *sqlxStore) DeleteChannelCaption(ctx context.Context, channelID int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM channel_captions WHERE channel_id = ?`, channelID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting channel caption", "channel_id", channelID, "error", err)
		return false, fmt.Errorf("failed to delete caption for channel %d: %w", channelID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	startTime := time.Now()

	// VACUUM must run outside a transaction in SQLite
	_, err := s.db.ExecContext(ctx, "VACUUM;")
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully", "duration", time.Since(startTime))
	return nil
}
