package database

import "time"

// User is a Telegram user who started the bot. Rows are kept in insertion
// order and removed once the user proves unreachable.
type User struct {
	ID        uint      `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// ChannelCaption holds the caption template a channel overrides the default with.
type ChannelCaption struct {
	ChannelID int64     `db:"channel_id"`
	Template  string    `db:"template"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
