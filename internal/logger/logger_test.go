package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewHandlerFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "info", "json")).Info("hello", "k", "v")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json output not decodable: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("json record = %v", rec)
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "warn", "text")).Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}

	buf.Reset()
	slog.New(NewHandler(&buf, "debug", "console")).Debug("coloured")
	if !strings.Contains(buf.String(), "coloured") {
		t.Errorf("console output = %q, want message", buf.String())
	}
}

func TestUpdateAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		update   *models.Update
		wantType string
	}{
		{
			name:     "private message",
			update:   &models.Update{Message: &models.Message{ID: 1, Chat: models.Chat{ID: 2}, From: &models.User{ID: 3}, Text: "/start"}},
			wantType: "message",
		},
		{
			name:     "channel post",
			update:   &models.Update{ChannelPost: &models.Message{ID: 1, Chat: models.Chat{ID: -100}, Caption: "movie"}},
			wantType: "channel_post",
		},
		{
			name: "callback",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{
				ID:      "q",
				From:    models.User{ID: 3},
				Data:    "help",
				Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 2}}},
			}},
			wantType: "callback_query",
		},
		{
			name:     "other",
			update:   &models.Update{},
			wantType: "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			attrs := updateAttrs(tt.update)
			if len(attrs) < 2 || attrs[0] != "update_type" || attrs[1] != tt.wantType {
				t.Errorf("updateAttrs() = %v, want update_type %q", attrs, tt.wantType)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer string", 8, "a lon..."},
		{"abc", 2, "..."},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
