package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"golang.org/x/time/rate"

	"github.com/edgard/capbot/internal/broadcast"
	"github.com/edgard/capbot/internal/caption"
	"github.com/edgard/capbot/internal/config"
	"github.com/edgard/capbot/internal/database"
	"github.com/edgard/capbot/internal/metrics"
)

// apiCall is one request the handlers made to the Bot API.
type apiCall struct {
	Method string
	Params map[string]string
}

// fakeAPI serves the subset of the Bot API the handlers use.
type fakeAPI struct {
	mu     sync.Mutex
	calls  []apiCall
	nextID int
	// errors queues raw response bodies per method, consumed in order.
	errors map[string][]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	params := readParams(r)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{Method: method, Params: params})
	var errBody string
	if queue := f.errors[method]; len(queue) > 0 {
		errBody, f.errors[method] = queue[0], queue[1:]
	}
	f.nextID++
	id := f.nextID
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if errBody != "" {
		_, _ = io.WriteString(w, errBody)
		return
	}

	chatID, _ := strconv.ParseInt(params["chat_id"], 10, 64)
	var result string
	switch method {
	case "sendMessage", "sendPhoto", "editMessageText", "editMessageCaption":
		result = fmt.Sprintf(`{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"}}`, id, chatID)
	case "copyMessage":
		result = fmt.Sprintf(`{"message_id":%d}`, id)
	default:
		result = "true"
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":`+result+`}`)
}

func readParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		for k, v := range raw {
			switch val := v.(type) {
			case string:
				params[k] = val
			default:
				b, _ := json.Marshal(val)
				params[k] = string(b)
			}
		}
		return params
	}
	if err := r.ParseMultipartForm(1 << 20); err == nil && r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			params[k] = v[0]
		}
		return params
	}
	_ = r.ParseForm()
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}
	return params
}

// failNext queues a response body for method. An empty body means success.
func (f *fakeAPI) failNext(method, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	f.errors[method] = append(f.errors[method], body)
}

// callsTo returns the recorded calls of one method.
func (f *fakeAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

const (
	tooManyRequests = `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 2","parameters":{"retry_after":2}}`
	blockedByUser   = `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`
)

func newFakeBot(t *testing.T) (*fakeAPI, *bot.Bot) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}
	return api, b
}

const testAdminID int64 = 42

const testConfigYAML = `
telegram:
  token: "123:test"
  admin_user_ids: [42]
  welcome_image_url: "https://example.com/welcome.jpg"
  update_channel_url: "https://t.me/updates"
  support_group_url: "https://t.me/support"
caption:
  default_template: "<b>{filename}</b> {filesize} {quality}"
  parse_mode: HTML
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	return cfg
}

// sleepLog records requested pauses without waiting.
type sleepLog struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *sleepLog) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return nil
}

func (s *sleepLog) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.sleeps...)
}

func newTestDeps(t *testing.T, b *bot.Bot, store database.Store) (HandlerDeps, *sleepLog) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sleeper := &sleepLog{}
	cfg := testConfig(t)

	if store == nil {
		db, err := database.OpenSQLite(":memory:", nil)
		if err != nil {
			t.Fatalf("OpenSQLite() error = %v", err)
		}
		store = database.NewSQLStore(db, logger)
		t.Cleanup(func() { _ = store.Close(context.Background()) })
	}

	var copier broadcast.Copier = b
	deps := HandlerDeps{
		Logger: logger,
		Config: cfg,
		Store:  store,
		Broadcaster: broadcast.New(store, copier, logger, broadcast.Options{
			Limiter: rate.NewLimiter(rate.Inf, 1),
			Sleep:   sleeper.Sleep,
		}),
		Extractor:   caption.NewExtractor(),
		Metrics:     metrics.New(),
		BotUsername: "CapTestBot",
		Sleep:       sleeper.Sleep,
	}
	return deps, sleeper
}
