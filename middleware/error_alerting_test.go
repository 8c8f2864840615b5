package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmbot/metrics"
	"tmbot/models"
)

// webhookRecorder is a fake Slack incoming-webhook endpoint
type webhookRecorder struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func (w *webhookRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))

		w.mu.Lock()
		w.payloads = append(w.payloads, payload)
		w.mu.Unlock()

		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	}
}

func (w *webhookRecorder) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.payloads)
}

var testEvent = models.DiscordMessageEvent{
	GuildID:   "guild-789",
	ChannelID: "channel-456",
	MessageID: "msg-123",
	Content:   "!price BTC",
}

func newTestMiddleware(webhookURL string) (*ErrorAlertMiddleware, *metrics.Metrics) {
	m := metrics.New()
	return NewErrorAlertMiddleware(SlackAlertConfig{
		WebhookURL:  webhookURL,
		Environment: "dev",
		AppName:     "tmbot",
		LogsURL:     "https://logs.example.com",
	}, m), m
}

func TestWrapMessageHandler_RecoversPanic(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	mw, m := newTestMiddleware(server.URL)
	wrapped := mw.WrapMessageHandler(func(ctx context.Context, event models.DiscordMessageEvent) error {
		panic("nil map write")
	})

	assert.NotPanics(t, func() { wrapped(context.Background(), testEvent) })
	mw.Wait()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlerPanics))
	require.Equal(t, 1, recorder.count())
	assert.Contains(t, recorder.payloads[0]["text"], "PANIC - nil map write")
}

func TestWrapMessageHandler_AlertsOnErrorWithCooldown(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	mw, _ := newTestMiddleware(server.URL)
	calls := 0
	wrapped := mw.WrapMessageHandler(func(ctx context.Context, event models.DiscordMessageEvent) error {
		calls++
		return errors.New("failed to reply: HTTP 403 Forbidden")
	})

	wrapped(context.Background(), testEvent)
	other := testEvent
	other.MessageID = "msg-999"
	wrapped(context.Background(), other)
	mw.Wait()

	assert.Equal(t, 2, calls)
	require.Equal(t, 1, recorder.count(), "the same error is only alerted once per cooldown")

	blocks, ok := recorder.payloads[0]["blocks"].([]any)
	require.True(t, ok)
	assert.Len(t, blocks, 4)
}

func TestWrapMessageHandler_SuccessDoesNotAlert(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	mw, m := newTestMiddleware(server.URL)
	wrapped := mw.WrapMessageHandler(func(ctx context.Context, event models.DiscordMessageEvent) error {
		return nil
	})

	wrapped(context.Background(), testEvent)
	mw.Wait()

	assert.Equal(t, 0, recorder.count())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HandlerPanics))
}

func TestWrapMessageHandler_AlertsDisabledWithoutWebhook(t *testing.T) {
	mw, m := newTestMiddleware("")
	wrapped := mw.WrapMessageHandler(func(ctx context.Context, event models.DiscordMessageEvent) error {
		panic("boom")
	})

	assert.NotPanics(t, func() { wrapped(context.Background(), testEvent) })
	mw.Wait()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlerPanics))
}

func TestHTTPMiddleware_RecoversPanic(t *testing.T) {
	mw, m := newTestMiddleware("")
	handler := mw.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HandlerPanics))
}

func TestShutdown_DropsLaterAlerts(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder.handler(t))
	defer server.Close()

	mw, m := newTestMiddleware(server.URL)
	wrapped := mw.WrapMessageHandler(func(ctx context.Context, event models.DiscordMessageEvent) error {
		panic("late message")
	})

	wrapped(context.Background(), testEvent)
	mw.Shutdown()
	require.Equal(t, 1, recorder.count())

	assert.NotPanics(t, func() { wrapped(context.Background(), testEvent) })
	mw.Wait()

	assert.Equal(t, 1, recorder.count())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HandlerPanics))
}
