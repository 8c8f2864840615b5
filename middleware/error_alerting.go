package middleware

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"tmbot/core/log"
	"tmbot/metrics"
	"tmbot/models"
)

type SlackAlertConfig struct {
	WebhookURL  string
	Environment string
	AppName     string
	LogsURL     string
}

// MessageHandler processes one inbound chat message
type MessageHandler func(ctx context.Context, event models.DiscordMessageEvent) error

type ErrorAlertMiddleware struct {
	config        SlackAlertConfig
	metrics       *metrics.Metrics
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	// wg tracks in-flight alert posts; sendMu orders wg.Add against Shutdown
	wg     sync.WaitGroup
	sendMu sync.Mutex
	closed bool
}

func NewErrorAlertMiddleware(config SlackAlertConfig, m *metrics.Metrics) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		metrics:       m,
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute, // Don't alert same error more than once per 10min
	}
}

// HTTPMiddleware recovers panics in the ops HTTP handlers
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapMessageHandler keeps one failing or panicking message from affecting any other
func (m *ErrorAlertMiddleware) WrapMessageHandler(handler MessageHandler) func(context.Context, models.DiscordMessageEvent) {
	return func(ctx context.Context, event models.DiscordMessageEvent) {
		alertContext := fmt.Sprintf("Discord message %s in channel %s", event.MessageID, event.ChannelID)
		defer m.recoverAndAlert(alertContext)

		if err := handler(ctx, event); err != nil {
			log.Error("❌ Failed to process Discord message", "message", event.MessageID, "error", err)
			m.alertOnError(err, alertContext)
		}
	}
}

// Wait blocks until queued alerts have been posted
func (m *ErrorAlertMiddleware) Wait() {
	m.wg.Wait()
}

// Shutdown stops accepting new alerts and waits for queued ones to be posted.
// Errors after Shutdown are still logged.
func (m *ErrorAlertMiddleware) Shutdown() {
	m.sendMu.Lock()
	m.closed = true
	m.sendMu.Unlock()

	m.wg.Wait()
}

func (m *ErrorAlertMiddleware) alertOnError(err error, alertContext string) {
	errorMsg := fmt.Sprintf("%s: %v", alertContext, err)

	// Context carries per-message ids, so dedupe on the error text alone
	hash := fmt.Sprintf("%x", md5.Sum([]byte(err.Error())))

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if lastAlert, exists := m.alertedErrors[hash]; exists {
		if time.Since(lastAlert) < m.alertCooldown {
			return
		}
	}

	m.alertedErrors[hash] = time.Now()
	m.sendAsync(errorMsg, alertContext)
}

func (m *ErrorAlertMiddleware) recoverAndAlert(alertContext string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", alertContext, r)
		log.Error("❌ Recovered panic", "context", alertContext, "panic", r)
		if m.metrics != nil {
			m.metrics.HandlerPanics.Inc()
		}
		m.sendAsync(errorMsg, alertContext+" (PANIC)")
	}
}

func (m *ErrorAlertMiddleware) sendAsync(errorMsg, alertContext string) {
	if m.config.WebhookURL == "" {
		return // Slack alerts disabled
	}

	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if m.closed {
		log.Warn("⚠️ Dropping Slack alert after shutdown", "context", alertContext)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.sendSlackAlert(errorMsg, alertContext)
	}()
}

func (m *ErrorAlertMiddleware) sendSlackAlert(errorMsg, alertContext string) {
	envPrefix := ""
	if m.config.Environment == "dev" {
		envPrefix = "[dev] "
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(
			slack.PlainTextType,
			fmt.Sprintf("🚨 %s[%s] Error Alert", envPrefix, m.config.AppName),
			true,
			false,
		)),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Service:* %s", m.config.AppName), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Environment:* %s", m.config.Environment), false, false),
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Context:* %s", alertContext), false, false),
		}, nil),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Error:*\n```%s```", errorMsg), false, false),
			nil,
			nil,
		),
	}
	if m.config.LogsURL != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("🔗 <%s|View Logs>", m.config.LogsURL), false, false),
			nil,
			nil,
		))
	}

	msg := &slack.WebhookMessage{
		Text:   errorMsg,
		Blocks: &slack.Blocks{BlockSet: blocks},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := slack.PostWebhookContext(ctx, m.config.WebhookURL, msg); err != nil {
		log.Error("❌ Failed to send Slack alert", "error", err)
	}
}
