package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"tmbot/core"
	"tmbot/core/log"
)

const defaultTraderGradesURL = "https://api.tokenmetrics.com/v2/trader-grades"

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type TokenMetricsConfig struct {
	APIKey string
	APIURL string
	// MaxConcurrency caps in-flight provider calls; 0 means unbounded
	MaxConcurrency int
	// HTTPTimeout of 0 keeps the transport default (no timeout)
	HTTPTimeout time.Duration
}

// IsConfigured returns true if all required TokenMetrics configuration is present
func (c TokenMetricsConfig) IsConfigured() bool {
	return c.APIKey != "" && c.APIURL != ""
}

type SlackAlertConfig struct {
	WebhookURL string
}

// IsConfigured returns true if error alerts should be posted to Slack
func (c SlackAlertConfig) IsConfigured() bool {
	return c.WebhookURL != ""
}

type AppConfig struct {
	Port          string // Optional with default "8080"
	Environment   string
	LogLevel      string
	ServerLogsURL string

	DiscordConfig      DiscordConfig
	TokenMetricsConfig TokenMetricsConfig
	SlackAlertConfig   SlackAlertConfig
}

// LoadConfig reads envFile (if present) and the process environment.
// A missing credential yields a *core.ConfigurationError.
func LoadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Warn("⚠️ Could not load env file, continuing with system env vars", "file", envFile)
		}
	}

	botToken, err := getEnvRequired("DISCORD_BOT_TOKEN", "DISCORD_TOKEN")
	if err != nil {
		return nil, err
	}

	apiKey, err := getEnvRequired("TOKENMETRICS_API_KEY", "TOKENMETRICS_API")
	if err != nil {
		return nil, err
	}

	maxConcurrency, err := getEnvInt("TOKENMETRICS_MAX_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}
	if maxConcurrency < 0 {
		return nil, fmt.Errorf("TOKENMETRICS_MAX_CONCURRENCY must not be negative, got %d", maxConcurrency)
	}

	httpTimeout, err := getEnvDuration("TOKENMETRICS_HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		Port:          getEnvWithDefault("PORT", "8080"),
		Environment:   getEnvWithDefault("ENVIRONMENT", "dev"),
		LogLevel:      getEnvWithDefault("LOG_LEVEL", "info"),
		ServerLogsURL: getEnvWithDefault("SERVER_LOGS_URL", ""),

		DiscordConfig: DiscordConfig{
			BotToken: botToken,
		},

		TokenMetricsConfig: TokenMetricsConfig{
			APIKey:         apiKey,
			APIURL:         getEnvWithDefault("TOKENMETRICS_API_URL", defaultTraderGradesURL),
			MaxConcurrency: maxConcurrency,
			HTTPTimeout:    httpTimeout,
		},

		SlackAlertConfig: SlackAlertConfig{
			WebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},
	}

	if config.SlackAlertConfig.IsConfigured() {
		log.Info("✅ Slack error alerts configured")
	} else {
		log.Info("⚠️ Slack error alerts not configured - errors will only be logged")
	}

	return config, nil
}

// getEnvRequired returns the first non-empty value among keys, reporting the first key when all are empty
func getEnvRequired(keys ...string) (string, error) {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value, nil
		}
	}
	return "", &core.ConfigurationError{Key: keys[0]}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %s", key, value)
	}
	return parsed, nil
}
