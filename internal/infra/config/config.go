package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
)

const (
	BackendTelegram = "telegram"
	BackendSlack    = "slack"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	ChatBackend      string
	TelegramToken    string
	ReportChatID     int64
	SlackBotToken    string
	SlackChannelID   string
	AttendanceAPIURL string
	DatabaseURL      string // Optional; enables the member cache
	Location         *time.Location
	LogLevel         string
	Environment      string
	CronSpecPost     string // When the daily report is posted
	CronSpecEdit     string // When the posted report is refreshed
	CatchUpWindow    time.Duration
	HTTPTimeout      time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.ChatBackend = strings.ToLower(getEnv("CHAT_BACKEND", BackendTelegram))
	switch cfg.ChatBackend {
	case BackendTelegram:
		cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
		if cfg.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
		}
		chatIDStr := os.Getenv("REPORT_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("REPORT_CHAT_ID is not set")
		}
		cfg.ReportChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REPORT_CHAT_ID: %w", err)
		}
	case BackendSlack:
		cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
		if cfg.SlackBotToken == "" {
			return nil, fmt.Errorf("SLACK_BOT_TOKEN is not set")
		}
		cfg.SlackChannelID = os.Getenv("SLACK_CHANNEL_ID")
		if cfg.SlackChannelID == "" {
			return nil, fmt.Errorf("SLACK_CHANNEL_ID is not set")
		}
	default:
		return nil, fmt.Errorf("unsupported CHAT_BACKEND %q", cfg.ChatBackend)
	}

	cfg.AttendanceAPIURL = getEnv("ATTENDANCE_API_URL", "https://root.shuttleapp.rs/")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Asia/Kolkata"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getEnv("ENVIRONMENT", "development"))

	cfg.CronSpecPost = getEnv("CRON_SPEC_REPORT_POST", "0 18 * * *") // 18:00 daily
	cfg.CronSpecEdit = getEnv("CRON_SPEC_REPORT_EDIT", "0 19 * * *") // 19:00 daily

	cfg.CatchUpWindow, err = getDuration("SCHEDULER_CATCH_UP_WINDOW", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
