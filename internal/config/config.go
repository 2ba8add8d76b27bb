// Package config reads the runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type LLMConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Enabled reports whether AI mode can be offered.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && c.BaseURL != ""
}

// Endpoint is the chat completions URL for the configured base.
func (c LLMConfig) Endpoint() string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/chat/completions"
}

type EmailConfig struct {
	APIKey      string
	FromName    string
	FromAddress string
}

func (c EmailConfig) Enabled() bool {
	return c.APIKey != "" && c.FromAddress != ""
}

type TelegramConfig struct {
	Token  string
	ChatID int64
}

func (c TelegramConfig) Enabled() bool {
	return c.Token != "" && c.ChatID != 0
}

type Config struct {
	LogLevel  string
	LogFormat string

	WebHost string
	WebPort string

	LLM      LLMConfig
	Email    EmailConfig
	Telegram TelegramConfig

	DatabaseURL      string
	RedisURL         string
	SessionTTL       time.Duration
	PlaybookFile     string
	HealthCheckToken string

	ReportRetentionDays int
	RateLimitPerMinute  int
}

// Addr is the listen address of the web server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.WebHost, c.WebPort)
}

// LoadDotEnv loads the given env files, ignoring the ones that do not exist.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds a Config from the process environment.
func Load() (Config, error) {
	cfg := Config{
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogFormat:        os.Getenv("LOG_FORMAT"),
		WebHost:          getEnv("WEB_HOST", "localhost"),
		WebPort:          getEnv("WEB_PORT", "8081"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		PlaybookFile:     os.Getenv("PLAYBOOK_FILE"),
		HealthCheckToken: os.Getenv("HEALTH_CHECK_TOKEN"),
		LLM: LLMConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("LLM_MODEL", "gpt-4o-mini"),
		},
		Email: EmailConfig{
			APIKey:      os.Getenv("BREVO_API_KEY"),
			FromName:    getEnv("EMAIL_FROM_NAME", "AR.AI"),
			FromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_API_TOKEN"),
		},
	}

	var err error
	if cfg.LLM.Timeout, err = getDuration("LLM_TIMEOUT", 60*time.Second); err != nil {
		return cfg, err
	}
	if cfg.LLM.MaxRetries, err = getInt("LLM_MAX_RETRIES", 2); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.ReportRetentionDays, err = getInt("REPORT_RETENTION_DAYS", 90); err != nil {
		return cfg, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 10); err != nil {
		return cfg, err
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		cfg.Telegram.ChatID, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
