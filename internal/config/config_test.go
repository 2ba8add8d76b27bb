package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"WEB_HOST", "WEB_PORT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "LLM_MODEL",
		"LLM_TIMEOUT", "LLM_MAX_RETRIES", "SESSION_TTL", "REPORT_RETENTION_DAYS", "RATE_LIMIT_PER_MINUTE", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8081", cfg.Addr())
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.LLM.Endpoint())
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 90, cfg.ReportRetentionDays)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)
	assert.False(t, cfg.LLM.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://llm.local/v1/")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("TELEGRAM_BOT_API_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "http://llm.local/v1/chat/completions", cfg.LLM.Endpoint())
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	assert.Contains(t, cfg.Addr(), ":9000")
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "LLM_TIMEOUT", value: "soon"},
		{key: "LLM_MAX_RETRIES", value: "many"},
		{key: "REPORT_RETENTION_DAYS", value: "-1"},
		{key: "TELEGRAM_CHAT_ID", value: "chat"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ARAI_TEST_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ARAI_TEST_VALUE") })

	err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("ARAI_TEST_VALUE"))
}
