package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "https://www.lastbottlewines.com", cfg.DealURL)
	assert.Equal(t, 60*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.DedupWindow)
	assert.Equal(t, 100, cfg.DedupMaxEntries)
	assert.True(t, cfg.EnrichEnabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.VivinoTimeout)
	assert.Equal(t, 15*time.Second, cfg.EnrichTimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "winedeals", cfg.RedisStream)
	assert.Equal(t, 1, cfg.RedisStreamCount)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "localhost:11211", cfg.MemcacheAddr)
	assert.True(t, cfg.SafeMode)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("LASTBOTTLE_URL", "https://example.com/deal")
	t.Setenv("POLL_INTERVAL_SECONDS", "10")
	t.Setenv("DEAL_DEDUP_MINUTES", "2")
	t.Setenv("SAFE_MODE", "false")
	t.Setenv("USER_AGENT", "WineDealWorker/1.0")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "12345")

	cfg := LoadConfig()

	assert.Equal(t, "https://example.com/deal", cfg.DealURL)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.DedupWindow)
	assert.False(t, cfg.SafeMode)
	assert.Equal(t, "WineDealWorker/1.0", cfg.UserAgent)
	assert.Equal(t, "token", cfg.TelegramBotToken)
	assert.Equal(t, "12345", cfg.TelegramChatID)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	bad := *cfg
	bad.DealURL = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.PollInterval = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.DedupWindow = -time.Minute
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.TelegramBotToken = "token"
	bad.TelegramChatID = ""
	assert.Error(t, bad.Validate())
}
