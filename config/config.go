package config

import (
	"os"
	"strconv"
	"time"

	apperr "sjsage522/winedealworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Deal page configuration
	DealURL      string
	PollInterval time.Duration

	// Deduplication
	DedupWindow     time.Duration
	DedupMaxEntries int

	// Enrichment
	EnrichEnabled bool
	VivinoTimeout time.Duration
	EnrichTimeout time.Duration

	// Telegram notification
	TelegramBotToken string
	TelegramChatID   string

	// Redis stream notification
	RedisAddr        string
	RedisDB          int
	RedisStream      string
	RedisStreamCount int
	RedisStreamMax   int
	RedisEnabled     bool

	// Memcache configuration (rate-limit blocks)
	MemcacheAddr string

	// Behavior flags. SafeMode skips all outbound enrichment traffic;
	// UserAgent, when set, replaces the rotating pool.
	SafeMode  bool
	UserAgent string
	KeepAwake bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	pollInterval, _ := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "60"))
	dedupMinutes, _ := strconv.Atoi(getEnv("DEAL_DEDUP_MINUTES", "5"))
	dedupMax, _ := strconv.Atoi(getEnv("DEAL_DEDUP_MAX_ENTRIES", "100"))
	vivinoTimeout, _ := strconv.ParseFloat(getEnv("VIVINO_TIMEOUT_SECONDS", "1.5"), 64)
	enrichTimeout, _ := strconv.Atoi(getEnv("ENRICH_TIMEOUT_SECONDS", "15"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	redisStreamMax, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX", "500"))

	return &Config{
		DealURL:          getEnv("LASTBOTTLE_URL", "https://www.lastbottlewines.com"),
		PollInterval:     time.Duration(pollInterval) * time.Second,
		DedupWindow:      time.Duration(dedupMinutes) * time.Minute,
		DedupMaxEntries:  dedupMax,
		EnrichEnabled:    getEnv("ENRICH_ENABLED", "true") == "true",
		VivinoTimeout:    time.Duration(vivinoTimeout * float64(time.Second)),
		EnrichTimeout:    time.Duration(enrichTimeout) * time.Second,
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          redisDB,
		RedisStream:      getEnv("REDIS_STREAM", "winedeals"),
		RedisStreamCount: redisStreamCount,
		RedisStreamMax:   redisStreamMax,
		RedisEnabled:     getEnv("REDIS_ENABLED", "false") == "true",
		MemcacheAddr:     getEnv("MEMCACHE_ADDR", "localhost:11211"),
		SafeMode:         getEnv("SAFE_MODE", "true") == "true",
		UserAgent:        getEnv("USER_AGENT", ""),
		KeepAwake:        getEnv("KEEP_AWAKE", "false") == "true",
		Environment:      getEnv("WINEDEAL_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration can actually drive the watcher.
func (c *Config) Validate() error {
	if c.DealURL == "" {
		return apperr.NewConfiguration("deal URL must not be empty", nil)
	}
	if c.PollInterval <= 0 {
		return apperr.NewConfiguration("poll interval must be positive", nil)
	}
	if c.DedupWindow <= 0 {
		return apperr.NewConfiguration("dedup window must be positive", nil)
	}
	if c.RedisEnabled && c.RedisStreamCount <= 0 {
		return apperr.NewConfiguration("redis stream count must be positive", nil)
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return apperr.NewConfiguration("telegram bot token and chat id must be set together", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
