package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the application configuration
type Config struct {
	// Database configuration
	DBPath string `validate:"required"`

	// Redis configuration (publisher; disabled when addr is empty)
	RedisAddr      string
	RedisDB        int
	RedisStream    string
	RedisStreamMax int64

	// Memcache configuration (per-storefront fetch block cache)
	MemcacheAddr string

	// Cycle configuration
	CheckInterval time.Duration `validate:"min=1m"`
	RecencyWindow time.Duration `validate:"min=1h"`

	// EnabledStores is the ordered set of storefront names checked each
	// cycle; overridable per cycle by the enabled_stores setting row
	EnabledStores []string `validate:"min=1"`

	// Mail configuration
	SMTPHost    string
	SMTPPort    int
	EmailSender string `validate:"omitempty,email"`
	EmailSecret string

	// Admin web server
	HTTPAddr string

	// URLs for the storefront extractors
	EpicURL       string
	SteamURL      string
	GOGURL        string
	HumbleURL     string
	ItchURL       string
	NintendoURL   string
	XboxURL       string
	GooglePlayURL string

	// Environment
	Environment string
}

// DefaultEnabledStores lists every known storefront in display order.
var DefaultEnabledStores = []string{
	"Epic Games Store",
	"Steam",
	"GOG",
	"Humble Bundle",
	"Itch.io",
	"Nintendo Switch",
	"Xbox Store",
	"Google Play Games",
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMax, _ := strconv.ParseInt(getEnv("REDIS_STREAM_MAXLEN", "1000"), 10, 64)
	checkInterval, _ := strconv.Atoi(getEnv("CHECK_INTERVAL_MINUTES", "360"))
	recencyHours, _ := strconv.Atoi(getEnv("RECENCY_WINDOW_HOURS", "168"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	enabled := DefaultEnabledStores
	if raw := os.Getenv("ENABLED_STORES"); raw != "" {
		enabled = SplitList(raw)
	}

	return Config{
		DBPath:         getEnv("DB_PATH", "gamewatch.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        redisDB,
		RedisStream:    getEnv("REDIS_STREAM", "freegames"),
		RedisStreamMax: redisStreamMax,
		MemcacheAddr:   os.Getenv("MEMCACHE_ADDR"),
		CheckInterval:  time.Duration(checkInterval) * time.Minute,
		RecencyWindow:  time.Duration(recencyHours) * time.Hour,
		EnabledStores:  enabled,
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       smtpPort,
		EmailSender:    os.Getenv("EMAIL_SENDER"),
		EmailSecret:    os.Getenv("EMAIL_PASSWORD"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":5000"),
		EpicURL:        getEnv("EPIC_URL", "https://store-site-backend-static.ak.epicgames.com/freeGamesPromotions"),
		SteamURL:       getEnv("STEAM_URL", "https://steamdb.info/upcoming/free/"),
		GOGURL:         getEnv("GOG_URL", "https://www.gog.com/en/games?priceRange=0,0&discounted=true"),
		HumbleURL:      getEnv("HUMBLE_URL", "https://www.humblebundle.com/store"),
		ItchURL:        getEnv("ITCH_URL", "https://itch.io/games/on-sale"),
		NintendoURL:    getEnv("NINTENDO_URL", "https://searching.nintendo-europe.com/en/select"),
		XboxURL:        getEnv("XBOX_URL", "https://www.xbox.com/en-AU/games/browse/DynamicChannel.GameDeals?Price=0"),
		GooglePlayURL:  getEnv("GOOGLEPLAY_URL", "https://play.google.com/store/apps/collection/promotion_3002a18_gamesonsale?hl=en-US"),
		Environment:    getEnv("GAMEWATCH_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.EmailSender != "" && c.SMTPHost == "" {
		return fmt.Errorf("EMAIL_SENDER is set but SMTP_HOST is empty")
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

// SplitList parses a comma-separated list, dropping empty entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
