package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Yahoo    YahooConfig
	Telegram TelegramConfig

	// Scan defaults
	Scan ScanConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds the quote source configuration
type YahooConfig struct {
	BaseURL       string
	UserAgent     string
	MarketSuffix  string // appended to bare symbols, ".BK" for SET
	RatePerSecond int    // local token bucket limit
	QuoteCacheTTL time.Duration
}

// TelegramConfig holds operator-channel notification settings.
// An empty token disables notifications entirely.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// ScanConfig holds default scan parameters used when the caller omits them
type ScanConfig struct {
	Market           string
	MinVolumeValue   float64 // THB notional
	RiskLevel        string  // low, medium, high
	MinDividendYield float64 // percent
	SniperMode       bool
	Budget           float64 // informational, used downstream for position sizing
	StrictDividend   bool    // missing yield data counts as 0 instead of a placeholder estimate
	AutoScanInterval time.Duration
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "setscan"),
			User:            getEnv("DB_USER", "setscan"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Yahoo: YahooConfig{
			BaseURL:       getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			UserAgent:     getEnv("YAHOO_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			MarketSuffix:  getEnv("YAHOO_MARKET_SUFFIX", ".BK"),
			RatePerSecond: getEnvAsInt("YAHOO_RATE_PER_SECOND", 5),
			QuoteCacheTTL: getEnvAsDuration("YAHOO_QUOTE_CACHE_TTL", "1m"),
		},

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},

		// Scan defaults
		Scan: ScanConfig{
			Market:           getEnv("SCAN_MARKET", "SET100"),
			MinVolumeValue:   getEnvAsFloat("SCAN_MIN_VOLUME_VALUE", 10_000_000),
			RiskLevel:        getEnv("SCAN_RISK_LEVEL", "medium"),
			MinDividendYield: getEnvAsFloat("SCAN_MIN_DIVIDEND_YIELD", 0),
			SniperMode:       getEnvAsBool("SCAN_SNIPER_MODE", false),
			Budget:           getEnvAsFloat("SCAN_BUDGET", 100_000),
			StrictDividend:   getEnvAsBool("SCAN_STRICT_DIVIDEND", false),
			AutoScanInterval: getEnvAsDuration("SCAN_AUTO_INTERVAL", "1m"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Scan.RiskLevel {
	case "low", "medium", "high":
	default:
		return fmt.Errorf("SCAN_RISK_LEVEL must be one of: low, medium, high")
	}

	if c.Scan.MinVolumeValue < 0 {
		return fmt.Errorf("SCAN_MIN_VOLUME_VALUE must not be negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
