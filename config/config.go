package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Marketplace configuration
	EbaySearchURL string
	MaxResults    int

	// Browser configuration
	ChromeBin       string
	BrowserSessions int
	FetchTimeout    time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	MinActionDelay  time.Duration
	MaxActionDelay  time.Duration

	// Scoring configuration
	FeePercent float64

	// Pipeline configuration
	MaxConcurrency int
	CrawlInterval  time.Duration

	// Block cache (memcache) configuration
	MemcacheAddr string
	BlockWindow  time.Duration

	// Seen store (Postgres) configuration
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Feed publisher (Redis) configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// API configuration
	APIAddr  string
	FeedSize int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		EbaySearchURL: getEnv("EBAY_SEARCH_URL", "https://www.ebay.com/sch/i.html"),
		MaxResults:    getEnvInt("MAX_RESULTS", 20),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		BrowserSessions: getEnvInt("BROWSER_SESSIONS", 2),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT_SECONDS", 45),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelay:  getEnvDuration("RETRY_BASE_DELAY_SECONDS", 2),
		MinActionDelay:  getEnvMillis("MIN_ACTION_DELAY_MS", 800),
		MaxActionDelay:  getEnvMillis("MAX_ACTION_DELAY_MS", 2500),

		FeePercent: getEnvFloat("PLATFORM_FEE_PERCENT", 13.0),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		CrawlInterval:  getEnvDuration("CRAWL_INTERVAL_SECONDS", 0),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),
		BlockWindow:  getEnvDuration("BLOCK_WINDOW_SECONDS", 600),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "hunter"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "hunter"),
		PostgresDB:       getEnv("POSTGRES_DB", "auctionhunter"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "deals"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 500),

		APIAddr:  getEnv("API_ADDR", ":8080"),
		FeedSize: getEnvInt("FEED_SIZE", 100),

		Environment: getEnv("HUNTER_ENVIRONMENT", "development"),
	}
}

// DSN returns the PostgreSQL connection string for the seen store
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.FeePercent < 0 || c.FeePercent >= 100 {
		return fmt.Errorf("platform fee percent must be in [0, 100): %v", c.FeePercent)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max concurrency must be positive: %d", c.MaxConcurrency)
	}
	if c.BrowserSessions < 1 {
		return fmt.Errorf("browser sessions must be positive: %d", c.BrowserSessions)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("max results must be positive: %d", c.MaxResults)
	}
	if c.MinActionDelay > c.MaxActionDelay {
		return fmt.Errorf("min action delay %v exceeds max %v", c.MinActionDelay, c.MaxActionDelay)
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}

func getEnvMillis(key string, defaultMillis int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMillis)) * time.Millisecond
}
