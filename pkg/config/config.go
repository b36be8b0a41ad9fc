package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Rate cache
	VolatileRateTTL time.Duration
	PeggedRateTTL   time.Duration
	RateCacheSize   int
	RateCacheSweep  time.Duration

	// Rate providers
	PriceFeedURL    string
	PriceFeedAPIKey string
	BackupFeedURL   string

	// External accounting system
	AccountingURL    string
	AccountingID     string
	AccountingToken  string
	AccountingJitter time.Duration // inter-job delay, self-imposed API rate limit

	// Queue worker
	WorkerInterval time.Duration
	WorkerBatch    int

	// Reconciliation tolerance in the currency's minor unit. Kept
	// configurable because supported assets use 2, 6 or 8 decimal places.
	ReconcileTolerance string

	// API rate limit, e.g. "100-M" for 100 requests per minute.
	APIRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("VOLATILE_RATE_TTL", "60s")
	viper.SetDefault("PEGGED_RATE_TTL", "300s")
	viper.SetDefault("RATE_CACHE_SIZE", 512)
	viper.SetDefault("RATE_CACHE_SWEEP", "60s")
	viper.SetDefault("PRICE_FEED_URL", "")
	viper.SetDefault("PRICE_FEED_API_KEY", "")
	viper.SetDefault("BACKUP_FEED_URL", "")
	viper.SetDefault("ACCOUNTING_URL", "")
	viper.SetDefault("ACCOUNTING_CLIENT_ID", "")
	viper.SetDefault("ACCOUNTING_CLIENT_TOKEN", "")
	viper.SetDefault("ACCOUNTING_JOB_DELAY", "500ms")
	viper.SetDefault("WORKER_INTERVAL", "30s")
	viper.SetDefault("WORKER_BATCH", 10)
	viper.SetDefault("RECONCILE_TOLERANCE", "0.01")
	viper.SetDefault("API_RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.VolatileRateTTL = parseDurationOr("VOLATILE_RATE_TTL", 60*time.Second)
	cfg.PeggedRateTTL = parseDurationOr("PEGGED_RATE_TTL", 300*time.Second)
	cfg.RateCacheSize = viper.GetInt("RATE_CACHE_SIZE")
	cfg.RateCacheSweep = parseDurationOr("RATE_CACHE_SWEEP", 60*time.Second)

	cfg.PriceFeedURL = viper.GetString("PRICE_FEED_URL")
	cfg.PriceFeedAPIKey = viper.GetString("PRICE_FEED_API_KEY")
	cfg.BackupFeedURL = viper.GetString("BACKUP_FEED_URL")

	cfg.AccountingURL = viper.GetString("ACCOUNTING_URL")
	cfg.AccountingID = viper.GetString("ACCOUNTING_CLIENT_ID")
	cfg.AccountingToken = viper.GetString("ACCOUNTING_CLIENT_TOKEN")
	cfg.AccountingJitter = parseDurationOr("ACCOUNTING_JOB_DELAY", 500*time.Millisecond)

	cfg.WorkerInterval = parseDurationOr("WORKER_INTERVAL", 30*time.Second)
	cfg.WorkerBatch = viper.GetInt("WORKER_BATCH")

	cfg.ReconcileTolerance = viper.GetString("RECONCILE_TOLERANCE")
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
