package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Rate feed
	FeedBaseURL string
	FeedTimeout time.Duration

	// Currencies
	LocalCurrency     string
	ReferenceCurrency string
	SyncCurrencies    []string

	// Fiscal percentages, as whole-number percents ("16" means 16%).
	VATPercent             string
	SurchargePercent       string
	SurchargeExemptMethods []string

	// Sync endpoint throttle, in limiter format ("10-H" is 10 per hour).
	SyncRateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Environment variables win over .env values.
func LoadConfig() (*Config, error) {
	// Ignore error if no .env file exists
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("FEED_BASE_URL", "https://api.bcv.org.ve")
	viper.SetDefault("FEED_TIMEOUT", "10s")
	viper.SetDefault("LOCAL_CURRENCY", "VES")
	viper.SetDefault("REFERENCE_CURRENCY", "USD")
	viper.SetDefault("SYNC_CURRENCIES", "USD,EUR")
	viper.SetDefault("IVA_PERCENT", "16")
	viper.SetDefault("IGTF_PERCENT", "3")
	viper.SetDefault("IGTF_EXEMPT_METHODS", "efectivo,cash")
	viper.SetDefault("SYNC_RATE_LIMIT", "10-H")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.FeedBaseURL = viper.GetString("FEED_BASE_URL")
	feedTimeoutStr := viper.GetString("FEED_TIMEOUT")
	feedTimeout, err := time.ParseDuration(feedTimeoutStr)
	if err != nil {
		feedTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for FEED_TIMEOUT ('%s'). Defaulting to %s.\n", feedTimeoutStr, feedTimeout)
	}
	cfg.FeedTimeout = feedTimeout

	cfg.LocalCurrency = strings.ToUpper(viper.GetString("LOCAL_CURRENCY"))
	cfg.ReferenceCurrency = strings.ToUpper(viper.GetString("REFERENCE_CURRENCY"))
	cfg.SyncCurrencies = splitList(viper.GetString("SYNC_CURRENCIES"))

	cfg.VATPercent = viper.GetString("IVA_PERCENT")
	cfg.SurchargePercent = viper.GetString("IGTF_PERCENT")
	cfg.SurchargeExemptMethods = splitList(viper.GetString("IGTF_EXEMPT_METHODS"))

	cfg.SyncRateLimit = viper.GetString("SYNC_RATE_LIMIT")

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
