package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Supabase REST backend
	SupabaseURL    string
	SupabaseAPIKey string

	// Price feed
	CoinGeckoURL    string
	CoinGeckoAPIKey string
	QuoteCurrency   string

	// Local cache store
	DBPath string

	// HTTP
	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		SupabaseURL:    getEnv("PORTFEL_SUPABASE_URL", ""),
		SupabaseAPIKey: getEnv("PORTFEL_SUPABASE_API_KEY", ""),

		CoinGeckoURL:    getEnv("PORTFEL_COINGECKO_URL", "https://api.coingecko.com"),
		CoinGeckoAPIKey: getEnv("PORTFEL_COINGECKO_API_KEY", ""),
		QuoteCurrency:   getEnv("PORTFEL_QUOTE_CURRENCY", "pln"),

		DBPath: getEnv("PORTFEL_DB_PATH", "./data/portfel.db"),

		HTTPTimeout: getEnvDuration("PORTFEL_HTTP_TIMEOUT", 15*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.SupabaseURL == "" {
		errors = append(errors, "PORTFEL_SUPABASE_URL is required")
	} else if u, err := url.Parse(c.SupabaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL '%s': %v", c.SupabaseURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid Supabase URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	}

	if c.SupabaseAPIKey == "" {
		errors = append(errors, "PORTFEL_SUPABASE_API_KEY is required")
	}

	if c.CoinGeckoURL == "" {
		errors = append(errors, "price feed URL cannot be empty")
	} else if _, err := url.Parse(c.CoinGeckoURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid price feed URL '%s': %v", c.CoinGeckoURL, err))
	}

	if c.QuoteCurrency == "" {
		errors = append(errors, "quote currency cannot be empty")
	} else if len(c.QuoteCurrency) > 5 {
		errors = append(errors, fmt.Sprintf("invalid quote currency '%s': must be a short currency code", c.QuoteCurrency))
	}

	if c.DBPath == "" {
		errors = append(errors, "cache store path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create cache store directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
