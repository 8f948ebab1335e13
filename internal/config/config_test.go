package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		SupabaseURL:    "https://example.supabase.co",
		SupabaseAPIKey: "anon-key",
		CoinGeckoURL:   "https://api.coingecko.com",
		QuoteCurrency:  "pln",
		DBPath:         ":memory:",
		HTTPTimeout:    15 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing supabase url",
			mutate:      func(c *Config) { c.SupabaseURL = "" },
			wantErr:     true,
			errorString: "PORTFEL_SUPABASE_URL is required",
		},
		{
			name:        "bad supabase scheme",
			mutate:      func(c *Config) { c.SupabaseURL = "ftp://example.com" },
			wantErr:     true,
			errorString: "invalid Supabase URL scheme 'ftp'",
		},
		{
			name:        "missing api key",
			mutate:      func(c *Config) { c.SupabaseAPIKey = "" },
			wantErr:     true,
			errorString: "PORTFEL_SUPABASE_API_KEY is required",
		},
		{
			name:        "empty quote currency",
			mutate:      func(c *Config) { c.QuoteCurrency = "" },
			wantErr:     true,
			errorString: "quote currency cannot be empty",
		},
		{
			name:        "overlong quote currency",
			mutate:      func(c *Config) { c.QuoteCurrency = "zloty-polski" },
			wantErr:     true,
			errorString: "must be a short currency code",
		},
		{
			name:        "empty db path",
			mutate:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "cache store path cannot be empty",
		},
		{
			name:        "timeout too small",
			mutate:      func(c *Config) { c.HTTPTimeout = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name:        "timeout too large",
			mutate:      func(c *Config) { c.HTTPTimeout = time.Hour },
			wantErr:     true,
			errorString: "must be at most 5 minutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://api.coingecko.com", cfg.CoinGeckoURL)
	assert.Equal(t, "pln", cfg.QuoteCurrency)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFEL_SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("PORTFEL_QUOTE_CURRENCY", "usd")
	t.Setenv("PORTFEL_HTTP_TIMEOUT", "30s")

	cfg := Load()

	assert.Equal(t, "https://project.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "usd", cfg.QuoteCurrency)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}
