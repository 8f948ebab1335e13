// Package cli provides common initialization for the portfel command:
// env loading, logging, configuration and component wiring.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"portfel/internal/config"
	"portfel/internal/core"
	"portfel/internal/log"
	"portfel/internal/quotes"
	"portfel/internal/session"
	"portfel/internal/store"
	"portfel/internal/supabase"
	"portfel/internal/syncer"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging with default settings.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// App bundles the wired components every subcommand needs.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Store    *store.Store
	Backend  *supabase.Client
	Session  *session.Manager
	Expenses *syncer.Syncer[core.Expense]
	Holdings *syncer.Syncer[core.Holding]
	Quotes   *quotes.Client
}

// NewApp loads configuration and wires every component, exiting the
// process on configuration or store failure.
func NewApp() *App {
	LoadEnvFile()
	logger := SetupLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath, logger)
	if err != nil {
		logger.Error("Failed to open cache store", log.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}

	backend := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAPIKey, cfg.HTTPTimeout, logger)
	sm := session.NewManager(st, backend, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Backend:  backend,
		Session:  sm,
		Expenses: syncer.ForExpenses(backend, st, sm, logger),
		Holdings: syncer.ForHoldings(backend, st, sm, logger),
		Quotes: quotes.NewClient(cfg.CoinGeckoURL, cfg.CoinGeckoAPIKey,
			cfg.QuoteCurrency, nil, cfg.HTTPTimeout, logger),
	}
}

// Close releases the app's resources.
func (a *App) Close() {
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn("Failed to close cache store", log.FieldError, err)
	}
}
