package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/filmax/internal/services"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	config.ApplyEnv(".env")

	if err := shared.SetLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		logger.Warn("local database unavailable, login will not persist", "path", config.Database.Path, "error", err)
		db = nil
	}

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout}).
		WithRateLimit(config.API.RequestsPerSecond).
		WithLogger(logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: "config.toml",
		API:        apiService,
		DB:         db,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "filmax",
		Usage:    "Browse the Filmax movie catalog from your terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if db != nil {
		db.Close()
	}

	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotAuthenticated):
		logger.Fatal("not logged in, run 'filmax auth login' first")
	default:
		logger.Fatalf("application error: %v", err)
	}
}
