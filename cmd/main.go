package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/viralclips/clipctl/internal/services"
	"github.com/viralclips/clipctl/internal/shared"
	"github.com/viralclips/clipctl/internal/updates"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := ""
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
			configPath = "config.toml"
		}
	}

	// Anonymous jobs are tied to a session id; generate one per run when the
	// config does not pin it.
	sessionID := config.Session.ID
	if sessionID == "" {
		sessionID = shared.GenerateID()
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	svc := services.NewClipService(config.Server.BaseURL, config.Server.ClipPath, sessionID, httpClient)
	api := services.NewAPIService(config.Server.BaseURL, sessionID, httpClient)
	channel := updates.NewClient(config.Server.BaseURL, config.Updates.Path, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Service:    svc,
		API:        api,
		Channel:    channel,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := buildApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

func buildApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "clipctl",
		Usage:    "Generate and edit viral clips from YouTube videos",
		Version:  "0.3.0",
		Commands: r.register(),
	}
}
