package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/faddix/aninote/internal/services"
	"github.com/faddix/aninote/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("ANINOTE_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config, using defaults: %v", err)
		}
	}

	client := services.NewGraphQLClient(
		config.AniList.BaseURL,
		config.Credentials.AniList.Token,
		config.AniList.RateLimit,
	)
	anilist := services.NewAniListService(client)
	lookup := services.NewAniListLookup(client)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Remote:     anilist,
		Lookup:     lookup,
		AniList:    anilist,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "aninote",
		Usage:    "Manage anime notes locally and on AniList",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatal("no AniList token configured, add credentials.anilist.token to config.toml")
		}
		logger.Fatalf("application error: %v", err)
	}
}
