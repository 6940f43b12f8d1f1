package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/novtok/internal/repositories"
	"github.com/desertthunder/novtok/internal/services"
	"github.com/desertthunder/novtok/internal/session"
	"github.com/desertthunder/novtok/internal/shared"
	"github.com/desertthunder/novtok/internal/tasks"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	svc := services.NewAPIService(config.API.BaseURL(),
		services.WithRateLimit(config.API.RatePerSecond),
		services.WithTimeout(config.API.Timeout()),
	)
	media := services.NewMediaUploader(config.Media.UploadURL, config.Media.UploadPreset, config.Media.Folder, nil)

	opts := RunnerOpts{
		Config:  config,
		Service: svc,
		Media:   media,
		Logger:  logger,
	}

	// The database is created by `setup database`; other commands degrade to
	// unauthenticated API access until it exists.
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			store := repositories.NewSessionStore(repositories.NewSessionRepository(db))
			cache := repositories.NewBookCacheAdapter(repositories.NewBookRepository(db))

			opts.DB = db
			opts.Gate = session.NewGate(store, svc, config.API.StatusKey, logger)
			opts.Engine = tasks.NewLibraryEngine(svc, cache)
		}
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "novtok",
		Usage:    "Read, rate, and publish books on the NovTok platform",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

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
