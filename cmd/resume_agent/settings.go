package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/tailoring"
)

// loadConfigFile reads and validates the --config file. An empty path yields
// the zero Config so flag overrides and defaults still apply.
func loadConfigFile(path string, verbose bool) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	if verbose {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", path)
	}
	return *loaded, nil
}

// connectDatabase opens and migrates the run store. A blank URL returns nil
// without error: persistence is optional everywhere.
func connectDatabase(ctx context.Context, databaseURL string) (*db.DB, error) {
	if databaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

// newTailoringService builds the suggestion service from cfg. The returned
// client must be closed by the caller.
func newTailoringService(ctx context.Context, cfg *config.Config, apiKey string) (*tailoring.Service, llm.Client, error) {
	parser, err := cfg.NewParser()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build parser: %w", err)
	}
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	svc := tailoring.NewService(client,
		tailoring.WithParser(parser),
		tailoring.WithMaxSuggestions(cfg.MaxSuggestions),
		tailoring.WithVerbose(cfg.Verbose),
	)
	return svc, client, nil
}
