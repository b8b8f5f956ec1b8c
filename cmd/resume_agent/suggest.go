package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/types"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate tailoring suggestions for a job description",
	Long: `Structure a résumé, then ask the model for rewrite and keyword-emphasis suggestions targeting
the job description. Suggestions are anchored on the canonical markdown that "parse" writes, so
apply them to that text.`,
	RunE: runSuggest,
}

var (
	suggestConfigPath  string
	suggestResumeFile  string
	suggestJobFile     string
	suggestOutputFile  string
	suggestMax         int
	suggestAPIKey      string
	suggestDatabaseURL string
	suggestVerbose     bool
)

func init() {
	suggestCmd.Flags().StringVar(&suggestConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	suggestCmd.Flags().StringVarP(&suggestResumeFile, "resume", "r", "", "Path to résumé file (required)")
	suggestCmd.Flags().StringVarP(&suggestJobFile, "job", "j", "", "Path to job description text file (required)")
	suggestCmd.Flags().StringVarP(&suggestOutputFile, "out", "o", "", "Path to write suggestions JSON (default stdout)")
	suggestCmd.Flags().IntVar(&suggestMax, "max", 0, "Maximum number of suggestions")
	suggestCmd.Flags().StringVar(&suggestAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	suggestCmd.Flags().StringVar(&suggestDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	suggestCmd.Flags().BoolVarP(&suggestVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	if suggestResumeFile == "" || suggestJobFile == "" {
		return newUsageError("--resume and --job are required")
	}
	ctx := context.Background()

	cfg, err := loadConfigFile(suggestConfigPath, suggestVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("max") {
		cfg.MaxSuggestions = suggestMax
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = suggestAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = suggestDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = suggestVerbose
	}
	cfg = cfg.MergeWithDefaults(config.Config{})

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	jobText, err := os.ReadFile(suggestJobFile)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	parser, err := cfg.NewParser()
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}
	result, err := ingestion.NewPipeline(ingestion.WithParser(parser), ingestion.WithVerbose(cfg.Verbose)).RunFile(ctx, suggestResumeFile)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", suggestResumeFile, err)
	}

	svc, client, err := newTailoringService(ctx, &cfg, apiKey)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	req := &types.SuggestRequest{
		ResumeText:     result.Parse.Document.FullText,
		JobDescription: string(jobText),
	}
	list, err := svc.Suggest(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate suggestions: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintSuggestions(list)
	}

	if database, err := connectDatabase(ctx, cfg.ResolveDatabaseURL()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
	} else if database != nil {
		defer database.Close()
		runID, err := database.RecordRun(ctx, db.RunInput{
			Kind:        db.RunKindSuggest,
			SourceName:  result.Metadata.Filename,
			MIMEType:    result.Metadata.MIMEType,
			ContentHash: result.Metadata.ContentHash,
		}, []db.ArtifactInput{
			{Step: db.StepRawText, Category: db.CategoryIngestion, Text: req.ResumeText},
			{Step: db.StepJob, Category: db.CategoryIngestion, Text: req.JobDescription},
			{Step: db.StepSuggestions, Category: db.CategorySuggestions, Content: types.SuggestionResponse{Suggestions: list}},
		})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "Run ID: %s\n", runID)
		}
	}

	return writeSuggestions(suggestOutputFile, list)
}
