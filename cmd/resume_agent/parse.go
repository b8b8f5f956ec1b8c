package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/observability"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract and structure a résumé into canonical sections",
	Long: `Extract text from a résumé file (PDF, DOCX, HTML, Markdown or plain text), normalize it,
split it into canonical sections, and extract contact details.

Writes resume.parsed.json, resume.md and resume.meta.json to the output directory. With
--resegment, documents that fail the quality gate are re-segmented by the model.`,
	RunE: runParse,
}

var (
	parseConfigPath  string
	parseInputFile   string
	parseOutputDir   string
	parseResegment   bool
	parseAPIKey      string
	parseDatabaseURL string
	parseVerbose     bool
)

func init() {
	parseCmd.Flags().StringVar(&parseConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	parseCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to résumé file (required)")
	parseCmd.Flags().StringVarP(&parseOutputDir, "out", "o", "", "Output directory (default \"out\")")
	parseCmd.Flags().BoolVar(&parseResegment, "resegment", false, "Ask the model to re-segment documents that fail the quality gate")
	parseCmd.Flags().StringVar(&parseAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	parseCmd.Flags().StringVar(&parseDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	if parseInputFile == "" {
		return newUsageError("--in is required")
	}
	ctx := context.Background()

	cfg, err := loadConfigFile(parseConfigPath, parseVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = parseOutputDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = parseAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = parseDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = parseVerbose
	}
	cfg = cfg.MergeWithDefaults(config.Config{})

	parser, err := cfg.NewParser()
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}
	pipeline := ingestion.NewPipeline(ingestion.WithParser(parser), ingestion.WithVerbose(cfg.Verbose))

	result, err := pipeline.RunFile(ctx, parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", parseInputFile, err)
	}

	if parseResegment && result.Parse.NeedsResegmentation {
		if err := resegmentResult(ctx, &cfg, result); err != nil {
			return err
		}
	}

	if database, err := connectDatabase(ctx, cfg.ResolveDatabaseURL()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
	} else if database != nil {
		defer database.Close()
		runID, err := database.RecordRun(ctx, db.RunInput{
			Kind:        db.RunKindParse,
			SourceName:  result.Metadata.Filename,
			MIMEType:    result.Metadata.MIMEType,
			ContentHash: result.Metadata.ContentHash,
		}, []db.ArtifactInput{
			{Step: db.StepRawText, Category: db.CategoryIngestion, Text: result.RawText},
			{Step: db.StepMetadata, Category: db.CategoryIngestion, Content: result.Metadata},
			{Step: db.StepParsed, Category: db.CategoryParsing, Content: result.Parse},
		})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: run not recorded: %v\n", err)
		} else {
			result.Parse.RunID = runID.String()
		}
	}

	if err := ingestion.WriteOutput(cfg.OutputDir, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintMetadata(result.Metadata)
		printer.PrintParseResponse(result.Parse)
		printer.PrintContact(result.Parse.Contact)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully parsed %s\n", result.Metadata.Filename)
	_, _ = fmt.Fprintf(os.Stdout, "Sections: %v\n", result.Parse.Document.SectionNames())
	if result.Parse.NeedsResegmentation && !result.Parse.Resegmented {
		_, _ = fmt.Fprintf(os.Stdout, "Warning: section detection looks unreliable; rerun with --resegment\n")
	}
	if result.Parse.RunID != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Run ID: %s\n", result.Parse.RunID)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", filepath.Join(cfg.OutputDir, ingestion.ParsedFileName))
	return nil
}

// resegmentResult replaces result.Parse with the model's segmentation. Model
// failures keep the heuristic result and only warn.
func resegmentResult(ctx context.Context, cfg *config.Config, result *ingestion.Result) error {
	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return fmt.Errorf("API key is required for --resegment (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	svc, client, err := newTailoringService(ctx, cfg, apiKey)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	refined, err := svc.Refine(ctx, result.Parse)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: re-segmentation failed, keeping heuristic sections: %v\n", err)
		return nil
	}
	result.Parse = refined
	return nil
}
