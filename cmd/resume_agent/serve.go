package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
)

var (
	serveConfigPath  string
	servePort        int
	serveAPIKey      string
	serveDatabaseURL string
	serveMaxUpload   int64
	serveVerbose     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the parse, apply, merge and suggestion operations.

Runs are persisted when a database URL is available (--db-url or DATABASE_URL), suggestions
are generated when a Gemini API key is available (--api-key or GEMINI_API_KEY), and bearer
token auth is enforced when JWT_SECRET is set. The port comes from --port, then PORT, then
the config file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload-bytes", server.DefaultMaxUploadBytes, "Maximum request body size")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfigFile(serveConfigPath, serveVerbose)
	if err != nil {
		return err
	}
	switch {
	case cmd.Flags().Changed("port"):
		cfg.Port = servePort
	case os.Getenv("PORT") != "":
		port, err := strconv.Atoi(os.Getenv("PORT"))
		if err != nil || port <= 0 || port > 65535 {
			return newUsageError("invalid PORT %q", os.Getenv("PORT"))
		}
		cfg.Port = port
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = serveVerbose
	}
	cfg = cfg.MergeWithDefaults(config.Config{})

	parser, err := cfg.NewParser()
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}

	srvCfg := server.Config{
		Port:           cfg.Port,
		Pipeline:       ingestion.NewPipeline(ingestion.WithParser(parser), ingestion.WithVerbose(cfg.Verbose)),
		MaxUploadBytes: serveMaxUpload,
		Verbose:        cfg.Verbose,
	}

	database, err := connectDatabase(ctx, cfg.ResolveDatabaseURL())
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
		srvCfg.Store = database
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: DATABASE_URL not set, runs will not be persisted\n")
	}

	if apiKey := cfg.ResolveAPIKey(); apiKey != "" {
		svc, client, err := newTailoringService(ctx, &cfg, apiKey)
		if err != nil {
			return err
		}
		defer client.Close() //nolint:errcheck
		srvCfg.Tailor = svc
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: GEMINI_API_KEY not set, /api/suggestions is disabled\n")
	}

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}
	srvCfg.JWT = jwtCfg

	srvCfg.RateLimit = ratelimit.LoadConfig()

	return server.New(srvCfg).Start()
}
