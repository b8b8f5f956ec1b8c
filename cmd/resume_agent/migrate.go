package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the run store schema",
	Long:  "Apply the run and artifact schema to the PostgreSQL database. Safe to run repeatedly.",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migratePrint       bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema SQL instead of applying it")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	if migratePrint {
		_, _ = fmt.Fprint(os.Stdout, db.Schema())
		return nil
	}

	databaseURL := migrateDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return newUsageError("DATABASE_URL environment variable or --db-url is required")
	}

	database, err := connectDatabase(context.Background(), databaseURL)
	if err != nil {
		return err
	}
	database.Close()

	_, _ = fmt.Fprintf(os.Stdout, "Database schema is up to date\n")
	return nil
}
