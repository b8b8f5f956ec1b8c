package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the REST API",
	Long: `Sign a bearer token with JWT_SECRET for an API client. The token identifies the client to
rate limiting and expires after JWT_TTL (a duration such as 90m) or JWT_EXPIRATION_HOURS
(default 24h).`,
	RunE: runToken,
}

var tokenClientID string

func init() {
	tokenCmd.Flags().StringVar(&tokenClientID, "client-id", "", "Client UUID to embed (default: a new random ID)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	clientID := uuid.New()
	if tokenClientID != "" {
		parsed, err := uuid.Parse(tokenClientID)
		if err != nil {
			return newUsageError("invalid --client-id: %v", err)
		}
		clientID = parsed
	}

	cfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(cfg).GenerateToken(clientID)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stderr, "Client ID: %s\n", clientID)
	_, _ = fmt.Fprintln(os.Stdout, token)
	return nil
}
