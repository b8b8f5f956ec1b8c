package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/server"
)

const testTokenSecret = "cli-test-secret-at-least-32-bytes-long"

func TestTokenCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)
	clientID := uuid.New()

	cmd := exec.Command(binaryPath, "token", "--client-id", clientID.String())
	cmd.Env = append(os.Environ(), "JWT_SECRET="+testTokenSecret, "JWT_EXPIRATION_HOURS=1")
	output, err := cmd.Output()
	require.NoError(t, err)

	svc := server.NewJWTService(&config.JWTConfig{Secret: testTokenSecret, TTL: time.Hour, Issuer: config.DefaultJWTIssuer})
	claims, err := svc.ValidateToken(strings.TrimSpace(string(output)))
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
}

func TestTokenCommand_Errors(t *testing.T) {
	binaryPath := getBinaryPath(t)

	tests := []struct {
		name     string
		args     []string
		env      []string
		want     string
		exitCode int
	}{
		{name: "missing secret", args: []string{"token"}, env: []string{"JWT_SECRET="}, want: "JWT_SECRET is required", exitCode: 1},
		{name: "bad client id", args: []string{"token", "--client-id", "nope"}, env: []string{"JWT_SECRET=" + testTokenSecret}, want: "invalid --client-id", exitCode: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Env = append(os.Environ(), tt.env...)
			output, err := cmd.CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.want)
			if exitError, ok := err.(*exec.ExitError); ok {
				assert.Equal(t, tt.exitCode, exitError.ExitCode())
			}
		})
	}
}
