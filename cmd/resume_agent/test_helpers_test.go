package main

import (
	"os"
	"testing"
)

// getBinaryPath returns the resume_agent binary to exec, preferring bin/.
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}
	if path := prebuiltBinary(); fileExists(path) {
		return path
	}
	if builtBinary == "" {
		t.Skip("resume_agent binary unavailable; see TestMain output")
	}
	return builtBinary
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
