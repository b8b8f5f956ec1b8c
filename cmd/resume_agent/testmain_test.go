package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

// builtBinary is the resume_agent binary compiled by TestMain when no
// prebuilt one exists under bin/.
var builtBinary string

// TestMain loads .env when present and, unless running in short mode,
// compiles the CLI once for the tests that exec it.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	flag.Parse()

	if !testing.Short() {
		if _, err := os.Stat(prebuiltBinary()); err != nil {
			dir, err := os.MkdirTemp("", "resume_agent-test")
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: cannot create build dir: %v\n", err)
			} else {
				builtBinary = buildBinary(dir)
			}
		}
	}

	code := m.Run()
	if builtBinary != "" {
		_ = os.RemoveAll(filepath.Dir(builtBinary))
	}
	os.Exit(code)
}

func prebuiltBinary() string {
	return filepath.Join("..", "..", "bin", "resume_agent")
}

func buildBinary(dir string) string {
	out := filepath.Join(dir, "resume_agent")
	cmd := exec.Command("go", "build", "-o", out, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: building resume_agent failed, CLI tests will skip: %v\n", err)
		return ""
	}
	return out
}
