package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"preamble_ratio": 0.5,
		"max_suggestions": 8,
		"models": {"advanced": "gemini-2.5-flash"},
		"output_dir": "build",
		"verbose": true
	}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 0.5, cfg.PreambleRatio)
	assert.Equal(t, 8, cfg.MaxSuggestions)
	assert.Equal(t, "gemini-2.5-flash", cfg.Models["advanced"])
	assert.Equal(t, "build", cfg.OutputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "empty path", path: "", wantMsg: "config path is empty"},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.json"), wantMsg: "failed to read config file"},
		{name: "invalid JSON", path: writeConfig(t, `{ invalid json }`), wantMsg: "failed to parse config JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "valid values", cfg: Config{PreambleRatio: 0.3, MaxSuggestions: 5, Port: 9000, Models: map[string]string{"lite": "m"}}},
		{name: "ratio above one", cfg: Config{PreambleRatio: 1.5}, wantErr: "PreambleRatio"},
		{name: "negative zone", cfg: Config{HeaderZoneChars: -1}, wantErr: "HeaderZoneChars"},
		{name: "port out of range", cfg: Config{Port: 70000}, wantErr: "Port"},
		{name: "unknown tier", cfg: Config{Models: map[string]string{"huge": "m"}}, wantErr: "unknown model tier"},
		{name: "missing taxonomy", cfg: Config{Taxonomy: "/nonexistent/sections.yaml"}, wantErr: "taxonomy file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{MaxSuggestions: 3}
	defaults := Config{
		MaxSuggestions: 10,
		APIKey:         "key",
		Port:           9090,
		Models:         map[string]string{"advanced": "custom"},
	}

	result := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, 3, result.MaxSuggestions, "should keep explicit value")
	assert.Equal(t, "key", result.APIKey, "should use default for empty value")
	assert.Equal(t, 9090, result.Port)
	assert.Equal(t, "custom", result.Models["advanced"])
	assert.Equal(t, DefaultOutputDir, result.OutputDir)
	assert.Equal(t, parsing.DefaultPreambleRatioThreshold, result.PreambleRatio)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	result := (&Config{}).MergeWithDefaults(Config{})

	assert.Equal(t, DefaultPort, result.Port)
	assert.Equal(t, DefaultOutputDir, result.OutputDir)
	assert.Empty(t, result.APIKey)
}

func TestNewParser(t *testing.T) {
	t.Run("built-in taxonomy", func(t *testing.T) {
		cfg := &Config{PreambleRatio: 0.9}
		p, err := cfg.NewParser()
		require.NoError(t, err)
		assert.Contains(t, p.Taxonomy().Order(), "experience")
	})

	t.Run("custom taxonomy file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sections.yaml")
		require.NoError(t, os.WriteFile(path, []byte("order:\n  - preamble\n  - experience\n  - hobbies\nvariants:\n  experience:\n    - Experience\n  hobbies:\n    - Hobbies\n"), 0644))

		p, err := (&Config{Taxonomy: path}).NewParser()
		require.NoError(t, err)
		doc := p.ParseText("Jane Doe\n\nHobbies\nClimbing\n\nExperience\nAcme")
		assert.Equal(t, []string{"hobbies", "experience"}, doc.SectionNames())
	})

	t.Run("unreadable taxonomy", func(t *testing.T) {
		_, err := (&Config{Taxonomy: filepath.Join(t.TempDir(), "missing.yaml")}).NewParser()
		assert.Error(t, err)
	})
}

func TestLLMConfig(t *testing.T) {
	cfg := (&Config{Models: map[string]string{"advanced": "custom-pro", "lite": "  "}}).LLMConfig()
	assert.Equal(t, "custom-pro", cfg.GetModel(llm.TierAdvanced))
	assert.Equal(t, llm.DefaultConfig().GetModel(llm.TierLite), cfg.GetModel(llm.TierLite))
}

func TestResolveFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env")

	assert.Equal(t, "env-key", (&Config{}).ResolveAPIKey())
	assert.Equal(t, "file-key", (&Config{APIKey: "file-key"}).ResolveAPIKey())
	assert.Equal(t, "postgres://env", (&Config{}).ResolveDatabaseURL())
}
