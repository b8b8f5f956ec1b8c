// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/parsing"
	"github.com/jonathan/resume-tailor/internal/sections"
)

// Defaults applied by MergeWithDefaults when neither the file nor a flag sets a value.
const (
	DefaultPort      = 8080
	DefaultOutputDir = "out"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Parsing
	Taxonomy          string  `json:"taxonomy,omitempty"`            // Path to a YAML section taxonomy
	PreambleRatio     float64 `json:"preamble_ratio,omitempty" validate:"omitempty,gt=0,lte=1"`
	HeaderZoneChars   int     `json:"header_zone_chars,omitempty" validate:"gte=0"`   // Leading chars scanned for portfolio URLs
	LocationZoneChars int     `json:"location_zone_chars,omitempty" validate:"gte=0"` // Leading chars scanned for a location line

	// Suggestions
	MaxSuggestions int               `json:"max_suggestions,omitempty" validate:"gte=0"`
	Models         map[string]string `json:"models,omitempty"` // Model name per tier: lite, standard, advanced

	// Output
	OutputDir string `json:"output_dir,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty" validate:"gte=0,lte=65535"`
	Verbose     bool   `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	for tier := range c.Models {
		switch llm.ModelTier(tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}

	if c.Taxonomy != "" {
		if _, err := os.Stat(c.Taxonomy); os.IsNotExist(err) {
			return fmt.Errorf("config error: taxonomy file not found: %s", c.Taxonomy)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Taxonomy == "" {
		result.Taxonomy = defaults.Taxonomy
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.OutputDir == "" {
		result.OutputDir = DefaultOutputDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.PreambleRatio == 0 {
		result.PreambleRatio = defaults.PreambleRatio
	}
	if result.PreambleRatio == 0 {
		result.PreambleRatio = parsing.DefaultPreambleRatioThreshold
	}
	if result.HeaderZoneChars == 0 {
		result.HeaderZoneChars = defaults.HeaderZoneChars
	}
	if result.LocationZoneChars == 0 {
		result.LocationZoneChars = defaults.LocationZoneChars
	}
	if result.MaxSuggestions == 0 {
		result.MaxSuggestions = defaults.MaxSuggestions
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}

	if len(result.Models) == 0 && len(defaults.Models) > 0 {
		result.Models = make(map[string]string, len(defaults.Models))
		for k, v := range defaults.Models {
			result.Models[k] = v
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// NewParser builds a parser from the taxonomy file and gate settings.
// Without a taxonomy file the built-in one is used.
func (c *Config) NewParser() (*parsing.Parser, error) {
	var taxonomy *sections.Taxonomy
	if c.Taxonomy != "" {
		cfg, err := sections.LoadConfig(c.Taxonomy)
		if err != nil {
			return nil, err
		}
		taxonomy, err = sections.BuildMatchers(cfg)
		if err != nil {
			return nil, err
		}
	}
	return parsing.New(taxonomy,
		parsing.WithPreambleRatio(c.PreambleRatio),
		parsing.WithContactZones(c.HeaderZoneChars, c.LocationZoneChars),
	), nil
}

// LLMConfig returns the model configuration with any per-tier overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range c.Models {
		if model = strings.TrimSpace(model); model != "" {
			cfg = cfg.WithModel(llm.ModelTier(tier), model)
		}
	}
	return cfg
}

// ResolveAPIKey returns the configured API key, falling back to GEMINI_API_KEY.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

// ResolveDatabaseURL returns the configured database URL, falling back to DATABASE_URL.
func (c *Config) ResolveDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return os.Getenv("DATABASE_URL")
}
