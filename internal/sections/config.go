// Package sections provides the résumé section taxonomy: the canonical section order,
// the header variants that introduce each section, and compiled header matchers.
package sections

import (
	_ "embed"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// Preamble is the implicit first section holding text before any header.
const Preamble = "preamble"

// DefaultMaxHeaderLength caps header candidates so prose lines never match.
const DefaultMaxHeaderLength = 80

// Config is the editable taxonomy data: canonical order plus header variants per section.
type Config struct {
	Order           []string            `yaml:"order" json:"order"`
	Variants        map[string][]string `yaml:"variants" json:"variants"`
	MaxHeaderLength int                 `yaml:"max_header_length,omitempty" json:"max_header_length,omitempty"`
}

// ParseConfig decodes a taxonomy from YAML (JSON documents are accepted too).
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Message: "failed to decode taxonomy", Cause: err}
	}
	return &cfg, nil
}

// LoadConfig reads a taxonomy file from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Message: "failed to read taxonomy file", Cause: err}
	}
	return ParseConfig(data)
}

// DefaultConfig returns a fresh copy of the built-in taxonomy.
func DefaultConfig() *Config {
	cfg, err := ParseConfig(defaultConfigYAML)
	if err != nil {
		panic(err)
	}
	return cfg
}
