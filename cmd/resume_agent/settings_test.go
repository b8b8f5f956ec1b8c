package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := loadConfigFile("", false)
		require.NoError(t, err)
		assert.Zero(t, cfg.Port)
	})

	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.json", `{"port": 9090, "max_suggestions": 5, "output_dir": "build"}`)
		cfg, err := loadConfigFile(path, false)
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 5, cfg.MaxSuggestions)
		assert.Equal(t, "build", cfg.OutputDir)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.json", `{"preamble_ratio": 2}`)
		_, err := loadConfigFile(path, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config error")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfigFile(filepath.Join(t.TempDir(), "missing.json"), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestConnectDatabase_NoURL(t *testing.T) {
	database, err := connectDatabase(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, database)
}

func TestUsageError(t *testing.T) {
	err := newUsageError("--%s is required", "in")
	assert.Equal(t, "--in is required", err.Error())

	var usage *usageError
	assert.True(t, errors.As(err, &usage))
}
