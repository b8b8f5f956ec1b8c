package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTimeout, cfg.timeout())
	assert.Equal(t, DefaultMaxRetries, cfg.maxRetries())
	assert.Contains(t, cfg.SystemInstruction, "Never invent")
}

func TestGetModel(t *testing.T) {
	tests := []struct {
		name     string
		models   map[ModelTier]string
		tier     ModelTier
		expected string
	}{
		{name: "exact tier", models: map[ModelTier]string{TierAdvanced: "pro"}, tier: TierAdvanced, expected: "pro"},
		{name: "falls back to standard", models: map[ModelTier]string{TierStandard: "flash", TierLite: "lite"}, tier: TierAdvanced, expected: "flash"},
		{name: "falls back to lite", models: map[ModelTier]string{TierLite: "lite"}, tier: "unknown", expected: "lite"},
		{name: "nothing configured", models: map[ModelTier]string{}, tier: TierAdvanced, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.expected, cfg.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	cfg := DefaultConfig()
	custom := cfg.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced), "original must not change")
	assert.Equal(t, "custom-model", custom.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", custom.GetModel(TierLite))
	assert.Equal(t, cfg.SystemInstruction, custom.SystemInstruction)
}

func TestConfigDefaultsForZeroValues(t *testing.T) {
	zero := &Config{}
	assert.Equal(t, DefaultTemperature, zero.temperature())
	assert.Equal(t, DefaultTimeout, zero.timeout())
	assert.Equal(t, 0, zero.maxRetries())

	tuned := &Config{Temperature: 0.4, Timeout: 5 * time.Second, MaxRetries: -3}
	assert.Equal(t, float32(0.4), tuned.temperature())
	assert.Equal(t, 5*time.Second, tuned.timeout())
	assert.Equal(t, 0, tuned.maxRetries())
}
