package services

import (
	"testing"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	_ "github.com/nulzo/quorum/internal/llm/anthropic"
	_ "github.com/nulzo/quorum/internal/llm/ollama"
	_ "github.com/nulzo/quorum/internal/llm/openai"
)

func testConfigs() []domain.ProviderConfig {
	return []domain.ProviderConfig{
		{ID: "openai-main", Type: "openai", APIKey: "sk-real-key", DefaultModel: "gpt-4o", Enabled: true},
		{ID: "anthropic-main", Type: "anthropic", APIKey: "", DefaultModel: "claude-3-5-sonnet", Enabled: true},
		{ID: "local-ollama", Type: "ollama", BaseURL: "http://localhost:11434", DefaultModel: "llama3", Enabled: true},
		{ID: "disabled-one", Type: "openai", APIKey: "sk-other", Enabled: false},
	}
}

func TestRegistry_ValidateConfig(t *testing.T) {
	r := NewRegistry(testConfigs(), zap.NewNop())

	assert.True(t, r.ValidateConfig("openai-main"))
	assert.False(t, r.ValidateConfig("anthropic-main"), "empty key is not configured")
	assert.True(t, r.ValidateConfig("local-ollama"), "ollama needs no credential")
	assert.False(t, r.ValidateConfig("disabled-one"), "disabled providers are not registered")
	assert.False(t, r.ValidateConfig("nope"))
}

func TestRegistry_PlaceholderCredentials(t *testing.T) {
	configs := []domain.ProviderConfig{
		{ID: "p1", Type: "openai", APIKey: "ENV:MISSING_VAR", Enabled: true},
		{ID: "p2", Type: "openai", APIKey: "your-api-key-here", Enabled: true},
		{ID: "p3", Type: "openai", APIKey: "changeme", Enabled: true},
	}
	r := NewRegistry(configs, zap.NewNop())

	assert.False(t, r.ValidateConfig("p1"), "unresolved ENV reference")
	assert.False(t, r.ValidateConfig("p2"), "placeholder key")
	assert.False(t, r.ValidateConfig("p3"), "placeholder key")
	assert.Empty(t, r.AvailableProviders())
}

func TestRegistry_AvailableProvidersOrder(t *testing.T) {
	r := NewRegistry(testConfigs(), zap.NewNop())

	assert.Equal(t, []string{"openai-main", "local-ollama"}, r.AvailableProviders())
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry(testConfigs(), zap.NewNop())

	cfg, err := r.Describe("openai-main")
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.DefaultModel)

	_, err = r.Describe("missing")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRegistry_SkipsUnknownTypes(t *testing.T) {
	configs := []domain.ProviderConfig{
		{ID: "weird", Type: "does-not-exist", APIKey: "k", Enabled: true},
		{ID: "fine", Type: "openai", APIKey: "sk-real", Enabled: true},
	}
	r := NewRegistry(configs, zap.NewNop())

	assert.Equal(t, []string{"fine"}, r.All())
}
