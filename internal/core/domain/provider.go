package domain

import "strings"

// ProviderConfig represents the configuration for a single AI provider.
// It is loaded once at startup and never mutated afterwards.
type ProviderConfig struct {
	ID           string            `json:"id" yaml:"id" mapstructure:"id"`
	Type         string            `json:"type" yaml:"type" mapstructure:"type"`
	Name         string            `json:"name" yaml:"name" mapstructure:"name"`
	APIKey       string            `json:"-" yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string            `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Models       []string          `json:"models" yaml:"models" mapstructure:"models"`
	DefaultModel string            `json:"default_model" yaml:"default_model" mapstructure:"default_model"`
	Config       map[string]string `json:"config,omitempty" yaml:"config" mapstructure:"config"`
	Enabled      bool              `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// placeholder values that frequently leak in from sample config files.
// A key matching any of these is treated the same as a missing key.
var placeholderKeys = []string{
	"changeme",
	"your-api-key",
	"sk-xxx",
}

// Configured reports whether this provider holds a usable credential.
// Local providers (ollama) need no key; they are configured when a base
// URL is present.
func (c ProviderConfig) Configured() bool {
	if !c.Enabled {
		return false
	}
	if c.Type == "ollama" {
		return c.BaseURL != ""
	}
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return false
	}
	// An unresolved "ENV:VAR" reference means the variable was not set.
	if strings.HasPrefix(key, "ENV:") {
		return false
	}
	lower := strings.ToLower(key)
	for _, p := range placeholderKeys {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// ProviderStatus is a zero-network view of a provider derived purely
// from its configuration.
type ProviderStatus struct {
	ProviderID   string   `json:"provider_id"`
	Configured   bool     `json:"configured"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
}

// Probe states reported by the connection tester.
const (
	ProbeConnected     = "connected"
	ProbeError         = "error"
	ProbeNotConfigured = "not_configured"
)

// ProbeResult is the outcome of a live connectivity check against one
// provider.
type ProbeResult struct {
	ProviderID string `json:"provider_id"`
	Status     string `json:"status"`
	LatencyMs  int64  `json:"latency_ms,omitempty"`
	Model      string `json:"model,omitempty"`
	Error      string `json:"error,omitempty"`
}
