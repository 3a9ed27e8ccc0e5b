package services

import (
	"fmt"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/llm"
	"go.uber.org/zap"
)

// Registry is the read-only table of provider descriptors and their
// adapters. It is built once at startup and safe for concurrent use
// without locking: nothing mutates it afterwards.
type Registry struct {
	configs  map[string]domain.ProviderConfig
	adapters map[string]llm.Provider
	order    []string
}

// NewRegistry builds adapters for every enabled provider config. A
// provider whose adapter type is unknown is skipped with a warning
// rather than failing startup; a provider lacking a credential is kept
// (it shows up as not configured, and never receives a dispatch).
func NewRegistry(configs []domain.ProviderConfig, logger *zap.Logger) *Registry {
	r := &Registry{
		configs:  make(map[string]domain.ProviderConfig),
		adapters: make(map[string]llm.Provider),
	}

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		adapter, err := llm.CreateProvider(cfg)
		if err != nil {
			logger.Warn("Skipping provider with unknown type",
				zap.String("provider", cfg.ID),
				zap.String("type", cfg.Type),
				zap.Error(err),
			)
			continue
		}
		r.configs[cfg.ID] = cfg
		r.adapters[cfg.ID] = adapter
		r.order = append(r.order, cfg.ID)
	}

	return r
}

// ValidateConfig reports whether the provider holds a usable credential.
func (r *Registry) ValidateConfig(providerID string) bool {
	cfg, ok := r.configs[providerID]
	return ok && cfg.Configured()
}

// AvailableProviders returns the ids with valid credentials, in
// registration order.
func (r *Registry) AvailableProviders() []string {
	var ids []string
	for _, id := range r.order {
		if r.configs[id].Configured() {
			ids = append(ids, id)
		}
	}
	return ids
}

// Describe returns the config for a provider id.
func (r *Registry) Describe(providerID string) (domain.ProviderConfig, error) {
	cfg, ok := r.configs[providerID]
	if !ok {
		return domain.ProviderConfig{}, fmt.Errorf("%w: %s", ErrUnknownProvider, providerID)
	}
	return cfg, nil
}

// Adapter returns the live adapter for a provider id.
func (r *Registry) Adapter(providerID string) (llm.Provider, error) {
	a, ok := r.adapters[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerID)
	}
	return a, nil
}

// All returns every registered provider id in registration order.
func (r *Registry) All() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
