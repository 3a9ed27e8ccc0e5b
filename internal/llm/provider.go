package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/nulzo/quorum/internal/core/domain"
)

type ProviderName string

const (
	Ollama    ProviderName = "ollama"
	OpenAI    ProviderName = "openai"
	Anthropic ProviderName = "anthropic"
	Google    ProviderName = "google"
)

// Provider is the contract every vendor adapter implements. An adapter
// owns the vendor wire shape in both directions: it builds the request
// payload from the neutral GenerationRequest and parses the raw reply
// back into a ProviderReply. Transport and vendor faults come back as
// errors; classification happens at the dispatch boundary, not here.
type Provider interface {
	Name() string
	Type() string // e.g., "openai", "anthropic"
	Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ProviderReply, error)
}

// Factory is a function that creates a Provider instance given a configuration.
type Factory func(cfg domain.ProviderConfig) (Provider, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a provider factory available to the system.
// 'providerType' is the key (e.g., "openai", "ollama").
func Register(providerType string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[providerType]; exists {
		panic(fmt.Sprintf("provider factory %s already registered", providerType))
	}
	factories[providerType] = f
}

// Get retrieves a factory to create a provider of a specific type.
func Get(providerType string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[providerType]
	if !ok {
		return nil, fmt.Errorf("provider factory not found for type: %s", providerType)
	}
	return f, nil
}

// CreateProvider looks up the config's Type in the registry and invokes
// the matching constructor.
func CreateProvider(cfg domain.ProviderConfig) (Provider, error) {
	factoryFunc, err := Get(cfg.Type)
	if err != nil {
		return nil, fmt.Errorf("factory lookup failed for type %s: %w", cfg.Type, err)
	}
	return factoryFunc(cfg)
}
