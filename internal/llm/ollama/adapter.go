package ollama

import (
	"strings"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/llm"
	"github.com/nulzo/quorum/internal/llm/openai"
)

func init() {
	llm.Register(string(llm.Ollama), NewAdapter)
}

// Adapter speaks to a local ollama instance through its OpenAI-compatible
// endpoint, so it simply embeds the openai adapter pointed at /v1.
type Adapter struct {
	llm.Provider
	config domain.ProviderConfig
}

func NewAdapter(config domain.ProviderConfig) (llm.Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if !strings.HasSuffix(config.BaseURL, "/v1") {
		config.BaseURL = strings.TrimRight(config.BaseURL, "/") + "/v1"
	}

	oaAdapter, err := openai.NewAdapter(config)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		Provider: oaAdapter,
		config:   config,
	}, nil
}

func (a *Adapter) Name() string { return a.config.ID }
func (a *Adapter) Type() string { return string(llm.Ollama) }
