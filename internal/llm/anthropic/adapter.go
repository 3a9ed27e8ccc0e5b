package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/httpclient"
	"github.com/nulzo/quorum/internal/llm"
)

const defaultVersion = "2023-06-01"

func init() {
	llm.Register(string(llm.Anthropic), NewAdapter)
}

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewAdapter(config domain.ProviderConfig) (llm.Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com/v1"
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (a *Adapter) Name() string { return a.config.ID }
func (a *Adapter) Type() string { return string(llm.Anthropic) }

// --- Anthropic wire shapes ---

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type Response struct {
	ID         string    `json:"id"`
	Content    []Content `json:"content"`
	Model      string    `json:"model"`
	StopReason string    `json:"stop_reason"`
	Usage      Usage     `json:"usage"`
}

func toRequest(req *domain.GenerationRequest) Request {
	ar := Request{
		Model:       req.Model,
		System:      req.Settings.SystemPrompt,
		MaxTokens:   req.Settings.MaxTokens,
		Temperature: req.Settings.Temperature,
	}
	if ar.MaxTokens == 0 {
		ar.MaxTokens = 4096
	}
	ar.Messages = append(ar.Messages, Message{Role: "user", Content: req.Prompt})
	return ar
}

func (a *Adapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ProviderReply, error) {
	headers := map[string]string{
		"x-api-key":         a.config.APIKey,
		"anthropic-version": defaultVersion,
	}
	if v, ok := a.config.Config["version"]; ok {
		headers["anthropic-version"] = v
	}

	url := fmt.Sprintf("%s/messages", strings.TrimRight(a.config.BaseURL, "/"))

	var resp Response
	if err := httpclient.SendRequest(ctx, a.client, "POST", url, headers, toRequest(req), &resp); err != nil {
		return nil, err
	}

	fullText := ""
	for _, c := range resp.Content {
		if c.Type == "text" {
			fullText += c.Text
		}
	}

	return &domain.ProviderReply{
		Content: fullText,
		Model:   resp.Model,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}
