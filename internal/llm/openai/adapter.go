package openai

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

func init() {
	llm.Register(string(llm.OpenAI), NewAdapter)
}

type Adapter struct {
	config domain.ProviderConfig
	client *http.Client
}

func NewAdapter(config domain.ProviderConfig) (llm.Provider, error) {
	return New(config), nil
}

// New returns the concrete adapter. The judge evaluator uses it
// directly for its Complete/Chat surface.
func New(config domain.ProviderConfig) *Adapter {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	return &Adapter{
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (a *Adapter) Name() string { return a.config.ID }
func (a *Adapter) Type() string { return string(llm.OpenAI) }

// --- OpenAI wire shapes ---

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Legacy free-form completion shapes, used by the judge's primary path.
type CompletionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type CompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

func (a *Adapter) headers() map[string]string {
	h := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}
	if org, ok := a.config.Config["organization"]; ok {
		h["OpenAI-Organization"] = org
	}
	return h
}

func toChatReq(req *domain.GenerationRequest) ChatRequest {
	cr := ChatRequest{
		Model:       req.Model,
		MaxTokens:   req.Settings.MaxTokens,
		Temperature: req.Settings.Temperature,
	}
	if req.Settings.SystemPrompt != "" {
		cr.Messages = append(cr.Messages, Message{Role: "system", Content: req.Settings.SystemPrompt})
	}
	cr.Messages = append(cr.Messages, Message{Role: "user", Content: req.Prompt})
	return cr
}

func (a *Adapter) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.ProviderReply, error) {
	var resp ChatResponse
	url := fmt.Sprintf("%s/chat/completions", strings.TrimRight(a.config.BaseURL, "/"))

	if err := httpclient.SendRequest(ctx, a.client, "POST", url, a.headers(), toChatReq(req), &resp); err != nil {
		return nil, err
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &domain.ProviderReply{
		Content: content,
		Model:   resp.Model,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Complete calls the legacy /completions endpoint with a bare prompt.
// Chat-only models reject this endpoint; the caller is expected to
// detect that and retry through Chat.
func (a *Adapter) Complete(ctx context.Context, model, prompt string) (string, error) {
	var resp CompletionResponse
	url := fmt.Sprintf("%s/completions", strings.TrimRight(a.config.BaseURL, "/"))

	body := CompletionRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: 0.2,
	}

	if err := httpclient.SendRequest(ctx, a.client, "POST", url, a.headers(), body, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Text, nil
}

// Chat performs a single system+user turn-based exchange.
func (a *Adapter) Chat(ctx context.Context, model, system, user string) (string, error) {
	req := &domain.GenerationRequest{
		Prompt: user,
		Model:  model,
		Settings: domain.Settings{
			MaxTokens:    domain.DefaultMaxTokens,
			Temperature:  0.2,
			SystemPrompt: system,
			Timeout:      domain.DefaultTimeout,
		},
	}
	reply, err := a.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
