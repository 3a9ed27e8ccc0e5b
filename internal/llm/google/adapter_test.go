package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_GeminiWireFormat(t *testing.T) {
	var captured GeminiRequest
	var gotPath, gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(GeminiResponse{
			Candidates: []GeminiCandidate{{
				Content: GeminiContent{
					Role:  "model",
					Parts: []GeminiPart{{Text: "Bonjour"}},
				},
				FinishReason: "STOP",
			}},
			UsageMetadata: UsageMetadata{PromptTokenCount: 8, CandidatesTokenCount: 3, TotalTokenCount: 11},
		})
	}))
	defer server.Close()

	adapter, err := NewAdapter(domain.ProviderConfig{
		ID:      "google-test",
		Type:    "google",
		APIKey:  "AIza-test",
		BaseURL: server.URL,
		Enabled: true,
	})
	require.NoError(t, err)

	reply, err := adapter.Generate(context.Background(), &domain.GenerationRequest{
		Prompt: "Say hello in French",
		Model:  "gemini-1.5-flash",
		Settings: domain.Settings{
			Temperature:  0.7,
			MaxTokens:    100,
			SystemPrompt: "Be brief.",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "AIza-test", gotKey)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "Say hello in French", captured.Contents[0].Parts[0].Text)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "Be brief.", captured.SystemInstruction.Parts[0].Text)
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, 0.7, captured.GenerationConfig.Temperature)
	assert.Equal(t, 100, captured.GenerationConfig.MaxOutputTokens)

	assert.Equal(t, "Bonjour", reply.Content)
	assert.Equal(t, "gemini-1.5-flash", reply.Model)
	assert.Equal(t, domain.TokenUsage{PromptTokens: 8, CompletionTokens: 3, TotalTokens: 11}, reply.Usage)
}

func TestShape_OmitsSystemInstructionWhenEmpty(t *testing.T) {
	gr := Shape(&domain.GenerationRequest{
		Prompt:   "hi",
		Model:    "gemini-1.5-flash",
		Settings: domain.Settings{Temperature: 0.5, MaxTokens: 10},
	})

	assert.Nil(t, gr.SystemInstruction)
	require.Len(t, gr.Contents, 1)
	assert.Equal(t, "hi", gr.Contents[0].Parts[0].Text)
}

func TestGenerate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(GeminiResponse{})
	}))
	defer server.Close()

	adapter, err := NewAdapter(domain.ProviderConfig{
		ID:      "google-test",
		APIKey:  "AIza-test",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	reply, err := adapter.Generate(context.Background(), &domain.GenerationRequest{Prompt: "hi", Model: "gemini-1.5-flash"})
	require.NoError(t, err)

	assert.Empty(t, reply.Content)
}
