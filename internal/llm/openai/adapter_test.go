package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdapter(serverURL string) *Adapter {
	return New(domain.ProviderConfig{
		ID:      "openai-test",
		Type:    "openai",
		APIKey:  "sk-test",
		BaseURL: serverURL,
		Enabled: true,
	})
}

func TestGenerate_ChatWireFormat(t *testing.T) {
	var captured ChatRequest
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := ChatResponse{ID: "chatcmpl-1", Model: "gpt-4o-mini"}
		resp.Choices = append(resp.Choices, struct {
			Index        int     `json:"index"`
			Message      Message `json:"message"`
			FinishReason string  `json:"finish_reason"`
		}{Message: Message{Role: "assistant", Content: "Bonjour"}, FinishReason: "stop"})
		resp.Usage = Usage{PromptTokens: 4, CompletionTokens: 2, TotalTokens: 6}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	reply, err := a.Generate(context.Background(), &domain.GenerationRequest{
		Prompt: "Say hello in French",
		Model:  "gpt-4o-mini",
		Settings: domain.Settings{
			Temperature:  0.3,
			MaxTokens:    50,
			SystemPrompt: "Be brief.",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 0.3, captured.Temperature)
	assert.Equal(t, 50, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, Message{Role: "system", Content: "Be brief."}, captured.Messages[0])
	assert.Equal(t, Message{Role: "user", Content: "Say hello in French"}, captured.Messages[1])

	assert.Equal(t, "Bonjour", reply.Content)
	assert.Equal(t, "gpt-4o-mini", reply.Model)
	assert.Equal(t, 6, reply.Usage.TotalTokens)
}

func TestGenerate_OrganizationHeader(t *testing.T) {
	var gotOrg string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrg = r.Header.Get("OpenAI-Organization")
		_ = json.NewEncoder(w).Encode(ChatResponse{Model: "gpt-4o-mini"})
	}))
	defer server.Close()

	a := New(domain.ProviderConfig{
		ID:      "openai-test",
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Config:  map[string]string{"organization": "org-123"},
	})
	_, err := a.Generate(context.Background(), &domain.GenerationRequest{Prompt: "hi", Model: "gpt-4o-mini"})
	require.NoError(t, err)

	assert.Equal(t, "org-123", gotOrg)
}

func TestGenerate_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	_, err := a.Generate(context.Background(), &domain.GenerationRequest{Prompt: "hi", Model: "gpt-4o-mini"})

	var upstream *httpclient.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Contains(t, string(upstream.Body), "Incorrect API key")
}

func TestComplete_LegacyEndpoint(t *testing.T) {
	var captured CompletionRequest
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := CompletionResponse{ID: "cmpl-1", Model: "gpt-3.5-turbo-instruct"}
		resp.Choices = append(resp.Choices, struct {
			Text         string `json:"text"`
			FinishReason string `json:"finish_reason"`
		}{Text: "RANKING: 1,2,3,4", FinishReason: "stop"})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	text, err := a.Complete(context.Background(), "gpt-3.5-turbo-instruct", "rank these")
	require.NoError(t, err)

	assert.Equal(t, "/completions", gotPath)
	assert.Equal(t, "gpt-3.5-turbo-instruct", captured.Model)
	assert.Equal(t, "rank these", captured.Prompt)
	assert.Equal(t, 0.2, captured.Temperature)
	assert.Equal(t, "RANKING: 1,2,3,4", text)
}

func TestComplete_ChatOnlyModelRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "This is a chat model and not supported in the v1/completions endpoint."}}`))
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	_, err := a.Complete(context.Background(), "gpt-4o-mini", "rank these")

	var upstream *httpclient.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, string(upstream.Body), "not supported in the v1/completions endpoint")
}

func TestChat_SingleTurn(t *testing.T) {
	var captured ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		resp := ChatResponse{Model: "gpt-4o-mini"}
		resp.Choices = append(resp.Choices, struct {
			Index        int     `json:"index"`
			Message      Message `json:"message"`
			FinishReason string  `json:"finish_reason"`
		}{Message: Message{Role: "assistant", Content: "done"}})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := testAdapter(server.URL)
	text, err := a.Chat(context.Background(), "gpt-4o-mini", "be a judge", "rank these")
	require.NoError(t, err)

	assert.Equal(t, "done", text)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "be a judge", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
}
