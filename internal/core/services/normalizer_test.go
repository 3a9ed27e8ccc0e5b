package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/httpclient"
	"github.com/stretchr/testify/assert"
)

func TestClassify_UpstreamStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		kind   domain.ErrorKind
	}{
		{401, domain.ErrAuth},
		{429, domain.ErrRateLimited},
		{400, domain.ErrBadRequest},
		{403, domain.ErrPermissionDenied},
		{500, domain.ErrService},
		{502, domain.ErrService},
		{503, domain.ErrService},
		{404, domain.ErrAPI},
		{422, domain.ErrAPI},
	}

	for _, tc := range cases {
		err := fmt.Errorf("request failed: %w", &httpclient.UpstreamError{
			StatusCode: tc.status,
			Body:       []byte(`{"error": {"message": "upstream says no"}}`),
			URL:        "http://example.test",
		})
		kind, msg := Classify(err)
		assert.Equal(t, tc.kind, kind, "status %d", tc.status)
		assert.Equal(t, "upstream says no", msg)
	}
}

func TestClassify_UpstreamMessageFallsBackToBody(t *testing.T) {
	err := &httpclient.UpstreamError{StatusCode: 500, Body: []byte("plain text failure")}
	kind, msg := Classify(err)
	assert.Equal(t, domain.ErrService, kind)
	assert.Equal(t, "plain text failure", msg)
}

func TestClassify_Timeout(t *testing.T) {
	kind, _ := Classify(context.DeadlineExceeded)
	assert.Equal(t, domain.ErrTimeout, kind)

	wrapped := fmt.Errorf("request failed: %w", &url.Error{
		Op:  "Post",
		URL: "http://example.test",
		Err: context.DeadlineExceeded,
	})
	kind, _ = Classify(wrapped)
	assert.Equal(t, domain.ErrTimeout, kind)
}

func TestClassify_NetworkError(t *testing.T) {
	err := fmt.Errorf("request failed: %w", &url.Error{
		Op:  "Post",
		URL: "http://unreachable.test",
		Err: errors.New("connection refused"),
	})
	kind, _ := Classify(err)
	assert.Equal(t, domain.ErrNetwork, kind)
}

func TestClassify_UnknownFallsBackToAPIError(t *testing.T) {
	kind, msg := Classify(errors.New("something odd"))
	assert.Equal(t, domain.ErrAPI, kind)
	assert.Equal(t, "something odd", msg)
}

func TestNormalize_EmptyContent(t *testing.T) {
	res := Normalize("p1", &domain.ProviderReply{Content: "   "}, nil, 5*time.Millisecond)
	assert.False(t, res.Success)
	assert.Equal(t, domain.ErrEmptyResponse, res.ErrorKind)
	assert.Equal(t, "p1", res.ProviderID)
}

func TestNormalize_Success(t *testing.T) {
	reply := &domain.ProviderReply{
		Content: "hello",
		Model:   "gpt-4o-mini",
		Usage:   domain.TokenUsage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5},
	}
	res := Normalize("p1", reply, nil, 42*time.Millisecond)
	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Content)
	assert.Equal(t, "gpt-4o-mini", res.Model)
	assert.Equal(t, int64(42), res.LatencyMs)
	assert.Empty(t, res.ErrorKind)
}
