package services

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/store/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTester(t *testing.T, configs []domain.ProviderConfig, cacheSvc cache.Service) *Tester {
	t.Helper()
	registry := NewRegistry(configs, zap.NewNop())
	dispatcher := NewDispatcher(registry, zap.NewNop(), nil)
	return NewTester(dispatcher, registry, cacheSvc, zap.NewNop())
}

func TestStatusReport_NoNetwork(t *testing.T) {
	server, calls := upstream(t, 0, http.StatusOK, openAISuccessBody)

	tester := newTester(t, []domain.ProviderConfig{
		{ID: "ready", Type: "openai", APIKey: "sk-test", BaseURL: server.URL + "/v1",
			Models: []string{"gpt-4o", "gpt-4o-mini"}, DefaultModel: "gpt-4o-mini", Enabled: true},
		{ID: "bare", Type: "openai", APIKey: "", Enabled: true},
	}, nil)

	report := tester.StatusReport()
	require.Len(t, report, 2)

	assert.True(t, report["ready"].Configured)
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, report["ready"].Models)
	assert.Equal(t, "gpt-4o-mini", report["ready"].DefaultModel)
	assert.False(t, report["bare"].Configured)
	assert.Equal(t, int64(0), atomic.LoadInt64(calls), "status report must not probe upstreams")

	// Polling must be side-effect free.
	again := tester.StatusReport()
	assert.Equal(t, report, again)
}

func TestTestAll_MixedOutcomes(t *testing.T) {
	healthy, _ := upstream(t, 0, http.StatusOK, openAISuccessBody)
	broken, _ := upstream(t, 0, http.StatusUnauthorized, `{"error": {"message": "invalid key"}}`)

	tester := newTester(t, []domain.ProviderConfig{
		{ID: "up", Type: "openai", APIKey: "sk-test", BaseURL: healthy.URL + "/v1", Enabled: true},
		{ID: "down", Type: "openai", APIKey: "sk-test", BaseURL: broken.URL + "/v1", Enabled: true},
		{ID: "unset", Type: "openai", APIKey: "", Enabled: true},
	}, nil)

	results := tester.TestAll(context.Background())
	require.Len(t, results, 3)

	assert.Equal(t, domain.ProbeConnected, results["up"].Status)
	assert.Empty(t, results["up"].Error)

	assert.Equal(t, domain.ProbeError, results["down"].Status)
	assert.Contains(t, results["down"].Error, "invalid key")

	assert.Equal(t, domain.ProbeNotConfigured, results["unset"].Status)
}

func TestTestAll_MixedConfigurationRepeated(t *testing.T) {
	// Interleaved configured and unconfigured providers exercise the
	// concurrent result-map writes; run it hot so the race detector has
	// plenty of chances to catch an unsynchronized write.
	healthy, _ := upstream(t, 0, http.StatusOK, openAISuccessBody)

	tester := newTester(t, []domain.ProviderConfig{
		{ID: "up-1", Type: "openai", APIKey: "sk-test", BaseURL: healthy.URL + "/v1", Enabled: true},
		{ID: "unset-1", Type: "openai", APIKey: "", Enabled: true},
		{ID: "up-2", Type: "openai", APIKey: "sk-test", BaseURL: healthy.URL + "/v1", Enabled: true},
		{ID: "unset-2", Type: "openai", APIKey: "changeme", Enabled: true},
	}, nil)

	for i := 0; i < 50; i++ {
		results := tester.TestAll(context.Background())
		require.Len(t, results, 4)
		assert.Equal(t, domain.ProbeConnected, results["up-1"].Status)
		assert.Equal(t, domain.ProbeNotConfigured, results["unset-1"].Status)
		assert.Equal(t, domain.ProbeConnected, results["up-2"].Status)
		assert.Equal(t, domain.ProbeNotConfigured, results["unset-2"].Status)
	}
}

func TestTestAll_UnconfiguredSkipsNetwork(t *testing.T) {
	server, calls := upstream(t, 0, http.StatusOK, openAISuccessBody)

	tester := newTester(t, []domain.ProviderConfig{
		{ID: "unset", Type: "openai", APIKey: "changeme", BaseURL: server.URL + "/v1", Enabled: true},
	}, nil)

	results := tester.TestAll(context.Background())

	assert.Equal(t, domain.ProbeNotConfigured, results["unset"].Status)
	assert.Equal(t, int64(0), atomic.LoadInt64(calls))
}

func TestTestAll_CachesProbeResults(t *testing.T) {
	server, calls := upstream(t, 0, http.StatusOK, openAISuccessBody)

	tester := newTester(t, []domain.ProviderConfig{
		{ID: "up", Type: "openai", APIKey: "sk-test", BaseURL: server.URL + "/v1", Enabled: true},
	}, cache.NewMemoryCache())

	first := tester.TestAll(context.Background())
	second := tester.TestAll(context.Background())

	assert.Equal(t, domain.ProbeConnected, first["up"].Status)
	assert.Equal(t, first["up"], second["up"])
	assert.Equal(t, int64(1), atomic.LoadInt64(calls), "second round must be served from cache")
}
