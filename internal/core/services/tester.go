package services

import (
	"context"
	"sync"
	"time"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/store/cache"
	"go.uber.org/zap"
)

const (
	probePrompt   = "Reply with the single word: pong"
	probeTimeout  = 10 * time.Second
	probeCacheTTL = 30 * time.Second
)

// Tester reports provider health. StatusReport is pure configuration
// inspection; TestAll performs one bounded live probe per configured
// provider through the regular dispatch path.
type Tester struct {
	dispatcher *Dispatcher
	registry   *Registry
	cache      cache.Service // nil disables probe caching
	logger     *zap.Logger
}

func NewTester(dispatcher *Dispatcher, registry *Registry, cacheSvc cache.Service, logger *zap.Logger) *Tester {
	return &Tester{
		dispatcher: dispatcher,
		registry:   registry,
		cache:      cacheSvc,
		logger:     logger,
	}
}

// StatusReport derives each provider's status from configuration alone.
// It performs no network calls and is safe to poll.
func (t *Tester) StatusReport() map[string]domain.ProviderStatus {
	report := make(map[string]domain.ProviderStatus)
	for _, id := range t.registry.All() {
		cfg, err := t.registry.Describe(id)
		if err != nil {
			continue
		}
		report[id] = domain.ProviderStatus{
			ProviderID:   id,
			Configured:   cfg.Configured(),
			Models:       cfg.Models,
			DefaultModel: cfg.DefaultModel,
		}
	}
	return report
}

// TestAll probes every configured provider concurrently with a short
// fixed prompt. Unconfigured providers are reported without touching
// the network. Fresh probe results are served from cache when present.
func (t *Tester) TestAll(ctx context.Context) map[string]domain.ProbeResult {
	ids := t.registry.All()
	results := make(map[string]domain.ProbeResult, len(ids))

	// Unconfigured entries are written before any probe goroutine
	// starts; afterwards the map is only touched under mu.
	var probed []string
	for _, id := range ids {
		if !t.registry.ValidateConfig(id) {
			results[id] = domain.ProbeResult{
				ProviderID: id,
				Status:     domain.ProbeNotConfigured,
			}
			continue
		}
		probed = append(probed, id)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range probed {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			probe := t.probe(ctx, id)
			mu.Lock()
			results[id] = probe
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return results
}

func (t *Tester) probe(ctx context.Context, providerID string) domain.ProbeResult {
	cacheKey := "probe:" + providerID
	if t.cache != nil {
		var cached domain.ProbeResult
		if err := t.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached
		}
	}

	result := t.dispatcher.Generate(ctx, providerID, probePrompt, domain.Settings{
		MaxTokens: 10,
		Timeout:   probeTimeout,
	})

	probe := domain.ProbeResult{
		ProviderID: providerID,
		LatencyMs:  result.LatencyMs,
		Model:      result.Model,
	}
	if result.Success {
		probe.Status = domain.ProbeConnected
	} else {
		probe.Status = domain.ProbeError
		probe.Error = result.Message
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, cacheKey, probe, probeCacheTTL); err != nil {
			t.logger.Debug("Failed to cache probe result",
				zap.String("provider", providerID),
				zap.Error(err),
			)
		}
	}

	return probe
}
