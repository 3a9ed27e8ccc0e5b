package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/quorum/internal/analytics"
	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/store/model"
	"go.uber.org/zap"
)

// Dispatcher issues generation calls against registered providers. It
// never surfaces a transport error: every outcome of a single dispatch
// is folded into a GenerationResult.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
	ingestor analytics.Ingestor // nil when analytics are disabled
}

func NewDispatcher(registry *Registry, logger *zap.Logger, ingestor analytics.Ingestor) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
		ingestor: ingestor,
	}
}

// Generate dispatches one prompt to one provider and always returns a
// result, measuring wall-clock latency around the round-trip. The call
// carries its own timeout derived from the settings.
func (d *Dispatcher) Generate(ctx context.Context, providerID, prompt string, settings domain.Settings) domain.GenerationResult {
	cfg, err := d.registry.Describe(providerID)
	if err != nil {
		return domain.GenerationResult{
			ProviderID: providerID,
			ErrorKind:  domain.ErrUnknownProvider,
			Message:    err.Error(),
		}
	}

	adapter, err := d.registry.Adapter(providerID)
	if err != nil {
		return domain.GenerationResult{
			ProviderID: providerID,
			ErrorKind:  domain.ErrUnknownProvider,
			Message:    err.Error(),
		}
	}

	settings = settings.WithDefaults()
	req := &domain.GenerationRequest{
		Prompt:   prompt,
		Model:    cfg.DefaultModel,
		Settings: settings,
	}

	callCtx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	start := time.Now()
	reply, genErr := adapter.Generate(callCtx, req)
	result := Normalize(providerID, reply, genErr, time.Since(start))

	if result.Success {
		d.logger.Debug("Dispatch succeeded",
			zap.String("provider", providerID),
			zap.String("model", result.Model),
			zap.Int64("latency_ms", result.LatencyMs),
		)
	} else {
		d.logger.Warn("Dispatch failed",
			zap.String("provider", providerID),
			zap.String("error_kind", string(result.ErrorKind)),
			zap.String("message", result.Message),
			zap.Int64("latency_ms", result.LatencyMs),
		)
	}

	d.record(result)
	return result
}

// GenerateMany fans the prompt out to every requested provider that is
// actually configured, concurrently, and returns results in the order
// the providers were requested. A provider's fault never delays or
// cancels its siblings. The only error is ErrNoProvidersAvailable,
// raised before any network activity when the intersection is empty.
func (d *Dispatcher) GenerateMany(ctx context.Context, providerIDs []string, prompt string, settings domain.Settings) ([]domain.GenerationResult, error) {
	var eligible []string
	for _, id := range providerIDs {
		if d.registry.ValidateConfig(id) {
			eligible = append(eligible, id)
		}
	}

	if len(eligible) == 0 {
		return nil, ErrNoProvidersAvailable
	}

	results := make([]domain.GenerationResult, len(eligible))

	var wg sync.WaitGroup
	for i, id := range eligible {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = d.Generate(ctx, id, prompt, settings)
		}(i, id)
	}
	wg.Wait()

	return results, nil
}

func (d *Dispatcher) record(result domain.GenerationResult) {
	if d.ingestor == nil {
		return
	}
	d.ingestor.Log(&model.DispatchLog{
		ID:               uuid.NewString(),
		ProviderID:       result.ProviderID,
		Model:            result.Model,
		Success:          result.Success,
		ErrorKind:        string(result.ErrorKind),
		LatencyMs:        result.LatencyMs,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		TotalTokens:      result.Usage.TotalTokens,
		CreatedAt:        time.Now().UTC(),
	})
}
