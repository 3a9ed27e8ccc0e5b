package api

import "github.com/nulzo/quorum/internal/core/domain"

// GenerateResponse wraps the per-provider results of one fan-out call.
type GenerateResponse struct {
	ID      string                    `json:"id"`
	Results []domain.GenerationResult `json:"results"`
}

// JudgeResponse wraps a judgement for the HTTP surface.
type JudgeResponse struct {
	ID        string           `json:"id"`
	Judgement domain.Judgement `json:"judgement"`
}

// ProvidersResponse is the zero-network status report.
type ProvidersResponse struct {
	Providers map[string]domain.ProviderStatus `json:"providers"`
}

// ProvidersHealthResponse is the live probe report.
type ProvidersHealthResponse struct {
	Providers map[string]domain.ProbeResult `json:"providers"`
}

// ErrorResponse is the minimal error shape used by middleware that
// aborts before the RFC 9457 handler runs.
type ErrorResponse struct {
	Message string `json:"message"`
}
