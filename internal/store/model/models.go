package model

import "time"

// DispatchLog records one completed dispatch for operational analytics.
// Prompt and response bodies are deliberately not stored.
type DispatchLog struct {
	ID               string    `db:"id" json:"id"`
	ProviderID       string    `db:"provider_id" json:"provider_id"`
	Model            string    `db:"model" json:"model"`
	Success          bool      `db:"success" json:"success"`
	ErrorKind        string    `db:"error_kind" json:"error_kind,omitempty"`
	LatencyMs        int64     `db:"latency_ms" json:"latency_ms"`
	PromptTokens     int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens" json:"completion_tokens"`
	TotalTokens      int       `db:"total_tokens" json:"total_tokens"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// DailyStats aggregates dispatch outcomes per provider per day.
type DailyStats struct {
	Day          string  `db:"day" json:"day"`
	ProviderID   string  `db:"provider_id" json:"provider_id"`
	Dispatches   int64   `db:"dispatches" json:"dispatches"`
	Failures     int64   `db:"failures" json:"failures"`
	AvgLatencyMs float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
	TotalTokens  int64   `db:"total_tokens" json:"total_tokens"`
}
