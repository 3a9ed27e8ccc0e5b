package domain

import "time"

// ErrorKind classifies every way a dispatch can fail. Once a fault is
// classified it travels as data; nothing in the dispatch path panics or
// returns a raw transport error to callers.
type ErrorKind string

const (
	ErrAuth                 ErrorKind = "auth_error"
	ErrRateLimited          ErrorKind = "rate_limited"
	ErrBadRequest           ErrorKind = "bad_request"
	ErrPermissionDenied     ErrorKind = "permission_denied"
	ErrService              ErrorKind = "service_error"
	ErrAPI                  ErrorKind = "api_error"
	ErrTimeout              ErrorKind = "timeout"
	ErrNetwork              ErrorKind = "network_error"
	ErrEmptyResponse        ErrorKind = "empty_response"
	ErrNoProvidersAvailable ErrorKind = "no_providers_available"
	ErrUnknownProvider      ErrorKind = "unknown_provider"
)

// Settings carries the tunable generation parameters. Zero values are
// replaced by defaults at dispatch time.
type Settings struct {
	Temperature  float64       `json:"temperature,omitempty"`
	MaxTokens    int           `json:"max_tokens,omitempty"`
	SystemPrompt string        `json:"system_prompt,omitempty"`
	Timeout      time.Duration `json:"-"`
}

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
	DefaultTimeout     = 30 * time.Second
)

// WithDefaults returns a copy of s with unset fields filled in.
func (s Settings) WithDefaults() Settings {
	if s.Temperature == 0 {
		s.Temperature = DefaultTemperature
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Timeout == 0 {
		s.Timeout = DefaultTimeout
	}
	return s
}

// GenerationRequest is the provider-neutral input handed to an adapter.
// The model has already been resolved by the dispatcher.
type GenerationRequest struct {
	Prompt   string
	Model    string
	Settings Settings
}

// TokenUsage mirrors the usage block most vendors report.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderReply is what an adapter returns on the happy path, before
// normalization. Faults stay on the error side of the adapter contract.
type ProviderReply struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// GenerationResult is the uniform outcome of one dispatch. Exactly one
// of the success fields (Content/Model/Usage) or the failure fields
// (ErrorKind/Message) is meaningful, selected by Success.
type GenerationResult struct {
	ProviderID string     `json:"provider_id"`
	Success    bool       `json:"success"`
	Content    string     `json:"content,omitempty"`
	Model      string     `json:"model,omitempty"`
	Usage      TokenUsage `json:"usage,omitempty"`
	ErrorKind  ErrorKind  `json:"error_kind,omitempty"`
	Message    string     `json:"message,omitempty"`
	LatencyMs  int64      `json:"processing_time_ms"`
}
