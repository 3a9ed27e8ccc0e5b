package api

// GenerateRequest is the payload for the fan-out generation endpoint.
// Providers are dispatched concurrently; the response preserves the
// order given here.
type GenerateRequest struct {
	Prompt    string   `json:"prompt" binding:"required"`
	Providers []string `json:"providers" binding:"required,min=1"`

	// Generation parameters, all optional.
	Temperature  float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxTokens    int     `json:"max_tokens,omitempty" binding:"omitempty,gt=0"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
	TimeoutMs    int     `json:"timeout_ms,omitempty" binding:"omitempty,gt=0"`
}

// JudgeRequest asks the judge model to rank exactly four candidate
// responses to the same question.
type JudgeRequest struct {
	Question  string   `json:"question" binding:"required"`
	Responses []string `json:"responses" binding:"required,len=4"`
}
