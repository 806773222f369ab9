package generator

import "context"

// LLMClient abstracts the generation provider so implementations can be
// swapped or mocked. The prompt is forwarded as the sole user turn.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMSettings is the shared configuration handed to concrete providers.
type LLMSettings struct {
	Provider        string
	Model           string
	APIKey          string
	BaseURL         string
	MaxOutputTokens int
}
