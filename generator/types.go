package generator

import "time"

// Draft is a generated markdown artifact (strategy matrix or content
// plan) with fields extracted for display and persistence.
type Draft struct {
	Title    string
	Summary  string
	Markdown string
}

// Turn records one feedback-driven revision of a strategy draft.
type Turn struct {
	Feedback  string
	Draft     Draft
	CreatedAt time.Time
}

// GenerationConfig is the fixed sampling configuration sent with every
// provider request.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// DefaultGenerationConfig matches the service's tuned defaults.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopP:            0.9,
		TopK:            40,
		MaxOutputTokens: 2048,
	}
}
