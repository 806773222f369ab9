package generator

import (
	"context"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK
// (chat completions). OpenAI-compatible gateways work through BaseURL.
type OpenAILLM struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAILLM validates the settings and builds an OpenAI client.
func NewOpenAILLM(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, NewGenError(ErrInvalidRequest, "llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, NewGenError(ErrMissingAPIKey, "openai api key missing; set llm.api_key or OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		return nil, NewGenError(ErrInvalidRequest, "llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{model: cfg.Model, opts: opts}, nil
}

// Complete sends the prompt as a single user message.
func (o *OpenAILLM) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", NewGenError(ErrInvalidRequest, "prompt is required")
	}
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		code := ErrCompletionFailed
		retryable := false
		if IsOverloadMessage(err.Error()) {
			code = ErrProviderOverloaded
			retryable = true
		}
		return "", &GenError{Code: code, Message: "openai completion failed", Retryable: retryable, Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", NewGenError(ErrResponseParseFailed, "openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
