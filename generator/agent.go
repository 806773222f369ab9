package generator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"stratgen/prompt"
)

// Agent turns typed inputs into prompts, runs them through the
// configured provider, and post-processes the output.
type Agent struct {
	llm    LLMClient
	logger *zap.Logger
}

func NewAgent(llm LLMClient, logger *zap.Logger) (*Agent, error) {
	if llm == nil {
		return nil, NewGenError(ErrInvalidRequest, "llm client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{llm: llm, logger: logger}, nil
}

// Complete forwards an already-built prompt to the provider.
func (a *Agent) Complete(ctx context.Context, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", NewGenError(ErrInvalidRequest, "prompt is required")
	}
	text, err := a.llm.Complete(ctx, p)
	if err != nil {
		a.logger.Warn("completion failed", zap.Error(err))
		return "", err
	}
	return text, nil
}

// GenerateStrategy produces an audience targeting matrix from scratch
// facts.
func (a *Agent) GenerateStrategy(ctx context.Context, facts prompt.StrategyFacts) (Draft, error) {
	raw, err := a.Complete(ctx, prompt.BuildStrategyPrompt(facts))
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

// ReviseStrategy regenerates the matrix from the prior draft plus
// user feedback, keeping the structural contract of the first pass.
func (a *Agent) ReviseStrategy(ctx context.Context, prev Draft, feedback string) (Draft, error) {
	raw, err := a.Complete(ctx, prompt.BuildRevisionPrompt(prev.Markdown, feedback))
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

// GenerateContentPlan produces the 3-week content outline.
func (a *Agent) GenerateContentPlan(ctx context.Context, in prompt.ContentPlanInput) (Draft, error) {
	raw, err := a.Complete(ctx, prompt.BuildContentPlanPrompt(in))
	if err != nil {
		return Draft{}, err
	}
	return PostProcess(raw)
}

// GenerateSocialPost produces exactly one post's text, trimmed, with no
// surrounding commentary expected per the prompt contract.
func (a *Agent) GenerateSocialPost(ctx context.Context, in prompt.SocialPostInput) (string, error) {
	raw, err := a.Complete(ctx, prompt.BuildSocialPostPrompt(in))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", NewGenError(ErrEmptyCompletion, "model returned empty post")
	}
	return text, nil
}
