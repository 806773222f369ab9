package generator

import (
	"context"
	"time"

	"stratgen/prompt"
)

// Session holds one strategy's multi-round generate/revise context.
type Session struct {
	ID      string
	Facts   prompt.StrategyFacts
	Draft   Draft
	History []Turn
	agent   *Agent
}

// NewSession creates a session; no draft exists until Propose runs.
func NewSession(id string, facts prompt.StrategyFacts, agent *Agent) *Session {
	return &Session{
		ID:    id,
		Facts: facts,
		agent: agent,
	}
}

// Propose generates the first matrix draft.
func (s *Session) Propose(ctx context.Context) (Draft, error) {
	draft, err := s.agent.GenerateStrategy(ctx, s.Facts)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn("", draft)
	return draft, nil
}

// Revise regenerates the matrix from user feedback.
func (s *Session) Revise(ctx context.Context, feedback string) (Draft, error) {
	draft, err := s.agent.ReviseStrategy(ctx, s.Draft, feedback)
	if err != nil {
		return Draft{}, err
	}
	s.Draft = draft
	s.appendTurn(feedback, draft)
	return draft, nil
}

func (s *Session) appendTurn(feedback string, draft Draft) {
	s.History = append(s.History, Turn{
		Feedback:  feedback,
		Draft:     draft,
		CreatedAt: time.Now(),
	})
}
