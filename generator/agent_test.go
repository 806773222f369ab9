package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratgen/prompt"
)

var testFacts = prompt.StrategyFacts{
	Name:            "Sarah",
	BusinessType:    "Fitness",
	Objectives:      "Grow 25%",
	Audience:        "Adults 30-55",
	Differentiation: "Nutrition-integrated plans",
}

func TestNewAgentRequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, nil)
	assert.Error(t, err)
}

func TestAgentGenerateStrategy(t *testing.T) {
	mock := &MockLLM{Output: sampleMatrix}
	agent, err := NewAgent(mock, nil)
	require.NoError(t, err)

	draft, err := agent.GenerateStrategy(context.Background(), testFacts)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Calls)
	assert.Equal(t, "AUDIENCE TARGETING MATRIX FOR FITNESS", draft.Title)
}

func TestAgentCompleteRejectsEmptyPrompt(t *testing.T) {
	agent, err := NewAgent(&MockLLM{}, nil)
	require.NoError(t, err)

	_, err = agent.Complete(context.Background(), "  ")
	assert.Error(t, err)
}

func TestAgentGenerateSocialPostTrims(t *testing.T) {
	mock := &MockLLM{Output: "\n  Join us this week! #fitness  \n"}
	agent, err := NewAgent(mock, nil)
	require.NoError(t, err)

	text, err := agent.GenerateSocialPost(context.Background(), prompt.SocialPostInput{
		Strategy: testFacts,
		PostType: "Instagram",
	})
	require.NoError(t, err)
	assert.Equal(t, "Join us this week! #fitness", text)
}

func TestSessionProposeAndRevise(t *testing.T) {
	mock := &MockLLM{Output: sampleMatrix}
	agent, err := NewAgent(mock, nil)
	require.NoError(t, err)

	sess := NewSession("sess-1", testFacts, agent)

	first, err := sess.Propose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, sess.Draft)
	require.Len(t, sess.History, 1)

	mock.Output = "# AUDIENCE TARGETING MATRIX FOR FITNESS\n\nRevised for seniors."
	revised, err := sess.Revise(context.Background(), "Focus more on seniors")
	require.NoError(t, err)
	assert.Contains(t, revised.Markdown, "Revised for seniors.")
	require.Len(t, sess.History, 2)
	assert.Equal(t, "Focus more on seniors", sess.History[1].Feedback)
	assert.Equal(t, 3, mock.Calls)
}
