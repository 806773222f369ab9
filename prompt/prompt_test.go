package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sarahFacts = StrategyFacts{
	Name:            "Sarah",
	BusinessType:    "Fitness",
	Objectives:      "Grow 25%",
	Audience:        "Adults 30-55",
	Differentiation: "Nutrition-integrated plans",
}

func TestBuildStrategyPromptContainsAllFields(t *testing.T) {
	out := BuildStrategyPrompt(sarahFacts)

	assert.Contains(t, out, "Sarah")
	assert.Contains(t, out, "Fitness")
	assert.Contains(t, out, "Grow 25%")
	assert.Contains(t, out, "Adults 30-55")
	assert.Contains(t, out, "Nutrition-integrated plans")

	// Single-use fields appear exactly once.
	assert.Equal(t, 1, strings.Count(out, "Sarah"))
	assert.Equal(t, 1, strings.Count(out, "Grow 25%"))
	assert.Equal(t, 1, strings.Count(out, "Adults 30-55"))
	assert.Equal(t, 1, strings.Count(out, "Nutrition-integrated plans"))
}

func TestBuildStrategyPromptSectionOrder(t *testing.T) {
	out := BuildStrategyPrompt(sarahFacts)

	info := strings.Index(out, "BUSINESS INFORMATION:")
	businessType := strings.Index(out, "- Business Type: Fitness")
	skeleton := strings.Index(out, "# AUDIENCE TARGETING MATRIX FOR FITNESS")
	table := strings.Index(out, "| AUDIENCE SEGMENT | KEY OBJECTIVE | KEY MESSAGE |")

	require.NotEqual(t, -1, info)
	require.NotEqual(t, -1, businessType)
	require.NotEqual(t, -1, skeleton)
	require.NotEqual(t, -1, table)

	assert.Less(t, info, businessType, "BUSINESS INFORMATION header precedes the field list")
	assert.Less(t, businessType, skeleton)
	assert.Less(t, skeleton, table)
}

func TestBuildStrategyPromptDeterministic(t *testing.T) {
	assert.Equal(t, BuildStrategyPrompt(sarahFacts), BuildStrategyPrompt(sarahFacts))
}

func TestBuildRevisionPromptIncludesOriginalAndFeedback(t *testing.T) {
	original := "# AUDIENCE TARGETING MATRIX FOR FITNESS\n| a | b | c |"
	out := BuildRevisionPrompt(original, "Focus more on seniors")

	assert.Contains(t, out, original)
	assert.Contains(t, out, "Focus more on seniors")
	assert.Less(t, strings.Index(out, original), strings.Index(out, "Focus more on seniors"),
		"prior output comes before the feedback")
	assert.Contains(t, out, "Keep the same format")
}

func TestBuildRevisionPromptEmptyFeedbackPlaceholder(t *testing.T) {
	out := BuildRevisionPrompt("matrix", "   ")
	assert.Contains(t, out, "No feedback provided.")
}

func TestBuildContentPlanPrompt(t *testing.T) {
	in := ContentPlanInput{
		StrategyName:          "Sarah's Fitness Strategy",
		BusinessType:          "Fitness",
		Objectives:            "Grow 25%",
		Audience:              "Adults 30-55",
		Differentiation:       "Nutrition-integrated plans",
		SpecialConsiderations: "New Year campaign in week 2",
	}
	out := BuildContentPlanPrompt(in)

	assert.Contains(t, out, "STRATEGY INFORMATION:")
	assert.Contains(t, out, "SPECIAL CONSIDERATIONS FOR NEXT 3 WEEKS:")
	assert.Contains(t, out, "New Year campaign in week 2")
	assert.Contains(t, out, "# 3-Week Content Plan for Sarah's Fitness Strategy")
	for week := 1; week <= 3; week++ {
		assert.Contains(t, out, fmt.Sprintf("### Week %d", week))
	}
	assert.NotContains(t, out, NoConsiderationsPlaceholder)
}

func TestBuildContentPlanPromptEmptyConsiderations(t *testing.T) {
	out := BuildContentPlanPrompt(ContentPlanInput{StrategyName: "S", BusinessType: "Retail"})
	assert.Contains(t, out, NoConsiderationsPlaceholder)
}

func TestBuildSocialPostPromptWithPlanAndHistory(t *testing.T) {
	in := SocialPostInput{
		Strategy:        sarahFacts,
		ContentPlanText: "Week 1: transformation stories",
		PostType:        "Instagram",
		PreviousPosts: []PreviousPost{
			{Text: "post one", Type: "Instagram"},
			{Text: "post two", Type: "Twitter"},
		},
	}
	out := BuildSocialPostPrompt(in)

	assert.Contains(t, out, "BUSINESS STRATEGY:")
	assert.Contains(t, out, "CONTENT PLAN:\nWeek 1: transformation stories")
	assert.Contains(t, out, "PREVIOUS POSTS (DO NOT REPEAT THESE):")
	assert.Contains(t, out, "- post one (Instagram)")
	assert.Contains(t, out, "- post two (Twitter)")
	assert.Contains(t, out, "ONLY output the post text")
}

func TestBuildSocialPostPromptCapsPreviousPosts(t *testing.T) {
	var posts []PreviousPost
	for i := 0; i < 8; i++ {
		posts = append(posts, PreviousPost{Text: fmt.Sprintf("post-%d", i), Type: "LinkedIn"})
	}
	out := BuildSocialPostPrompt(SocialPostInput{
		Strategy:      sarahFacts,
		PostType:      "LinkedIn",
		PreviousPosts: posts,
	})

	// The five most recent (front of the slice) survive, the rest do not.
	for i := 0; i < MaxPreviousPosts; i++ {
		assert.Contains(t, out, fmt.Sprintf("post-%d", i))
	}
	for i := MaxPreviousPosts; i < 8; i++ {
		assert.NotContains(t, out, fmt.Sprintf("post-%d", i))
	}
}

func TestBuildSocialPostPromptPlaceholders(t *testing.T) {
	out := BuildSocialPostPrompt(SocialPostInput{Strategy: sarahFacts, PostType: "Twitter"})
	assert.Contains(t, out, NoContentPlanPlaceholder)
	assert.Contains(t, out, NoPreviousPostsPlaceholder)
}
