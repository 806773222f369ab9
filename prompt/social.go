package prompt

import (
	"fmt"
	"strings"
)

// MaxPreviousPosts bounds the do-not-repeat section to the most recent
// posts so the prompt stays a fixed size as history grows.
const MaxPreviousPosts = 5

// Placeholder sentences for absent optional sections.
const (
	NoContentPlanPlaceholder   = "No content plan provided. Generate based on business strategy only."
	NoPreviousPostsPlaceholder = "No previous posts."
)

// PreviousPost is a previously generated post, listed so the model does
// not repeat itself.
type PreviousPost struct {
	Text string
	Type string
}

// SocialPostInput assembles the stored records a social post prompt is
// built from: the strategy, an optional content plan, and recent posts
// (most-recent-first).
type SocialPostInput struct {
	Strategy        StrategyFacts
	ContentPlanText string
	PostType        string
	PreviousPosts   []PreviousPost
}

// BuildSocialPostPrompt renders the single-post generation prompt. The
// do-not-repeat section lists at most MaxPreviousPosts entries; the
// content plan section is never omitted, only replaced by its
// placeholder sentence.
func BuildSocialPostPrompt(in SocialPostInput) string {
	planSection := "CONTENT PLAN:\n"
	if strings.TrimSpace(in.ContentPlanText) == "" {
		planSection += NoContentPlanPlaceholder
	} else {
		planSection += in.ContentPlanText
	}

	previous := in.PreviousPosts
	if len(previous) > MaxPreviousPosts {
		previous = previous[:MaxPreviousPosts]
	}
	previousSection := NoPreviousPostsPlaceholder
	if len(previous) > 0 {
		var lines []string
		for _, p := range previous {
			lines = append(lines, fmt.Sprintf("- %s (%s)", p.Text, p.Type))
		}
		previousSection = "Previous posts:\n" + strings.Join(lines, "\n")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"Create a compelling social media post for %s that aligns with this business strategy and content plan:\n\n",
		in.PostType))

	sb.WriteString("BUSINESS STRATEGY:\n")
	sb.WriteString(fmt.Sprintf("- Business Type: %s\n", in.Strategy.BusinessType))
	sb.WriteString(fmt.Sprintf("- Target Audience: %s\n", in.Strategy.Audience))
	sb.WriteString(fmt.Sprintf("- Business Objectives: %s\n", in.Strategy.Objectives))
	sb.WriteString(fmt.Sprintf("- Unique Differentiation: %s\n\n", in.Strategy.Differentiation))

	sb.WriteString(planSection)
	sb.WriteString("\n\n")

	sb.WriteString("PREVIOUS POSTS (DO NOT REPEAT THESE):\n")
	sb.WriteString(previousSection)
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Create ONE %s post that:\n", in.PostType))
	sb.WriteString("1. Aligns with the strategy and current content plan\n")
	sb.WriteString("2. Is engaging and compelling for the target audience\n")
	sb.WriteString(fmt.Sprintf("3. Has appropriate tone, length, and format for %s\n", in.PostType))
	sb.WriteString("4. Includes relevant hashtags if appropriate\n")
	sb.WriteString("5. Encourages engagement (likes, comments, shares)\n")
	sb.WriteString("6. Is entirely unique compared to previous posts\n\n")

	sb.WriteString("ONLY output the post text without any explanations or introductions.")
	return sb.String()
}
