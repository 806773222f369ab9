// Package prompt renders the natural-language instructions sent to the
// LLM provider. Builders are pure: same input, same output, no I/O.
// Every input field appears in the rendered prompt; empty optional
// fields render an explicit placeholder sentence instead of an empty
// section so downstream parsing sees a stable structure.
package prompt

import (
	"fmt"
	"strings"
)

// StrategyFacts holds the positioning facts a user supplies for a new
// audience targeting strategy.
type StrategyFacts struct {
	Name            string
	BusinessType    string
	Objectives      string
	Audience        string
	Differentiation string
}

// BuildStrategyPrompt renders the audience-targeting-matrix prompt from
// scratch facts. The output skeleton (markdown table) is part of the
// prompt so the response stays parseable.
func BuildStrategyPrompt(f StrategyFacts) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(
		"You are a strategic business consultant helping %s develop a comprehensive audience targeting strategy for their %s.\n\n",
		f.Name, f.BusinessType))

	sb.WriteString("BUSINESS INFORMATION:\n")
	sb.WriteString(fmt.Sprintf("- Business Type: %s\n", f.BusinessType))
	sb.WriteString(fmt.Sprintf("- Primary Objectives: %s\n", f.Objectives))
	sb.WriteString(fmt.Sprintf("- Target Audience: %s\n", f.Audience))
	sb.WriteString(fmt.Sprintf("- Key Differentiators: %s\n\n", f.Differentiation))

	sb.WriteString("Based on the information provided, create a strategic audience targeting matrix in the following format:\n\n")
	sb.WriteString("1. Create a 3x3 matrix with the following structure:\n")
	sb.WriteString("   - ROW HEADERS: Three specific audience segments or audiences with unmet needs. These should be derived from the target audience information provided.\n")
	sb.WriteString("   - COLUMN 1: The name and brief description of each audience segment\n")
	sb.WriteString("   - COLUMN 2: The key objective you have for each audience segment\n")
	sb.WriteString("   - COLUMN 3: The key message that will help achieve the objective for each audience\n\n")
	sb.WriteString("2. Format the output as a clean, well-structured matrix with clear headings and easily readable content.\n\n")
	sb.WriteString(fmt.Sprintf("3. Each audience segment should be distinct and specifically relevant to the %s.\n\n", f.BusinessType))
	sb.WriteString("4. The objectives should align with the overall business objectives provided but be tailored to each specific audience segment.\n\n")
	sb.WriteString("5. The key messages should leverage the business's differentiators and be compelling for the specific audience segment.\n\n")

	sb.WriteString("Please format your response as follows:\n\n")
	sb.WriteString(fmt.Sprintf("# AUDIENCE TARGETING MATRIX FOR %s\n\n", strings.ToUpper(f.BusinessType)))
	sb.WriteString("| AUDIENCE SEGMENT | KEY OBJECTIVE | KEY MESSAGE |\n")
	sb.WriteString("|------------------|---------------|-------------|\n")
	sb.WriteString("| [Audience 1 Name & Brief Description] | [Specific objective for this audience] | [Compelling message that will resonate with this audience] |\n")
	sb.WriteString("| [Audience 2 Name & Brief Description] | [Specific objective for this audience] | [Compelling message that will resonate with this audience] |\n")
	sb.WriteString("| [Audience 3 Name & Brief Description] | [Specific objective for this audience] | [Compelling message that will resonate with this audience] |\n\n")
	sb.WriteString("Below the matrix, provide a brief explanation of why these audience segments were selected and how they align with the overall business objectives.")

	return sb.String()
}

// BuildRevisionPrompt renders the revise-existing-strategy prompt:
// the previously generated matrix plus free-text feedback. The section
// order matches BuildStrategyPrompt's output contract so both flows
// produce responses the caller can treat identically.
func BuildRevisionPrompt(original, feedback string) string {
	var sb strings.Builder
	sb.WriteString("I previously generated the following strategy:\n\n")
	sb.WriteString(original)
	sb.WriteString("\n\nThe user has provided the following feedback to improve or adjust the strategy:\n\n")
	if strings.TrimSpace(feedback) == "" {
		sb.WriteString("No feedback provided.")
	} else {
		sb.WriteString(feedback)
	}
	sb.WriteString("\n\nPlease update the strategy matrix based on this feedback. Keep the same format but incorporate the changes requested.\n")
	sb.WriteString("Return the full, updated strategy matrix with explanation.")
	return sb.String()
}
