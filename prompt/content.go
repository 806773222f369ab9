package prompt

import (
	"fmt"
	"strings"
)

// NoConsiderationsPlaceholder is rendered when the user leaves the
// special-considerations field empty.
const NoConsiderationsPlaceholder = "No special considerations provided."

// ContentPlanInput holds the stored strategy facts plus any
// considerations for the upcoming planning window.
type ContentPlanInput struct {
	StrategyName          string
	BusinessType          string
	Objectives            string
	Audience              string
	Differentiation       string
	SpecialConsiderations string
}

// BuildContentPlanPrompt renders the 3-week content plan prompt.
func BuildContentPlanPrompt(in ContentPlanInput) string {
	considerations := strings.TrimSpace(in.SpecialConsiderations)
	if considerations == "" {
		considerations = NoConsiderationsPlaceholder
	}

	var sb strings.Builder
	sb.WriteString("You are a professional content strategist creating a 3-week content plan for a business based on their strategy and upcoming considerations.\n\n")

	sb.WriteString("STRATEGY INFORMATION:\n")
	sb.WriteString(fmt.Sprintf("- Business Type: %s\n", in.BusinessType))
	sb.WriteString(fmt.Sprintf("- Business Objectives: %s\n", in.Objectives))
	sb.WriteString(fmt.Sprintf("- Target Audience: %s\n", in.Audience))
	sb.WriteString(fmt.Sprintf("- Key Differentiation: %s\n\n", in.Differentiation))

	sb.WriteString("SPECIAL CONSIDERATIONS FOR NEXT 3 WEEKS:\n")
	sb.WriteString(considerations)
	sb.WriteString("\n\n")

	sb.WriteString("Based on the above information, create a comprehensive 3-week content plan with the following:\n\n")
	sb.WriteString("1. An overall content theme for the 3-week period\n")
	sb.WriteString("2. For each week (Week 1, 2, and 3):\n")
	sb.WriteString("   - A specific theme/focus for the week\n")
	sb.WriteString("   - A clear objective for that week's content\n")
	sb.WriteString("   - Recommended content types (e.g., blog posts, social media, videos)\n")
	sb.WriteString("   - Key messages to emphasize\n")
	sb.WriteString("   - Any timing considerations from the special considerations\n\n")

	sb.WriteString("FORMAT YOUR RESPONSE LIKE THIS:\n")
	sb.WriteString(fmt.Sprintf("# 3-Week Content Plan for %s\n\n", in.StrategyName))
	sb.WriteString("## Overall Theme: [Insert overall theme]\n\n")
	for week := 1; week <= 3; week++ {
		sb.WriteString(fmt.Sprintf("### Week %d\n", week))
		sb.WriteString(fmt.Sprintf("- **Theme**: [Week %d theme]\n", week))
		sb.WriteString(fmt.Sprintf("- **Objective**: [Week %d objective]\n", week))
		sb.WriteString("- **Content Types**: [Recommended content types]\n")
		sb.WriteString(fmt.Sprintf("- **Key Messages**: [Key messages for Week %d]\n", week))
		sb.WriteString("- **Special Timing Considerations**: [Any special timing notes]\n\n")
	}

	sb.WriteString("IMPORTANT: Be specific and practical. Focus on actionable content ideas that align with the strategy and consider any special timing needs mentioned.")
	return sb.String()
}
