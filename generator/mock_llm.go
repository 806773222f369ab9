package generator

import (
	"context"
	"strings"
)

// MockLLM is a canned provider for local runs and tests; it never calls
// an external model.
type MockLLM struct {
	Output string
	Err    error
	Calls  int
}

func (m *MockLLM) Complete(_ context.Context, prompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.Output != "" {
		return m.Output, nil
	}

	var sb strings.Builder
	sb.WriteString("# AUDIENCE TARGETING MATRIX FOR MOCK BUSINESS\n\n")
	sb.WriteString("| AUDIENCE SEGMENT | KEY OBJECTIVE | KEY MESSAGE |\n")
	sb.WriteString("|------------------|---------------|-------------|\n")
	sb.WriteString("| Segment A | Awareness | Message A |\n")
	sb.WriteString("| Segment B | Conversion | Message B |\n")
	sb.WriteString("| Segment C | Retention | Message C |\n\n")
	sb.WriteString("These segments were selected from the prompt below.\n\n")
	sb.WriteString("```\n")
	sb.WriteString(prompt)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}
