package generator

import (
	"regexp"
	"strings"
)

// PostProcess validates a raw completion and fills the Draft fields.
// Empty model output is an error, not an empty-string success.
func PostProcess(raw string) (Draft, error) {
	md := strings.TrimSpace(raw)
	if md == "" {
		return Draft{}, NewGenError(ErrEmptyCompletion, "model returned empty output")
	}

	summary := extractSummary(md)
	if summary == "" {
		summary = defaultSummary(md, 120)
	}

	return Draft{
		Title:    extractTitle(md),
		Summary:  summary,
		Markdown: md,
	}, nil
}

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Summary is the first paragraph line that is neither a heading nor a
// table row.
func extractSummary(md string) string {
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "|") {
			continue
		}
		return trimmed
	}
	return ""
}

func defaultSummary(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	if len(joined) <= limit {
		return joined
	}
	return joined[:limit]
}
