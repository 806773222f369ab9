// Package render converts generated markdown artifacts to HTML for
// export and sharing.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md enables GFM so the matrix tables render as real HTML tables.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
