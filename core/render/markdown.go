// Package render turns a digest of articles into an export format.
// This file implements the Markdown renderer, which mirrors the on-screen
// digest layout.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// DateLayout is how publish dates are printed in every format but JSON.
const DateLayout = "2006-01-02"

// MarkdownRenderer writes the digest as Markdown.
type MarkdownRenderer struct {
	// FullText appends each article's extracted body after its key points.
	FullText bool
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer(fullText bool) *MarkdownRenderer {
	return &MarkdownRenderer{FullText: fullText}
}

// Render writes one section per article, in order.
func (r *MarkdownRenderer) Render(articles []core.Article) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("# News Digest\n")

	for i, a := range articles {
		fmt.Fprintf(&b, "\n## Article %d\n\n", i+1)
		fmt.Fprintf(&b, "**URL:** %s\n\n", a.URL)
		if a.Title != "" {
			fmt.Fprintf(&b, "**Title:** %s\n\n", a.Title)
		}
		if len(a.Authors) > 0 {
			fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(a.Authors, ", "))
		}
		if a.PublishDate != nil {
			fmt.Fprintf(&b, "**Published on:** %s\n\n", a.PublishDate.Format(DateLayout))
		}

		if a.Error != "" {
			fmt.Fprintf(&b, "**Error:** %s\n", a.Error)
			continue
		}

		fmt.Fprintf(&b, "### Sentiment: %s\n\n", a.Sentiment)
		b.WriteString("### Summary\n\n")
		if a.Summary != "" {
			b.WriteString(a.Summary + "\n\n")
		}
		b.WriteString("### Key Points\n\n")
		for _, kp := range a.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", kp)
		}

		if r.FullText {
			if body := fullText(a); body != "" {
				b.WriteString("\n### Full Text\n\n")
				b.WriteString(body + "\n")
			}
		}
	}
	return b.Bytes(), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// fullText prefers the parser's Markdown body and falls back to plain text.
// Headings in the body are pushed below the article's own heading level.
func fullText(a core.Article) string {
	body := strings.TrimSpace(a.Markdown)
	if body == "" {
		return strings.TrimSpace(a.Text)
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if headingRegex.MatchString(line) {
			lines[i] = "###" + line
		}
	}
	return strings.Join(lines, "\n")
}
