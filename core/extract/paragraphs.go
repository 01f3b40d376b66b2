package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nonTextSelectors never hold readable paragraph text, even in a rendered DOM.
var nonTextSelectors = []string{"script", "style", "noscript", "template"}

// Paragraphs returns the text of every <p> element in the markup, in
// document order, joined by single spaces. Whitespace inside a paragraph
// is collapsed and empty paragraphs are skipped.
func Paragraphs(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range nonTextSelectors {
		doc.Find(sel).Remove()
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " "), nil
}

// TitleOf returns the trimmed text of the document's first <title>, or "".
func TitleOf(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
