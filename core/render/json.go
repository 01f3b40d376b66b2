// Package render: JSON renderer.
// Emits the digest as structured JSON. When an article came with a Markdown
// body, its outline (headings and links) is included without inferring any
// other fields.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// Heading is a Markdown heading in an article body.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a Markdown link in an article body.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type articleJSON struct {
	core.Article
	Headings []Heading `json:"headings,omitempty"`
	Links    []Link    `json:"links,omitempty"`
}

type digestJSON struct {
	Count    int           `json:"count"`
	Articles []articleJSON `json:"articles"`
}

// JSONRenderer produces the digest as indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the articles with their outlines.
func (r *JSONRenderer) Render(articles []core.Article) ([]byte, error) {
	out := digestJSON{Count: len(articles), Articles: make([]articleJSON, 0, len(articles))}
	for _, a := range articles {
		if a.Authors == nil {
			a.Authors = []string{}
		}
		if a.KeyPoints == nil {
			a.KeyPoints = []string{}
		}
		out.Articles = append(out.Articles, articleJSON{
			Article:  a,
			Headings: extractHeadings(a.Markdown),
			Links:    extractLinks(a.Markdown),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	if len(matches) == 0 {
		return nil
	}
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])})
	}
	return headings
}

// linkRegex matches Markdown links [text](url).
var linkRegex = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

func extractLinks(md string) []Link {
	matches := linkRegex.FindAllStringSubmatch(md, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, Link{Text: m[1], Href: m[2]})
	}
	return links
}
