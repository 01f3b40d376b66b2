package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/newsdigest/core"
)

func sampleArticles() []core.Article {
	published := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return []core.Article{
		{
			URL:         "https://example.com/parks",
			Title:       "Council approves parks budget",
			Authors:     []string{"Jane Doe", "John Roe"},
			PublishDate: &published,
			Summary:     "The council approved a budget. Work starts in spring.",
			KeyPoints:   []string{"The council approved a budget.", "Work starts in spring."},
			Sentiment:   core.SentimentPositive,
			Markdown:    "## Background\n\nSee [the plan](https://example.com/plan).",
			Text:        "Background. See the plan.",
		},
		{
			URL:       "https://example.com/missing",
			Authors:   []string{},
			KeyPoints: []string{},
			Error:     "Failed to fetch URL, status code: 404",
		},
		{
			URL:       core.PastedTextURL,
			Title:     "User Input Text",
			Authors:   []string{},
			KeyPoints: []string{},
			Sentiment: core.SentimentNA,
		},
	}
}

func TestMarkdownRenderer(t *testing.T) {
	out, err := NewMarkdownRenderer(false).Render(sampleArticles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := string(out)
	for _, want := range []string{
		"## Article 1",
		"**URL:** https://example.com/parks",
		"**Authors:** Jane Doe, John Roe",
		"**Published on:** 2024-03-05",
		"### Sentiment: Positive",
		"- Work starts in spring.",
		"## Article 2",
		"**Error:** Failed to fetch URL, status code: 404",
		"### Sentiment: N/A",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Full Text") {
		t.Fatalf("full text should be off by default")
	}
	if strings.Count(md, "### Summary") != 2 {
		t.Fatalf("error article should not have a summary section")
	}
}

func TestMarkdownRenderer_FullText(t *testing.T) {
	out, err := NewMarkdownRenderer(true).Render(sampleArticles()[:1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := string(out)
	if !strings.Contains(md, "### Full Text") || !strings.Contains(md, "##### Background") {
		t.Fatalf("expected demoted full text body, got:\n%s", md)
	}
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(sampleArticles())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Count    int `json:"count"`
		Articles []struct {
			URL       string    `json:"url"`
			Sentiment string    `json:"sentiment"`
			KeyPoints []string  `json:"key_points"`
			Error     string    `json:"error"`
			Headings  []Heading `json:"headings"`
			Links     []Link    `json:"links"`
			Markdown  string    `json:"markdown"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Count != 3 || len(got.Articles) != 3 {
		t.Fatalf("unexpected count %d/%d", got.Count, len(got.Articles))
	}
	first := got.Articles[0]
	if first.Sentiment != "Positive" || len(first.KeyPoints) != 2 || first.Markdown != "" {
		t.Fatalf("unexpected first article: %+v", first)
	}
	if len(first.Headings) != 1 || first.Headings[0].Text != "Background" || first.Headings[0].Level != 2 {
		t.Fatalf("unexpected headings: %+v", first.Headings)
	}
	if len(first.Links) != 1 || first.Links[0].Href != "https://example.com/plan" {
		t.Fatalf("unexpected links: %+v", first.Links)
	}
	if got.Articles[1].Error == "" || got.Articles[1].Sentiment != "" {
		t.Fatalf("unexpected error article: %+v", got.Articles[1])
	}
	if got.Articles[2].Sentiment != "N/A" {
		t.Fatalf("expected N/A sentiment for pasted text")
	}
}

func TestPDFRenderer(t *testing.T) {
	articles := sampleArticles()
	articles[0].Summary = "Prices rose 5 – 6% and officials said “we’re ready”."

	out, err := NewPDFRenderer().Render(articles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}

	empty, err := NewPDFRenderer().Render(nil)
	if err != nil || !bytes.HasPrefix(empty, []byte("%PDF-")) {
		t.Fatalf("empty digest should still render: %v", err)
	}
}

func TestExtensions(t *testing.T) {
	for _, tc := range []struct {
		r    core.Renderer
		want string
	}{
		{NewMarkdownRenderer(false), ".md"},
		{NewJSONRenderer(), ".json"},
		{NewPDFRenderer(), ".pdf"},
	} {
		if got := tc.r.Extension(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
}
