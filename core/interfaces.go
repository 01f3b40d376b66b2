// Package core defines the shared types and stage interfaces for newsdigest.
// Each stage of the pipeline is a clean, testable interface:
// fetch → parse → gate → render fallback, then chunk → summarize → condense.
package core

import (
	"context"
	"time"
)

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL         string
	StatusCode  int
	ContentType string
	HTML        string
}

// Stage records which extraction path produced a result.
type Stage int

const (
	// StageAccepted means the fast structured parse passed the word-count gate.
	StageAccepted Stage = iota
	// StageFallback means the gate failed and the rendered DOM was used.
	StageFallback
	// StageFailed means extraction ended in the error variant.
	StageFailed
)

// String returns the lower-case stage name used in logs and JSON output.
func (s Stage) String() string {
	switch s {
	case StageAccepted:
		return "accepted"
	case StageFallback:
		return "fallback"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExtractionResult is either article content or an error message, never both.
// Error is non-empty exactly when extraction failed.
type ExtractionResult struct {
	Title       string     `json:"title,omitempty"`
	Authors     []string   `json:"authors,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	Text        string     `json:"text,omitempty"`
	// Markdown is the structured parser's article body, when Stage 1 was accepted.
	Markdown string `json:"markdown,omitempty"`
	Stage    Stage  `json:"-"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the result is the error variant.
func (r ExtractionResult) Failed() bool {
	return r.Error != ""
}

// Sentiment is the two-valued classification of a summary.
// SentimentNA only appears on articles that were never summarized.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNA       Sentiment = "N/A"
)

// SummaryResult is the output of the summarization pipeline.
type SummaryResult struct {
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"key_points"`
	Sentiment Sentiment `json:"sentiment"`
}

// PastedTextURL identifies articles built from pasted text instead of a URL.
const PastedTextURL = "N/A (pasted text)"

// Article is one digest entry: extraction metadata plus its summary.
// Error carries either the extraction error or the summarization failure.
type Article struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Authors     []string   `json:"authors"`
	PublishDate *time.Time `json:"publish_date"`
	Summary     string     `json:"summary"`
	KeyPoints   []string   `json:"key_points"`
	Sentiment   Sentiment  `json:"sentiment,omitempty"`
	Markdown    string     `json:"-"`
	Text        string     `json:"-"`
	Error       string     `json:"error,omitempty"`
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Candidate is what the structured article parser recovered from raw HTML.
type Candidate struct {
	Title       string
	Authors     []string
	PublishDate *time.Time
	Text        string
	Markdown    string
}

// ArticleParser runs boilerplate removal and main-content heuristics over raw HTML.
type ArticleParser interface {
	Parse(html string, pageURL string) (Candidate, error)
}

// Browser renders a page in a headless browser and returns the resulting HTML.
// Implementations own the browser process and must release it before returning.
type Browser interface {
	RenderHTML(ctx context.Context, url string) (string, error)
}

// Renderer converts a digest of articles into a final output format.
type Renderer interface {
	Render(articles []Article) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
