package digest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/model"
	"github.com/gaurav-prasanna/newsdigest/core/summarize"
)

type fakeExtractor struct {
	results map[string]core.ExtractionResult
	calls   []string
}

func (f *fakeExtractor) Extract(ctx context.Context, url string) core.ExtractionResult {
	f.calls = append(f.calls, url)
	if r, ok := f.results[url]; ok {
		return r
	}
	return core.ExtractionResult{Error: "Failed to fetch URL, status code: 404", Stage: core.StageFailed}
}

const longText = "The city council approved a new budget for public parks this week. " +
	"Officials said the plan will improve green spaces in every district over time. " +
	"Residents welcomed the decision at a crowded meeting on Tuesday evening downtown. " +
	"The budget includes funds for new playgrounds and better lighting on walking paths. " +
	"Work is expected to begin next spring and finish within two full years."

func TestFromURL(t *testing.T) {
	ext := &fakeExtractor{results: map[string]core.ExtractionResult{
		"https://example.com/a": {Title: "Parks", Authors: []string{"Jane Doe"}, Text: longText, Stage: core.StageAccepted},
	}}
	a := New(ext, summarize.New(&model.Stub{}))

	art := a.FromURL(context.Background(), "https://example.com/a")
	if art.Error != "" {
		t.Fatalf("unexpected error: %s", art.Error)
	}
	if art.Title != "Parks" || len(art.Authors) != 1 || art.URL != "https://example.com/a" {
		t.Fatalf("metadata not carried over: %+v", art)
	}
	if art.Summary == "" || len(art.KeyPoints) == 0 || len(art.KeyPoints) > 5 {
		t.Fatalf("unexpected summary output: %+v", art)
	}
	if art.Sentiment != core.SentimentPositive && art.Sentiment != core.SentimentNegative {
		t.Fatalf("unexpected sentiment %q", art.Sentiment)
	}
}

func TestFromURL_ExtractionError(t *testing.T) {
	stub := &model.Stub{}
	art := New(&fakeExtractor{}, summarize.New(stub)).FromURL(context.Background(), "https://example.com/missing")
	if art.Error != "Failed to fetch URL, status code: 404" {
		t.Fatalf("unexpected error %q", art.Error)
	}
	if len(stub.SummarizeCalls) != 0 {
		t.Fatalf("summarizer should not run for failed extraction")
	}
}

func TestFromURL_SummarizationFailureIsNotNA(t *testing.T) {
	ext := &fakeExtractor{results: map[string]core.ExtractionResult{
		"u": {Title: "T", Text: longText},
	}}
	art := New(ext, summarize.New(&model.Stub{Err: errors.New("model down")})).FromURL(context.Background(), "u")
	if !strings.Contains(art.Error, "model down") {
		t.Fatalf("expected summarization error, got %q", art.Error)
	}
	if art.Sentiment == core.SentimentNA {
		t.Fatalf("failed summarization must not look like empty input")
	}
}

func TestFromURL_EmptyExtractedText(t *testing.T) {
	ext := &fakeExtractor{results: map[string]core.ExtractionResult{
		"u": {Title: "T", Stage: core.StageFallback},
	}}
	stub := &model.Stub{}
	art := New(ext, summarize.New(stub)).FromURL(context.Background(), "u")
	if art.Sentiment != core.SentimentNA || art.Summary != "" || len(art.KeyPoints) != 0 || art.Error != "" {
		t.Fatalf("expected N/A article, got %+v", art)
	}
	if len(stub.SummarizeCalls) != 0 {
		t.Fatalf("no model call expected")
	}
}

func TestFromText(t *testing.T) {
	a := New(&fakeExtractor{}, summarize.New(&model.Stub{}))

	art := a.FromText(context.Background(), longText)
	if art.URL != core.PastedTextURL || art.Title != PastedTextTitle {
		t.Fatalf("unexpected identity: %q %q", art.URL, art.Title)
	}
	if art.Summary == "" || art.Sentiment == core.SentimentNA {
		t.Fatalf("expected a summary, got %+v", art)
	}

	empty := a.FromText(context.Background(), "   ")
	if empty.Sentiment != core.SentimentNA || empty.Summary != "" || empty.KeyPoints == nil || len(empty.KeyPoints) != 0 {
		t.Fatalf("expected N/A article, got %+v", empty)
	}
}

func TestFromURLs_ContinuesPastFailures(t *testing.T) {
	ext := &fakeExtractor{results: map[string]core.ExtractionResult{
		"ok1": {Title: "One", Text: longText},
		"ok2": {Title: "Two", Text: longText},
	}}
	arts := New(ext, summarize.New(&model.Stub{})).FromURLs(context.Background(), []string{"ok1", "bad", "ok2"})
	if len(arts) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(arts))
	}
	if arts[0].Error != "" || arts[1].Error == "" || arts[2].Error != "" {
		t.Fatalf("unexpected error placement: %q %q %q", arts[0].Error, arts[1].Error, arts[2].Error)
	}
	if strings.Join(ext.calls, ",") != "ok1,bad,ok2" {
		t.Fatalf("expected sequential in-order extraction, got %v", ext.calls)
	}
}

func TestFromURLs_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ext := &fakeExtractor{}
	arts := New(ext, summarize.New(&model.Stub{})).FromURLs(ctx, []string{"a", "b"})
	if len(arts) != 2 || arts[0].Error == "" || arts[1].Error == "" {
		t.Fatalf("expected canceled articles, got %+v", arts)
	}
	if len(ext.calls) != 0 {
		t.Fatalf("no extraction expected after cancel")
	}
}
