// Package extract implements the ContentExtractor.
// It turns a URL into article text and metadata in two stages:
//  1. Fetch the page and run the Readability parser; accept the result if it
//     clears the word-count gate.
//  2. Otherwise render the page in a headless browser and join the text of
//     every <p> in the rendered DOM.
//
// Extract never returns an error: every failure becomes the error variant
// of core.ExtractionResult so that a batch of URLs can partially succeed.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/chunk"
	"github.com/gaurav-prasanna/newsdigest/core/normalize"
)

// ErrFallbackDisabled is reported when the gate fails and no browser is configured.
var ErrFallbackDisabled = errors.New("page content below threshold and browser fallback is disabled")

// Extractor is the two-stage ContentExtractor.
type Extractor struct {
	fetcher core.Fetcher
	parser  core.ArticleParser
	browser core.Browser
}

// New creates an Extractor. A nil browser disables the Stage 2 fallback.
func New(fetcher core.Fetcher, parser core.ArticleParser, browser core.Browser) *Extractor {
	return &Extractor{fetcher: fetcher, parser: parser, browser: browser}
}

// Extract produces a normalized ExtractionResult for url.
func (e *Extractor) Extract(ctx context.Context, url string) (res core.ExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(url, fmt.Errorf("%v", r))
		}
	}()

	candidate, stage, err := e.fastPath(ctx, url)
	switch stage {
	case core.StageAccepted:
		return finish(core.StageAccepted, candidate)
	case core.StageFallback:
		log.Info().Str("stage", "gate").Str("url", url).
			Int("words", chunk.WordCount(candidate.Text)).
			Msg("extraction degraded, falling back to rendered DOM")
		rendered, err := e.fallback(ctx, url, candidate)
		if err != nil {
			return failed(url, err)
		}
		return finish(core.StageFallback, rendered)
	default:
		return failed(url, err)
	}
}

// fastPath fetches and parses the page, then applies the gate.
// It returns StageAccepted or StageFallback with the parsed candidate,
// or StageFailed with the error that stopped it.
func (e *Extractor) fastPath(ctx context.Context, url string) (core.Candidate, core.Stage, error) {
	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return core.Candidate{}, core.StageFailed, err
	}

	candidate, err := e.parser.Parse(page.HTML, url)
	if errors.Is(err, core.ErrNoContent) {
		log.Debug().Err(err).Str("stage", "parse").Str("url", url).Msg("no readable content")
		return core.Candidate{}, core.StageFallback, nil
	}
	if err != nil {
		return core.Candidate{}, core.StageFailed, fmt.Errorf("parsing %s: %w", url, err)
	}

	if !Accept(candidate.Text) {
		return candidate, core.StageFallback, nil
	}
	return candidate, core.StageAccepted, nil
}

// fallback renders the page and rebuilds the candidate from paragraph text.
// Authors and publish date are carried over from the fast path as-is.
func (e *Extractor) fallback(ctx context.Context, url string, first core.Candidate) (core.Candidate, error) {
	if e.browser == nil {
		return core.Candidate{}, ErrFallbackDisabled
	}

	html, err := e.browser.RenderHTML(ctx, url)
	if err != nil {
		return core.Candidate{}, err
	}

	text, err := Paragraphs(html)
	if err != nil {
		return core.Candidate{}, err
	}

	title := first.Title
	if title == "" {
		title = TitleOf(html)
	}

	log.Debug().Str("stage", "render").Str("url", url).Int("words", chunk.WordCount(text)).Msg("rendered DOM extracted")

	return core.Candidate{
		Title:       title,
		Authors:     first.Authors,
		PublishDate: first.PublishDate,
		Text:        text,
	}, nil
}

// finish normalizes every text field of an accepted candidate.
func finish(stage core.Stage, c core.Candidate) core.ExtractionResult {
	authors := normalize.NormalizeAll(c.Authors)
	if authors == nil {
		authors = []string{}
	}
	return core.ExtractionResult{
		Title:       normalize.Normalize(c.Title),
		Authors:     authors,
		PublishDate: c.PublishDate,
		Text:        normalize.Normalize(c.Text),
		Markdown:    normalize.Lines(c.Markdown),
		Stage:       stage,
	}
}

func failed(url string, err error) core.ExtractionResult {
	log.Warn().Err(err).Str("url", url).Msg("extraction failed")
	return core.ExtractionResult{
		Stage: core.StageFailed,
		Error: normalize.Normalize(err.Error()),
	}
}
