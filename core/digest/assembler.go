// Package digest assembles Articles from the extraction and summarization
// stages. It is where per-item failures are contained: one bad URL or one
// failed model call marks that article and the batch moves on.
package digest

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// PastedTextTitle is the title given to articles built from pasted text.
const PastedTextTitle = "User Input Text"

// Extractor turns a URL into an ExtractionResult. *extract.Extractor implements it.
type Extractor interface {
	Extract(ctx context.Context, url string) core.ExtractionResult
}

// Summarizer turns text into a SummaryResult. *summarize.Pipeline implements it.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (core.SummaryResult, error)
}

// Assembler is the DigestAssembler.
type Assembler struct {
	extractor  Extractor
	summarizer Summarizer
}

// New creates an Assembler.
func New(extractor Extractor, summarizer Summarizer) *Assembler {
	return &Assembler{extractor: extractor, summarizer: summarizer}
}

// FromURL extracts and summarizes one URL. The returned Article carries the
// extraction error, or the summarization error, in Error.
func (a *Assembler) FromURL(ctx context.Context, url string) core.Article {
	res := a.extractor.Extract(ctx, url)
	if res.Failed() {
		log.Warn().Str("url", url).Str("error", res.Error).Msg("skipping article")
		return core.Article{
			URL:       url,
			Authors:   []string{},
			KeyPoints: []string{},
			Error:     res.Error,
		}
	}

	article := core.Article{
		URL:         url,
		Title:       res.Title,
		Authors:     res.Authors,
		PublishDate: res.PublishDate,
		Markdown:    res.Markdown,
		Text:        res.Text,
	}
	a.summarize(ctx, &article)

	log.Info().
		Str("url", url).
		Str("stage", res.Stage.String()).
		Str("sentiment", string(article.Sentiment)).
		Bool("failed", article.Error != "").
		Msg("article assembled")
	return article
}

// FromText summarizes pasted text. Blank text gets the "N/A" article without
// a model call.
func (a *Assembler) FromText(ctx context.Context, text string) core.Article {
	article := core.Article{
		URL:     core.PastedTextURL,
		Title:   PastedTextTitle,
		Authors: []string{},
		Text:    text,
	}
	a.summarize(ctx, &article)
	return article
}

// FromURLs digests urls one at a time, in order. Every URL yields exactly one
// Article. Once ctx is done the remaining URLs are marked with its error.
func (a *Assembler) FromURLs(ctx context.Context, urls []string) []core.Article {
	articles := make([]core.Article, 0, len(urls))
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			articles = append(articles, core.Article{URL: u, Authors: []string{}, KeyPoints: []string{}, Error: err.Error()})
			continue
		}
		log.Info().Int("item", i+1).Int("total", len(urls)).Str("url", u).Msg("processing")
		articles = append(articles, a.FromURL(ctx, u))
	}
	return articles
}

func (a *Assembler) summarize(ctx context.Context, article *core.Article) {
	if strings.TrimSpace(article.Text) == "" {
		setEmpty(article)
		return
	}

	sum, err := a.summarizer.Summarize(ctx, article.Text)
	switch {
	case errors.Is(err, core.ErrEmptyText):
		setEmpty(article)
	case err != nil:
		log.Error().Err(err).Str("url", article.URL).Msg("summarization failed")
		article.KeyPoints = []string{}
		article.Error = "Summarization failed: " + err.Error()
	default:
		article.Summary = sum.Summary
		article.KeyPoints = sum.KeyPoints
		article.Sentiment = sum.Sentiment
	}
}

func setEmpty(article *core.Article) {
	article.Summary = ""
	article.KeyPoints = []string{}
	article.Sentiment = core.SentimentNA
}
