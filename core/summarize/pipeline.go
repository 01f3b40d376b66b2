// Package summarize implements the chunked summarization pipeline:
// chunk → summarize each chunk → condense → key points → sentiment.
//
// The summarizer has a bounded input, so long documents are summarized
// chunk by chunk and the per-chunk summaries are concatenated in order.
// Any model failure aborts the call with a *core.ModelInvocationError.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/chunk"
	"github.com/gaurav-prasanna/newsdigest/core/model"
	"github.com/gaurav-prasanna/newsdigest/core/normalize"
)

const (
	// ChunkWords is the summarizer's input cap.
	ChunkWords = chunk.DefaultMaxWords
	// SentimentChars is the classifier's input cap, in characters.
	SentimentChars = 512
)

var (
	chunkOptions    = model.SummaryOptions{MinLength: 80, MaxLength: 200, Deterministic: true}
	condenseOptions = model.SummaryOptions{MinLength: 60, MaxLength: 150, Deterministic: true}
)

// Models is the model capability the pipeline needs. *model.Service implements it.
type Models interface {
	Summarize(ctx context.Context, text string, opts model.SummaryOptions) (string, error)
	Classify(ctx context.Context, text string) (string, error)
}

// Pipeline is the SummarizationPipeline.
type Pipeline struct {
	models  Models
	chunker *chunk.Chunker
}

// New creates a Pipeline over the given models.
func New(models Models) *Pipeline {
	return &Pipeline{models: models, chunker: chunk.New(ChunkWords)}
}

// Summarize produces the summary, key points and sentiment for text.
// Empty text returns core.ErrEmptyText; callers short-circuit it themselves.
func (p *Pipeline) Summarize(ctx context.Context, text string) (core.SummaryResult, error) {
	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		return core.SummaryResult{}, core.ErrEmptyText
	}

	summaries := make([]string, 0, len(chunks))
	for i, c := range chunks {
		s, err := p.models.Summarize(ctx, c, chunkOptions)
		if err != nil {
			return core.SummaryResult{}, &core.ModelInvocationError{
				Op:  fmt.Sprintf("summarize chunk %d/%d", i+1, len(chunks)),
				Err: err,
			}
		}
		summaries = append(summaries, strings.TrimSpace(s))
	}
	fullSummary := strings.TrimSpace(strings.Join(summaries, " "))
	if fullSummary == "" {
		return core.SummaryResult{}, &core.ModelInvocationError{Op: "summarize", Err: errors.New("empty summary")}
	}

	// The condensed summary only seeds key points.
	shortSummary, err := p.condense(ctx, fullSummary)
	if err != nil {
		return core.SummaryResult{}, err
	}

	label, err := p.models.Classify(ctx, TruncateChars(fullSummary, SentimentChars))
	if err != nil {
		return core.SummaryResult{}, &core.ModelInvocationError{Op: "classify", Err: err}
	}

	result := core.SummaryResult{
		Summary:   normalize.Normalize(fullSummary),
		KeyPoints: KeyPoints(shortSummary, text),
		Sentiment: MapSentiment(label),
	}

	log.Debug().
		Int("chunks", len(chunks)).
		Int("summary_words", chunk.WordCount(result.Summary)).
		Int("key_points", len(result.KeyPoints)).
		Str("label", label).
		Msg("summarized")

	return result, nil
}

// MapSentiment collapses a raw classifier label to Positive or Negative.
// Anything not recognized as the positive class is Negative.
func MapSentiment(label string) core.Sentiment {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POSITIVE", "POS":
		return core.SentimentPositive
	default:
		return core.SentimentNegative
	}
}

// TruncateChars returns at most the first n characters (runes) of s.
func TruncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// condense shortens the full summary. A summary longer than one chunk is
// condensed chunk by chunk and the parts joined, so every chunk's summary
// can seed key points.
func (p *Pipeline) condense(ctx context.Context, fullSummary string) (string, error) {
	parts := p.chunker.Chunk(fullSummary)
	if len(parts) > 1 {
		log.Debug().Int("summary_words", chunk.WordCount(fullSummary)).Int("parts", len(parts)).Msg("condensing in parts")
	}

	out := make([]string, 0, len(parts))
	for i, part := range parts {
		s, err := p.models.Summarize(ctx, part, condenseOptions)
		if err != nil {
			op := "condense"
			if len(parts) > 1 {
				op = fmt.Sprintf("condense part %d/%d", i+1, len(parts))
			}
			return "", &core.ModelInvocationError{Op: op, Err: err}
		}
		out = append(out, strings.TrimSpace(s))
	}
	return strings.Join(out, " "), nil
}
