package model

import (
	"context"
	"fmt"
	"strings"
)

// Stub is a deterministic, offline Summarizer and Classifier. It summarizes
// by keeping leading words up to MaxLength and classifies by counting a few
// cue words. Useful for tests and for running the pipeline without a model.
type Stub struct {
	// MaxInputWords rejects longer inputs, mimicking a model's context limit.
	// Zero means unlimited.
	MaxInputWords int
	// Err, when set, is returned from every call.
	Err error

	SummarizeCalls []string
	ClassifyCalls  []string
}

var (
	positiveCues = []string{"good", "great", "success", "win", "growth", "improve", "approve", "happy", "benefit", "record"}
	negativeCues = []string{"bad", "fail", "loss", "crisis", "decline", "death", "attack", "worry", "risk", "crash"}
)

// Summarize returns the first MaxLength words of text.
func (s *Stub) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	s.SummarizeCalls = append(s.SummarizeCalls, text)
	if s.Err != nil {
		return "", s.Err
	}
	words := strings.Fields(text)
	if s.MaxInputWords > 0 && len(words) > s.MaxInputWords {
		return "", fmt.Errorf("input of %d words exceeds limit of %d", len(words), s.MaxInputWords)
	}
	if opts.MaxLength > 0 && len(words) > opts.MaxLength {
		words = words[:opts.MaxLength]
	}
	return strings.Join(words, " "), nil
}

// Classify returns POSITIVE or NEGATIVE by cue-word majority; ties are NEGATIVE.
func (s *Stub) Classify(ctx context.Context, text string) (string, error) {
	s.ClassifyCalls = append(s.ClassifyCalls, text)
	if s.Err != nil {
		return "", s.Err
	}
	lower := strings.ToLower(text)
	score := 0
	for _, cue := range positiveCues {
		score += strings.Count(lower, cue)
	}
	for _, cue := range negativeCues {
		score -= strings.Count(lower, cue)
	}
	if score > 0 {
		return "POSITIVE", nil
	}
	return "NEGATIVE", nil
}
