// Package model abstracts the two external models the summarization pipeline
// depends on: an abstractive summarizer and a sentiment classifier.
//
// A Service is built once per process and passed to the pipeline. It owns
// the backend and serializes calls to it, since model servers are not
// guaranteed to be reentrant.
package model

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SummaryOptions bounds the length of a generated summary.
type SummaryOptions struct {
	MinLength int
	MaxLength int
	// Deterministic disables sampling.
	Deterministic bool
}

// Summarizer generates an abstractive summary of text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error)
}

// Classifier returns the raw label a text-classification model assigns to text.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Service is the process-wide handle on the loaded models.
type Service struct {
	mu         sync.Mutex
	summarizer Summarizer
	classifier Classifier
}

// NewService wraps a summarizer and a classifier.
func NewService(s Summarizer, c Classifier) *Service {
	return &Service{summarizer: s, classifier: c}
}

// Summarize calls the summarizer. Calls are serialized across goroutines.
func (s *Service) Summarize(ctx context.Context, text string, opts SummaryOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarizer.Summarize(ctx, text, opts)
}

// Classify calls the classifier. Calls are serialized across goroutines.
func (s *Service) Classify(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifier.Classify(ctx, text)
}

// Backend names accepted by Open.
const (
	BackendHuggingFace = "huggingface"
	BackendOpenAI      = "openai"
	BackendStub        = "stub"
)

// Settings configures a backend.
type Settings struct {
	BaseURL           string
	APIKey            string
	SummaryModel      string
	SentimentModel    string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Open builds the Service for the named backend.
func Open(backend string, s Settings) (*Service, error) {
	switch backend {
	case BackendHuggingFace:
		hf := NewHuggingFace(s)
		return NewService(hf, hf), nil
	case BackendOpenAI:
		oa := NewOpenAI(s)
		return NewService(oa, oa), nil
	case BackendStub:
		st := &Stub{}
		return NewService(st, st), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", backend)
	}
}
