package core

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when a pipeline is handed text with no words.
var ErrEmptyText = errors.New("empty text")

// ErrNoContent is returned by an ArticleParser that found no readable article
// body in otherwise well-formed HTML. It routes extraction to the fallback.
var ErrNoContent = errors.New("no readable content")

// FetchError is a non-success HTTP status from the fast path. Not retried.
type FetchError struct {
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch URL, status code: %d", e.StatusCode)
}

// RenderError is a headless-browser launch, navigation or timeout failure.
type RenderError struct {
	URL string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.URL, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ModelInvocationError is a failed or timed-out summarizer/classifier call.
type ModelInvocationError struct {
	Op  string
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model %s failed: %v", e.Op, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}
