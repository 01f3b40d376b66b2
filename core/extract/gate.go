package extract

import "github.com/gaurav-prasanna/newsdigest/core/chunk"

// MinWords is the content gate: a fast-path parse needs strictly more
// words than this to be accepted. Stub and paywall pages parse cleanly
// but come back nearly empty.
const MinWords = 50

// Accept reports whether fast-path text passes the word-count gate.
func Accept(text string) bool {
	return chunk.WordCount(text) > MinWords
}
