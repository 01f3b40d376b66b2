// Package chunk splits long text into word-bounded pieces that fit the
// summarizer's input limit. Words are whitespace-separated; there is no overlap.
package chunk

import "strings"

// DefaultMaxWords is the summarizer's input cap in words.
const DefaultMaxWords = 800

// Chunker splits text into fixed-size word chunks.
type Chunker struct {
	MaxWords int // number of words per chunk
}

// New creates a Chunker with the given chunk size.
// Defaults to DefaultMaxWords if maxWords <= 0.
func New(maxWords int) *Chunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Chunker{MaxWords: maxWords}
}

// Chunk splits the input text into slices of at most MaxWords words.
// Each chunk is a contiguous block of words joined by single spaces, in
// original order; only the last chunk may be shorter.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+c.MaxWords-1)/c.MaxWords)
	for i := 0; i < len(words); i += c.MaxWords {
		end := i + c.MaxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
