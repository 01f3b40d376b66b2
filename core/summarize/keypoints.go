package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gaurav-prasanna/newsdigest/core/chunk"
	"github.com/gaurav-prasanna/newsdigest/core/normalize"
)

const (
	// MaxKeyPoints caps the key-point list.
	MaxKeyPoints = 5
	// BackfillMinWords: backfilled sentences need strictly more words than this.
	BackfillMinWords = 8
)

// SplitSentences splits text after '.', '!' or '?' when followed by
// whitespace. Results are trimmed and empty pieces dropped.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c != '.' && c != '!' && c != '?') || i+1 >= len(text) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(text[i+1:]); !unicode.IsSpace(next) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// KeyPoints picks up to MaxKeyPoints sentences. Sentences of the condensed
// summary come first; if there are fewer than MaxKeyPoints, sentences of the
// original text with more than BackfillMinWords words are appended in
// document order. Points are normalized and unique.
//
// If neither source yields a point, the first sentence of the original text
// is used regardless of length so the list is never empty for real text.
func KeyPoints(condensed, original string) []string {
	points := make([]string, 0, MaxKeyPoints)
	seen := make(map[string]bool)
	add := func(s string) {
		n := normalize.Normalize(s)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		points = append(points, n)
	}

	for _, s := range SplitSentences(condensed) {
		add(s)
	}

	if len(points) < MaxKeyPoints {
		for _, s := range SplitSentences(original) {
			if len(points) >= MaxKeyPoints {
				break
			}
			if chunk.WordCount(s) > BackfillMinWords {
				add(s)
			}
		}
	}

	if len(points) == 0 {
		for _, s := range SplitSentences(original) {
			add(s)
			if len(points) > 0 {
				break
			}
		}
	}

	if len(points) > MaxKeyPoints {
		points = points[:MaxKeyPoints]
	}
	return points
}
