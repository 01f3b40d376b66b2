// Package normalize repairs text pulled from web pages or produced by a model.
// It decodes HTML entities, reverses UTF-8/Windows-1252 mojibake, composes
// Unicode to NFC and drops invisible and control characters.
//
// Normalize is total and idempotent: running it on its own output is a no-op.
package normalize

import (
	"html"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the cleaned form of s. Empty input gives empty output.
// Passes repeat until the text stops changing. Entity decoding and mojibake
// repair only ever shorten the text and the other steps are idempotent on
// their own, so nested entities such as "&amp;amp;lt;" settle at any depth.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	for {
		next := pass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// NormalizeAll applies Normalize to every element, returning a new slice.
func NormalizeAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = Normalize(s)
	}
	return out
}

// Lines normalizes each line of s on its own, keeping the line breaks.
// Used for Markdown, where newlines carry structure.
func Lines(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Normalize(line)
	}
	return strings.Join(lines, "\n")
}

// pass runs each repair step once, in order.
func pass(s string) string {
	s = html.UnescapeString(s)
	s = FixMojibake(s)
	s = Uncurl(s)
	s = norm.NFC.String(s)
	return StripInvisible(s)
}

// FixMojibake reverses text that was UTF-8 on the wire but decoded as
// Windows-1252, e.g. "donâ€™t" back to "don’t". A run of characters is only
// rewritten when its Windows-1252 bytes form one valid multi-byte UTF-8
// sequence, so genuine Latin-1 text such as "café" is left alone.
func FixMojibake(s string) string {
	if !hasNonASCII(s) {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); {
		if r, n := decodeMisread(runes[i:]); n > 0 {
			b.WriteRune(r)
			i += n
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String()
}

// decodeMisread reports the rune that rs[:n] was misread from, or n == 0.
func decodeMisread(rs []rune) (rune, int) {
	lead, ok := cp1252Byte(rs[0])
	if !ok {
		return 0, 0
	}
	size := sequenceLength(lead)
	if size == 0 || len(rs) < size {
		return 0, 0
	}
	var buf [utf8.UTFMax]byte
	buf[0] = lead
	for j := 1; j < size; j++ {
		c, ok := cp1252Byte(rs[j])
		if !ok || c < 0x80 || c > 0xBF {
			return 0, 0
		}
		buf[j] = c
	}
	r, n := utf8.DecodeRune(buf[:size])
	if r == utf8.RuneError || n != size {
		return 0, 0
	}
	return r, size
}

// cp1252Byte maps a rune back to the Windows-1252 byte it would decode from.
// The five bytes Windows-1252 leaves undefined map to the C1 controls, which
// is how most mis-decoders surface them.
func cp1252Byte(r rune) (byte, bool) {
	if r < utf8.RuneSelf {
		return byte(r), true
	}
	return charmap.Windows1252.EncodeRune(r)
}

// sequenceLength returns the UTF-8 sequence length announced by a lead byte,
// or 0 if b cannot start a multi-byte sequence.
func sequenceLength(b byte) int {
	switch {
	case b >= 0xC2 && b <= 0xDF:
		return 2
	case b >= 0xE0 && b <= 0xEF:
		return 3
	case b >= 0xF0 && b <= 0xF4:
		return 4
	default:
		return 0
	}
}

var quoteReplacer = strings.NewReplacer(
	"\u02bc", "'",
	"\u2018", "'",
	"\u2019", "'",
	"\u201a", "'",
	"\u201b", "'",
	"\u201c", `"`,
	"\u201d", `"`,
	"\u201e", `"`,
	"\u201f", `"`,
)

// Uncurl replaces typographic single and double quotes with ASCII ones.
func Uncurl(s string) string {
	if !hasNonASCII(s) {
		return s
	}
	return quoteReplacer.Replace(s)
}

// StripInvisible removes zero-width characters, the byte-order mark and
// C0/C1 control characters. Whitespace controls (tab, newline, carriage
// return, form feed, vertical tab, NEL) become a single space so that
// adjacent words stay separated.
func StripInvisible(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\v' || r == '\f' || r == '\r' || r == 0x85:
			b.WriteByte(' ')
		case r < 0x20 || (r >= 0x7f && r <= 0x9f):
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\u2060' || r == '\ufeff':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasNonASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}
