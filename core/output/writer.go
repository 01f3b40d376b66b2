// Package output handles file naming and writing for digest exports.
// A single-URL digest is named after its URL (e.g. example_com_news_story.pdf);
// anything else is news_digest.<ext>.
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the base file name for batch and pasted-text digests.
const DefaultName = "news_digest"

// maxNameLen keeps URL-derived names well under common filesystem limits.
const maxNameLen = 120

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as name+ext in the output directory and returns the path.
func (w *Writer) Write(name string, data []byte, ext string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	path := filepath.Join(w.OutputDir, name+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// DigestName picks the file name for a digest of urls.
func DigestName(urls []string) string {
	if len(urls) != 1 {
		return DefaultName
	}
	name := filenameFromURL(urls[0])
	if strings.Trim(name, "_") == "" {
		return DefaultName
	}
	return name
}

// filenameFromURL converts a URL into a flat filename.
// Example: https://example.com/news/story.html → example_com_news_story_html
func filenameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return truncate(sanitize(rawURL))
	}

	parts := []string{sanitize(strings.TrimPrefix(parsed.Host, "www."))}
	path := strings.Trim(parsed.Path, "/")
	if path != "" {
		for _, seg := range strings.Split(path, "/") {
			if seg != "" {
				parts = append(parts, sanitize(seg))
			}
		}
	}
	return truncate(strings.Join(parts, "_"))
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func truncate(name string) string {
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return strings.TrimRight(name, "_")
}
