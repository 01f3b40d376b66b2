package extract

import (
	"fmt"
	nurl "net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-shiori/go-readability"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// ReadabilityParser is the fast structured parser: Mozilla Readability's
// boilerplate removal and main-content scoring over raw HTML.
type ReadabilityParser struct{}

// NewReadabilityParser creates a ReadabilityParser.
func NewReadabilityParser() *ReadabilityParser {
	return &ReadabilityParser{}
}

// Parse extracts title, byline, publish time and body text from html.
// The article body is also converted to Markdown for full-text exports.
// A page Readability does not consider readable, such as a script-rendered
// shell, fails with core.ErrNoContent.
func (p *ReadabilityParser) Parse(html string, pageURL string) (core.Candidate, error) {
	u, err := nurl.Parse(pageURL)
	if err != nil {
		u = &nurl.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		if !readability.Check(strings.NewReader(html)) {
			return core.Candidate{}, fmt.Errorf("readability: %w: %w", core.ErrNoContent, err)
		}
		return core.Candidate{}, fmt.Errorf("readability: %w", err)
	}

	var markdown string
	if article.Content != "" {
		markdown, err = htmltomarkdown.ConvertString(article.Content)
		if err != nil {
			log.Debug().Err(err).Str("url", pageURL).Msg("article body markdown conversion failed")
			markdown = ""
		}
	}

	return core.Candidate{
		Title:       strings.TrimSpace(article.Title),
		Authors:     SplitByline(article.Byline),
		PublishDate: article.PublishedTime,
		Text:        strings.TrimSpace(article.TextContent),
		Markdown:    strings.TrimSpace(markdown),
	}, nil
}

// SplitByline turns a byline such as "By Jane Doe and John Roe" into an
// ordered, de-duplicated list of author names.
func SplitByline(byline string) []string {
	byline = strings.TrimSpace(byline)
	if len(byline) >= 3 && strings.EqualFold(byline[:3], "by ") {
		byline = byline[3:]
	}
	fields := strings.FieldsFunc(byline, func(r rune) bool {
		return r == ',' || r == ';' || r == '&' || r == '|' || r == '\n'
	})

	var authors []string
	seen := make(map[string]bool)
	for _, f := range fields {
		for _, name := range strings.Split(f, " and ") {
			name = strings.TrimSpace(name)
			if name == "" || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			authors = append(authors, name)
		}
	}
	return authors
}
