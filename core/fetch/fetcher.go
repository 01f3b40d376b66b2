// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests with a realistic browser user-agent and
// decodes the body to UTF-8 from the declared or sniffed charset.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/newsdigest/core"
)

const (
	// DefaultTimeout bounds a single fast-path fetch.
	DefaultTimeout = 15 * time.Second
	// DefaultUserAgent mimics a desktop Chrome so that fewer sites serve stub pages.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/115.0.0.0 Safari/537.36"

	maxBodyBytes = 10 << 20
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client, keeping its own timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// New creates an HTTPFetcher with a 15s timeout and a browser user-agent.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content of the given URL.
// A non-2xx status returns *core.FetchError carrying the status code.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.FetchError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := decode(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	log.Debug().Str("stage", "fetch").Str("url", url).Int("status", resp.StatusCode).Int("bytes", len(raw)).Msg("fetched")

	return &core.FetchResult{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		HTML:        body,
	}, nil
}

// decode prefers UTF-8 and only falls back to the declared or sniffed
// charset when the bytes are not valid UTF-8.
func decode(raw []byte, contentType string) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	enc, name, _ := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("charset %s: %w", name, err)
	}
	return string(out), nil
}
