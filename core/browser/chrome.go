// Package browser implements the Browser interface with headless Chrome.
// Each RenderHTML call launches its own browser process and tears it down
// before returning, on success, timeout and error alike.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/fetch"
)

const (
	// DefaultTimeout bounds navigation plus DOM capture.
	DefaultTimeout = 30 * time.Second
	// settleDelay gives client-side scripts a moment after the body is ready.
	settleDelay = 500 * time.Millisecond
)

// Chrome renders pages with a headless Chrome/Chromium.
type Chrome struct {
	Timeout   time.Duration
	UserAgent string
	// ExecPath overrides the browser binary; empty means chromedp's lookup.
	ExecPath string
}

// New creates a Chrome renderer with the default timeout and user-agent.
func New() *Chrome {
	return &Chrome{Timeout: DefaultTimeout, UserAgent: fetch.DefaultUserAgent}
}

// RenderHTML navigates to url, waits for the DOM to settle and returns the
// rendered document's outer HTML. Failures are *core.RenderError.
func (c *Chrome) RenderHTML(ctx context.Context, url string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &core.RenderError{URL: url, Err: err}
	}

	log.Debug().Str("stage", "render").Str("url", url).Dur("took", time.Since(start)).Int("bytes", len(html)).Msg("page rendered")
	return html, nil
}
