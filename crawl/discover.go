// Package crawl finds article URLs to digest: from a user-supplied list,
// from a sitemap.xml, or from the links on a section page.
package crawl

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/gaurav-prasanna/newsdigest/core"
)

// sitemapURL holds a <loc> from a sitemap.xml.
type sitemapURL struct {
	Loc string `xml:"loc"`
}

// sitemapDoc covers both <urlset> and <sitemapindex> roots.
type sitemapDoc struct {
	URLs     []sitemapURL `xml:"url"`
	Sitemaps []sitemapURL `xml:"sitemap"`
}

// maxSitemaps bounds how many nested sitemaps an index may pull in.
const maxSitemaps = 20

// DiscoverFromSite finds up to limit article URLs on the site at baseURL.
// It tries /sitemap.xml first and falls back to the links on baseURL.
func DiscoverFromSite(ctx context.Context, baseURL string, fetcher core.Fetcher, limit int) ([]string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	sitemap := fmt.Sprintf("%s://%s/sitemap.xml", parsed.Scheme, parsed.Host)
	urls, err := DiscoverFromSitemap(ctx, sitemap, fetcher, limit)
	if err == nil && len(urls) > 0 {
		return urls, nil
	}
	log.Debug().Err(err).Str("sitemap", sitemap).Msg("no sitemap URLs, falling back to page links")

	return DiscoverFromPage(ctx, baseURL, fetcher, limit)
}

// DiscoverFromSitemap returns up to limit same-domain, non-asset URLs listed
// in the sitemap, in document order. Sitemap indexes are followed one level.
// A limit <= 0 means no limit.
func DiscoverFromSitemap(ctx context.Context, sitemapURL string, fetcher core.Fetcher, limit int) ([]string, error) {
	parsed, err := url.Parse(sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("parsing sitemap URL: %w", err)
	}
	domain := parsed.Host

	doc, err := fetchSitemap(ctx, sitemapURL, fetcher)
	if err != nil {
		return nil, err
	}

	queue := NewQueue()
	collect := func(d *sitemapDoc) {
		for _, u := range d.URLs {
			if full(queue, limit) {
				return
			}
			loc := strings.TrimSpace(u.Loc)
			if IsSameDomain(loc, domain) && !IsStaticAsset(loc) {
				queue.Add(NormalizeURL(loc))
			}
		}
	}
	collect(doc)

	for i, sm := range doc.Sitemaps {
		if full(queue, limit) || i >= maxSitemaps {
			break
		}
		child, err := fetchSitemap(ctx, strings.TrimSpace(sm.Loc), fetcher)
		if err != nil {
			log.Warn().Err(err).Str("sitemap", sm.Loc).Msg("skipping nested sitemap")
			continue
		}
		collect(child)
	}

	return queue.All(), nil
}

func fetchSitemap(ctx context.Context, sitemapURL string, fetcher core.Fetcher) (*sitemapDoc, error) {
	result, err := fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetching sitemap: %w", err)
	}
	var doc sitemapDoc
	if err := xml.Unmarshal([]byte(result.HTML), &doc); err != nil {
		return nil, fmt.Errorf("parsing sitemap: %w", err)
	}
	return &doc, nil
}

// DiscoverFromPage returns up to limit same-domain links from a section or
// index page. Links inside <main> or <article> are preferred when present.
func DiscoverFromPage(ctx context.Context, pageURL string, fetcher core.Fetcher, limit int) ([]string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	result, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	links, err := extractLinks(result.HTML, pageURL)
	if err != nil {
		return nil, err
	}

	self := NormalizeURL(pageURL)
	queue := NewQueue()
	for _, link := range links {
		if full(queue, limit) {
			break
		}
		n := NormalizeURL(link)
		if n == self || !IsSameDomain(link, parsed.Host) || IsStaticAsset(link) {
			continue
		}
		queue.Add(n)
	}
	return queue.All(), nil
}

// extractLinks extracts href values from <a> tags, resolving relative URLs.
func extractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(baseURL)
	anchors := doc.Find("main a[href], article a[href]")
	if anchors.Length() == 0 {
		anchors = doc.Find("a[href]")
	}

	var links []string
	anchors.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if resolved := resolveURL(strings.TrimSpace(href), base); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}

func full(q *Queue, limit int) bool {
	return limit > 0 && q.Len() >= limit
}
