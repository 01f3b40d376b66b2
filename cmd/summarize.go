// Package cmd: summarize command.
// This is the main command that orchestrates the pipeline:
// discover → extract → summarize → render → write.
package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/newsdigest/core/output"
	"github.com/gaurav-prasanna/newsdigest/crawl"
)

var (
	flagURLs    string
	flagSitemap string
	flagSite    string
	flagLimit   int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url...]",
	Short: "Summarize news articles from URLs into a digest",
	Long: `Summarize fetches each article, extracts its text, summarizes it and
writes one digest covering every URL. A URL that fails shows its error in the
digest and the rest of the batch continues.

Examples:
  newsdigest summarize https://example.com/news/story --markdown
  newsdigest summarize --urls "https://a.com/x, https://b.com/y" --pdf
  newsdigest summarize --sitemap https://example.com/news-sitemap.xml --limit 5 --json
  newsdigest summarize --site https://example.com/world --limit 3 --stdout`,
	Args: cobra.ArbitraryArgs,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVar(&flagURLs, "urls", "", "Comma- or newline-separated list of URLs")
	summarizeCmd.Flags().StringVar(&flagSitemap, "sitemap", "", "Digest URLs listed in this sitemap.xml")
	summarizeCmd.Flags().StringVar(&flagSite, "site", "", "Digest URLs discovered on this site (sitemap, else page links)")
	summarizeCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum URLs to take from --sitemap or --site")
	summarizeCmd.Flags().Bool("browser", true, "Fall back to a headless browser for thin pages")
	addOutputFlags(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := validateSummarizeFlags(args); err != nil {
		return err
	}
	if _, err := resolveFormat(cfg.Output.Format); err != nil {
		return err
	}

	ctx := cmd.Context()
	fetcher := newFetcher(cfg)

	urls := crawl.ParseURLList(strings.Join(args, "\n") + "\n" + flagURLs)
	switch {
	case flagSitemap != "":
		log.Info().Str("sitemap", flagSitemap).Msg("discovering articles")
		found, err := crawl.DiscoverFromSitemap(ctx, flagSitemap, fetcher, flagLimit)
		if err != nil {
			return fmt.Errorf("discovering articles: %w", err)
		}
		urls = found
	case flagSite != "":
		log.Info().Str("site", flagSite).Msg("discovering articles")
		found, err := crawl.DiscoverFromSite(ctx, flagSite, fetcher, flagLimit)
		if err != nil {
			return fmt.Errorf("discovering articles: %w", err)
		}
		urls = found
	}
	if len(urls) == 0 {
		return fmt.Errorf("no article URLs found")
	}

	assembler, err := newAssembler(cfg, fetcher)
	if err != nil {
		return err
	}

	log.Info().Int("urls", len(urls)).Msg("building digest")
	articles := assembler.FromURLs(ctx, urls)
	return emit(cmd, articles, output.DigestName(urls))
}

// validateSummarizeFlags checks that exactly one URL source is given.
func validateSummarizeFlags(args []string) error {
	sources := 0
	if len(args) > 0 || strings.TrimSpace(flagURLs) != "" {
		sources++
	}
	if flagSitemap != "" {
		sources++
		if err := validateURL(flagSitemap); err != nil {
			return err
		}
	}
	if flagSite != "" {
		sources++
		if err := validateURL(flagSite); err != nil {
			return err
		}
	}

	if sources == 0 {
		return fmt.Errorf("give article URLs as arguments, or use --urls, --sitemap or --site")
	}
	if sources > 1 {
		return fmt.Errorf("URL arguments/--urls, --sitemap and --site are mutually exclusive")
	}
	if flagLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	return nil
}

func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}
	return nil
}
