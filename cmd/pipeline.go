// Package cmd: component wiring and digest export shared by the commands.
package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/newsdigest/config"
	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/browser"
	"github.com/gaurav-prasanna/newsdigest/core/digest"
	"github.com/gaurav-prasanna/newsdigest/core/extract"
	"github.com/gaurav-prasanna/newsdigest/core/fetch"
	"github.com/gaurav-prasanna/newsdigest/core/model"
	"github.com/gaurav-prasanna/newsdigest/core/output"
	"github.com/gaurav-prasanna/newsdigest/core/render"
	"github.com/gaurav-prasanna/newsdigest/core/summarize"
)

// Output format flags (mutually exclusive), shared by every command.
var (
	flagPDF      bool
	flagMarkdown bool
	flagJSON     bool
	flagStdout   bool
)

func addOutputFlags(c *cobra.Command) {
	c.Flags().BoolVar(&flagPDF, "pdf", false, "Output PDF")
	c.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	c.Flags().BoolVar(&flagJSON, "json", false, "Output JSON")
	c.Flags().Bool("full-text", false, "Include extracted article text in Markdown output")
	c.Flags().String("output_dir", "", "Output directory (default: current directory)")
	c.Flags().BoolVar(&flagStdout, "stdout", false, "Write the digest to stdout instead of a file")
}

// newFetcher builds the Stage 1 HTTP client from config.
func newFetcher(c *config.Config) *fetch.HTTPFetcher {
	return fetch.New(fetch.WithTimeout(c.Fetch.Timeout), fetch.WithUserAgent(c.Fetch.UserAgent))
}

// newAssembler wires fetcher, parser, browser and models into an Assembler.
// The models are loaded once here and shared by every article in the run.
func newAssembler(c *config.Config, fetcher core.Fetcher) (*digest.Assembler, error) {
	var br core.Browser
	if c.Browser.Enabled {
		br = &browser.Chrome{
			Timeout:   c.Browser.Timeout,
			UserAgent: c.Fetch.UserAgent,
			ExecPath:  c.Browser.ExecPath,
		}
	}
	extractor := extract.New(fetcher, extract.NewReadabilityParser(), br)

	models, err := model.Open(c.Model.Backend, c.ModelSettings())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", c.Model.Backend).Bool("browser", c.Browser.Enabled).Msg("pipeline ready")

	return digest.New(extractor, summarize.New(models)), nil
}

// resolveFormat picks the format from the format flags, else from config.
func resolveFormat(configured string) (string, error) {
	formatCount := 0
	format := configured
	if flagPDF {
		formatCount++
		format = config.FormatPDF
	}
	if flagMarkdown {
		formatCount++
		format = config.FormatMarkdown
	}
	if flagJSON {
		formatCount++
		format = config.FormatJSON
	}
	if formatCount > 1 {
		return "", fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if flagStdout && format == config.FormatPDF {
		return "", fmt.Errorf("--stdout cannot be used with PDF output")
	}
	return format, nil
}

// selectRenderer creates the Renderer for format.
func selectRenderer(format string, fullText bool) (core.Renderer, error) {
	switch format {
	case config.FormatMarkdown:
		return render.NewMarkdownRenderer(fullText), nil
	case config.FormatJSON:
		return render.NewJSONRenderer(), nil
	case config.FormatPDF:
		return render.NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("no renderer for format %q", format)
	}
}

// emit renders articles and writes them to stdout or to name.<ext>.
func emit(cmd *cobra.Command, articles []core.Article, name string) error {
	format, err := resolveFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	renderer, err := selectRenderer(format, cfg.Output.FullText)
	if err != nil {
		return err
	}

	data, err := renderer.Render(articles)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagStdout {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	} else {
		writer, err := output.New(cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
		path, err := writer.Write(name, data, renderer.Extension())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}

	if failed := countFailed(articles); failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d/%d articles failed\n", failed, len(articles))
	}
	return nil
}

func countFailed(articles []core.Article) int {
	failed := 0
	for _, a := range articles {
		if a.Error != "" {
			failed++
		}
	}
	return failed
}
