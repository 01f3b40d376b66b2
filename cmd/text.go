// Package cmd: text command.
// Summarizes pasted text instead of fetching a page.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/newsdigest/core"
	"github.com/gaurav-prasanna/newsdigest/core/output"
)

var (
	flagText string
	flagFile string
)

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Summarize raw article text",
	Long: `Text summarizes article text given with --text, read from --file, or piped
on stdin. Blank input produces an entry with sentiment N/A and no model call.

Examples:
  newsdigest text --file story.txt --markdown
  pbpaste | newsdigest text --stdout`,
	Args: cobra.NoArgs,
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)

	textCmd.Flags().StringVar(&flagText, "text", "", "Article text")
	textCmd.Flags().StringVar(&flagFile, "file", "", "Read article text from this file ('-' for stdin)")
	addOutputFlags(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	if flagText != "" && flagFile != "" {
		return fmt.Errorf("--text and --file are mutually exclusive")
	}
	if _, err := resolveFormat(cfg.Output.Format); err != nil {
		return err
	}

	text, err := readText(cmd)
	if err != nil {
		return err
	}

	assembler, err := newAssembler(cfg, newFetcher(cfg))
	if err != nil {
		return err
	}

	article := assembler.FromText(cmd.Context(), text)
	return emit(cmd, []core.Article{article}, output.DefaultName)
}

func readText(cmd *cobra.Command) (string, error) {
	switch {
	case flagText != "":
		return flagText, nil
	case flagFile != "" && flagFile != "-":
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", flagFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}
