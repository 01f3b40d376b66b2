// Package cmd implements the CLI commands for newsdigest using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/newsdigest/config"
)

var (
	cfgFile string
	verbose bool

	// cfg is loaded once per invocation, before any command runs.
	cfg *config.Config
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"backend":    "model.backend",
	"model-url":  "model.base_url",
	"browser":    "browser.enabled",
	"log-format": "log.format",
	"output_dir": "output.dir",
	"full-text":  "output.full_text",
}

var rootCmd = &cobra.Command{
	Use:   "newsdigest",
	Short: "Turn news URLs or pasted text into a summarized digest",
	Long: `newsdigest extracts article text from web pages (falling back to a headless
browser for script-rendered pages), summarizes it in chunks, picks key points,
classifies sentiment and exports the digest as Markdown, JSON or PDF.

Usage:
  newsdigest summarize <url>... [flags]
  newsdigest text --file article.txt [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: initRun,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./.newsdigest.yaml or ~/.newsdigest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().String("log-format", config.LogConsole, "Log format: console or json")
	rootCmd.PersistentFlags().String("backend", "", "Model backend: huggingface, openai or stub")
	rootCmd.PersistentFlags().String("model-url", "", "Model server base URL")
}

// Execute runs the root command. Ctrl-C cancels in-flight work.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initRun loads .env, config file, environment and flags, then sets up logging.
func initRun(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if err := bindFlags(cmd, v); err != nil {
		return err
	}
	if cfg, err = config.Load(v); err != nil {
		return err
	}

	setupLogging(cfg.Log, verbose)
	log.Logger = log.With().Str("run_id", uuid.NewString()).Logger()
	if used := v.ConfigFileUsed(); used != "" {
		log.Debug().Str("file", used).Msg("config loaded")
	}
	return nil
}

// bindFlags lets explicitly set flags override every other config source.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func setupLogging(c config.Log, verbose bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.Format == config.LogJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}
