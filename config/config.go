// Package config loads newsdigest settings from defaults, an optional
// .newsdigest.yaml, a .env file and NEWSDIGEST_* environment variables,
// in increasing order of precedence. Command-line flags are bound on top
// by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/newsdigest/core/browser"
	"github.com/gaurav-prasanna/newsdigest/core/fetch"
	"github.com/gaurav-prasanna/newsdigest/core/model"
)

// EnvPrefix prefixes every environment variable, e.g. NEWSDIGEST_MODEL_BACKEND.
const EnvPrefix = "NEWSDIGEST"

// Config holds all application configuration.
type Config struct {
	Fetch   Fetch   `mapstructure:"fetch"`
	Browser Browser `mapstructure:"browser"`
	Model   Model   `mapstructure:"model"`
	Output  Output  `mapstructure:"output"`
	Log     Log     `mapstructure:"log"`
}

// Fetch configures the Stage 1 HTTP client.
type Fetch struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Browser configures the Stage 2 headless browser.
type Browser struct {
	Enabled  bool          `mapstructure:"enabled"`
	Timeout  time.Duration `mapstructure:"timeout"`
	ExecPath string        `mapstructure:"exec_path"`
}

// Model configures the summarizer and classifier backend.
type Model struct {
	Backend           string        `mapstructure:"backend"`
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	SummaryModel      string        `mapstructure:"summary_model"`
	SentimentModel    string        `mapstructure:"sentiment_model"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Output configures digest export.
type Output struct {
	Dir      string `mapstructure:"dir"`
	Format   string `mapstructure:"format"`
	FullText bool   `mapstructure:"full_text"`
}

// Log configures zerolog.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// New returns a viper instance with defaults and environment bindings set.
// If cfgFile is empty, .newsdigest.yaml is searched in the working directory
// and then the home directory; a missing file is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Common provider variables work without the prefix.
	_ = v.BindEnv("model.api_key", EnvPrefix+"_MODEL_API_KEY", "HF_TOKEN", "OPENAI_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".newsdigest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)

	v.SetDefault("browser.enabled", true)
	v.SetDefault("browser.timeout", browser.DefaultTimeout)
	v.SetDefault("browser.exec_path", "")

	v.SetDefault("model.backend", model.BackendHuggingFace)
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.summary_model", model.DefaultSummaryModel)
	v.SetDefault("model.sentiment_model", model.DefaultSentimentModel)
	v.SetDefault("model.requests_per_minute", 60)
	v.SetDefault("model.timeout", 120*time.Second)

	v.SetDefault("output.dir", "")
	v.SetDefault("output.format", FormatMarkdown)
	v.SetDefault("output.full_text", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogConsole)
}

// LoadDotEnv loads environment variables from path if the file exists.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Model.Backend = strings.ToLower(strings.TrimSpace(cfg.Model.Backend))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Model.Backend {
	case model.BackendHuggingFace, model.BackendOpenAI, model.BackendStub:
	default:
		return fmt.Errorf("model.backend: unknown backend %q (want huggingface, openai or stub)", c.Model.Backend)
	}
	switch c.Output.Format {
	case FormatMarkdown, FormatJSON, FormatPDF:
	default:
		return fmt.Errorf("output.format: unknown format %q (want markdown, json or pdf)", c.Output.Format)
	}
	switch c.Log.Format {
	case LogConsole, LogJSON:
	default:
		return fmt.Errorf("log.format: unknown format %q (want console or json)", c.Log.Format)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	if c.Browser.Enabled && c.Browser.Timeout <= 0 {
		return fmt.Errorf("browser.timeout must be positive, got %s", c.Browser.Timeout)
	}
	if c.Model.RequestsPerMinute < 0 {
		return fmt.Errorf("model.requests_per_minute must not be negative")
	}
	return nil
}

// ModelSettings converts the model section for model.Open.
func (c *Config) ModelSettings() model.Settings {
	return model.Settings{
		BaseURL:           c.Model.BaseURL,
		APIKey:            c.Model.APIKey,
		SummaryModel:      c.Model.SummaryModel,
		SentimentModel:    c.Model.SentimentModel,
		RequestsPerMinute: c.Model.RequestsPerMinute,
		Timeout:           c.Model.Timeout,
	}
}
