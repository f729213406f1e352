package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provider names accepted in the config file.
const (
	ProviderGemini     = "gemini"
	ProviderGeminiREST = "gemini-rest"
	ProviderOpenAI     = "openai"
)

const (
	DefaultPath        = "config.yaml"
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultTemperature = 0.1
	defaultTimeout     = 60 * time.Second
	defaultMinDelay    = 2 * time.Second
	defaultStorePath   = "nepcollege.db"
	defaultExportDir   = "."
)

// Config is the root configuration for nepcollege.
type Config struct {
	Provider         string
	Model            string
	BaseURL          string // empty means the provider default
	APIKey           string // may be empty; the form can supply one
	Temperature      float32
	Timeout          time.Duration // per-harvest deadline
	StructuredOutput bool
	StorePath        string
	Export           ExportConfig
	RateLimit        RateLimitConfig
	Catalog          CatalogConfig
	Notification     NotificationConfig
}

// NotificationConfig controls where batch reports go.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ExportConfig controls where CSV exports are written.
type ExportConfig struct {
	Dir string
	S3  S3Config
}

// S3Config describes an optional S3-compatible bucket for exports.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Enabled reports whether uploads are configured.
func (s S3Config) Enabled() bool { return s.Bucket != "" }

// RateLimitConfig controls spacing between batch harvests.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// CatalogConfig overrides the built-in option lists. Empty lists keep the
// defaults.
type CatalogConfig struct {
	Provinces    []string `yaml:"provinces"`
	Universities []string `yaml:"universities"`
	Faculties    []string `yaml:"faculties"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Provider         string             `yaml:"provider"`
	Model            string             `yaml:"model"`
	BaseURL          string             `yaml:"base_url"`
	APIKey           string             `yaml:"api_key"`
	Temperature      *float32           `yaml:"temperature"`
	Timeout          string             `yaml:"timeout"`
	StructuredOutput bool               `yaml:"structured_output"`
	StorePath        string             `yaml:"store_path"`
	Export           rawExportConfig    `yaml:"export"`
	RateLimit        rawRateLimit       `yaml:"rate_limit"`
	Catalog          CatalogConfig      `yaml:"catalog"`
	Notification     NotificationConfig `yaml:"notification"`
}

type rawExportConfig struct {
	Dir string   `yaml:"dir"`
	S3  S3Config `yaml:"s3"`
}

type rawRateLimit struct {
	MinDelay string `yaml:"min_delay"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Provider:    ProviderGemini,
		Model:       defaultGeminiModel,
		Temperature: defaultTemperature,
		Timeout:     defaultTimeout,
		StorePath:   defaultStorePath,
		Export:      ExportConfig{Dir: defaultExportDir},
		RateLimit:   RateLimitConfig{MinDelay: defaultMinDelay},
	}
	cfg.APIKey = envAPIKey(cfg.Provider)
	return cfg
}

// Resolve loads the config at path. An empty path means DefaultPath, and a
// missing default file yields Default(). A path given explicitly must exist.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes. Environment variables are expanded
// first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	provider := strings.ToLower(strings.TrimSpace(raw.Provider))
	if provider == "" {
		provider = ProviderGemini
	}

	model := raw.Model
	if model == "" {
		model = defaultGeminiModel
		if provider == ProviderOpenAI {
			model = defaultOpenAIModel
		}
	}

	temperature := float32(defaultTemperature)
	if raw.Temperature != nil {
		temperature = *raw.Temperature
	}

	var err error
	timeout := defaultTimeout
	if raw.Timeout != "" {
		timeout, err = time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout %q: %w", raw.Timeout, err)
		}
	}

	minDelay := defaultMinDelay
	if raw.RateLimit.MinDelay != "" {
		minDelay, err = time.ParseDuration(raw.RateLimit.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
		}
	}

	apiKey := raw.APIKey
	if apiKey == "" {
		apiKey = envAPIKey(provider)
	}

	storePath := raw.StorePath
	if storePath == "" {
		storePath = defaultStorePath
	}

	exportDir := raw.Export.Dir
	if exportDir == "" {
		exportDir = defaultExportDir
	}

	cfg := &Config{
		Provider:         provider,
		Model:            model,
		BaseURL:          raw.BaseURL,
		APIKey:           apiKey,
		Temperature:      temperature,
		Timeout:          timeout,
		StructuredOutput: raw.StructuredOutput,
		StorePath:        storePath,
		Export:           ExportConfig{Dir: exportDir, S3: raw.Export.S3},
		RateLimit:        RateLimitConfig{MinDelay: minDelay},
		Catalog:          raw.Catalog,
		Notification:     raw.Notification,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envAPIKey(provider string) string {
	if provider == ProviderOpenAI {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func validate(cfg *Config) error {
	switch cfg.Provider {
	case ProviderGemini, ProviderGeminiREST, ProviderOpenAI:
	default:
		return fmt.Errorf("provider must be one of %q, %q or %q, got %q",
			ProviderGemini, ProviderGeminiREST, ProviderOpenAI, cfg.Provider)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", cfg.Temperature)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/ when type is \"slack\"")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}
	if s3 := cfg.Export.S3; s3.Enabled() {
		if (s3.AccessKey == "") != (s3.SecretKey == "") {
			return fmt.Errorf("export.s3.access_key and export.s3.secret_key must be set together")
		}
	}
	return nil
}
