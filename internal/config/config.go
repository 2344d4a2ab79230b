// Package config resolves runtime settings from flags, GITINSIGHT_* environment
// variables, the conventional provider variables and an optional
// .gitinsight.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"

	"github.com/drpaneas/gitinsight/internal/ghfetch"
	"github.com/drpaneas/gitinsight/internal/llm"
)

// Config holds all runtime configuration for gitinsight.
type Config struct {
	GitHubToken      string           `mapstructure:"github-token"`
	Provider         llm.ProviderName `mapstructure:"provider"`
	Model            string           `mapstructure:"model"`
	APIKey           string           `mapstructure:"api-key"`
	OpenAIKey        string           `mapstructure:"openai-api-key"`
	AnthropicKey     string           `mapstructure:"anthropic-api-key"`
	OllamaHost       string           `mapstructure:"ollama-host"`
	LLMBaseURL       string           `mapstructure:"llm-base-url"`
	ContributionsURL string           `mapstructure:"contributions-url"`
	SymbolFallback   bool             `mapstructure:"symbol-fallback"`
	Addr             string           `mapstructure:"addr"`
	RateLimit        float64          `mapstructure:"rate-limit"`
	RateBurst        int              `mapstructure:"rate-burst"`
	CORSOrigins      []string         `mapstructure:"cors-origins"`
	Verbose          bool             `mapstructure:"verbose"`
	JSON             bool             `mapstructure:"json"`
	NoColor          bool             `mapstructure:"no-color"`
}

// NewViper returns a viper instance with defaults and environment bindings
// installed. Callers bind their flags to it and then call Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(".gitinsight")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("GITINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The conventional unprefixed variables are honored too.
	_ = v.BindEnv("github-token", "GITINSIGHT_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("openai-api-key", "GITINSIGHT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic-api-key", "GITINSIGHT_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("ollama-host", "GITINSIGHT_OLLAMA_HOST", "OLLAMA_HOST")

	// Every key needs a default so Unmarshal sees values that only come from
	// the environment.
	v.SetDefault("provider", string(llm.ProviderAnthropic))
	v.SetDefault("model", "")
	v.SetDefault("api-key", "")
	v.SetDefault("ollama-host", "http://localhost:11434")
	v.SetDefault("llm-base-url", "")
	v.SetDefault("contributions-url", ghfetch.DefaultContributionsURL)
	v.SetDefault("symbol-fallback", true)
	v.SetDefault("addr", ":8080")
	v.SetDefault("rate-limit", 1.0)
	v.SetDefault("rate-burst", 5)
	v.SetDefault("cors-origins", []string{"*"})
	v.SetDefault("verbose", false)
	v.SetDefault("json", false)
	v.SetDefault("no-color", false)
	return v
}

// Load reads the optional config file and resolves the final Config.
// A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.Provider = llm.ProviderName(strings.ToLower(string(c.Provider)))
	if c.APIKey == "" {
		c.APIKey = c.providerKey()
	}
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
	return &c, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderOllama:
	default:
		return fmt.Errorf("unsupported LLM provider %q: must be openai, anthropic, or ollama", c.Provider)
	}
	if c.APIKey == "" && c.Provider != llm.ProviderOllama {
		return fmt.Errorf("%s requires an API key (set %s)", c.Provider, envKeyForProvider(c.Provider))
	}
	if c.Provider == llm.ProviderOllama && c.OllamaHost == "" {
		return fmt.Errorf("ollama requires a host (set OLLAMA_HOST)")
	}
	return nil
}

// ValidateServer additionally checks the HTTP server settings.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Addr, err)
	}
	if c.RateLimit <= 0 || c.RateBurst < 1 {
		return fmt.Errorf("rate limit must be positive with a burst of at least 1")
	}
	return nil
}

// ProviderConfig returns the settings needed to construct the LLM provider.
func (c *Config) ProviderConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Name:       c.Provider,
		APIKey:     c.APIKey,
		Model:      c.Model,
		OllamaHost: c.OllamaHost,
		BaseURL:    c.LLMBaseURL,
	}
}

func (c *Config) providerKey() string {
	switch c.Provider {
	case llm.ProviderOpenAI:
		return c.OpenAIKey
	case llm.ProviderAnthropic:
		return c.AnthropicKey
	default:
		return ""
	}
}

// DefaultModel returns the default model name for the given provider.
func DefaultModel(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "gpt-4o"
	case llm.ProviderAnthropic:
		return "claude-sonnet-4-5"
	case llm.ProviderOllama:
		return "llama3"
	default:
		return ""
	}
}

func envKeyForProvider(provider llm.ProviderName) string {
	switch provider {
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case llm.ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}
