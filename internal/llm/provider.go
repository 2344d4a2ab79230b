package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ProviderName identifies a supported LLM provider.
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"
	ProviderOllama    ProviderName = "ollama"
)

// Schema is a named JSON Schema the response must conform to.
type Schema struct {
	Name       string
	Definition json.RawMessage
}

// CompleteOptions controls per-request LLM parameters.
// A nil value uses provider-specific defaults.
type CompleteOptions struct {
	Temperature *float32
	MaxTokens   int
	// Schema, when set, asks the provider for a JSON document matching it.
	// Providers without native support receive it as an instruction.
	Schema *Schema
}

// Completion failures shared by all providers.
var (
	ErrTruncated = errors.New("response cut off at the token limit")
	ErrEmpty     = errors.New("response contained no text")
)

const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.3
)

// ProviderConfig holds the configuration needed to construct a Provider.
type ProviderConfig struct {
	Name       ProviderName
	APIKey     string
	Model      string
	OllamaHost string
	// BaseURL overrides the hosted API endpoint for OpenAI and Anthropic.
	BaseURL string
}

// Provider abstracts an LLM completion backend.
type Provider interface {
	Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error)
}

// NewProvider creates a Provider for the given configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	case ProviderAnthropic:
		return newAnthropic(cfg), nil
	case ProviderOllama:
		return newOllama(cfg.OllamaHost, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Name)
	}
}

func maxTokensOf(opts *CompleteOptions) int {
	if opts != nil && opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	return defaultMaxTokens
}

func temperatureOf(opts *CompleteOptions) float32 {
	if opts != nil && opts.Temperature != nil {
		return *opts.Temperature
	}
	return defaultTemperature
}

func schemaOf(opts *CompleteOptions) *Schema {
	if opts == nil || opts.Schema == nil || len(opts.Schema.Definition) == 0 {
		return nil
	}
	return opts.Schema
}

// schemaInstruction renders a schema as a system-prompt suffix.
func schemaInstruction(s *Schema) string {
	return "\n\nRespond with a single JSON object only, no prose and no code fences. " +
		"It must validate against this JSON Schema:\n" + string(s.Definition)
}
