package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type openaiProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(cfg ProviderConfig) *openaiProvider {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	return &openaiProvider{
		client: openai.NewClientWithConfig(conf),
		model:  cfg.Model,
	}
}

// jsonSchemaFormat requests structured output. Strict mode is off because it
// rejects schemas with optional properties.
func jsonSchemaFormat(s *Schema) *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   s.Name,
			Schema: s.Definition,
			Strict: false,
		},
	}
}

func (p *openaiProvider) Complete(ctx context.Context, system, prompt string, opts *CompleteOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature:         temperatureOf(opts),
		MaxCompletionTokens: maxTokensOf(opts),
	}
	if s := schemaOf(opts); s != nil {
		req.ResponseFormat = jsonSchemaFormat(s)
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: %w", ErrEmpty)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return "", fmt.Errorf("openai completion: %w", ErrTruncated)
	}
	if choice.Message.Content == "" {
		return "", fmt.Errorf("openai completion: %w", ErrEmpty)
	}
	return choice.Message.Content, nil
}
