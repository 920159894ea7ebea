package utils

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

type GenerationRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	// JSON asks the provider for a bare JSON document.
	JSON bool
}

// TextGenerationClient is implemented by every AI provider.
type TextGenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Model() string
	Close() error
}

type ClientOptions struct {
	Model   string
	BaseURL string
}

// NewTextGenerationClient picks the implementation for provider.
func NewTextGenerationClient(ctx context.Context, provider, apiKey string, opts ClientOptions) (TextGenerationClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, opts.Model, ""), nil
	case ProviderDeepSeek:
		return NewOpenAIClient(apiKey, opts.Model, opts.BaseURL), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// OpenAIClient also serves OpenAI compatible endpoints such as DeepSeek.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Close() error { return nil }

func (c *OpenAIClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", c.model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyAIResponse
	}
	return resp.Choices[0].Message.Content, nil
}
