package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redcreativa/internal/config"
	"redcreativa/internal/models/request_models"
	"redcreativa/pkg/utils"
)

type fakeTextClient struct {
	reply  string
	err    error
	last   utils.GenerationRequest
	closed bool
}

func (f *fakeTextClient) Generate(_ context.Context, req utils.GenerationRequest) (string, error) {
	f.last = req
	return f.reply, f.err
}

func (f *fakeTextClient) Model() string { return "fake-model" }

func (f *fakeTextClient) Close() error {
	f.closed = true
	return nil
}

type factoryCall struct {
	provider string
	key      string
	opts     utils.ClientOptions
}

func newTestAIService(client *fakeTextClient, calls *[]factoryCall) *AIService {
	cfg := config.AIConfig{
		DefaultProvider: "openai",
		OpenAIModel:     "gpt-test",
		DeepSeekModel:   "deepseek-chat",
		DeepSeekBaseURL: "https://deepseek.example/v1",
		MaxTokens:       500,
	}
	return newAIService(cfg, func(ctx context.Context, provider, apiKey string, opts utils.ClientOptions) (utils.TextGenerationClient, error) {
		*calls = append(*calls, factoryCall{provider: provider, key: apiKey, opts: opts})
		if apiKey == "" {
			return nil, utils.ErrMissingAPIKey
		}
		return client, nil
	})
}

func TestAIService_ResolveCredentials(t *testing.T) {
	s := newAIService(config.AIConfig{DefaultProvider: "OpenAI"}, nil)

	assert.Equal(t, AICredentials{Provider: "gemini", APIKey: "h"}, s.ResolveCredentials("Gemini", "h", "deepseek", "stored"))
	assert.Equal(t, AICredentials{Provider: "deepseek", APIKey: "stored"}, s.ResolveCredentials("", "", "deepseek", "stored"))
	assert.Equal(t, AICredentials{Provider: "openai", APIKey: ""}, s.ResolveCredentials("", "", "", ""))
}

func TestAIService_GenerateScriptCleansOutput(t *testing.T) {
	client := &fakeTextClient{reply: "```\nHere's the script:\nHOOK: Stop scrolling!\n```"}
	var calls []factoryCall
	s := newTestAIService(client, &calls)

	res, err := s.GenerateScript(context.Background(), AICredentials{Provider: "deepseek", APIKey: "k"},
		request_models.GenerateScriptRequest{Topic: "editing tips", Platform: "tiktok"})
	require.NoError(t, err)

	assert.Equal(t, "HOOK: Stop scrolling!", res.Text)
	assert.Equal(t, "fake-model", res.Model)
	assert.True(t, client.closed)
	assert.Equal(t, 500, client.last.MaxTokens)
	assert.Contains(t, client.last.Prompt, "tiktok")
	require.Len(t, calls, 1)
	assert.Equal(t, "https://deepseek.example/v1", calls[0].opts.BaseURL)
}

func TestAIService_MissingKey(t *testing.T) {
	var calls []factoryCall
	s := newTestAIService(&fakeTextClient{}, &calls)

	_, err := s.ImprovePrompt(context.Background(), AICredentials{Provider: "openai"},
		request_models.ImprovePromptRequest{Prompt: "write a poem"})
	assert.ErrorIs(t, err, utils.ErrMissingAPIKey)
}

func TestAIService_EmptyAndFailingResponses(t *testing.T) {
	var calls []factoryCall
	creds := AICredentials{Provider: "openai", APIKey: "k"}

	s := newTestAIService(&fakeTextClient{reply: "```\n```"}, &calls)
	_, err := s.ImprovePrompt(context.Background(), creds, request_models.ImprovePromptRequest{Prompt: "p"})
	assert.ErrorIs(t, err, utils.ErrEmptyAIResponse)

	boom := errors.New("rate limited")
	s = newTestAIService(&fakeTextClient{err: boom}, &calls)
	_, err = s.GenerateScript(context.Background(), creds, request_models.GenerateScriptRequest{Topic: "t"})
	assert.ErrorIs(t, err, boom)
}

func TestAIService_BlogIdeas(t *testing.T) {
	client := &fakeTextClient{reply: `Sure! {"ideas":[{"title":" One ","angle":"a"},{"title":""},{"title":"Two"},{"title":"Three"}]}`}
	var calls []factoryCall
	s := newTestAIService(client, &calls)

	res, err := s.BlogIdeas(context.Background(), AICredentials{Provider: "openai", APIKey: "k"},
		request_models.BlogIdeasRequest{Niche: "photography", Count: 2})
	require.NoError(t, err)
	require.Len(t, res.Ideas, 2)
	assert.Equal(t, "One", res.Ideas[0].Title)
	assert.Equal(t, "Two", res.Ideas[1].Title)
	assert.True(t, client.last.JSON)
}

func TestParseBlogIdeas(t *testing.T) {
	ideas, err := ParseBlogIdeas(`[{"title":"Bare array","keywords":["x"]}]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ideas[0].Keywords)

	_, err = ParseBlogIdeas("no json here")
	assert.ErrorIs(t, err, utils.ErrEmptyAIResponse)

	_, err = ParseBlogIdeas(`{"ideas":[]}`)
	assert.ErrorIs(t, err, utils.ErrEmptyAIResponse)
}
