package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/pkg/utils"
)

const defaultBlogIdeas = 5

type ClientFactory func(ctx context.Context, provider, apiKey string, opts utils.ClientOptions) (utils.TextGenerationClient, error)

// AICredentials is the user supplied provider and key for one request.
type AICredentials struct {
	Provider string
	APIKey   string
}

type AIServiceInterface interface {
	GenerateScript(ctx context.Context, creds AICredentials, req request_models.GenerateScriptRequest) (*response_models.AIResult, error)
	ImprovePrompt(ctx context.Context, creds AICredentials, req request_models.ImprovePromptRequest) (*response_models.AIResult, error)
	BlogIdeas(ctx context.Context, creds AICredentials, req request_models.BlogIdeasRequest) (*response_models.BlogIdeasResult, error)
	// ResolveCredentials prefers the request headers over the stored settings.
	ResolveCredentials(headerProvider, headerKey, storedProvider, storedKey string) AICredentials
}

type AIService struct {
	cfg     config.AIConfig
	factory ClientFactory
}

func NewAIService(cfg config.AIConfig) AIServiceInterface {
	return newAIService(cfg, utils.NewTextGenerationClient)
}

func newAIService(cfg config.AIConfig, factory ClientFactory) *AIService {
	return &AIService{cfg: cfg, factory: factory}
}

func (s *AIService) ResolveCredentials(headerProvider, headerKey, storedProvider, storedKey string) AICredentials {
	creds := AICredentials{Provider: storedProvider, APIKey: storedKey}
	if strings.TrimSpace(headerKey) != "" {
		creds.APIKey = strings.TrimSpace(headerKey)
		creds.Provider = headerProvider
	} else if headerProvider != "" {
		creds.Provider = headerProvider
	}
	creds.Provider = strings.ToLower(strings.TrimSpace(creds.Provider))
	if creds.Provider == "" {
		creds.Provider = strings.ToLower(s.cfg.DefaultProvider)
	}
	return creds
}

func (s *AIService) clientOptions(provider string) utils.ClientOptions {
	switch provider {
	case utils.ProviderGemini:
		return utils.ClientOptions{Model: s.cfg.GeminiModel}
	case utils.ProviderDeepSeek:
		return utils.ClientOptions{Model: s.cfg.DeepSeekModel, BaseURL: s.cfg.DeepSeekBaseURL}
	default:
		return utils.ClientOptions{Model: s.cfg.OpenAIModel}
	}
}

func (s *AIService) generate(ctx context.Context, op string, creds AICredentials, req utils.GenerationRequest) (string, string, error) {
	provider := creds.Provider
	if provider == "" {
		provider = strings.ToLower(s.cfg.DefaultProvider)
	}

	client, err := s.factory(ctx, provider, creds.APIKey, s.clientOptions(provider))
	if err != nil {
		return "", "", err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("close ai client failed", zap.String("provider", provider), zap.Error(cerr))
		}
	}()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = s.cfg.MaxTokens
	}

	start := time.Now()
	text, err := client.Generate(ctx, req)
	if err != nil {
		logger.Error("ai generation failed",
			zap.String("op", op),
			zap.String("provider", provider),
			zap.String("model", client.Model()),
			zap.Error(err))
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("ai generation completed",
		zap.String("op", op),
		zap.String("provider", provider),
		zap.String("model", client.Model()),
		zap.Duration("took", time.Since(start)))

	return text, client.Model(), nil
}

func (s *AIService) GenerateScript(ctx context.Context, creds AICredentials, req request_models.GenerateScriptRequest) (*response_models.AIResult, error) {
	const op = "services.GenerateScript"

	platform := req.Platform
	if platform == "" {
		platform = "youtube"
	}
	tone := req.Tone
	if tone == "" {
		tone = "friendly and energetic"
	}
	duration := req.Duration
	if duration == 0 {
		duration = 60
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Write a %s video script about: %s\n", platform, strings.TrimSpace(req.Topic))
	fmt.Fprintf(&prompt, "Tone: %s\n", tone)
	fmt.Fprintf(&prompt, "Target length: about %d seconds when read aloud.\n", duration)
	prompt.WriteString(`
Structure:
1. HOOK - the first 3 seconds
2. BODY - the main points, one idea per paragraph
3. CALL TO ACTION

Return only the script text, without markdown.`)

	text, model, err := s.generate(ctx, op, creds, utils.GenerationRequest{
		System:      "You are a scriptwriter for content creators. You write concise, spoken-style scripts.",
		Prompt:      prompt.String(),
		Temperature: 0.8,
	})
	if err != nil {
		return nil, err
	}

	cleaned := utils.CleanModelOutput(text)
	if cleaned == "" {
		return nil, utils.ErrEmptyAIResponse
	}
	return &response_models.AIResult{Provider: creds.Provider, Model: model, Text: cleaned}, nil
}

func (s *AIService) ImprovePrompt(ctx context.Context, creds AICredentials, req request_models.ImprovePromptRequest) (*response_models.AIResult, error) {
	const op = "services.ImprovePrompt"

	goal := req.Goal
	if goal == "" {
		goal = "get a precise, high quality answer"
	}
	prompt := fmt.Sprintf(`Rewrite the following prompt so that it is clearer and more specific.
Keep the author's intent. Add role, context, constraints and the expected output format when they are missing.
Goal of the prompt: %s

Prompt:
"""
%s
"""

Return only the improved prompt.`, goal, strings.TrimSpace(req.Prompt))

	text, model, err := s.generate(ctx, op, creds, utils.GenerationRequest{
		System:      "You are an expert prompt engineer.",
		Prompt:      prompt,
		Temperature: 0.4,
	})
	if err != nil {
		return nil, err
	}

	cleaned := strings.Trim(utils.CleanModelOutput(text), `"`)
	if cleaned == "" {
		return nil, utils.ErrEmptyAIResponse
	}
	return &response_models.AIResult{Provider: creds.Provider, Model: model, Text: cleaned}, nil
}

func (s *AIService) BlogIdeas(ctx context.Context, creds AICredentials, req request_models.BlogIdeasRequest) (*response_models.BlogIdeasResult, error) {
	const op = "services.BlogIdeas"

	count := req.Count
	if count == 0 {
		count = defaultBlogIdeas
	}
	audience := req.Audience
	if audience == "" {
		audience = "content creators"
	}

	prompt := fmt.Sprintf(`Suggest %d blog post ideas for the niche "%s", written for %s.

Return JSON in this exact format:
{
  "ideas": [
    {
      "title": "Post title",
      "angle": "One sentence on what makes the post worth reading",
      "keywords": ["keyword 1", "keyword 2"]
    }
  ]
}`, count, strings.TrimSpace(req.Niche), audience)

	text, model, err := s.generate(ctx, op, creds, utils.GenerationRequest{
		System:      "You are a content strategist. You answer with JSON only.",
		Prompt:      prompt,
		Temperature: 0.9,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}

	ideas, err := ParseBlogIdeas(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ideas) > count {
		ideas = ideas[:count]
	}
	return &response_models.BlogIdeasResult{Provider: creds.Provider, Model: model, Ideas: ideas}, nil
}

// ParseBlogIdeas accepts either {"ideas": [...]} or a bare array and drops
// ideas without a title.
func ParseBlogIdeas(text string) ([]response_models.BlogIdea, error) {
	raw := utils.ExtractJSON(text)

	var ideas []response_models.BlogIdea
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &ideas); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrEmptyAIResponse, err)
		}
	} else {
		var wrapper struct {
			Ideas []response_models.BlogIdea `json:"ideas"`
		}
		if err := json.Unmarshal([]byte(raw), &wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrEmptyAIResponse, err)
		}
		ideas = wrapper.Ideas
	}

	out := ideas[:0]
	for _, idea := range ideas {
		idea.Title = strings.TrimSpace(idea.Title)
		if idea.Title == "" {
			continue
		}
		idea.Angle = strings.TrimSpace(idea.Angle)
		out = append(out, idea)
	}
	if len(out) == 0 {
		return nil, utils.ErrEmptyAIResponse
	}
	return out, nil
}
