package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/request_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/utils"
)

const (
	AIKeyHeader      = "X-AI-Key"
	AIProviderHeader = "X-AI-Provider"
)

type AIController struct {
	aiService services.AIServiceInterface
}

func NewAIController(aiService services.AIServiceInterface) *AIController {
	return &AIController{aiService: aiService}
}

// credentials merges the request headers with the client's saved settings.
func (a *AIController) credentials(c *gin.Context) (services.AICredentials, bool) {
	authCtx, ok := authContext(c)
	if !ok {
		return services.AICredentials{}, false
	}
	provider, key, err := authCtx.AIPreferences(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return services.AICredentials{}, false
	}
	return a.aiService.ResolveCredentials(c.GetHeader(AIProviderHeader), c.GetHeader(AIKeyHeader), provider, key), true
}

// GenerateScript godoc
// @Summary Generate a video script
// @Tags AI
// @Accept json
// @Produce json
// @Param X-AI-Key header string false "Provider API key"
// @Param X-AI-Provider header string false "openai, gemini or deepseek"
// @Param request body request_models.GenerateScriptRequest true "Script brief"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/script [post]
func (a *AIController) GenerateScript(c *gin.Context) {
	var req request_models.GenerateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	creds, ok := a.credentials(c)
	if !ok {
		return
	}

	result, err := a.aiService.GenerateScript(c.Request.Context(), creds, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Script generated")
}

// ImprovePrompt godoc
// @Summary Rewrite a prompt for better results
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.ImprovePromptRequest true "Prompt"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/improve-prompt [post]
func (a *AIController) ImprovePrompt(c *gin.Context) {
	var req request_models.ImprovePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	creds, ok := a.credentials(c)
	if !ok {
		return
	}

	result, err := a.aiService.ImprovePrompt(c.Request.Context(), creds, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "Prompt improved")
}

// BlogIdeas godoc
// @Summary Suggest blog post ideas for a niche
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.BlogIdeasRequest true "Niche and audience"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /ai/blog-ideas [post]
func (a *AIController) BlogIdeas(c *gin.Context) {
	var req request_models.BlogIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	creds, ok := a.credentials(c)
	if !ok {
		return
	}

	result, err := a.aiService.BlogIdeas(c.Request.Context(), creds, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "")
}

// SaveSettings godoc
// @Summary Store the AI provider and key for this client
// @Tags AI
// @Accept json
// @Produce json
// @Param request body request_models.AISettingsRequest true "Provider settings"
// @Success 200 {object} utils.APIResponse
// @Router /ai/settings [put]
func (a *AIController) SaveSettings(c *gin.Context) {
	var req request_models.AISettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	authCtx, ok := authContext(c)
	if !ok {
		return
	}

	if err := authCtx.SetAIPreferences(c.Request.Context(), req.Provider, req.APIKey); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.AISettings{Provider: req.Provider, HasAPIKey: true}, "AI settings saved")
}

// GetSettings godoc
// @Summary The stored AI provider, without the key
// @Tags AI
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /ai/settings [get]
func (a *AIController) GetSettings(c *gin.Context) {
	authCtx, ok := authContext(c)
	if !ok {
		return
	}
	provider, key, err := authCtx.AIPreferences(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.AISettings{Provider: provider, HasAPIKey: key != ""}, "")
}
