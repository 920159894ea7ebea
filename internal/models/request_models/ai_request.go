package request_models

type AISettingsRequest struct {
	Provider string `json:"provider" binding:"required,oneof=openai gemini deepseek"`
	APIKey   string `json:"api_key" binding:"required"`
}

type GenerateScriptRequest struct {
	Topic    string `json:"topic" binding:"required,max=500"`
	Platform string `json:"platform" binding:"omitempty,oneof=youtube tiktok instagram podcast other"`
	Tone     string `json:"tone" binding:"max=60"`
	Duration int    `json:"duration_seconds" binding:"omitempty,min=15,max=3600"`
}

type ImprovePromptRequest struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
	Goal   string `json:"goal" binding:"max=200"`
}

type BlogIdeasRequest struct {
	Niche    string `json:"niche" binding:"required,max=200"`
	Audience string `json:"audience" binding:"max=200"`
	Count    int    `json:"count" binding:"omitempty,min=1,max=20"`
}
