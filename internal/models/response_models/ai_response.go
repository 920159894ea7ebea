package response_models

type AIResult struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
}

type BlogIdea struct {
	Title    string   `json:"title"`
	Angle    string   `json:"angle"`
	Keywords []string `json:"keywords,omitempty"`
}

type BlogIdeasResult struct {
	Provider string     `json:"provider"`
	Model    string     `json:"model"`
	Ideas    []BlogIdea `json:"ideas"`
}

type AISettings struct {
	Provider  string `json:"provider"`
	HasAPIKey bool   `json:"has_api_key"`
}
