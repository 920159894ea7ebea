package request_models

import "time"

// ListRequest is bound from the query string of every list endpoint.
type ListRequest struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Search   string `form:"q"`
	SortBy   string `form:"sort"`
	Order    string `form:"order"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type RangeRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type MoveTaskRequest struct {
	Status   string `json:"status" binding:"required"`
	Position int    `json:"position" binding:"min=0"`
}

type SimilarPromptsRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}
