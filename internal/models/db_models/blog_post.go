package db_models

import (
	"time"

	"github.com/lib/pq"
)

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostScheduled, PostPublished:
		return true
	}
	return false
}

type BlogPost struct {
	OwnedModel
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"index" json:"slug"`
	Excerpt     string         `json:"excerpt"`
	Content     string         `json:"content"`
	Status      PostStatus     `gorm:"size:16;index" json:"status"`
	Category    string         `gorm:"size:64;index" json:"category"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
}
