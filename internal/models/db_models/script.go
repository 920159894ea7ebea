package db_models

import "github.com/lib/pq"

type ScriptPlatform string

const (
	PlatformYouTube   ScriptPlatform = "youtube"
	PlatformTikTok    ScriptPlatform = "tiktok"
	PlatformInstagram ScriptPlatform = "instagram"
	PlatformPodcast   ScriptPlatform = "podcast"
	PlatformOther     ScriptPlatform = "other"
)

func (p ScriptPlatform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformTikTok, PlatformInstagram, PlatformPodcast, PlatformOther:
		return true
	}
	return false
}

type ScriptStatus string

const (
	ScriptDraft    ScriptStatus = "draft"
	ScriptInReview ScriptStatus = "in_review"
	ScriptFinal    ScriptStatus = "final"
)

func (s ScriptStatus) Valid() bool {
	switch s {
	case ScriptDraft, ScriptInReview, ScriptFinal:
		return true
	}
	return false
}

type Script struct {
	OwnedModel
	Title           string         `gorm:"not null" json:"title"`
	Content         string         `json:"content"`
	Platform        ScriptPlatform `gorm:"size:16;index" json:"platform"`
	Status          ScriptStatus   `gorm:"size:16;index" json:"status"`
	DurationSeconds int            `json:"duration_seconds"`
	Tags            pq.StringArray `gorm:"type:text[]" json:"tags"`
}
