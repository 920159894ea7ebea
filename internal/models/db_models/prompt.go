package db_models

import (
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

const PromptEmbeddingDimensions = 256

type PromptCategory string

const (
	PromptWriting   PromptCategory = "writing"
	PromptMarketing PromptCategory = "marketing"
	PromptVideo     PromptCategory = "video"
	PromptImage     PromptCategory = "image"
	PromptSocial    PromptCategory = "social"
	PromptOther     PromptCategory = "other"
)

func (c PromptCategory) Valid() bool {
	switch c {
	case PromptWriting, PromptMarketing, PromptVideo, PromptImage, PromptSocial, PromptOther:
		return true
	}
	return false
}

type Prompt struct {
	OwnedModel
	Title     string          `gorm:"not null" json:"title"`
	Content   string          `gorm:"not null" json:"content"`
	Category  PromptCategory  `gorm:"size:16;index" json:"category"`
	Tags      pq.StringArray  `gorm:"type:text[]" json:"tags"`
	Favorite  bool            `gorm:"default:false" json:"favorite"`
	Embedding pgvector.Vector `gorm:"type:vector(256)" json:"-"`
}
