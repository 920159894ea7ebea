package db_models

import "github.com/lib/pq"

type ResourceType string

const (
	ResourceArticle  ResourceType = "article"
	ResourceVideo    ResourceType = "video"
	ResourceTool     ResourceType = "tool"
	ResourceTemplate ResourceType = "template"
	ResourceCourse   ResourceType = "course"
	ResourceOther    ResourceType = "other"
)

func (t ResourceType) Valid() bool {
	switch t {
	case ResourceArticle, ResourceVideo, ResourceTool, ResourceTemplate, ResourceCourse, ResourceOther:
		return true
	}
	return false
}

type Resource struct {
	OwnedModel
	Title    string         `gorm:"not null" json:"title"`
	URL      string         `json:"url"`
	Type     ResourceType   `gorm:"size:16;index" json:"type"`
	Category string         `gorm:"size:64;index" json:"category"`
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Notes    string         `json:"notes"`
}
