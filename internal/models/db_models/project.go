package db_models

import "github.com/lib/pq"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

type Project struct {
	OwnedModel
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Status      ProjectStatus  `gorm:"size:16;index" json:"status"`
	Color       string         `gorm:"size:9" json:"color"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
}
