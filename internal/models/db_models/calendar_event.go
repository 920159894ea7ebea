package db_models

import (
	"time"

	"github.com/lib/pq"
)

type EventCategory string

const (
	EventMeeting  EventCategory = "meeting"
	EventDeadline EventCategory = "deadline"
	EventContent  EventCategory = "content"
	EventPersonal EventCategory = "personal"
	EventOther    EventCategory = "other"
)

func (c EventCategory) Valid() bool {
	switch c {
	case EventMeeting, EventDeadline, EventContent, EventPersonal, EventOther:
		return true
	}
	return false
}

type CalendarEvent struct {
	OwnedModel
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Category    EventCategory  `gorm:"size:16;index" json:"category"`
	StartsAt    time.Time      `gorm:"index;not null" json:"starts_at"`
	EndsAt      time.Time      `gorm:"not null" json:"ends_at"`
	AllDay      bool           `json:"all_day"`
	Location    string         `json:"location"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
}
