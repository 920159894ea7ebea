package response_models

import (
	"time"

	"redcreativa/internal/models/db_models"
)

type TimeRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Interval string    `json:"interval"` // day|week|month
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
	Total  int64         `json:"total"`
}

type TaskSummary struct {
	ByStatus map[string]int64 `json:"by_status"`
	Open     int64            `json:"open"`
	Overdue  int64            `json:"overdue"`
	// CompletionRate is done / total in [0,1], zero without tasks.
	CompletionRate float64 `json:"completion_rate"`
}

type DashboardReport struct {
	Range          TimeRange                 `json:"range"`
	Counts         map[string]int64          `json:"counts"`
	Tasks          TaskSummary               `json:"tasks"`
	UpcomingEvents []db_models.CalendarEvent `json:"upcoming_events"`
	Published      CountSeries               `json:"published"`
	Subscription   *UserProfile              `json:"subscription,omitempty"`
	GeneratedAt    time.Time                 `json:"generated_at"`
}
