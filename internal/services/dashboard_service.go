package services

import (
	"context"
	"fmt"
	"time"

	dbm "redcreativa/internal/models/db_models"
	resp "redcreativa/internal/models/response_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/utils"
)

const (
	upcomingWindow = 7 * 24 * time.Hour
	upcomingLimit  = 10
)

type DashboardService interface {
	BuildDashboard(ctx context.Context, user *dbm.Profile, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo repositories.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

// normalizeRange ensures sane defaults and ordering
func normalizeRange(r resp.TimeRange, now time.Time) (resp.TimeRange, error) {
	out := r
	switch out.Interval {
	case "":
		out.Interval = "day"
	case "day", "week", "month":
	default:
		return out, fmt.Errorf("%w: interval must be day, week or month", utils.ErrInvalidInput)
	}
	if out.End.IsZero() {
		out.End = now
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30) // last 30 days default
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out, nil
}

func summarizeTasks(rows []repositories.GroupCount, overdue int64) resp.TaskSummary {
	summary := resp.TaskSummary{ByStatus: make(map[string]int64), Overdue: overdue}
	var total int64
	for _, st := range []dbm.TaskStatus{dbm.TaskTodo, dbm.TaskInProgress, dbm.TaskReview, dbm.TaskDone} {
		summary.ByStatus[string(st)] = 0
	}
	for _, r := range rows {
		summary.ByStatus[r.Key] += r.Count
		total += r.Count
		if r.Key != string(dbm.TaskDone) {
			summary.Open += r.Count
		}
	}
	if total > 0 {
		summary.CompletionRate = float64(summary.ByStatus[string(dbm.TaskDone)]) / float64(total)
	}
	return summary
}

func (s *dashboardService) BuildDashboard(ctx context.Context, user *dbm.Profile, rng resp.TimeRange) (*resp.DashboardReport, error) {
	if user == nil {
		return nil, utils.ErrUnauthorized
	}
	now := s.now().UTC()
	rng, err := normalizeRange(rng, now)
	if err != nil {
		return nil, err
	}

	// ---------- Counts ----------
	counts, err := s.repo.CountContent(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	statusRows, err := s.repo.TaskStatusCounts(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	overdue, err := s.repo.CountOverdueTasks(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	// ---------- Calendar ----------
	upcoming, err := s.repo.UpcomingEvents(ctx, user.ID, now, now.Add(upcomingWindow), upcomingLimit)
	if err != nil {
		return nil, err
	}
	if upcoming == nil {
		upcoming = []dbm.CalendarEvent{}
	}

	// ---------- Series ----------
	publishedRows, err := s.repo.PublishedSeries(ctx, user.ID, rng.Start, rng.End, rng.Interval)
	if err != nil {
		return nil, err
	}
	published := resp.CountSeries{Points: make([]resp.SeriesPoint, 0, len(publishedRows))}
	for _, r := range publishedRows {
		published.Points = append(published.Points, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
		published.Total += r.Sum
	}

	return &resp.DashboardReport{
		Range:          rng,
		Counts:         counts,
		Tasks:          summarizeTasks(statusRows, overdue),
		UpcomingEvents: upcoming,
		Published:      published,
		Subscription:   resp.NewUserProfile(user, now),
		GeneratedAt:    now,
	}, nil
}
