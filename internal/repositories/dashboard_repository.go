package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "redcreativa/internal/models/db_models"
)

type DashboardRepository interface {
	// Counts
	CountContent(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error)
	TaskStatusCounts(ctx context.Context, ownerID uuid.UUID) ([]GroupCount, error)
	CountOverdueTasks(ctx context.Context, ownerID uuid.UUID, now time.Time) (int64, error)

	// Calendar
	UpcomingEvents(ctx context.Context, ownerID uuid.UUID, from, to time.Time, limit int) ([]dbm.CalendarEvent, error)

	// Time series
	PublishedSeries(ctx context.Context, ownerID uuid.UUID, start, end time.Time, interval string) ([]BucketSum, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type GroupCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// dateTrunc only accepts the buckets the dashboard offers, so the value is
// safe to inline into the SELECT.
func dateTrunc(interval string) (string, error) {
	switch interval {
	case "day", "week", "month":
		return interval, nil
	}
	return "", fmt.Errorf("unsupported interval %q", interval)
}

// ---------- Counts ----------
func (r *dashboardRepository) CountContent(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error) {
	out := make(map[string]int64)
	for name, model := range dbm.ContentTables() {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

func (r *dashboardRepository) TaskStatusCounts(ctx context.Context, ownerID uuid.UUID) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&dbm.Task{}).
		Select("status AS key, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Find(&rows).Error
	return rows, err
}

func (r *dashboardRepository) CountOverdueTasks(ctx context.Context, ownerID uuid.UUID, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Task{}).
		Where("owner_id = ?", ownerID).
		Where("status <> ?", dbm.TaskDone).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Count(&n).Error
	return n, err
}

// ---------- Calendar ----------
func (r *dashboardRepository) UpcomingEvents(ctx context.Context, ownerID uuid.UUID, from, to time.Time, limit int) ([]dbm.CalendarEvent, error) {
	var rows []dbm.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("starts_at >= ? AND starts_at < ?", from, to).
		Order("starts_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ---------- Time series ----------
func (r *dashboardRepository) PublishedSeries(ctx context.Context, ownerID uuid.UUID, start, end time.Time, interval string) ([]BucketSum, error) {
	trunc, err := dateTrunc(interval)
	if err != nil {
		return nil, err
	}
	var rows []BucketSum
	err = r.db.WithContext(ctx).
		Model(&dbm.BlogPost{}).
		Select(fmt.Sprintf("date_trunc('%s', published_at AT TIME ZONE 'UTC') AS bucket, COUNT(*) AS sum", trunc)).
		Where("owner_id = ?", ownerID).
		Where("status = ?", dbm.PostPublished).
		Where("published_at BETWEEN ? AND ?", start, end).
		Group("bucket").
		Order("bucket ASC").
		Find(&rows).Error
	return rows, err
}
