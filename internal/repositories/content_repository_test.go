package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbm "redcreativa/internal/models/db_models"
	"redcreativa/pkg/utils"
)

type capturedSQL struct {
	SQL  string
	Vars []interface{}
}

type sqlRecorder struct {
	mu    sync.Mutex
	stmts []capturedSQL
}

func (r *sqlRecorder) record(tx *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, capturedSQL{
		SQL:  tx.Statement.SQL.String(),
		Vars: append([]interface{}(nil), tx.Statement.Vars...),
	})
}

func (r *sqlRecorder) all() []capturedSQL {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedSQL(nil), r.stmts...)
}

// newDryRunDB builds postgres statements without a server. Nothing is
// executed, so reads come back empty.
func newDryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=redcreativa dbname=redcreativa sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	require.NoError(t, err)

	rec := &sqlRecorder{}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", rec.record))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:record_delete", rec.record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", rec.record))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:record_create", rec.record))
	return db, rec
}

func TestContentRepository_ListBuildsScopedQuery(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewContentRepository[dbm.Project](db, ProjectTable)
	owner := uuid.New()

	_, _, err := repo.List(context.Background(), owner, ListQuery{
		Status:   "active",
		Search:   " 50%_off ",
		SortBy:   "title",
		Desc:     true,
		Page:     3,
		PageSize: 10,
	})
	require.NoError(t, err)

	stmts := rec.all()
	require.Len(t, stmts, 2)
	count, find := stmts[0], stmts[1]
	pattern := `%50\%\_off%`

	assert.Contains(t, count.SQL, "SELECT count(*)")
	assert.Contains(t, count.SQL, "owner_id = $1")
	assert.Contains(t, count.SQL, "status = $2")
	assert.Contains(t, count.SQL, "title ILIKE $3 OR description ILIKE $4")
	assert.Contains(t, count.SQL, `"deleted_at" IS NULL`)
	assert.NotContains(t, count.SQL, "ORDER BY")
	assert.Equal(t, []interface{}{owner, "active", pattern, pattern}, count.Vars)

	assert.Contains(t, find.SQL, "ORDER BY title DESC,id ASC")
	assert.Contains(t, find.SQL, "LIMIT $5 OFFSET $6")
	assert.Equal(t, []interface{}{owner, "active", pattern, pattern, 10, 20}, find.Vars)
}

func TestContentRepository_ListDefaults(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewContentRepository[dbm.CalendarEvent](db, EventTable)
	owner := uuid.New()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	_, _, err := repo.List(context.Background(), owner, ListQuery{
		Status:   "ignored",
		Category: "launch",
		Tag:      "Video",
		From:     from,
		To:       to,
	})
	require.NoError(t, err)

	stmts := rec.all()
	require.Len(t, stmts, 2)
	find := stmts[1]
	// Events have no status column, so the filter is dropped.
	assert.NotContains(t, find.SQL, "status")
	assert.Contains(t, find.SQL, "category = $2")
	assert.Contains(t, find.SQL, "$3 = ANY(tags)")
	assert.Contains(t, find.SQL, "starts_at >= $4")
	assert.Contains(t, find.SQL, "starts_at < $5")
	assert.Contains(t, find.SQL, "ORDER BY starts_at ASC,id ASC")
	assert.NotContains(t, find.SQL, "LIMIT")
	assert.NotContains(t, find.SQL, "OFFSET")
	assert.Equal(t, []interface{}{owner, "launch", "video", from, to}, find.Vars)
}

func TestContentRepository_ListRejectsUnknownSort(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewContentRepository[dbm.Project](db, ProjectTable)

	for _, sortBy := range []string{"password", "title; DROP TABLE projects", "due_date"} {
		_, _, err := repo.List(context.Background(), uuid.New(), ListQuery{SortBy: sortBy})
		assert.ErrorIs(t, err, utils.ErrInvalidSort, sortBy)
	}
	assert.Empty(t, rec.all())
}

func TestContentRepository_OwnerScopedWrites(t *testing.T) {
	db, rec := newDryRunDB(t)
	repo := NewContentRepository[dbm.Project](db, ProjectTable)
	owner, id := uuid.New(), uuid.New()

	deleted, err := repo.Delete(context.Background(), owner, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.FindByID(context.Background(), owner, id)
	require.NoError(t, err)

	stmts := rec.all()
	require.Len(t, stmts, 2)

	del := stmts[0]
	assert.Contains(t, del.SQL, "UPDATE")
	assert.Contains(t, del.SQL, `"deleted_at"=$1`)
	assert.Contains(t, del.SQL, "id = $2 AND owner_id = $3")
	assert.Equal(t, []interface{}{id, owner}, del.Vars[1:])

	find := stmts[1]
	assert.Contains(t, find.SQL, "id = $1 AND owner_id = $2")
	assert.Equal(t, id, find.Vars[0])
	assert.Equal(t, owner, find.Vars[1])
}
