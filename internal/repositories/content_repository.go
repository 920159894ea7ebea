package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"redcreativa/pkg/utils"
)

// TableSpec describes which columns a feature table exposes to List.
// Column names come from here only, never from the request.
type TableSpec struct {
	SortColumns    map[string]string
	DefaultSort    string
	StatusColumn   string
	CategoryColumn string
	SearchColumns  []string
	RangeColumn    string
}

type ListQuery struct {
	Status   string
	Category string
	Tag      string
	Search   string
	SortBy   string
	Desc     bool
	Page     int
	PageSize int
	From     time.Time
	To       time.Time
}

type ContentRepository[T any] interface {
	List(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]T, int64, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
	ExistsByTitle(ctx context.Context, ownerID uuid.UUID, title string) (bool, error)
	// DeleteAll hard deletes every row, soft deleted ones included.
	DeleteAll(ctx context.Context) (int64, error)
}

type contentRepository[T any] struct {
	db    *gorm.DB
	table TableSpec
}

func NewContentRepository[T any](db *gorm.DB, table TableSpec) ContentRepository[T] {
	return &contentRepository[T]{db: db, table: table}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *contentRepository[T]) sortColumn(sortBy string) (string, error) {
	if sortBy == "" {
		return r.table.DefaultSort, nil
	}
	col, ok := r.table.SortColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: %s", utils.ErrInvalidSort, sortBy)
	}
	return col, nil
}

func (r *contentRepository[T]) List(ctx context.Context, ownerID uuid.UUID, q ListQuery) ([]T, int64, error) {
	col, err := r.sortColumn(q.SortBy)
	if err != nil {
		return nil, 0, err
	}

	tx := r.db.WithContext(ctx).Model(new(T)).Where("owner_id = ?", ownerID)
	if q.Status != "" && r.table.StatusColumn != "" {
		tx = tx.Where(r.table.StatusColumn+" = ?", q.Status)
	}
	if q.Category != "" && r.table.CategoryColumn != "" {
		tx = tx.Where(r.table.CategoryColumn+" = ?", q.Category)
	}
	if q.Tag != "" {
		tx = tx.Where("? = ANY(tags)", strings.ToLower(q.Tag))
	}
	if s := strings.TrimSpace(q.Search); s != "" && len(r.table.SearchColumns) > 0 {
		pattern := "%" + likeEscaper.Replace(s) + "%"
		conds := make([]string, len(r.table.SearchColumns))
		args := make([]interface{}, len(r.table.SearchColumns))
		for i, c := range r.table.SearchColumns {
			conds[i] = c + " ILIKE ?"
			args[i] = pattern
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if r.table.RangeColumn != "" {
		if !q.From.IsZero() {
			tx = tx.Where(r.table.RangeColumn+" >= ?", q.From)
		}
		if !q.To.IsZero() {
			tx = tx.Where(r.table.RangeColumn+" < ?", q.To)
		}
	}

	base := tx.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}

	var items []T
	err = base.
		Order(col + " " + dir).
		Order("id ASC").
		Scopes(func(db *gorm.DB) *gorm.DB {
			if q.PageSize <= 0 {
				return db
			}
			offset := (q.Page - 1) * q.PageSize
			return db.Offset(offset).Limit(q.PageSize)
		}).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentRepository[T]) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, "id = ? AND owner_id = ?", id, ownerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &item, nil
}

func (r *contentRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *contentRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *contentRepository[T]) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *contentRepository[T]) ExistsByTitle(ctx context.Context, ownerID uuid.UUID, title string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where("owner_id = ? AND title = ?", ownerID, title).
		Count(&n).Error
	return n > 0, err
}

func (r *contentRepository[T]) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(new(T))
	return res.RowsAffected, res.Error
}
