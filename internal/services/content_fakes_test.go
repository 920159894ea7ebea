package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"redcreativa/internal/models/db_models"
	"redcreativa/internal/repositories"
)

type ownedRecord[T any] interface {
	*T
	GetID() uuid.UUID
	GetOwnerID() uuid.UUID
	BeforeCreate(tx *gorm.DB) error
}

type fakeContentRepo[T any, PT ownedRecord[T]] struct {
	mu        sync.Mutex
	items     []*T
	lastQuery repositories.ListQuery
	listErr   error
}

func (r *fakeContentRepo[T, PT]) List(_ context.Context, ownerID uuid.UUID, q repositories.ListQuery) ([]T, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []T
	for _, it := range r.items {
		if PT(it).GetOwnerID() == ownerID {
			out = append(out, *it)
		}
	}
	total := int64(len(out))
	if q.PageSize > 0 {
		start := min((max(q.Page, 1)-1)*q.PageSize, len(out))
		end := min(start+q.PageSize, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func (r *fakeContentRepo[T, PT]) FindByID(_ context.Context, ownerID, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if PT(it).GetID() == id && PT(it).GetOwnerID() == ownerID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeContentRepo[T, PT]) Create(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = PT(item).BeforeCreate(nil)
	cp := *item
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeContentRepo[T, PT]) Update(_ context.Context, item *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if PT(it).GetID() == PT(item).GetID() {
			cp := *item
			r.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeContentRepo[T, PT]) Delete(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.items {
		if PT(it).GetID() == id && PT(it).GetOwnerID() == ownerID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeContentRepo[T, PT]) ExistsByTitle(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *fakeContentRepo[T, PT]) DeleteAll(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.items))
	r.items = nil
	return n, nil
}

type fakePostRepo struct {
	fakeContentRepo[db_models.BlogPost, *db_models.BlogPost]
}

func (r *fakePostRepo) SlugTaken(_ context.Context, ownerID uuid.UUID, slug string, exceptID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.OwnerID == ownerID && p.Slug == slug && p.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type fakePromptRepo struct {
	fakeContentRepo[db_models.Prompt, *db_models.Prompt]
	lastVector pgvector.Vector
}

func (r *fakePromptRepo) Similar(_ context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]db_models.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastVector = vector
	var out []db_models.Prompt
	for _, p := range r.items {
		if p.OwnerID == ownerID && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePromptRepo) SetFavorite(_ context.Context, ownerID, id uuid.UUID, favorite bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID == id && p.OwnerID == ownerID {
			p.Favorite = favorite
			return true, nil
		}
	}
	return false, nil
}
