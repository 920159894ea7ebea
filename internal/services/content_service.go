package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"redcreativa/internal/models/request_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Record is satisfied by *T for every owner scoped model.
type Record[T any] interface {
	*T
	SetOwner(id uuid.UUID)
	GetID() uuid.UUID
}

// ContentInput is the create/update payload for T.
type ContentInput[T any] interface {
	Validate() error
	ApplyTo(item *T)
}

type ContentServiceInterface[T any, I any] interface {
	List(ctx context.Context, ownerID uuid.UUID, req request_models.ListRequest) (response_models.Page[T], error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	Create(ctx context.Context, ownerID uuid.UUID, in I) (*T, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in I) (*T, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// saveHook runs after the input is applied. prev is nil on create.
type saveHook[T any] func(ctx context.Context, ownerID uuid.UUID, item, prev *T) error

type ContentService[T any, PT Record[T], I ContentInput[T]] struct {
	repo       repositories.ContentRepository[T]
	name       string
	beforeSave saveHook[T]
}

func newContentService[T any, PT Record[T], I ContentInput[T]](repo repositories.ContentRepository[T], name string) *ContentService[T, PT, I] {
	return &ContentService[T, PT, I]{repo: repo, name: name}
}

// ToListQuery checks paging and ordering and fills defaults.
func ToListQuery(req request_models.ListRequest) (repositories.ListQuery, error) {
	q := repositories.ListQuery{
		Status:   strings.TrimSpace(req.Status),
		Category: strings.TrimSpace(req.Category),
		Tag:      strings.ToLower(strings.TrimSpace(req.Tag)),
		Search:   strings.TrimSpace(req.Search),
		SortBy:   req.SortBy,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	if q.Page < 1 {
		return q, utils.ErrInvalidPage
	}
	if q.PageSize < 1 || q.PageSize > maxPageSize {
		return q, utils.ErrInvalidPageSize
	}
	switch strings.ToLower(req.Order) {
	case "", "asc":
	case "desc":
		q.Desc = true
	default:
		return q, fmt.Errorf("%w: order must be asc or desc", utils.ErrInvalidInput)
	}
	return q, nil
}

func (s *ContentService[T, PT, I]) List(ctx context.Context, ownerID uuid.UUID, req request_models.ListRequest) (response_models.Page[T], error) {
	q, err := ToListQuery(req)
	if err != nil {
		return response_models.Page[T]{}, err
	}

	items, total, err := s.repo.List(ctx, ownerID, q)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidSort) {
			return response_models.Page[T]{}, err
		}
		return response_models.Page[T]{}, dbError(err)
	}
	return response_models.NewPage(items, q.Page, q.PageSize, total), nil
}

func (s *ContentService[T, PT, I]) Get(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	item, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, dbError(err)
	}
	if item == nil {
		return nil, fmt.Errorf("%s %s: %w", s.name, id, utils.ErrRecordNotFound)
	}
	return item, nil
}

func (s *ContentService[T, PT, I]) Create(ctx context.Context, ownerID uuid.UUID, in I) (*T, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item := new(T)
	in.ApplyTo(item)
	PT(item).SetOwner(ownerID)

	if s.beforeSave != nil {
		if err := s.beforeSave(ctx, ownerID, item, nil); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, dbError(err)
	}
	return item, nil
}

func (s *ContentService[T, PT, I]) Update(ctx context.Context, ownerID, id uuid.UUID, in I) (*T, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	prev := *item
	in.ApplyTo(item)
	PT(item).SetOwner(ownerID)

	if s.beforeSave != nil {
		if err := s.beforeSave(ctx, ownerID, item, &prev); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, dbError(err)
	}
	return item, nil
}

func (s *ContentService[T, PT, I]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return dbError(err)
	}
	if !deleted {
		return fmt.Errorf("%s %s: %w", s.name, id, utils.ErrRecordNotFound)
	}
	return nil
}
