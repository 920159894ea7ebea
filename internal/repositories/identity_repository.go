package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"redcreativa/internal/models/db_models"
	"redcreativa/pkg/utils"
)

type IdentityRepository interface {
	Create(ctx context.Context, identity *db_models.Identity) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Identity, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Identity, error)
	MarkEmailConfirmed(ctx context.Context, id uuid.UUID, at int64) error
	TouchLastSignIn(ctx context.Context, id uuid.UUID, at int64) error
}

type identityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Create(ctx context.Context, identity *db_models.Identity) error {
	err := r.db.WithContext(ctx).Create(identity).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrEmailAlreadyExists
	}
	return err
}

func (r *identityRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Identity, error) {
	var identity db_models.Identity
	err := r.db.WithContext(ctx).First(&identity, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &identity, nil
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*db_models.Identity, error) {
	var identity db_models.Identity
	err := r.db.WithContext(ctx).First(&identity, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &identity, nil
}

func (r *identityRepository) MarkEmailConfirmed(ctx context.Context, id uuid.UUID, at int64) error {
	return r.db.WithContext(ctx).Model(&db_models.Identity{}).
		Where("id = ? AND email_confirmed_at IS NULL", id).
		Update("email_confirmed_at", at).Error
}

func (r *identityRepository) TouchLastSignIn(ctx context.Context, id uuid.UUID, at int64) error {
	return r.db.WithContext(ctx).Model(&db_models.Identity{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}
