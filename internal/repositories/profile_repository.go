package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"redcreativa/internal/models/db_models"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Profile, error)
	// InsertIfAbsent reports whether this call created the row.
	InsertIfAbsent(ctx context.Context, profile *db_models.Profile) (bool, error)
	UpdateSubscription(ctx context.Context, id uuid.UUID, tier db_models.SubscriptionTier, endDate *time.Time) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (p *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := p.db.WithContext(ctx).First(&profile, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (p *profileRepository) FindByEmail(ctx context.Context, email string) (*db_models.Profile, error) {
	var profile db_models.Profile
	err := p.db.WithContext(ctx).First(&profile, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &profile, nil
}

func (p *profileRepository) InsertIfAbsent(ctx context.Context, profile *db_models.Profile) (bool, error) {
	res := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(profile)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (p *profileRepository) UpdateSubscription(ctx context.Context, id uuid.UUID, tier db_models.SubscriptionTier, endDate *time.Time) error {
	res := p.db.WithContext(ctx).Model(&db_models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"subscription_tier":     tier,
			"subscription_end_date": endDate,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
