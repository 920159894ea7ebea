package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"redcreativa/internal/events"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/repositories"
)

type ProfileServiceInterface interface {
	// LoadOrCreate returns the profile mirrored from identity, creating it on
	// first use. At most one profile exists per identity.
	LoadOrCreate(ctx context.Context, identity *db_models.Identity) (*db_models.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error)
}

type ProfileService struct {
	repo      repositories.ProfileRepository
	publisher events.Publisher
}

func NewProfileService(repo repositories.ProfileRepository, publisher events.Publisher) ProfileServiceInterface {
	return &ProfileService{repo: repo, publisher: publisher}
}

func (p *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	profile, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	return profile, nil
}

func (p *ProfileService) LoadOrCreate(ctx context.Context, identity *db_models.Identity) (*db_models.Profile, error) {
	profile, err := p.repo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, dbError(err)
	}
	if profile != nil {
		return profile, nil
	}

	profile = &db_models.Profile{
		BaseModel:        db_models.BaseModel{ID: identity.ID},
		Email:            identity.Email,
		Name:             DisplayName(identity.Name, identity.Email),
		SubscriptionTier: db_models.TierFree,
	}

	created, err := p.repo.InsertIfAbsent(ctx, profile)
	if err != nil {
		return nil, dbError(err)
	}
	if !created {
		// Lost a race with a concurrent first sign-in.
		existing, err := p.repo.FindByID(ctx, identity.ID)
		if err != nil {
			return nil, dbError(err)
		}
		if existing != nil {
			return existing, nil
		}
		return profile, nil
	}

	logger.Info("profile created", zap.String("user_id", profile.ID.String()))
	if err := p.publisher.Publish(ctx, events.ProfileCreated, map[string]any{
		"user_id": profile.ID, "email": profile.Email,
	}); err != nil {
		logger.Warn("publish profile.created failed", zap.Error(err))
	}
	return profile, nil
}

// DisplayName falls back to the local part of the email.
func DisplayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
