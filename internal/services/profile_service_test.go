package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"redcreativa/internal/events"
	"redcreativa/internal/models/db_models"
	"redcreativa/pkg/utils"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*db_models.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) FindByEmail(ctx context.Context, email string) (*db_models.Profile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*db_models.Profile)
	return p, args.Error(1)
}

func (m *mockProfileRepo) InsertIfAbsent(ctx context.Context, profile *db_models.Profile) (bool, error) {
	args := m.Called(ctx, profile)
	return args.Bool(0), args.Error(1)
}

func (m *mockProfileRepo) UpdateSubscription(ctx context.Context, id uuid.UUID, tier db_models.SubscriptionTier, endDate *time.Time) error {
	return m.Called(ctx, id, tier, endDate).Error(0)
}

func TestProfile_LoadOrCreate_Existing(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProfileRepo)
	pub := &recordingPublisher{}
	id := uuid.New()
	existing := &db_models.Profile{BaseModel: db_models.BaseModel{ID: id}, Name: "Ana"}

	repo.On("FindByID", ctx, id).Return(existing, nil).Once()

	got, err := NewProfileService(repo, pub).LoadOrCreate(ctx, &db_models.Identity{BaseModel: db_models.BaseModel{ID: id}})
	require.NoError(t, err)
	assert.Same(t, existing, got)
	assert.Empty(t, pub.types())
	repo.AssertExpectations(t)
}

func TestProfile_LoadOrCreate_Creates(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProfileRepo)
	pub := &recordingPublisher{}
	id := uuid.New()

	repo.On("FindByID", ctx, id).Return(nil, nil).Once()
	repo.On("InsertIfAbsent", ctx, mock.MatchedBy(func(p *db_models.Profile) bool {
		return p.ID == id && p.Name == "bea" && p.SubscriptionTier == db_models.TierFree
	})).Return(true, nil).Once()

	got, err := NewProfileService(repo, pub).LoadOrCreate(ctx, &db_models.Identity{
		BaseModel: db_models.BaseModel{ID: id},
		Email:     "bea@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "bea@example.com", got.Email)
	assert.Equal(t, []string{events.ProfileCreated}, pub.types())
	repo.AssertExpectations(t)
}

func TestProfile_LoadOrCreate_LostRace(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProfileRepo)
	pub := &recordingPublisher{}
	id := uuid.New()
	winner := &db_models.Profile{BaseModel: db_models.BaseModel{ID: id}, Name: "first"}

	repo.On("FindByID", ctx, id).Return(nil, nil).Once()
	repo.On("InsertIfAbsent", ctx, mock.Anything).Return(false, nil).Once()
	repo.On("FindByID", ctx, id).Return(winner, nil).Once()

	got, err := NewProfileService(repo, pub).LoadOrCreate(ctx, &db_models.Identity{BaseModel: db_models.BaseModel{ID: id}})
	require.NoError(t, err)
	assert.Same(t, winner, got)
	assert.Empty(t, pub.types())
	repo.AssertExpectations(t)
}

func TestProfile_DatabaseError(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProfileRepo)
	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, errors.New("connection reset"))

	_, err := NewProfileService(repo, events.NopPublisher{}).GetByID(ctx, id)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", DisplayName("  Ana ", "x@y.z"))
	assert.Equal(t, "carla", DisplayName("", "carla@example.com"))
	assert.Equal(t, "nomail", DisplayName("", "nomail"))
}
