package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"redcreativa/internal/models/db_models"
	mem "redcreativa/pkg/memcache"
	"redcreativa/pkg/utils"
)

type fakeIdentityRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*db_models.Identity
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byID: make(map[uuid.UUID]*db_models.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *db_models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return utils.ErrEmailAlreadyExists
		}
	}
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	cp := *identity
	r.byID[identity.ID] = &cp
	return nil
}

func (r *fakeIdentityRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeIdentityRepo) FindByEmail(_ context.Context, email string) (*db_models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.byID {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeIdentityRepo) MarkEmailConfirmed(_ context.Context, id uuid.UUID, at int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	i.EmailConfirmedAt = &at
	return nil
}

func (r *fakeIdentityRepo) TouchLastSignIn(_ context.Context, id uuid.UUID, at int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[id]; ok {
		i.LastSignInAt = &at
	}
	return nil
}

type fakeProfileRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*db_models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[uuid.UUID]*db_models.Profile)}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) FindByEmail(_ context.Context, email string) (*db_models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) InsertIfAbsent(_ context.Context, profile *db_models.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[profile.ID]; ok {
		return false, nil
	}
	cp := *profile
	r.byID[profile.ID] = &cp
	return true, nil
}

func (r *fakeProfileRepo) UpdateSubscription(_ context.Context, id uuid.UUID, tier db_models.SubscriptionTier, endDate *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SubscriptionTier = tier
	p.SubscriptionEndDate = endDate
	return nil
}

type sentMail struct {
	to, name, token string
}

type recordingMail struct {
	mu       sync.Mutex
	confirms []sentMail
	receipts []string
}

func (m *recordingMail) SendConfirmationEmail(_ context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirms = append(m.confirms, sentMail{to: to, name: name, token: token})
	return nil
}

func (m *recordingMail) SendSubscriptionReceipt(_ context.Context, to, planName string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, to+":"+planName)
	return nil
}

func (m *recordingMail) lastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.confirms) == 0 {
		return ""
	}
	return m.confirms[len(m.confirms)-1].token
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type authStack struct {
	identity  IdentityService
	profiles  ProfileServiceInterface
	idRepo    *fakeIdentityRepo
	profRepo  *fakeProfileRepo
	storage   *mem.MemoryLocalStorage
	mail      *recordingMail
	publisher *recordingPublisher
}

func newAuthStack(t *testing.T, requireConfirmation bool) *authStack {
	t.Helper()
	return newAuthStackWithTTL(t, requireConfirmation, time.Hour)
}

func newAuthStackWithTTL(t *testing.T, requireConfirmation bool, tokenTTL time.Duration) *authStack {
	t.Helper()
	s := &authStack{
		idRepo:    newFakeIdentityRepo(),
		profRepo:  newFakeProfileRepo(),
		storage:   mem.NewMemoryLocalStorage(),
		mail:      &recordingMail{},
		publisher: &recordingPublisher{},
	}
	s.identity = NewIdentityService(
		s.idRepo,
		mem.NewMemoryTokens(),
		mem.NewMemoryRevocations(),
		utils.NewTokenIssuer("test-secret-0123456789", tokenTTL),
		s.mail,
		s.publisher,
		IdentityConfig{RequireEmailConfirmation: requireConfirmation},
	)
	s.profiles = NewProfileService(s.profRepo, s.publisher)
	return s
}

func (s *authStack) newContext(clientID string) *AuthContext {
	return NewAuthContext(clientID, AuthContextDeps{
		Identity:    s.identity,
		Profiles:    s.profiles,
		Storage:     s.storage,
		DemoEnabled: true,
	})
}
