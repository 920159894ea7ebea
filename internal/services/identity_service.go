package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"redcreativa/internal/events"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/repositories"
	mem "redcreativa/pkg/memcache"
	"redcreativa/pkg/utils"
)

type AuthEventType string

const (
	AuthSignedIn    AuthEventType = "SIGNED_IN"
	AuthSignedOut   AuthEventType = "SIGNED_OUT"
	AuthUserUpdated AuthEventType = "USER_UPDATED"
)

// Session is an issued access token together with its decoded claims.
type Session struct {
	ID          string
	AccessToken string
	UserID      uuid.UUID
	Email       string
	ExpiresAt   time.Time
	Identity    *db_models.Identity
}

type AuthEvent struct {
	Type     AuthEventType
	Session  *Session
	Identity *db_models.Identity
	UserID   uuid.UUID
	Email    string
}

type AuthListener func(ctx context.Context, evt AuthEvent)

type IdentityService interface {
	SignUp(ctx context.Context, email, password, name string) (*db_models.Identity, *Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	ConfirmEmail(ctx context.Context, token string) (*Session, error)
	ResendConfirmation(ctx context.Context, email string) error
	// GetSession returns nil, nil for a missing, invalid, expired or revoked token.
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	NotifyUserUpdated(ctx context.Context, userID uuid.UUID)
	// OnAuthStateChange registers fn and returns its unsubscribe func.
	// Listeners run synchronously in registration order.
	OnAuthStateChange(fn AuthListener) func()
}

type IdentityConfig struct {
	RequireEmailConfirmation bool
	ConfirmationTTL          time.Duration
}

type identityService struct {
	repo        repositories.IdentityRepository
	tokens      mem.TokenStore
	revocations mem.RevocationStore
	issuer      *utils.TokenIssuer
	mail        IMailService
	publisher   events.Publisher
	cfg         IdentityConfig
	now         func() time.Time

	mu        sync.Mutex
	listeners []listenerEntry
	nextID    uint64
}

type listenerEntry struct {
	id uint64
	fn AuthListener
}

func NewIdentityService(
	repo repositories.IdentityRepository,
	tokens mem.TokenStore,
	revocations mem.RevocationStore,
	issuer *utils.TokenIssuer,
	mail IMailService,
	publisher events.Publisher,
	cfg IdentityConfig,
) IdentityService {
	if cfg.ConfirmationTTL <= 0 {
		cfg.ConfirmationTTL = 24 * time.Hour
	}
	return &identityService{
		repo:        repo,
		tokens:      tokens,
		revocations: revocations,
		issuer:      issuer,
		mail:        mail,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func dbError(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}

func (s *identityService) SignUp(ctx context.Context, email, password, name string) (*db_models.Identity, *Session, error) {
	email = NormalizeEmail(email)
	if len(password) < utils.MinPasswordLength {
		return nil, nil, utils.ErrWeakPassword
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, dbError(err)
	}
	if existing != nil {
		return nil, nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &db_models.Identity{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(name),
	}
	if !s.cfg.RequireEmailConfirmation {
		identity.EmailConfirmedAt = utils.UnixPtr(s.now())
	}

	if err := s.repo.Create(ctx, identity); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, nil, err
		}
		return nil, nil, dbError(err)
	}

	if err := s.publisher.Publish(ctx, events.IdentitySignedUp, map[string]any{
		"user_id": identity.ID, "email": identity.Email,
	}); err != nil {
		logger.Warn("publish signup event failed", zap.Error(err))
	}

	if s.cfg.RequireEmailConfirmation {
		if err := s.sendConfirmation(ctx, identity); err != nil {
			return nil, nil, err
		}
		return identity, nil, nil
	}

	session, err := s.startSession(ctx, identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, session, nil
}

func (s *identityService) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	identity, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, dbError(err)
	}
	if identity == nil {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(identity.PasswordHash, password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	if !identity.EmailConfirmed() {
		return nil, utils.ErrEmailNotConfirmed
	}

	return s.startSession(ctx, identity)
}

func (s *identityService) ConfirmEmail(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, utils.ErrInvalidConfirmationToken
	}
	value, err := s.tokens.Consume(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("consume confirmation token: %w", err)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, utils.ErrInvalidConfirmationToken
	}

	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if identity == nil {
		return nil, utils.ErrInvalidConfirmationToken
	}

	if !identity.EmailConfirmed() {
		at := s.now().Unix()
		if err := s.repo.MarkEmailConfirmed(ctx, identity.ID, at); err != nil {
			return nil, dbError(err)
		}
		identity.EmailConfirmedAt = &at
	}

	return s.startSession(ctx, identity)
}

// ResendConfirmation is silent for unknown or already confirmed addresses.
func (s *identityService) ResendConfirmation(ctx context.Context, email string) error {
	identity, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return dbError(err)
	}
	if identity == nil || identity.EmailConfirmed() {
		return nil
	}
	return s.sendConfirmation(ctx, identity)
}

func (s *identityService) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, nil
	}
	claims, err := s.issuer.Validate(accessToken)
	if err != nil {
		return nil, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil
	}

	identity, err := s.repo.FindByID(ctx, uuid.MustParse(claims.UserID))
	if err != nil {
		return nil, dbError(err)
	}
	if identity == nil || !identity.EmailConfirmed() {
		return nil, nil
	}

	return sessionFromClaims(accessToken, claims, identity), nil
}

func (s *identityService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.issuer.Validate(accessToken)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	userID := uuid.MustParse(claims.UserID)
	s.emit(ctx, AuthEvent{
		Type:    AuthSignedOut,
		Session: sessionFromClaims(accessToken, claims, nil),
		UserID:  userID,
		Email:   claims.Email,
	})
	return nil
}

func (s *identityService) NotifyUserUpdated(ctx context.Context, userID uuid.UUID) {
	s.emit(ctx, AuthEvent{Type: AuthUserUpdated, UserID: userID})
}

func (s *identityService) OnAuthStateChange(fn AuthListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// emit delivers outside the lock so listeners may call back into the service.
func (s *identityService) emit(ctx context.Context, evt AuthEvent) {
	s.mu.Lock()
	snapshot := make([]listenerEntry, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, l := range snapshot {
		l.fn(ctx, evt)
	}
}

func (s *identityService) startSession(ctx context.Context, identity *db_models.Identity) (*Session, error) {
	token, claims, err := s.issuer.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, err
	}

	at := s.now().Unix()
	if err := s.repo.TouchLastSignIn(ctx, identity.ID, at); err != nil {
		logger.Warn("update last sign in failed", zap.String("user_id", identity.ID.String()), zap.Error(err))
	}
	identity.LastSignInAt = &at

	session := sessionFromClaims(token, claims, identity)
	s.emit(ctx, AuthEvent{
		Type:     AuthSignedIn,
		Session:  session,
		Identity: identity,
		UserID:   identity.ID,
		Email:    identity.Email,
	})
	return session, nil
}

func (s *identityService) sendConfirmation(ctx context.Context, identity *db_models.Identity) error {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("generate confirmation token: %w", err)
	}
	if err := s.tokens.Set(ctx, token, identity.ID.String(), s.cfg.ConfirmationTTL); err != nil {
		return fmt.Errorf("store confirmation token: %w", err)
	}

	// Mail delivery is best effort; the user can ask for a resend.
	if err := s.mail.SendConfirmationEmail(ctx, identity.Email, identity.Name, token); err != nil {
		logger.Error("send confirmation email failed", zap.String("email", identity.Email), zap.Error(err))
	}
	return nil
}

func sessionFromClaims(token string, claims *utils.SessionClaims, identity *db_models.Identity) *Session {
	s := &Session{
		ID:          claims.ID,
		AccessToken: token,
		UserID:      uuid.MustParse(claims.UserID),
		Email:       claims.Email,
		Identity:    identity,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s
}
