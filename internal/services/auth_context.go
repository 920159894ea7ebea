package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	mem "redcreativa/pkg/memcache"
	"redcreativa/pkg/utils"
)

// Local storage keys.
const (
	StorageDemoUser     = "demoUser"
	StoragePendingEmail = "pendingVerificationEmail"
	StorageAuthToken    = "auth_token"
	StorageAIKey        = "ai_api_key"
	StorageAIProvider   = "ai_provider"
)

// AuthError is returned by every AuthContext operation.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authErr(op string, err error) error {
	return &AuthError{Op: op, Err: err}
}

type AuthContextDeps struct {
	Identity    IdentityService
	Profiles    ProfileServiceInterface
	Storage     mem.LocalStorage
	DemoEnabled bool
}

// AuthSnapshot is a consistent copy of the context state.
type AuthSnapshot struct {
	User            *db_models.Profile
	Session         *Session
	IsAuthenticated bool
	IsLoading       bool
	IsDemo          bool
	PendingEmail    string
}

// AuthContext holds one client's session state: the bootstrapped user, the
// demo override and the pending email verification.
type AuthContext struct {
	clientID string
	deps     AuthContextDeps
	now      func() time.Time

	// opMu serializes lifecycle operations. Listener callbacks take only mu,
	// since the backend delivers them while an operation may hold opMu.
	opMu sync.Mutex

	mu           sync.RWMutex
	user         *db_models.Profile
	session      *Session
	demo         bool
	loading      bool
	bootstrapped bool
	pendingEmail string
	unsubscribe  func()
	closed       bool
}

func NewAuthContext(clientID string, deps AuthContextDeps) *AuthContext {
	return &AuthContext{
		clientID: clientID,
		deps:     deps,
		now:      time.Now,
		loading:  true,
	}
}

func (c *AuthContext) ClientID() string {
	return c.clientID
}

func (c *AuthContext) subscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil || c.closed {
		return
	}
	c.unsubscribe = c.deps.Identity.OnAuthStateChange(c.handleAuthEvent)
}

// Bootstrap restores the demo user or the stored session. It is a no-op once
// done, unless a different access token is presented.
func (c *AuthContext) Bootstrap(ctx context.Context, accessToken string) error {
	const op = "bootstrap"
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.subscribe()

	c.mu.RLock()
	expired := c.session != nil && !c.now().Before(c.session.ExpiresAt)
	done := c.bootstrapped && !expired &&
		(accessToken == "" || c.demo || (c.session != nil && c.session.AccessToken == accessToken))
	c.mu.RUnlock()
	if done {
		return nil
	}
	if expired {
		c.forget(ctx, StorageAuthToken)
		c.mu.Lock()
		c.user, c.session = nil, nil
		c.mu.Unlock()
	}

	pending, _, err := c.deps.Storage.Get(ctx, c.clientID, StoragePendingEmail)
	if err != nil {
		c.finishLoading()
		return authErr(op, err)
	}

	demoUser, err := c.loadDemoUser(ctx)
	if err != nil {
		c.finishLoading()
		return authErr(op, err)
	}
	if demoUser != nil {
		c.mu.Lock()
		c.user, c.session, c.demo = demoUser, nil, true
		c.pendingEmail = pending
		c.loading, c.bootstrapped = false, true
		c.mu.Unlock()
		return nil
	}

	token := accessToken
	fromStorage := false
	if token == "" {
		token, _, err = c.deps.Storage.Get(ctx, c.clientID, StorageAuthToken)
		if err != nil {
			c.finishLoading()
			return authErr(op, err)
		}
		fromStorage = true
	}

	var (
		user    *db_models.Profile
		session *Session
	)
	if token != "" {
		session, err = c.deps.Identity.GetSession(ctx, token)
		if err != nil {
			c.finishLoading()
			return authErr(op, err)
		}
		if session != nil {
			user, err = c.deps.Profiles.LoadOrCreate(ctx, session.Identity)
			if err != nil {
				c.finishLoading()
				return authErr(op, err)
			}
			if !fromStorage {
				c.storeToken(ctx, token)
			}
		} else if fromStorage {
			c.forget(ctx, StorageAuthToken)
		}
	}

	c.mu.Lock()
	c.user, c.session, c.demo = user, session, false
	c.pendingEmail = pending
	c.loading, c.bootstrapped = false, true
	c.mu.Unlock()
	return nil
}

func (c *AuthContext) finishLoading() {
	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()
}

func (c *AuthContext) loadDemoUser(ctx context.Context) (*db_models.Profile, error) {
	raw, ok, err := c.deps.Storage.Get(ctx, c.clientID, StorageDemoUser)
	if err != nil || !ok {
		return nil, err
	}
	if !c.deps.DemoEnabled {
		c.forget(ctx, StorageDemoUser)
		return nil, nil
	}

	var demo db_models.Profile
	if err := json.Unmarshal([]byte(raw), &demo); err != nil {
		logger.Warn("discarding unreadable demo user", zap.String("client_id", c.clientID), zap.Error(err))
		c.forget(ctx, StorageDemoUser)
		return nil, nil
	}
	demo.ID = db_models.DemoUserID
	return &demo, nil
}

// Login checks the credentials with the identity backend and loads the
// profile, creating it on first sign-in.
func (c *AuthContext) Login(ctx context.Context, email, password string) error {
	const op = "login"
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.subscribe()

	session, err := c.deps.Identity.SignInWithPassword(ctx, email, password)
	if errors.Is(err, utils.ErrEmailNotConfirmed) {
		c.markPending(ctx, NormalizeEmail(email))
		return authErr(op, err)
	}
	if err != nil {
		return authErr(op, err)
	}
	user, err := c.deps.Profiles.LoadOrCreate(ctx, session.Identity)
	if err != nil {
		return authErr(op, err)
	}

	c.adopt(ctx, user, session)
	return nil
}

// markPending records an address waiting for confirmation so the client can
// show the verification banner and resend the mail.
func (c *AuthContext) markPending(ctx context.Context, email string) {
	if err := c.deps.Storage.Set(ctx, c.clientID, StoragePendingEmail, email); err != nil {
		logger.Warn("local storage set failed", zap.String("client_id", c.clientID), zap.String("key", StoragePendingEmail), zap.Error(err))
	}
	c.mu.Lock()
	c.pendingEmail = email
	c.mu.Unlock()
}

// Signup registers the identity. When the backend withholds a session until
// the email is confirmed, the context records the pending address and
// returns pending=true without creating a profile.
func (c *AuthContext) Signup(ctx context.Context, email, password, name string) (pending bool, err error) {
	const op = "signup"
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.subscribe()

	identity, session, err := c.deps.Identity.SignUp(ctx, email, password, name)
	if err != nil {
		return false, authErr(op, err)
	}

	if session == nil {
		if err := c.deps.Storage.Set(ctx, c.clientID, StoragePendingEmail, identity.Email); err != nil {
			return false, authErr(op, err)
		}
		c.mu.Lock()
		c.pendingEmail = identity.Email
		c.mu.Unlock()
		return true, nil
	}

	user, err := c.deps.Profiles.LoadOrCreate(ctx, session.Identity)
	if err != nil {
		return false, authErr(op, err)
	}
	c.adopt(ctx, user, session)
	return false, nil
}

// ConfirmEmail consumes a confirmation token and signs this client in.
func (c *AuthContext) ConfirmEmail(ctx context.Context, token string) error {
	const op = "confirm email"
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.subscribe()

	session, err := c.deps.Identity.ConfirmEmail(ctx, token)
	if err != nil {
		return authErr(op, err)
	}
	user, err := c.deps.Profiles.LoadOrCreate(ctx, session.Identity)
	if err != nil {
		return authErr(op, err)
	}
	c.adopt(ctx, user, session)
	return nil
}

func (c *AuthContext) adopt(ctx context.Context, user *db_models.Profile, session *Session) {
	c.storeToken(ctx, session.AccessToken)
	c.forget(ctx, StorageDemoUser)

	c.mu.Lock()
	clearPending := strings.EqualFold(c.pendingEmail, session.Email)
	c.user, c.session, c.demo = user, session, false
	if clearPending {
		c.pendingEmail = ""
	}
	c.loading, c.bootstrapped = false, true
	c.mu.Unlock()

	if clearPending {
		c.forget(ctx, StoragePendingEmail)
	}
}

// Logout clears demo mode or signs out of the backend, then resets the user.
// On failure the state is left unchanged.
func (c *AuthContext) Logout(ctx context.Context) error {
	const op = "logout"
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.RLock()
	demo, session := c.demo, c.session
	c.mu.RUnlock()

	if demo {
		if err := c.deps.Storage.Delete(ctx, c.clientID, StorageDemoUser); err != nil {
			return authErr(op, err)
		}
	} else if session != nil {
		if err := c.deps.Identity.SignOut(ctx, session.AccessToken); err != nil {
			return authErr(op, err)
		}
		c.forget(ctx, StorageAuthToken)
	}

	c.mu.Lock()
	c.user, c.session, c.demo = nil, nil, false
	c.mu.Unlock()
	return nil
}

// StartDemo authenticates as the demo user without a backend session.
func (c *AuthContext) StartDemo(ctx context.Context, name string) error {
	const op = "start demo"
	if !c.deps.DemoEnabled {
		return authErr(op, utils.ErrDemoDisabled)
	}
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.subscribe()

	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session != nil {
		if err := c.deps.Identity.SignOut(ctx, session.AccessToken); err != nil {
			return authErr(op, err)
		}
		c.forget(ctx, StorageAuthToken)
	}

	demo := db_models.NewDemoProfile(strings.TrimSpace(name))
	raw, err := json.Marshal(demo)
	if err != nil {
		return authErr(op, err)
	}
	if err := c.deps.Storage.Set(ctx, c.clientID, StorageDemoUser, string(raw)); err != nil {
		return authErr(op, err)
	}

	c.mu.Lock()
	c.user, c.session, c.demo = demo, nil, true
	c.loading, c.bootstrapped = false, true
	c.mu.Unlock()
	return nil
}

// ResendVerification re-sends the confirmation mail for the pending address.
func (c *AuthContext) ResendVerification(ctx context.Context, email string) error {
	const op = "resend verification"

	c.mu.RLock()
	pending := c.pendingEmail
	c.mu.RUnlock()

	if email == "" {
		email = pending
	}
	if email == "" {
		return authErr(op, utils.ErrNoPendingVerification)
	}
	if err := c.deps.Identity.ResendConfirmation(ctx, email); err != nil {
		return authErr(op, err)
	}
	return nil
}

// RefreshProfile reloads the signed-in user's profile, e.g. after a
// subscription change.
func (c *AuthContext) RefreshProfile(ctx context.Context) error {
	c.mu.RLock()
	user, demo := c.user, c.demo
	c.mu.RUnlock()
	if user == nil || demo {
		return nil
	}

	fresh, err := c.deps.Profiles.GetByID(ctx, user.ID)
	if err != nil {
		return authErr("refresh profile", err)
	}
	if fresh == nil {
		return nil
	}

	c.mu.Lock()
	if c.user != nil && c.user.ID == fresh.ID {
		c.user = fresh
	}
	c.mu.Unlock()
	return nil
}

func (c *AuthContext) handleAuthEvent(ctx context.Context, evt AuthEvent) {
	switch evt.Type {
	case AuthSignedIn:
		c.mu.RLock()
		pending := c.pendingEmail
		c.mu.RUnlock()
		if pending == "" || evt.Identity == nil || evt.Session == nil || !strings.EqualFold(pending, evt.Email) {
			return
		}

		user, err := c.deps.Profiles.LoadOrCreate(ctx, evt.Identity)
		if err != nil {
			logger.Warn("load profile after sign in failed", zap.String("client_id", c.clientID), zap.Error(err))
			return
		}

		c.mu.Lock()
		applied := c.pendingEmail == pending
		if applied {
			c.user, c.session, c.demo = user, evt.Session, false
			c.pendingEmail = ""
			c.loading, c.bootstrapped = false, true
		}
		c.mu.Unlock()

		if applied {
			c.forget(ctx, StoragePendingEmail)
			c.storeToken(ctx, evt.Session.AccessToken)
		}

	case AuthSignedOut:
		if evt.Session == nil {
			return
		}
		c.mu.Lock()
		if c.session != nil && c.session.ID == evt.Session.ID {
			c.user, c.session = nil, nil
		}
		c.mu.Unlock()

	case AuthUserUpdated:
		c.mu.RLock()
		match := c.user != nil && !c.demo && c.user.ID == evt.UserID
		c.mu.RUnlock()
		if match {
			if err := c.RefreshProfile(ctx); err != nil {
				logger.Warn("refresh profile on update failed", zap.String("client_id", c.clientID), zap.Error(err))
			}
		}
	}
}

func (c *AuthContext) storeToken(ctx context.Context, token string) {
	if err := c.deps.Storage.Set(ctx, c.clientID, StorageAuthToken, token); err != nil {
		logger.Warn("persist session token failed", zap.String("client_id", c.clientID), zap.Error(err))
	}
}

func (c *AuthContext) forget(ctx context.Context, key string) {
	if err := c.deps.Storage.Delete(ctx, c.clientID, key); err != nil {
		logger.Warn("local storage delete failed", zap.String("client_id", c.clientID), zap.String("key", key), zap.Error(err))
	}
}

func (c *AuthContext) User() *db_models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *AuthContext) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *AuthContext) IsDemo() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.demo
}

// HasActiveSubscription is true for the free tier or while the paid period
// has not ended. It is false when nobody is signed in.
func (c *AuthContext) HasActiveSubscription() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.HasActiveSubscription(c.now())
}

func (c *AuthContext) IsPremium() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user.IsPremium(c.now())
}

func (c *AuthContext) Snapshot() AuthSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := AuthSnapshot{
		Session:         c.session,
		IsAuthenticated: c.user != nil,
		IsLoading:       c.loading,
		IsDemo:          c.demo,
		PendingEmail:    c.pendingEmail,
	}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	return snap
}

func (c *AuthContext) SetAIPreferences(ctx context.Context, provider, apiKey string) error {
	const op = "save ai settings"
	if err := c.deps.Storage.Set(ctx, c.clientID, StorageAIProvider, strings.ToLower(provider)); err != nil {
		return authErr(op, err)
	}
	if err := c.deps.Storage.Set(ctx, c.clientID, StorageAIKey, apiKey); err != nil {
		return authErr(op, err)
	}
	return nil
}

func (c *AuthContext) AIPreferences(ctx context.Context) (provider, apiKey string, err error) {
	provider, _, err = c.deps.Storage.Get(ctx, c.clientID, StorageAIProvider)
	if err != nil {
		return "", "", authErr("read ai settings", err)
	}
	apiKey, _, err = c.deps.Storage.Get(ctx, c.clientID, StorageAIKey)
	if err != nil {
		return "", "", authErr("read ai settings", err)
	}
	return provider, apiKey, nil
}

// Close detaches the context from the identity backend.
func (c *AuthContext) Close() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.closed = true
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}
