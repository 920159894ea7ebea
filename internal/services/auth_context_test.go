package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redcreativa/internal/models/db_models"
	"redcreativa/pkg/utils"
)

func TestAuthContext_BootstrapAnonymous(t *testing.T) {
	s := newAuthStack(t, false)
	c := s.newContext("client-1")
	assert.True(t, c.Snapshot().IsLoading)

	require.NoError(t, c.Bootstrap(context.Background(), ""))

	snap := c.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.False(t, c.HasActiveSubscription())
}

func TestAuthContext_LoginCreatesProfileOnce(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "")
	require.NoError(t, err)

	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))

	user := c.User()
	require.NotNil(t, user)
	assert.Equal(t, "ana", user.Name)
	assert.Equal(t, db_models.TierFree, user.SubscriptionTier)
	assert.True(t, c.HasActiveSubscription())
	assert.False(t, c.IsPremium())

	require.NoError(t, c.Logout(ctx))
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))
	assert.Len(t, s.profRepo.byID, 1)
}

func TestAuthContext_LoginFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))

	err := c.Login(ctx, "ghost@example.com", "whatever")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "login", authErr.Op)
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	assert.False(t, c.IsAuthenticated())
}

func TestAuthContext_ExpiredSessionSignsOut(t *testing.T) {
	ctx := context.Background()
	s := newAuthStackWithTTL(t, false, -time.Minute)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))
	token := c.Snapshot().Session.AccessToken

	require.NoError(t, c.Bootstrap(ctx, ""))
	assert.False(t, c.IsAuthenticated())
	assert.Nil(t, c.Snapshot().Session)
	_, ok, err := s.storage.Get(ctx, "client-1", StorageAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Bootstrap(ctx, token))
	assert.False(t, c.IsAuthenticated())
}

func TestAuthContext_SessionExpiresWhileCached(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))
	require.NoError(t, c.Bootstrap(ctx, ""))
	require.True(t, c.IsAuthenticated())

	later := time.Now().Add(2 * time.Hour)
	c.now = func() time.Time { return later }

	require.NoError(t, c.Bootstrap(ctx, ""))
	assert.False(t, c.IsAuthenticated())
	_, ok, err := s.storage.Get(ctx, "client-1", StorageAuthToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthContext_UnconfirmedLoginSetsPending(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, true)
	signup := s.newContext("client-1")
	_, err := signup.Signup(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	// A fresh browser that never saw the signup.
	c := s.newContext("client-2")
	require.NoError(t, c.Bootstrap(ctx, ""))

	err = c.Login(ctx, " Ana@Example.com ", "secret1")
	assert.ErrorIs(t, err, utils.ErrEmailNotConfirmed)
	assert.False(t, c.IsAuthenticated())
	assert.Equal(t, "ana@example.com", c.Snapshot().PendingEmail)

	stored, ok, err := s.storage.Get(ctx, "client-2", StoragePendingEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ana@example.com", stored)

	require.NoError(t, c.ResendVerification(ctx, ""))
	assert.Len(t, s.mail.confirms, 2)
}

func TestAuthContext_SessionSurvivesEviction(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)

	first := s.newContext("client-1")
	require.NoError(t, first.Bootstrap(ctx, ""))
	require.NoError(t, first.Login(ctx, "ana@example.com", "secret1"))
	first.Close()

	second := s.newContext("client-1")
	require.NoError(t, second.Bootstrap(ctx, ""))
	require.True(t, second.IsAuthenticated())
	assert.Equal(t, "Ana", second.User().Name)
}

func TestAuthContext_SignupPendingThenConfirm(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, true)
	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))

	pending, err := c.Signup(ctx, "ana@example.com", "secret1", "Ana")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.Equal(t, "ana@example.com", c.Snapshot().PendingEmail)
	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, s.profRepo.byID)

	stored, ok, err := s.storage.Get(ctx, "client-1", StoragePendingEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ana@example.com", stored)

	require.NoError(t, c.ResendVerification(ctx, ""))
	assert.Len(t, s.mail.confirms, 2)

	// Confirmation happens from another client, e.g. the link opened on a phone.
	other := s.newContext("client-2")
	require.NoError(t, other.ConfirmEmail(ctx, s.mail.lastToken()))

	snap := c.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Empty(t, snap.PendingEmail)
	assert.Equal(t, "Ana", snap.User.Name)
	_, ok, err = s.storage.Get(ctx, "client-1", StoragePendingEmail)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthContext_ResendWithoutPending(t *testing.T) {
	s := newAuthStack(t, true)
	c := s.newContext("client-1")
	err := c.ResendVerification(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrNoPendingVerification)
}

func TestAuthContext_Demo(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	c := s.newContext("client-1")

	require.NoError(t, c.StartDemo(ctx, "Visitor"))
	assert.True(t, c.IsDemo())
	assert.True(t, c.IsAuthenticated())
	assert.Equal(t, db_models.DemoUserID, c.User().ID)
	assert.Equal(t, "Visitor", c.User().Name)
	assert.Empty(t, s.profRepo.byID)

	restored := s.newContext("client-1")
	require.NoError(t, restored.Bootstrap(ctx, ""))
	assert.True(t, restored.IsDemo())

	require.NoError(t, restored.Logout(ctx))
	assert.False(t, restored.IsAuthenticated())
	_, ok, err := s.storage.Get(ctx, "client-1", StorageDemoUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthContext_DemoDisabled(t *testing.T) {
	s := newAuthStack(t, false)
	c := NewAuthContext("client-1", AuthContextDeps{
		Identity: s.identity,
		Profiles: s.profiles,
		Storage:  s.storage,
	})
	assert.ErrorIs(t, c.StartDemo(context.Background(), ""), utils.ErrDemoDisabled)
}

func TestAuthContext_UserUpdatedRefreshesProfile(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "")
	require.NoError(t, err)

	c := s.newContext("client-1")
	require.NoError(t, c.Bootstrap(ctx, ""))
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))
	userID := c.User().ID

	end := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, s.profRepo.UpdateSubscription(ctx, userID, db_models.TierMonthly, &end))
	s.identity.NotifyUserUpdated(ctx, userID)

	assert.Equal(t, db_models.TierMonthly, c.User().SubscriptionTier)
	assert.True(t, c.IsPremium())
}

func TestAuthContext_SignOutElsewhereClearsUser(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "ana@example.com", "secret1", "")
	require.NoError(t, err)

	c := s.newContext("client-1")
	require.NoError(t, c.Login(ctx, "ana@example.com", "secret1"))
	token := c.Snapshot().Session.AccessToken

	require.NoError(t, s.identity.SignOut(ctx, token))
	assert.False(t, c.IsAuthenticated())
}

func TestAuthContext_AIPreferences(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	c := s.newContext("client-1")

	require.NoError(t, c.SetAIPreferences(ctx, "Gemini", "key-123"))
	provider, key, err := c.AIPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, "key-123", key)
}
