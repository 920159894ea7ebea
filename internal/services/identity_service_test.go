package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redcreativa/internal/events"
	"redcreativa/pkg/utils"
)

func TestIdentity_SignUpRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, true)

	identity, session, err := s.identity.SignUp(ctx, "  Ana@Example.com ", "secret1", "Ana")
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.False(t, identity.EmailConfirmed())
	require.NotEmpty(t, s.mail.lastToken())
	assert.Contains(t, s.publisher.types(), events.IdentitySignedUp)

	_, err = s.identity.SignInWithPassword(ctx, "ana@example.com", "secret1")
	assert.ErrorIs(t, err, utils.ErrEmailNotConfirmed)

	confirmed, err := s.identity.ConfirmEmail(ctx, s.mail.lastToken())
	require.NoError(t, err)
	assert.Equal(t, identity.ID, confirmed.UserID)

	_, err = s.identity.ConfirmEmail(ctx, s.mail.lastToken())
	assert.ErrorIs(t, err, utils.ErrInvalidConfirmationToken)

	session, err = s.identity.SignInWithPassword(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
}

func TestIdentity_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)

	_, _, err := s.identity.SignUp(ctx, "a@example.com", "123", "")
	assert.ErrorIs(t, err, utils.ErrWeakPassword)

	_, session, err := s.identity.SignUp(ctx, "a@example.com", "123456", "")
	require.NoError(t, err)
	assert.NotNil(t, session)

	_, _, err = s.identity.SignUp(ctx, "A@example.com", "123456", "")
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestIdentity_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, _, err := s.identity.SignUp(ctx, "a@example.com", "123456", "")
	require.NoError(t, err)

	_, err = s.identity.SignInWithPassword(ctx, "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = s.identity.SignInWithPassword(ctx, "nobody@example.com", "123456")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestIdentity_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)
	_, session, err := s.identity.SignUp(ctx, "a@example.com", "123456", "")
	require.NoError(t, err)

	got, err := s.identity.GetSession(ctx, session.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.UserID, got.UserID)

	got, err = s.identity.GetSession(ctx, "not-a-token")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.identity.SignOut(ctx, session.AccessToken))
	got, err = s.identity.GetSession(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdentity_ListenersInOrderAndUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, false)

	var calls []string
	unsubA := s.identity.OnAuthStateChange(func(_ context.Context, evt AuthEvent) {
		calls = append(calls, "a:"+string(evt.Type))
	})
	s.identity.OnAuthStateChange(func(_ context.Context, evt AuthEvent) {
		calls = append(calls, "b:"+string(evt.Type))
	})

	_, session, err := s.identity.SignUp(ctx, "a@example.com", "123456", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:SIGNED_IN", "b:SIGNED_IN"}, calls)

	unsubA()
	unsubA()
	calls = nil
	require.NoError(t, s.identity.SignOut(ctx, session.AccessToken))
	assert.Equal(t, []string{"b:SIGNED_OUT"}, calls)
}

func TestIdentity_ResendConfirmationIsSilent(t *testing.T) {
	ctx := context.Background()
	s := newAuthStack(t, true)

	require.NoError(t, s.identity.ResendConfirmation(ctx, "unknown@example.com"))
	assert.Empty(t, s.mail.confirms)

	_, _, err := s.identity.SignUp(ctx, "a@example.com", "123456", "")
	require.NoError(t, err)
	require.NoError(t, s.identity.ResendConfirmation(ctx, "a@example.com"))
	assert.Len(t, s.mail.confirms, 2)
}
