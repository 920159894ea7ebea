package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redcreativa/internal/config"
)

type fakeSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) SendWithContext(_ context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, m)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		FromEmail:  "no-reply@redcreativa.pro",
		FromName:   "Red Creativa Pro",
		AppBaseURL: "https://app.redcreativa.pro/",
	}
}

func TestMailService_Confirmation(t *testing.T) {
	sender := &fakeSender{status: 202}
	svc := newMailService(testMailConfig(), sender)

	require.NoError(t, svc.SendConfirmationEmail(context.Background(), "ana@example.com", "Ana", "tok en"))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Confirm your email", msg.Subject)
	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "https://app.redcreativa.pro/api/auth/confirm?token=tok+en")
	assert.Contains(t, msg.Content[1].Value, "Welcome, Ana!")
}

func TestMailService_Errors(t *testing.T) {
	ctx := context.Background()

	rejected := newMailService(testMailConfig(), &fakeSender{status: 401})
	assert.Error(t, rejected.SendSubscriptionReceipt(ctx, "ana@example.com", "Annual", time.Now()))

	broken := newMailService(testMailConfig(), &fakeSender{err: errors.New("dial tcp: timeout")})
	assert.Error(t, broken.SendConfirmationEmail(ctx, "ana@example.com", "", "t"))
}

func TestMailService_SkipsWithoutKey(t *testing.T) {
	svc := NewMailService(testMailConfig())
	assert.NoError(t, svc.SendConfirmationEmail(context.Background(), "ana@example.com", "Ana", "t"))
}
