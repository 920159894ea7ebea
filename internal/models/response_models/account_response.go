package response_models

import (
	"time"

	"github.com/google/uuid"

	"redcreativa/internal/models/db_models"
)

type UserProfile struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	Name                  string     `json:"name"`
	SubscriptionTier      string     `json:"subscription_tier"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date,omitempty"`
	HasActiveSubscription bool       `json:"has_active_subscription"`
	IsPremium             bool       `json:"is_premium"`
}

func NewUserProfile(p *db_models.Profile, now time.Time) *UserProfile {
	if p == nil {
		return nil
	}
	return &UserProfile{
		ID:                    p.ID,
		Email:                 p.Email,
		Name:                  p.Name,
		SubscriptionTier:      string(p.SubscriptionTier),
		SubscriptionEndDate:   p.SubscriptionEndDate,
		HasActiveSubscription: p.HasActiveSubscription(now),
		IsPremium:             p.IsPremium(now),
	}
}

// AuthState is what /auth/me and every auth endpoint return.
type AuthState struct {
	User                     *UserProfile `json:"user"`
	IsAuthenticated          bool         `json:"is_authenticated"`
	IsLoading                bool         `json:"is_loading"`
	IsDemo                   bool         `json:"is_demo"`
	PendingEmailVerification bool         `json:"pending_email_verification"`
	PendingEmail             string       `json:"pending_email,omitempty"`
	AccessToken              string       `json:"access_token,omitempty"`
	ExpiresAt                *time.Time   `json:"expires_at,omitempty"`
}
