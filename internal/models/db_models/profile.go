package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierMonthly SubscriptionTier = "monthly"
	TierAnnual  SubscriptionTier = "annual"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierMonthly, TierAnnual:
		return true
	}
	return false
}

// Profile is the application user mirrored from an Identity. Its ID is the
// identity ID.
type Profile struct {
	BaseModel
	Email               string           `gorm:"uniqueIndex;not null" json:"email"`
	Name                string           `json:"name"`
	SubscriptionTier    SubscriptionTier `gorm:"size:16;not null;default:free" json:"subscription_tier"`
	SubscriptionEndDate *time.Time       `json:"subscription_end_date,omitempty"`
}

func (Profile) TableName() string {
	return "users"
}

// HasActiveSubscription is true for the free tier, or while now precedes the
// stored end date of a paid tier.
func (p *Profile) HasActiveSubscription(now time.Time) bool {
	if p == nil {
		return false
	}
	if p.SubscriptionTier == TierFree || p.SubscriptionTier == "" {
		return true
	}
	return p.SubscriptionEndDate != nil && now.Before(*p.SubscriptionEndDate)
}

// IsPremium reports a paid tier that has not expired.
func (p *Profile) IsPremium(now time.Time) bool {
	if p == nil || p.SubscriptionTier == TierFree || p.SubscriptionTier == "" {
		return false
	}
	return p.HasActiveSubscription(now)
}

// Demo mode authenticates as this fixed user. The seed tool creates its
// content so the demo has something to browse.
var DemoUserID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://redcreativa.pro/demo-user"))

const DemoEmail = "demo@redcreativa.pro"

func NewDemoProfile(name string) *Profile {
	if name == "" {
		name = "Demo Creator"
	}
	return &Profile{
		BaseModel:        BaseModel{ID: DemoUserID},
		Email:            DemoEmail,
		Name:             name,
		SubscriptionTier: TierFree,
	}
}
