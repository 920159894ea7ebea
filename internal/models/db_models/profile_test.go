package db_models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfile_HasActiveSubscription(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name        string
		profile     *Profile
		wantActive  bool
		wantPremium bool
	}{
		{name: "nil profile", profile: nil},
		{name: "free tier", profile: &Profile{SubscriptionTier: TierFree}, wantActive: true},
		{name: "empty tier counts as free", profile: &Profile{}, wantActive: true},
		{name: "monthly before end", profile: &Profile{SubscriptionTier: TierMonthly, SubscriptionEndDate: &future}, wantActive: true, wantPremium: true},
		{name: "annual after end", profile: &Profile{SubscriptionTier: TierAnnual, SubscriptionEndDate: &past}},
		{name: "annual at end instant", profile: &Profile{SubscriptionTier: TierAnnual, SubscriptionEndDate: &now}},
		{name: "paid without end date", profile: &Profile{SubscriptionTier: TierMonthly}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantActive, tt.profile.HasActiveSubscription(now))
			assert.Equal(t, tt.wantPremium, tt.profile.IsPremium(now))
		})
	}
}

func TestPlan_Tier(t *testing.T) {
	assert.Equal(t, TierAnnual, (&Plan{Period: PeriodYear}).Tier())
	assert.Equal(t, TierMonthly, (&Plan{Period: PeriodMonth}).Tier())
}

func TestSubscriptionTier_Valid(t *testing.T) {
	assert.True(t, TierAnnual.Valid())
	assert.False(t, SubscriptionTier("lifetime").Valid())
}
