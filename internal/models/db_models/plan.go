package db_models

import "github.com/lib/pq"

type Plan struct {
	BaseModel
	Code        string        `gorm:"uniqueIndex" json:"code"` // "monthly", "annual"
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Period      BillingPeriod `gorm:"size:8" json:"period"`
	PriceMinor  int64         `json:"price_minor"` // 999 = $9.99
	Currency    string        `gorm:"size:3" json:"currency"`
	TrialDays   int32         `gorm:"default:0" json:"trial_days"`
	IsActive    bool          `gorm:"default:true" json:"is_active"`
	// Marketing bullet points for the pricing page.
	Features pq.StringArray `gorm:"type:text[]" json:"features"`
}

// Tier maps a plan period onto the profile tier it grants.
func (p *Plan) Tier() SubscriptionTier {
	if p.Period == PeriodYear {
		return TierAnnual
	}
	return TierMonthly
}
