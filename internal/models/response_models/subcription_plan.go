package response_models

import "github.com/google/uuid"

type SubscriptionPlan struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"` // "monthly" | "annual"
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Period      string    `json:"period"` // "month" | "year"
	PriceMinor  int64     `json:"price_minor"`
	Price       string    `json:"price"` // "$9.99"
	Currency    string    `json:"currency"`
	TrialDays   int32     `json:"trial_days"`
	IsActive    bool      `json:"is_active"`
	Features    []string  `json:"features,omitempty"`
}

type CreateCheckoutResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	CheckoutURL   string    `json:"checkout_url"`
	ProviderName  string    `json:"provider"`
}

type SubscriptionStatusResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	PlanCode  string    `json:"plan_code"`
	Status    string    `json:"status"`
	StartsAt  int64     `json:"starts_at"`
	EndsAt    int64     `json:"ends_at"`
	AutoRenew bool      `json:"auto_renew"`
}

type WebhookAck struct {
	TransactionID    uuid.UUID `json:"transaction_id"`
	Status           string    `json:"status"`
	AlreadyProcessed bool      `json:"already_processed"`
}
