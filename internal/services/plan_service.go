package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"redcreativa/internal/config"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/utils"
)

const (
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

type PlanServiceInterface interface {
	ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error)
	GetPlanByCode(ctx context.Context, code string) (response_models.SubscriptionPlan, error)
	// EnsureDefaultPlans upserts the monthly and annual plans from config.
	EnsureDefaultPlans(ctx context.Context) error
}

func NewPlanService(planRepo repositories.IPlanRepository, cfg config.BillingConfig) PlanServiceInterface {
	return &PlanService{
		planRepo: planRepo,
		cfg:      cfg,
	}
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	cfg      config.BillingConfig
}

func (p *PlanService) ListPlans(ctx context.Context) ([]response_models.SubscriptionPlan, error) {
	plans, err := p.planRepo.GetAllPlans(ctx)
	if err != nil {
		return nil, dbError(err)
	}

	result := make([]response_models.SubscriptionPlan, 0, len(plans))
	for i := range plans {
		result = append(result, toPlanResponse(&plans[i]))
	}
	return result, nil
}

func (p *PlanService) GetPlanByCode(ctx context.Context, code string) (response_models.SubscriptionPlan, error) {
	plan, err := p.planRepo.GetActivePlanByCode(ctx, code)
	if err != nil {
		return response_models.SubscriptionPlan{}, dbError(err)
	}
	if plan == nil {
		return response_models.SubscriptionPlan{}, utils.ErrPlanNotFound
	}
	return toPlanResponse(plan), nil
}

func (p *PlanService) EnsureDefaultPlans(ctx context.Context) error {
	for _, plan := range DefaultPlans(p.cfg) {
		if err := p.planRepo.Upsert(ctx, &plan); err != nil {
			return fmt.Errorf("upsert plan %s: %w", plan.Code, err)
		}
	}
	logger.Info("billing plans ready", zap.String("currency", p.cfg.Currency))
	return nil
}

func DefaultPlans(cfg config.BillingConfig) []db_models.Plan {
	currency := strings.ToUpper(cfg.Currency)
	if currency == "" {
		currency = "USD"
	}
	monthlyDesc := "Full access, billed every month"
	annualDesc := "Full access, two months free"
	features := []string{
		"Unlimited projects and tasks",
		"AI scripts, prompts and blog ideas",
		"Thumbnail composer",
		"Content calendar",
	}

	return []db_models.Plan{
		{
			Code:        PlanMonthly,
			Name:        "Pro Monthly",
			Description: &monthlyDesc,
			Period:      db_models.PeriodMonth,
			PriceMinor:  cfg.MonthlyPriceMinor,
			Currency:    currency,
			IsActive:    true,
			Features:    features,
		},
		{
			Code:        PlanAnnual,
			Name:        "Pro Annual",
			Description: &annualDesc,
			Period:      db_models.PeriodYear,
			PriceMinor:  cfg.AnnualPriceMinor,
			Currency:    currency,
			IsActive:    true,
			Features:    features,
		},
	}
}

func toPlanResponse(plan *db_models.Plan) response_models.SubscriptionPlan {
	return response_models.SubscriptionPlan{
		ID:          plan.ID,
		Code:        plan.Code,
		Name:        plan.Name,
		Description: plan.Description,
		Period:      string(plan.Period),
		PriceMinor:  plan.PriceMinor,
		Price:       FormatPrice(plan.PriceMinor, plan.Currency),
		Currency:    plan.Currency,
		TrialDays:   plan.TrialDays,
		IsActive:    plan.IsActive,
		Features:    plan.Features,
	}
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders minor units with two decimals.
func FormatPrice(minor int64, currency string) string {
	currency = strings.ToUpper(currency)
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	amount := fmt.Sprintf("%d.%02d", minor/100, minor%100)
	if symbol, ok := currencySymbols[currency]; ok {
		return sign + symbol + amount
	}
	return sign + amount + " " + currency
}
