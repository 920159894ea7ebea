package payment_service_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"redcreativa/internal/api/controllers"
	"redcreativa/internal/config"
	"redcreativa/internal/events"
	"redcreativa/internal/logger"
	"redcreativa/internal/repositories"
	"redcreativa/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		providePlanRepo,
		repositories.NewBillingRepository,
		providePlanService,
		providePaymentService,
		controllers.NewBillingController,
	),
	fx.Invoke(seedPlans),
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository, cfg config.BillingConfig) services.PlanServiceInterface {
	return services.NewPlanService(planRepo, cfg)
}

func providePaymentService(
	billing repositories.BillingRepository,
	planRepo repositories.IPlanRepository,
	profileRepo repositories.ProfileRepository,
	identity services.IdentityService,
	mail services.IMailService,
	publisher events.Publisher,
	cfg config.BillingConfig,
) services.PaymentService {
	if cfg.WebhookSecret == "" {
		logger.Warn("billing webhook secret not set, every webhook will be rejected")
	}
	return services.NewPaymentService(billing, planRepo, profileRepo, identity, mail, publisher, cfg)
}

func seedPlans(lc fx.Lifecycle, plans services.PlanServiceInterface) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return plans.EnsureDefaultPlans(ctx)
		},
	})
}
