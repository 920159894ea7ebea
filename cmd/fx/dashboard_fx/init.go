package dashboard_fx

import (
	"go.uber.org/fx"

	"redcreativa/internal/api/controllers"
	"redcreativa/internal/repositories"
	"redcreativa/internal/services"
)

var Module = fx.Provide(
	repositories.NewDashboardRepository,
	services.NewDashboardService,
	controllers.NewDashboardController,
)
