package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/response_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/middleware"
	"redcreativa/pkg/utils"
)

type DashboardController struct {
	dashboard services.DashboardService
}

func NewDashboardController(dashboard services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

func optionalTime(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, key+" must be an RFC3339 timestamp")
		return time.Time{}, false
	}
	return t, true
}

// Get godoc
// @Summary Creator dashboard
// @Description Content counts, task board summary, upcoming events and publishing activity for the current user
// @Tags Dashboard
// @Produce json
// @Param from query string false "RFC3339 start, defaults to 30 days before to"
// @Param to query string false "RFC3339 end, defaults to now"
// @Param interval query string false "day, week or month"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (dc *DashboardController) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}
	from, ok := optionalTime(c, "from")
	if !ok {
		return
	}
	to, ok := optionalTime(c, "to")
	if !ok {
		return
	}

	report, err := dc.dashboard.BuildDashboard(c.Request.Context(), user, response_models.TimeRange{
		Start:    from,
		End:      to,
		Interval: c.Query("interval"),
	})
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "")
}
