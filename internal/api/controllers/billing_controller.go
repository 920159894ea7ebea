package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/request_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/middleware"
	"redcreativa/pkg/utils"
)

const (
	SignatureHeader = "X-Signature"
	maxWebhookBytes = 64 << 10
)

type BillingController struct {
	planService    services.PlanServiceInterface
	paymentService services.PaymentService
}

func NewBillingController(planService services.PlanServiceInterface, paymentService services.PaymentService) *BillingController {
	return &BillingController{
		planService:    planService,
		paymentService: paymentService,
	}
}

// ListPlans godoc
// @Summary List subscription plans
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /billing/plans [get]
func (b *BillingController) ListPlans(c *gin.Context) {
	plans, err := b.planService.ListPlans(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, plans, "")
}

// CreateCheckout godoc
// @Summary Start a hosted checkout for a plan
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Plan"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/checkout [post]
func (b *BillingController) CreateCheckout(c *gin.Context) {
	var req request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return
	}

	checkout, err := b.paymentService.CreateCheckoutForPlan(c.Request.Context(), user, req.PlanCode)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, checkout, "Checkout URL created successfully")
}

// Cancel godoc
// @Summary Downgrade to the free tier
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/cancel [post]
func (b *BillingController) Cancel(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	if err := b.paymentService.Cancel(c.Request.Context(), ownerID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if authCtx := middleware.GetAuthContext(c); authCtx != nil {
		_ = authCtx.RefreshProfile(c.Request.Context())
	}
	utils.RespondSuccess(c, nil, "Subscription cancelled")
}

// Subscription godoc
// @Summary Current subscription
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/subscription [get]
func (b *BillingController) Subscription(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	sub, err := b.paymentService.GetSubscription(c.Request.Context(), ownerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "")
}

// Webhook godoc
// @Summary Payment provider callback
// @Description The raw body is verified against the X-Signature HMAC
// @Tags Billing
// @Accept json
// @Produce json
// @Param X-Signature header string true "sha256=<hex HMAC-SHA256 of the body>"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /billing/webhook [post]
func (b *BillingController) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Unable to read body")
		return
	}

	ack, err := b.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, ack, "Webhook processed")
}
