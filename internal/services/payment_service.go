package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"redcreativa/internal/config"
	"redcreativa/internal/events"
	"redcreativa/internal/logger"
	dbm "redcreativa/internal/models/db_models"
	"redcreativa/internal/models/response_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/utils"
)

const (
	WebhookCheckoutCompleted = "checkout.completed"
	WebhookCheckoutFailed    = "checkout.failed"
)

// WebhookEvent is the body the hosted checkout posts back.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ClientReferenceID string `json:"client_reference_id"`
		ProviderTxnID     string `json:"provider_txn_id"`
		AmountMinor       int64  `json:"amount_minor"`
		Currency          string `json:"currency"`
		CustomerEmail     string `json:"customer_email"`
	} `json:"data"`
}

type PaymentService interface {
	CreateCheckoutForPlan(ctx context.Context, user *dbm.Profile, planCode string) (*response_models.CreateCheckoutResponse, error)
	// HandleWebhook verifies the signature and applies the event once.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*response_models.WebhookAck, error)
	Cancel(ctx context.Context, userID uuid.UUID) error
	GetSubscription(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionStatusResponse, error)
}

type paymentService struct {
	billing   repositories.BillingRepository
	plans     repositories.IPlanRepository
	profiles  repositories.ProfileRepository
	identity  IdentityService
	mail      IMailService
	publisher events.Publisher
	cfg       config.BillingConfig
	now       func() time.Time
}

func NewPaymentService(
	billing repositories.BillingRepository,
	plans repositories.IPlanRepository,
	profiles repositories.ProfileRepository,
	identity IdentityService,
	mail IMailService,
	publisher events.Publisher,
	cfg config.BillingConfig,
) PaymentService {
	if cfg.Provider == "" {
		cfg.Provider = "hosted"
	}
	return &paymentService{
		billing:   billing,
		plans:     plans,
		profiles:  profiles,
		identity:  identity,
		mail:      mail,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (p *paymentService) checkoutBase(planCode string) string {
	switch planCode {
	case PlanMonthly:
		return p.cfg.MonthlyCheckoutURL
	case PlanAnnual:
		return p.cfg.AnnualCheckoutURL
	}
	return ""
}

func (p *paymentService) CreateCheckoutForPlan(ctx context.Context, user *dbm.Profile, planCode string) (*response_models.CreateCheckoutResponse, error) {
	if user.ID == dbm.DemoUserID {
		return nil, utils.ErrDemoReadOnly
	}

	plan, err := p.plans.GetActivePlanByCode(ctx, planCode)
	if err != nil {
		return nil, dbError(err)
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}
	if plan.PriceMinor <= 0 {
		return nil, fmt.Errorf("%w: plan %s is not billable", utils.ErrInvalidInput, planCode)
	}

	base := p.checkoutBase(plan.Code)
	if base == "" {
		return nil, utils.ErrCheckoutNotSetup
	}

	txn := &dbm.Transaction{
		AccountID:   user.ID,
		PlanID:      plan.ID,
		AmountMinor: plan.PriceMinor,
		Currency:    strings.ToUpper(plan.Currency),
		Status:      dbm.TxnStatusPending,
		Provider:    p.cfg.Provider,
		Metadata:    jsonRaw(map[string]any{"plan_code": plan.Code, "email": user.Email}),
	}
	if err := p.billing.CreateTransaction(ctx, txn); err != nil {
		return nil, dbError(err)
	}

	checkoutURL, err := BuildCheckoutURL(base, txn.ID.String(), user.Email)
	if err != nil {
		_ = p.billing.UpdateTransaction(ctx, txn.ID, map[string]interface{}{"status": dbm.TxnStatusFailed})
		return nil, fmt.Errorf("%w: %v", utils.ErrCheckoutNotSetup, err)
	}

	logger.Info("checkout created",
		zap.String("user_id", user.ID.String()),
		zap.String("plan", plan.Code),
		zap.String("transaction_id", txn.ID.String()))

	return &response_models.CreateCheckoutResponse{
		TransactionID: txn.ID,
		Amount:        txn.AmountMinor,
		Currency:      txn.Currency,
		CheckoutURL:   checkoutURL,
		ProviderName:  p.cfg.Provider,
	}, nil
}

// BuildCheckoutURL appends client_reference_id and prefilled_email to the
// hosted checkout link, keeping any query it already has.
func BuildCheckoutURL(base, reference, email string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("checkout url %q must be absolute", base)
	}
	q := u.Query()
	q.Set("client_reference_id", reference)
	if email != "" {
		q.Set("prefilled_email", email)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ComputePeriod starts a new paid period at now, or at currentEnd when the
// current subscription is still running.
func ComputePeriod(now time.Time, currentEnd *time.Time, period dbm.BillingPeriod) (time.Time, time.Time) {
	start := now
	if currentEnd != nil && currentEnd.After(now) {
		start = *currentEnd
	}
	if period == dbm.PeriodYear {
		return start, start.AddDate(1, 0, 0)
	}
	return start, start.AddDate(0, 1, 0)
}

func ParseWebhook(payload []byte) (*WebhookEvent, uuid.UUID, error) {
	var evt WebhookEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%w: malformed webhook payload", utils.ErrInvalidInput)
	}
	switch evt.Type {
	case WebhookCheckoutCompleted, WebhookCheckoutFailed:
	default:
		return nil, uuid.Nil, fmt.Errorf("%w: unsupported event type %q", utils.ErrInvalidInput, evt.Type)
	}
	txnID, err := uuid.Parse(evt.Data.ClientReferenceID)
	if err != nil {
		return nil, uuid.Nil, utils.ErrUnknownTransaction
	}
	return &evt, txnID, nil
}

type activation struct {
	accountID uuid.UUID
	plan      dbm.Plan
	endsAt    time.Time
}

func (p *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*response_models.WebhookAck, error) {
	if !utils.VerifyHMACSHA256(p.cfg.WebhookSecret, payload, signature) {
		return nil, utils.ErrInvalidSignature
	}
	evt, txnID, err := ParseWebhook(payload)
	if err != nil {
		return nil, err
	}

	ack := &response_models.WebhookAck{TransactionID: txnID}
	var activated *activation

	err = p.billing.InTx(ctx, func(tx repositories.BillingRepository) error {
		txn, err := tx.LockTransaction(ctx, txnID)
		if err != nil {
			return err
		}
		if txn == nil {
			return utils.ErrUnknownTransaction
		}

		if txn.Status == dbm.TxnStatusPaid {
			ack.Status = string(txn.Status)
			ack.AlreadyProcessed = true
			return nil
		}

		if evt.Type == WebhookCheckoutFailed {
			ack.Status = string(dbm.TxnStatusFailed)
			return tx.UpdateTransaction(ctx, txn.ID, map[string]interface{}{
				"status":          dbm.TxnStatusFailed,
				"provider_txn_id": evt.Data.ProviderTxnID,
				"metadata":        datatypes.JSON(payload),
			})
		}

		if evt.Data.AmountMinor != txn.AmountMinor || !strings.EqualFold(evt.Data.Currency, txn.Currency) {
			return fmt.Errorf("%w: amount %d %s does not match transaction", utils.ErrInvalidInput, evt.Data.AmountMinor, evt.Data.Currency)
		}

		plan, err := tx.FindPlanByID(ctx, txn.PlanID)
		if err != nil {
			return fmt.Errorf("load plan %s: %w", txn.PlanID, err)
		}
		if plan == nil {
			return fmt.Errorf("load plan %s: %w", txn.PlanID, utils.ErrPlanNotFound)
		}

		now := p.now().UTC()
		currentEnd, err := tx.ActiveSubscriptionEnd(ctx, txn.AccountID, now)
		if err != nil {
			return err
		}
		starts, ends := ComputePeriod(now, currentEnd, plan.Period)

		if err := tx.UpdateTransaction(ctx, txn.ID, map[string]interface{}{
			"status":          dbm.TxnStatusPaid,
			"paid_at":         now.Unix(),
			"provider_txn_id": evt.Data.ProviderTxnID,
			"metadata":        datatypes.JSON(payload),
		}); err != nil {
			return err
		}

		sub := &dbm.Subscription{
			AccountID:     txn.AccountID,
			PlanID:        plan.ID,
			Status:        dbm.SubStatusActive,
			StartsAt:      starts.Unix(),
			EndsAt:        ends.Unix(),
			AutoRenew:     true,
			Provider:      p.cfg.Provider,
			ProviderSubID: evt.Data.ProviderTxnID,
			Metadata: jsonRaw(map[string]any{
				"activated_by_txn": txn.ID,
				"webhook_event_id": evt.ID,
				"amount_minor":     txn.AmountMinor,
				"currency":         txn.Currency,
			}),
		}
		if err := tx.CreateSubscription(ctx, sub); err != nil {
			return err
		}

		if err := tx.UpdateProfileSubscription(ctx, txn.AccountID, plan.Tier(), &ends); err != nil {
			return fmt.Errorf("update profile subscription: %w", err)
		}

		ack.Status = string(dbm.TxnStatusPaid)
		activated = &activation{accountID: txn.AccountID, plan: *plan, endsAt: ends}
		return nil
	})
	if err != nil {
		if errors.Is(err, utils.ErrUnknownTransaction) || errors.Is(err, utils.ErrInvalidInput) {
			return nil, err
		}
		logger.Error("webhook processing failed", zap.String("transaction_id", txnID.String()), zap.Error(err))
		return nil, dbError(err)
	}

	if activated != nil {
		p.afterActivation(ctx, activated, evt.Data.CustomerEmail)
	}
	return ack, nil
}

func (p *paymentService) afterActivation(ctx context.Context, a *activation, email string) {
	logger.Info("subscription activated",
		zap.String("user_id", a.accountID.String()),
		zap.String("plan", a.plan.Code),
		zap.Time("ends_at", a.endsAt))

	p.identity.NotifyUserUpdated(ctx, a.accountID)

	if err := p.publisher.Publish(ctx, events.SubscriptionActivated, map[string]any{
		"user_id": a.accountID, "plan": a.plan.Code, "ends_at": a.endsAt,
	}); err != nil {
		logger.Warn("publish subscription.activated failed", zap.Error(err))
	}

	if email == "" {
		if profile, err := p.profiles.FindByID(ctx, a.accountID); err == nil && profile != nil {
			email = profile.Email
		}
	}
	if email != "" {
		if err := p.mail.SendSubscriptionReceipt(ctx, email, a.plan.Name, a.endsAt); err != nil {
			logger.Warn("send receipt failed", zap.String("user_id", a.accountID.String()), zap.Error(err))
		}
	}
}

func (p *paymentService) Cancel(ctx context.Context, userID uuid.UUID) error {
	if userID == dbm.DemoUserID {
		return utils.ErrDemoReadOnly
	}
	profile, err := p.profiles.FindByID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if profile == nil {
		return utils.ErrRecordNotFound
	}
	if profile.SubscriptionTier == dbm.TierFree || profile.SubscriptionTier == "" {
		return utils.ErrAlreadyFree
	}

	now := p.now()
	err = p.billing.InTx(ctx, func(tx repositories.BillingRepository) error {
		if err := tx.CancelActiveSubscriptions(ctx, userID, now); err != nil {
			return err
		}
		return tx.UpdateProfileSubscription(ctx, userID, dbm.TierFree, nil)
	})
	if err != nil {
		return dbError(err)
	}

	p.identity.NotifyUserUpdated(ctx, userID)
	if err := p.publisher.Publish(ctx, events.SubscriptionCanceled, map[string]any{"user_id": userID}); err != nil {
		logger.Warn("publish subscription.canceled failed", zap.Error(err))
	}
	return nil
}

func (p *paymentService) GetSubscription(ctx context.Context, userID uuid.UUID) (*response_models.SubscriptionStatusResponse, error) {
	sub, err := p.billing.LatestSubscription(ctx, userID)
	if err != nil {
		return nil, dbError(err)
	}
	if sub == nil {
		return nil, utils.ErrRecordNotFound
	}

	status := sub.Status
	if status == dbm.SubStatusActive && sub.EndsAt <= p.now().Unix() {
		status = dbm.SubStatusExpired
	}

	planCode := ""
	if plan, err := p.billing.FindPlanByID(ctx, sub.PlanID); err == nil && plan != nil {
		planCode = plan.Code
	}

	return &response_models.SubscriptionStatusResponse{
		AccountID: userID,
		PlanCode:  planCode,
		Status:    string(status),
		StartsAt:  sub.StartsAt,
		EndsAt:    sub.EndsAt,
		AutoRenew: sub.AutoRenew,
	}, nil
}

func jsonRaw(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return b
}
