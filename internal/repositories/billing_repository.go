package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "redcreativa/internal/models/db_models"
)

// BillingRepository stores checkout transactions and subscriptions. Lookups
// return nil, nil when the row does not exist.
type BillingRepository interface {
	// InTx runs fn against a repository bound to one database transaction.
	InTx(ctx context.Context, fn func(tx BillingRepository) error) error

	CreateTransaction(ctx context.Context, txn *dbm.Transaction) error
	UpdateTransaction(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// LockTransaction reads the row FOR UPDATE.
	LockTransaction(ctx context.Context, id uuid.UUID) (*dbm.Transaction, error)

	FindPlanByID(ctx context.Context, id uuid.UUID) (*dbm.Plan, error)

	// ActiveSubscriptionEnd is the latest end of an active subscription still
	// running at now.
	ActiveSubscriptionEnd(ctx context.Context, accountID uuid.UUID, now time.Time) (*time.Time, error)
	CreateSubscription(ctx context.Context, sub *dbm.Subscription) error
	CancelActiveSubscriptions(ctx context.Context, accountID uuid.UUID, at time.Time) error
	LatestSubscription(ctx context.Context, accountID uuid.UUID) (*dbm.Subscription, error)

	UpdateProfileSubscription(ctx context.Context, id uuid.UUID, tier dbm.SubscriptionTier, endDate *time.Time) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) InTx(ctx context.Context, fn func(tx BillingRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&billingRepository{db: tx})
	})
}

// ---------- Transactions ----------
func (r *billingRepository) CreateTransaction(ctx context.Context, txn *dbm.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *billingRepository) UpdateTransaction(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&dbm.Transaction{}).Where("id = ?", id).Updates(fields).Error
}

func (r *billingRepository) LockTransaction(ctx context.Context, id uuid.UUID) (*dbm.Transaction, error) {
	var txn dbm.Transaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// ---------- Plans ----------
func (r *billingRepository) FindPlanByID(ctx context.Context, id uuid.UUID) (*dbm.Plan, error) {
	var plan dbm.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

// ---------- Subscriptions ----------
func (r *billingRepository) ActiveSubscriptionEnd(ctx context.Context, accountID uuid.UUID, now time.Time) (*time.Time, error) {
	var current dbm.Subscription
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND status = ? AND ends_at > ?", accountID, dbm.SubStatusActive, now.Unix()).
		Order("ends_at DESC").
		First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	end := time.Unix(current.EndsAt, 0).UTC()
	return &end, nil
}

func (r *billingRepository) CreateSubscription(ctx context.Context, sub *dbm.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *billingRepository) CancelActiveSubscriptions(ctx context.Context, accountID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Subscription{}).
		Where("account_id = ? AND status = ?", accountID, dbm.SubStatusActive).
		Updates(map[string]interface{}{
			"status":      dbm.SubStatusCanceled,
			"canceled_at": at.Unix(),
			"auto_renew":  false,
		}).Error
}

func (r *billingRepository) LatestSubscription(ctx context.Context, accountID uuid.UUID) (*dbm.Subscription, error) {
	var sub dbm.Subscription
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("ends_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *billingRepository) UpdateProfileSubscription(ctx context.Context, id uuid.UUID, tier dbm.SubscriptionTier, endDate *time.Time) error {
	return NewProfileRepository(r.db).UpdateSubscription(ctx, id, tier, endDate)
}
