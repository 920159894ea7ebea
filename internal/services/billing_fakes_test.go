package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	dbm "redcreativa/internal/models/db_models"
	"redcreativa/internal/repositories"
)

// fakeBillingRepo keeps rows in memory. InTx restores the transactions and
// subscriptions when fn fails.
type fakeBillingRepo struct {
	mu       sync.Mutex
	txns     map[uuid.UUID]dbm.Transaction
	plans    map[uuid.UUID]dbm.Plan
	subs     []dbm.Subscription
	profiles *fakeProfileRepo
}

func newFakeBillingRepo(profiles *fakeProfileRepo) *fakeBillingRepo {
	return &fakeBillingRepo{
		txns:     make(map[uuid.UUID]dbm.Transaction),
		plans:    make(map[uuid.UUID]dbm.Plan),
		profiles: profiles,
	}
}

func (r *fakeBillingRepo) InTx(_ context.Context, fn func(tx repositories.BillingRepository) error) error {
	r.mu.Lock()
	txns := make(map[uuid.UUID]dbm.Transaction, len(r.txns))
	for k, v := range r.txns {
		txns[k] = v
	}
	subs := append([]dbm.Subscription(nil), r.subs...)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.txns, r.subs = txns, subs
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeBillingRepo) CreateTransaction(_ context.Context, txn *dbm.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = txn.BeforeCreate(nil)
	r.txns[txn.ID] = *txn
	return nil
}

func (r *fakeBillingRepo) UpdateTransaction(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil
	}
	if v, ok := fields["status"].(dbm.TransactionStatus); ok {
		txn.Status = v
	}
	if v, ok := fields["paid_at"].(int64); ok {
		txn.PaidAt = &v
	}
	if v, ok := fields["provider_txn_id"].(string); ok {
		txn.ProviderTxnID = v
	}
	r.txns[id] = txn
	return nil
}

func (r *fakeBillingRepo) LockTransaction(_ context.Context, id uuid.UUID) (*dbm.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.txns[id]
	if !ok {
		return nil, nil
	}
	return &txn, nil
}

func (r *fakeBillingRepo) FindPlanByID(_ context.Context, id uuid.UUID) (*dbm.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (r *fakeBillingRepo) ActiveSubscriptionEnd(_ context.Context, accountID uuid.UUID, now time.Time) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest int64
	for _, s := range r.subs {
		if s.AccountID == accountID && s.Status == dbm.SubStatusActive && s.EndsAt > now.Unix() && s.EndsAt > latest {
			latest = s.EndsAt
		}
	}
	if latest == 0 {
		return nil, nil
	}
	end := time.Unix(latest, 0).UTC()
	return &end, nil
}

func (r *fakeBillingRepo) CreateSubscription(_ context.Context, sub *dbm.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = sub.BeforeCreate(nil)
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeBillingRepo) CancelActiveSubscriptions(_ context.Context, accountID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.subs {
		if r.subs[i].AccountID == accountID && r.subs[i].Status == dbm.SubStatusActive {
			canceled := at.Unix()
			r.subs[i].Status = dbm.SubStatusCanceled
			r.subs[i].CanceledAt = &canceled
			r.subs[i].AutoRenew = false
		}
	}
	return nil
}

func (r *fakeBillingRepo) LatestSubscription(_ context.Context, accountID uuid.UUID) (*dbm.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var own []dbm.Subscription
	for _, s := range r.subs {
		if s.AccountID == accountID {
			own = append(own, s)
		}
	}
	if len(own) == 0 {
		return nil, nil
	}
	sort.Slice(own, func(i, j int) bool { return own[i].EndsAt > own[j].EndsAt })
	return &own[0], nil
}

func (r *fakeBillingRepo) UpdateProfileSubscription(ctx context.Context, id uuid.UUID, tier dbm.SubscriptionTier, endDate *time.Time) error {
	return r.profiles.UpdateSubscription(ctx, id, tier, endDate)
}

func (r *fakeBillingRepo) subscriptions() []dbm.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dbm.Subscription(nil), r.subs...)
}
