package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbm "redcreativa/internal/models/db_models"
)

func TestBillingRepository_LockTransactionForUpdate(t *testing.T) {
	db, rec := newDryRunDB(t)
	id := uuid.New()

	_, err := NewBillingRepository(db).LockTransaction(context.Background(), id)
	require.NoError(t, err)

	stmts := rec.all()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "id = $1")
	assert.Contains(t, stmts[0].SQL, "FOR UPDATE")
	assert.Equal(t, id, stmts[0].Vars[0])
}

func TestBillingRepository_ActiveSubscriptionEnd(t *testing.T) {
	db, rec := newDryRunDB(t)
	account := uuid.New()
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	_, err := NewBillingRepository(db).ActiveSubscriptionEnd(context.Background(), account, now)
	require.NoError(t, err)

	stmts := rec.all()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].SQL, "account_id = $1 AND status = $2 AND ends_at > $3")
	assert.Contains(t, stmts[0].SQL, "ORDER BY ends_at DESC")
	assert.Equal(t, []interface{}{account, dbm.SubStatusActive, now.Unix()}, stmts[0].Vars[:3])
}

func TestBillingRepository_CancelOnlyActive(t *testing.T) {
	db, rec := newDryRunDB(t)
	account := uuid.New()
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, NewBillingRepository(db).CancelActiveSubscriptions(context.Background(), account, at))

	stmts := rec.all()
	require.Len(t, stmts, 1)
	sql := stmts[0].SQL
	assert.Contains(t, sql, "UPDATE")
	assert.Contains(t, sql, `"status"=`)
	assert.Contains(t, sql, `"canceled_at"=`)
	assert.Contains(t, sql, `"auto_renew"=`)
	assert.Contains(t, sql, "account_id = $")
	assert.Contains(t, stmts[0].Vars, dbm.SubStatusCanceled)
	assert.Contains(t, stmts[0].Vars, dbm.SubStatusActive)
	assert.Contains(t, stmts[0].Vars, at.Unix())
	assert.Contains(t, stmts[0].Vars, account)
}
