package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/amqp"
	"tally/internal/core"
)

func TestCheckAndLockThresholds(t *testing.T) {
	eng, alerts, session := newTestEngine(t)
	ctx := context.Background()

	// Entertainment is seeded with a 3000.00 limit. 2500.00 crosses the 80%
	// warning threshold; the extra 500.00 reaches the limit and locks.
	mustRecord(t, eng, session, 250000, "Entertainment", core.Today())
	check, err := eng.Categories.CheckAndLock(ctx, session, "Entertainment")
	require.NoError(t, err)
	require.Equal(t, core.LimitWarn, check.State)
	require.InDelta(t, 250000.0/300000.0, check.Ratio, 1e-9)

	mustRecord(t, eng, session, 50000, "Entertainment", core.Today())
	check, err = eng.Categories.CheckAndLock(ctx, session, "Entertainment")
	require.NoError(t, err)
	require.Equal(t, core.LimitLocked, check.State)

	_, err = eng.Ledger.Record(ctx, session, core.TransactionDraft{
		Amount: core.Money{Cents: 100}, Category: "Entertainment", Date: core.Today(),
	})
	require.ErrorIs(t, err, core.ErrCategoryLocked)

	require.Contains(t, alerts.kinds(), amqp.AlertCategoryWarn)
	require.Contains(t, alerts.kinds(), amqp.AlertCategoryLocked)
}

func TestLockIsSticky(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id := mustRecord(t, eng, session, 300000, "Entertainment", core.Today())

	// recording the limit amount locked the category via the write path
	check, err := eng.Categories.CheckAndLock(ctx, session, "Entertainment")
	require.NoError(t, err)
	require.Equal(t, core.LimitLocked, check.State)

	// removing the spend does not clear the lock
	require.NoError(t, eng.Ledger.SoftDelete(ctx, session, id))
	check, err = eng.Categories.CheckAndLock(ctx, session, "Entertainment")
	require.NoError(t, err)
	require.Equal(t, core.LimitLocked, check.State)

	require.NoError(t, eng.Categories.UnlockAll(ctx, session))
	check, err = eng.Categories.CheckAndLock(ctx, session, "Entertainment")
	require.NoError(t, err)
	require.Equal(t, core.LimitOK, check.State)
}

func TestNoLimitAlwaysOK(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Categories.Create(ctx, session, "Travel", nil))
	mustRecord(t, eng, session, 99999900, "Travel", core.Today())

	check, err := eng.Categories.CheckAndLock(ctx, session, "Travel")
	require.NoError(t, err)
	require.Equal(t, core.LimitOK, check.State)
}

func TestCreateDuplicateCategory(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	err := eng.Categories.Create(ctx, session, "Food", nil)
	require.ErrorIs(t, err, core.ErrCategoryExists)

	err = eng.Categories.Create(ctx, session, "  ", nil)
	require.ErrorIs(t, err, core.ErrEmptyCategory)
}

func TestDeleteCategoryInUse(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	mustRecord(t, eng, session, 1000, "Food", core.Today())
	err := eng.Categories.Delete(ctx, session, "Food")
	require.ErrorIs(t, err, core.ErrCategoryInUse)

	require.NoError(t, eng.Categories.Delete(ctx, session, "Others"))
	_, err = eng.Categories.CheckAndLock(ctx, session, "Others")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetLimit(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Categories.SetLimit(ctx, session, "Food", &core.Money{Cents: 50000}))
	mustRecord(t, eng, session, 50000, "Food", core.Today())

	check, err := eng.Categories.CheckAndLock(ctx, session, "Food")
	require.NoError(t, err)
	require.Equal(t, core.LimitLocked, check.State)

	// clearing the limit does not clear the lock; that needs an unlock
	require.NoError(t, eng.Categories.SetLimit(ctx, session, "Food", nil))
	check, err = eng.Categories.CheckAndLock(ctx, session, "Food")
	require.NoError(t, err)
	require.Equal(t, core.LimitLocked, check.State)

	require.NoError(t, eng.Categories.Unlock(ctx, session, "Food"))
	check, err = eng.Categories.CheckAndLock(ctx, session, "Food")
	require.NoError(t, err)
	require.Equal(t, core.LimitOK, check.State)
}
