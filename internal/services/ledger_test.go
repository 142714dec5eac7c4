package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func TestRecordAndMonthlyTotal(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	mustRecord(t, eng, session, 200000, "Food", core.NewDate(2024, 6, 3))
	mustRecord(t, eng, session, 150000, "Transportation", core.NewDate(2024, 6, 15))
	mustRecord(t, eng, session, 99900, "Food", core.NewDate(2024, 7, 1)) // other month

	total, err := eng.Ledger.MonthlyTotal(ctx, session, june, "")
	require.NoError(t, err)
	require.Equal(t, int64(350000), total.Cents)

	food, err := eng.Ledger.MonthlyTotal(ctx, session, june, "Food")
	require.NoError(t, err)
	require.Equal(t, int64(200000), food.Cents)
}

func TestRecordValidation(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Ledger.Record(ctx, session, core.TransactionDraft{
		Amount: core.Money{Cents: 0}, Category: "Food", Date: core.Today(),
	})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = eng.Ledger.Record(ctx, session, core.TransactionDraft{
		Amount: core.Money{Cents: 1000}, Category: "Nope", Date: core.Today(),
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	month := core.MonthOf(core.NewDate(2024, 6, 3))

	id := mustRecord(t, eng, session, 120000, "Food", core.NewDate(2024, 6, 3))

	before, err := eng.Ledger.MonthlyTotal(ctx, session, month, "")
	require.NoError(t, err)

	require.NoError(t, eng.Ledger.SoftDelete(ctx, session, id))
	during, err := eng.Ledger.MonthlyTotal(ctx, session, month, "")
	require.NoError(t, err)
	require.Zero(t, during.Cents)

	// deleting again is a no-op, not an error
	require.NoError(t, eng.Ledger.SoftDelete(ctx, session, id))

	require.NoError(t, eng.Ledger.Restore(ctx, session, id))
	after, err := eng.Ledger.MonthlyTotal(ctx, session, month, "")
	require.NoError(t, err)
	require.Equal(t, before.Cents, after.Cents)

	// restoring a never-deleted transaction is a no-op too
	require.NoError(t, eng.Ledger.Restore(ctx, session, id))
}

func TestPurgeTrash(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	keep := mustRecord(t, eng, session, 10000, "Food", core.NewDate(2024, 6, 3))
	gone := mustRecord(t, eng, session, 20000, "Food", core.NewDate(2024, 6, 4))
	require.NoError(t, eng.Ledger.SoftDelete(ctx, session, gone))

	n, err := eng.Ledger.PurgeTrash(ctx, session)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	trash, err := eng.Ledger.ListTrash(ctx, session)
	require.NoError(t, err)
	require.Empty(t, trash)

	_, err = eng.Ledger.Get(ctx, session, gone)
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = eng.Ledger.Get(ctx, session, keep)
	require.NoError(t, err)
}

func TestTopCategory(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	_, ok, err := eng.Ledger.TopCategory(ctx, session, june)
	require.NoError(t, err)
	require.False(t, ok)

	mustRecord(t, eng, session, 50000, "Shopping", core.NewDate(2024, 6, 1))
	mustRecord(t, eng, session, 50000, "Food", core.NewDate(2024, 6, 2))
	mustRecord(t, eng, session, 10000, "Utilities", core.NewDate(2024, 6, 3))

	top, ok, err := eng.Ledger.TopCategory(ctx, session, june)
	require.NoError(t, err)
	require.True(t, ok)
	// equal totals break lexicographically
	require.Equal(t, "Food", top.Name)
	require.Equal(t, int64(50000), top.Amount.Cents)
}

func TestEditMovesTransaction(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	id := mustRecord(t, eng, session, 30000, "Food", core.NewDate(2024, 6, 3))
	require.NoError(t, eng.Ledger.Edit(ctx, session, id, core.TransactionDraft{
		Amount:   core.Money{Cents: 45000},
		Category: "Shopping",
		Date:     core.NewDate(2024, 6, 5),
	}))

	got, err := eng.Ledger.Get(ctx, session, id)
	require.NoError(t, err)
	require.Equal(t, "Shopping", got.Category)
	require.Equal(t, int64(45000), got.Amount.Cents)

	food, err := eng.Ledger.MonthlyTotal(ctx, session, june, "Food")
	require.NoError(t, err)
	require.Zero(t, food.Cents)

	err = eng.Ledger.Edit(ctx, session, 9999, core.TransactionDraft{
		Amount: core.Money{Cents: 100}, Category: "Food", Date: core.Today(),
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMonthOverviewReflectsWrites(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	mustRecord(t, eng, session, 20000, "Food", core.NewDate(2024, 6, 3))
	ov, err := eng.Ledger.MonthOverview(ctx, session, june)
	require.NoError(t, err)
	require.Equal(t, int64(20000), ov.Total.Cents)

	// a later write invalidates the cached summary
	mustRecord(t, eng, session, 5000, "Food", core.NewDate(2024, 6, 4))
	ov, err = eng.Ledger.MonthOverview(ctx, session, june)
	require.NoError(t, err)
	require.Equal(t, int64(25000), ov.Total.Cents)
	require.Len(t, ov.ByCategory, 1)
	require.Equal(t, "Food", ov.ByCategory[0].Name)
}
