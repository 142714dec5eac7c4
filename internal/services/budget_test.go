package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func TestBudgetStatusEndToEnd(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	require.NoError(t, eng.Budgets.Set(ctx, session, june, core.Money{Cents: 500000}))
	mustRecord(t, eng, session, 200000, "Food", core.NewDate(2024, 6, 3))
	mustRecord(t, eng, session, 150000, "Transportation", core.NewDate(2024, 6, 15))

	status, err := eng.Budgets.Status(ctx, session, june)
	require.NoError(t, err)
	require.True(t, status.Set)
	require.Equal(t, int64(500000), status.Budget.Cents)
	require.Equal(t, int64(350000), status.Spent.Cents)
	require.Equal(t, int64(150000), status.Savings.Cents)
	require.InDelta(t, 0.7, status.Ratio, 1e-9)
}

func TestBudgetStatusNotSet(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	mustRecord(t, eng, session, 10000, "Food", core.NewDate(2024, 6, 3))

	status, err := eng.Budgets.Status(ctx, session, june)
	require.NoError(t, err)
	require.False(t, status.Set)
	require.Equal(t, int64(10000), status.Spent.Cents)
}

func TestBudgetSetValidation(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	err := eng.Budgets.Set(ctx, session, june, core.Money{Cents: -1})
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	// upsert overwrites
	require.NoError(t, eng.Budgets.Set(ctx, session, june, core.Money{Cents: 100000}))
	require.NoError(t, eng.Budgets.Set(ctx, session, june, core.Money{Cents: 200000}))

	history, err := eng.Budgets.History(ctx, session)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, int64(200000), history[0].Amount.Cents)
}
