package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func newGoal(target, current int64) core.Goal {
	return core.Goal{
		Name:       "vacation",
		Target:     core.Money{Cents: target},
		Current:    core.Money{Cents: current},
		TargetDate: core.NewDate(2025, 12, 31),
	}
}

func TestGoalContributionBoundary(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 0))
	require.NoError(t, err)

	g, err := eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 80000}, false)
	require.NoError(t, err)
	require.Equal(t, int64(80000), g.Current.Cents)
	require.False(t, g.Completed)

	// the contribution is mirrored in the ledger as a synthetic entry
	month := core.CurrentMonth()
	txs, err := eng.Ledger.ListByMonth(ctx, session, month)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, core.KindGoal, txs[0].Kind)
	require.Equal(t, core.GoalCategory, txs[0].Category)
	require.Equal(t, int64(80000), txs[0].Amount.Cents)
	require.Equal(t, "vacation", txs[0].Description)

	// overshoot needs an explicit override
	_, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 30000}, false)
	require.ErrorIs(t, err, core.ErrConfirmationRequired)

	g, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 30000}, true)
	require.NoError(t, err)
	require.Equal(t, int64(110000), g.Current.Cents)
	// completion stays a separate explicit action
	require.False(t, g.Completed)
}

func TestGoalContributionExactTargetStaysOpen(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 0))
	require.NoError(t, err)

	g, err := eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 100000}, false)
	require.NoError(t, err)
	require.Equal(t, int64(100000), g.Current.Cents)
	require.False(t, g.Completed)
}

func TestGoalUpdateAfterOvershoot(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 0))
	require.NoError(t, err)
	_, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 110000}, true)
	require.NoError(t, err)

	g, err := eng.Goals.Get(ctx, session, id)
	require.NoError(t, err)
	g.Name = "round-the-world trip"

	// a rename on an overshot goal needs the same confirmation
	err = eng.Goals.Update(ctx, session, g, false)
	require.ErrorIs(t, err, core.ErrConfirmationRequired)

	require.NoError(t, eng.Goals.Update(ctx, session, g, true))
	got, err := eng.Goals.Get(ctx, session, id)
	require.NoError(t, err)
	require.Equal(t, "round-the-world trip", got.Name)
	require.Equal(t, int64(110000), got.Current.Cents)

	// override does not waive the other validations
	g.TargetDate = core.Date{}
	err = eng.Goals.Update(ctx, session, g, true)
	require.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestGoalContributionRollsBackAsAWhole(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 90000))
	require.NoError(t, err)

	_, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 20000}, false)
	require.ErrorIs(t, err, core.ErrConfirmationRequired)

	// neither the goal nor the ledger moved
	g, err := eng.Goals.Get(ctx, session, id)
	require.NoError(t, err)
	require.Equal(t, int64(90000), g.Current.Cents)

	txs, err := eng.Ledger.ListByMonth(ctx, session, core.CurrentMonth())
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestGoalContributionValidation(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 0))
	require.NoError(t, err)

	_, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: 0}, false)
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = eng.Goals.Contribute(ctx, session, id, core.Money{Cents: -500}, false)
	require.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = eng.Goals.Contribute(ctx, session, 9999, core.Money{Cents: 500}, false)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGoalCreateValidation(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Goals.Create(ctx, session, newGoal(0, 0))
	require.ErrorIs(t, err, core.ErrInvalidTarget)

	_, err = eng.Goals.Create(ctx, session, newGoal(100000, 150000))
	require.ErrorIs(t, err, core.ErrTargetExceeded)

	g := newGoal(100000, 0)
	g.Name = ""
	_, err = eng.Goals.Create(ctx, session, g)
	require.ErrorIs(t, err, core.ErrEmptyName)
}

func TestGoalCompleteAndDelete(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	id, err := eng.Goals.Create(ctx, session, newGoal(100000, 0))
	require.NoError(t, err)

	require.NoError(t, eng.Goals.Complete(ctx, session, id))
	g, err := eng.Goals.Get(ctx, session, id)
	require.NoError(t, err)
	require.True(t, g.Completed)

	require.NoError(t, eng.Goals.Delete(ctx, session, id))
	_, err = eng.Goals.Get(ctx, session, id)
	require.ErrorIs(t, err, core.ErrNotFound)
}
