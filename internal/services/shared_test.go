package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tally/internal/core"
)

func newSharedDraft(cents int64, names ...string) SharedDraft {
	participants := make([]core.Participant, len(names))
	for i, n := range names {
		participants[i] = core.Participant{Name: n}
	}
	return SharedDraft{
		Amount:       core.Money{Cents: cents},
		Category:     "Food",
		Date:         core.NewDate(2024, 6, 10),
		Description:  "dinner",
		Participants: participants,
	}
}

func TestSharedCreateSplitSumsToTotal(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	txID, err := eng.Shared.Create(ctx, session, newSharedDraft(10000, "bob", "carol", "dave"))
	require.NoError(t, err)

	shares, err := eng.Shared.Details(ctx, session, txID)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	var sum int64
	for _, sh := range shares {
		sum += sh.Owed.Cents
		require.False(t, sh.Paid)
	}
	require.Equal(t, int64(10000), sum)
	// remainder cent goes to the first participant
	require.Equal(t, int64(3334), shares[0].Owed.Cents)
	require.Equal(t, "bob", shares[0].Participant)

	tx, err := eng.Ledger.Get(ctx, session, txID)
	require.NoError(t, err)
	require.Equal(t, int64(10000), tx.Amount.Cents)
	require.Equal(t, core.KindSpend, tx.Kind)
}

func TestSharedCreateValidation(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	d := newSharedDraft(10000)
	_, err := eng.Shared.Create(ctx, session, d)
	require.ErrorIs(t, err, core.ErrEmptyParticipants)

	d = newSharedDraft(-100, "bob")
	_, err = eng.Shared.Create(ctx, session, d)
	require.ErrorIs(t, err, core.ErrInvalidAmount)

	d = newSharedDraft(10000, "bob")
	d.Category = "Nope"
	_, err = eng.Shared.Create(ctx, session, d)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSharedCreateLockedCategory(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	// lock Entertainment by spending its full seeded limit
	mustRecord(t, eng, session, 300000, "Entertainment", core.Today())

	d := newSharedDraft(10000, "bob")
	d.Category = "Entertainment"
	_, err := eng.Shared.Create(ctx, session, d)
	require.ErrorIs(t, err, core.ErrCategoryLocked)
}

func TestMarkPaidIdempotent(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	txID, err := eng.Shared.Create(ctx, session, newSharedDraft(9000, "bob", "carol"))
	require.NoError(t, err)

	require.NoError(t, eng.Shared.MarkPaid(ctx, session, txID, "bob"))
	require.NoError(t, eng.Shared.MarkPaid(ctx, session, txID, "bob"))

	// exactly one reimbursement credit, for bob's share
	txs, err := eng.Ledger.ListByMonth(ctx, session, core.CurrentMonth())
	require.NoError(t, err)
	var credits []core.Transaction
	for _, tx := range txs {
		if tx.Kind == core.KindReimbursement {
			credits = append(credits, tx)
		}
	}
	require.Len(t, credits, 1)
	require.Equal(t, int64(-4500), credits[0].Amount.Cents)
	require.Equal(t, core.ReimbursementCategory, credits[0].Category)

	shares, err := eng.Shared.Details(ctx, session, txID)
	require.NoError(t, err)
	for _, sh := range shares {
		if sh.Participant == "bob" {
			require.True(t, sh.Paid)
		} else {
			require.False(t, sh.Paid)
		}
	}

	err = eng.Shared.MarkPaid(ctx, session, txID, "nobody")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSharedDeleteCascades(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()
	june := core.Month{Year: 2024, Month: 6}

	txID, err := eng.Shared.Create(ctx, session, newSharedDraft(10000, "bob"))
	require.NoError(t, err)

	require.NoError(t, eng.Shared.Delete(ctx, session, txID))

	_, err = eng.Shared.Details(ctx, session, txID)
	require.ErrorIs(t, err, core.ErrNotFound)
	_, err = eng.Ledger.Get(ctx, session, txID)
	require.ErrorIs(t, err, core.ErrNotFound)

	total, err := eng.Ledger.MonthlyTotal(ctx, session, june, "")
	require.NoError(t, err)
	require.Zero(t, total.Cents)

	err = eng.Shared.Delete(ctx, session, txID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestSharedList(t *testing.T) {
	eng, _, session := newTestEngine(t)
	ctx := context.Background()

	txID, err := eng.Shared.Create(ctx, session, newSharedDraft(6000, "bob", "carol"))
	require.NoError(t, err)
	require.NoError(t, eng.Shared.MarkPaid(ctx, session, txID, "carol"))

	overviews, err := eng.Shared.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, overviews, 1)
	require.Equal(t, txID, overviews[0].TransactionID)
	require.Equal(t, 2, overviews[0].Participants)
	require.Equal(t, 1, overviews[0].PaidCount)
}
