package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdo/folio/internal/models"
)

func TestRunDailyIdempotent(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	seedScenarioAccount(t, stack)

	today := date(2026, 3, 1)
	require.NoError(t, stack.snapshot.RunDaily(ctx, today))
	require.NoError(t, stack.snapshot.RunDaily(ctx, today))

	history, err := stack.snapshot.History(ctx, today, today)
	require.NoError(t, err)
	require.Len(t, history, 1)

	s := history[0]
	assert.True(t, s.TotalAssets.Equal(dec("104000")), "got %s", s.TotalAssets)
	assert.True(t, s.TotalProfit.Equal(dec("4000")), "got %s", s.TotalProfit)
	assert.Equal(t, "CNY", s.Currency)
}

func TestSnapshotNotRewrittenByBackdatedEvents(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	account := seedScenarioAccount(t, stack)

	today := date(2026, 3, 1)
	require.NoError(t, stack.snapshot.RunDaily(ctx, today))

	before, err := stack.snapshots.GetByDate(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, before)

	// A backdated deposit changes what a fresh computation would report,
	// but the recorded snapshot stays as taken.
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("50000"), dec("150000"), date(2026, 1, 15), nil)
	require.NoError(t, err)
	require.NoError(t, stack.snapshot.RunDaily(ctx, today))

	after, err := stack.snapshots.GetByDate(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.True(t, before.TotalAssets.Equal(after.TotalAssets))
	assert.True(t, before.TotalProfit.Equal(after.TotalProfit))
	assert.True(t, before.ReturnRate.Equal(after.ReturnRate))
}

func TestRunDailyNewDayTakesNewSnapshot(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	account := seedScenarioAccount(t, stack)

	require.NoError(t, stack.snapshot.RunDaily(ctx, date(2026, 3, 1)))

	_, err := stack.ledger.PostEvent(ctx, account.ID, models.EventMarketUpdate, decimal.Zero, dec("110000"), date(2026, 3, 2), nil)
	require.NoError(t, err)
	require.NoError(t, stack.snapshot.RunDaily(ctx, date(2026, 3, 2)))

	history, err := stack.snapshot.History(ctx, date(2026, 3, 1), date(2026, 3, 2))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Date.Before(history[1].Date))
	assert.True(t, history[1].TotalAssets.Equal(dec("110000")))
}

func TestHistoryRange(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()
	seedScenarioAccount(t, stack)

	for day := 1; day <= 3; day++ {
		require.NoError(t, stack.snapshot.RunDaily(ctx, date(2026, 3, day)))
	}

	history, err := stack.snapshot.History(ctx, date(2026, 3, 2), date(2026, 3, 3))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, models.Day(history[0].Date).Equal(date(2026, 3, 2)))
	assert.True(t, models.Day(history[1].Date).Equal(date(2026, 3, 3)))
}
