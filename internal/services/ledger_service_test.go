package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdo/folio/internal/apperrors"
	"github.com/quangdo/folio/internal/models"
)

func TestCreateAccountWithInitialDeposit(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", dec("100000"), date(2026, 1, 1))
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)

	events, err := stack.ledger.ListEvents(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventDeposit, events[0].Kind)
	assert.True(t, events[0].Amount.Equal(dec("100000")))
	assert.True(t, events[0].ResultingBalance.Equal(dec("100000")))
	assert.True(t, events[0].Date.Equal(date(2026, 1, 1)))

	balance, err := stack.ledger.CurrentBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100000")))
}

func TestCreateAccountZeroInitialBalance(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Empty", "CNY", decimal.Zero, date(2026, 1, 1))
	require.NoError(t, err)

	events, err := stack.ledger.ListEvents(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	balance, err := stack.ledger.CurrentBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCreateAccountNegativeInitialBalance(t *testing.T) {
	stack := newTestStack(t)

	_, err := stack.ledger.CreateAccount(context.Background(), "Bad", "CNY", dec("-1"), date(2026, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
}

func TestCreateAccountDuplicateName(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", decimal.Zero, date(2026, 1, 1))
	require.NoError(t, err)

	_, err = stack.ledger.CreateAccount(ctx, "Broker A", "CNY", decimal.Zero, date(2026, 1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateName))
}

func TestPostEventUnknownAccount(t *testing.T) {
	stack := newTestStack(t)

	_, err := stack.ledger.PostEvent(context.Background(), "no-such-account", models.EventDeposit, dec("100"), dec("100"), date(2026, 1, 1), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownAccount))
}

func TestPostEventInvalidKind(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", decimal.Zero, date(2026, 1, 1))
	require.NoError(t, err)

	_, err = stack.ledger.PostEvent(ctx, account.ID, "transfer", dec("100"), dec("100"), date(2026, 1, 2), nil)
	require.Error(t, err)
	var validation *apperrors.ErrValidation
	assert.True(t, errors.As(err, &validation))
}

func TestTimelineOrderedByDateNotInsertion(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", decimal.Zero, date(2026, 1, 1))
	require.NoError(t, err)

	// Posted out of order: the later date first, then a backdated event.
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("500"), dec("1500"), date(2026, 1, 10), nil)
	require.NoError(t, err)
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("1000"), dec("1000"), date(2026, 1, 3), nil)
	require.NoError(t, err)

	points, err := stack.ledger.Timeline(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Date.Equal(date(2026, 1, 3)))
	assert.True(t, points[1].Date.Equal(date(2026, 1, 10)))
}

func TestSameDayEventsKeepInsertionOrder(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", decimal.Zero, date(2026, 1, 1))
	require.NoError(t, err)

	first, err := stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("100"), dec("100"), date(2026, 1, 5), nil)
	require.NoError(t, err)
	second, err := stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("50"), dec("150"), date(2026, 1, 5), nil)
	require.NoError(t, err)
	assert.Less(t, first.Seq, second.Seq)

	balance, err := stack.ledger.CurrentBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("150")))
}

func TestBalanceAsOf(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", dec("100"), date(2026, 1, 1))
	require.NoError(t, err)
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventMarketUpdate, decimal.Zero, dec("120"), date(2026, 1, 5), nil)
	require.NoError(t, err)

	balance, err := stack.ledger.BalanceAsOf(ctx, account.ID, date(2026, 1, 3))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))

	balance, err = stack.ledger.BalanceAsOf(ctx, account.ID, date(2026, 1, 5))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("120")))

	// Before the first event there is no balance.
	balance, err = stack.ledger.BalanceAsOf(ctx, account.ID, date(2025, 12, 31))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestNetContributedCapitalIdentity(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", dec("100000"), date(2026, 1, 1))
	require.NoError(t, err)
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventMarketUpdate, decimal.Zero, dec("106000"), date(2026, 2, 1), nil)
	require.NoError(t, err)
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventWithdrawal, dec("-2000"), dec("104000"), date(2026, 2, 15), nil)
	require.NoError(t, err)

	contributed, err := stack.ledger.NetContributedCapital(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, contributed.Equal(dec("98000")))

	balance, err := stack.ledger.CurrentBalance(ctx, account.ID)
	require.NoError(t, err)
	profit, err := stack.returns.CumulativeProfit(ctx, account.ID)
	require.NoError(t, err)

	// net contributed + profit always reconstructs the balance
	assert.True(t, contributed.Add(profit).Equal(balance))
}

func TestPostZeroAmountFlowEvents(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	account, err := stack.ledger.CreateAccount(ctx, "Broker A", "USD", dec("1000"), date(2026, 1, 1))
	require.NoError(t, err)

	// Zero-amount deposits and withdrawals are valid no-op flows.
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventDeposit, decimal.Zero, dec("1000"), date(2026, 1, 5), nil)
	require.NoError(t, err)
	_, err = stack.ledger.PostEvent(ctx, account.ID, models.EventWithdrawal, decimal.Zero, dec("1000"), date(2026, 1, 6), nil)
	require.NoError(t, err)

	contributed, err := stack.ledger.NetContributedCapital(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, contributed.Equal(dec("1000")))
}

func TestBackdateGraceWindow(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	ledger := NewLedgerService(stack.accounts, stack.events, LedgerConfig{BackdateGraceDays: 7})

	account, err := ledger.CreateAccount(ctx, "Broker A", "USD", dec("1000"), date(2026, 1, 20))
	require.NoError(t, err)

	// Within the grace window
	_, err = ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("100"), dec("1100"), date(2026, 1, 14), nil)
	require.NoError(t, err)

	// Too far back
	_, err = ledger.PostEvent(ctx, account.ID, models.EventDeposit, dec("100"), dec("1200"), date(2026, 1, 10), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBackdatedTooFar))
}
