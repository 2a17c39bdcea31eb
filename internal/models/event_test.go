package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdo/folio/internal/apperrors"
)

func TestEventValidate(t *testing.T) {
	base := func() *Event {
		return &Event{
			AccountID:        "acc-1",
			Kind:             EventDeposit,
			Amount:           decimal.NewFromInt(1000),
			ResultingBalance: decimal.NewFromInt(1000),
			Date:             time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("valid deposit", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("deposit amount must be positive", func(t *testing.T) {
		e := base()
		e.Amount = decimal.NewFromInt(-5)
		err := e.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	})

	t.Run("zero-amount deposit allowed", func(t *testing.T) {
		e := base()
		e.Amount = decimal.Zero
		require.NoError(t, e.Validate())
	})

	t.Run("withdrawal amount must not be positive", func(t *testing.T) {
		e := base()
		e.Kind = EventWithdrawal
		e.Amount = decimal.NewFromInt(200)
		err := e.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	})

	t.Run("zero-amount withdrawal allowed", func(t *testing.T) {
		e := base()
		e.Kind = EventWithdrawal
		e.Amount = decimal.Zero
		require.NoError(t, e.Validate())
	})

	t.Run("market update carries no flow amount", func(t *testing.T) {
		e := base()
		e.Kind = EventMarketUpdate
		e.Amount = decimal.Zero
		e.ResultingBalance = decimal.NewFromInt(950)
		require.NoError(t, e.Validate())

		e.Amount = decimal.NewFromInt(10)
		assert.Error(t, e.Validate())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		e := base()
		e.Kind = "transfer"
		assert.Error(t, e.Validate())
	})

	t.Run("account id required", func(t *testing.T) {
		e := base()
		e.AccountID = ""
		assert.Error(t, e.Validate())
	})

	t.Run("date required", func(t *testing.T) {
		e := base()
		e.Date = time.Time{}
		assert.Error(t, e.Validate())
	})
}

func TestEventFlow(t *testing.T) {
	deposit := &Event{Kind: EventDeposit, Amount: decimal.NewFromInt(500)}
	assert.True(t, deposit.Flow().Equal(decimal.NewFromInt(500)))

	withdrawal := &Event{Kind: EventWithdrawal, Amount: decimal.NewFromInt(-200)}
	assert.True(t, withdrawal.Flow().Equal(decimal.NewFromInt(-200)))

	// Market updates are pure valuation changes, not investor flows.
	update := &Event{Kind: EventMarketUpdate}
	assert.True(t, update.Flow().IsZero())
}

func TestDay(t *testing.T) {
	d := Day(time.Date(2026, 3, 15, 18, 42, 11, 500, time.FixedZone("JST", 9*3600)))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d)
}

func TestAccountValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a := &Account{Name: "Broker A", Currency: "USD"}
		require.NoError(t, a.Validate())
	})

	t.Run("name required", func(t *testing.T) {
		a := &Account{Currency: "USD"}
		assert.Error(t, a.Validate())
	})

	t.Run("currency must be a 3-letter code", func(t *testing.T) {
		for _, currency := range []string{"", "usd", "US", "USDT"} {
			a := &Account{Name: "Broker A", Currency: currency}
			assert.Error(t, a.Validate(), "currency %q should be rejected", currency)
		}
	})
}
