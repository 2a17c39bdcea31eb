package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/models"
)

// LedgerService turns an account's append-only event sequence into a
// trustworthy balance timeline, and accepts new events with consistency
// checks. Event posting for one account is serialized; reads are pure
// and may run concurrently.
type LedgerService interface {
	CreateAccount(ctx context.Context, name, currency string, initialBalance decimal.Decimal, date time.Time) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	PostEvent(ctx context.Context, accountID, kind string, amount, resultingBalance decimal.Decimal, date time.Time, note *string) (*models.Event, error)
	ListEvents(ctx context.Context, accountID string) ([]*models.Event, error)

	CurrentBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
	BalanceAsOf(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error)
	NetContributedCapital(ctx context.Context, accountID string) (decimal.Decimal, error)
	NetContributedCapitalUpTo(ctx context.Context, accountID string, cutoff time.Time) (decimal.Decimal, error)

	Timeline(ctx context.Context, accountID string) ([]models.TimelinePoint, error)
	TimelineUpTo(ctx context.Context, accountID string, cutoff time.Time) ([]models.TimelinePoint, error)
}

// ReturnService computes performance metrics that are invariant to the
// timing and size of cash flows. It is stateless: the same ledger state
// always yields identical output.
type ReturnService interface {
	AccountPeriodReturns(ctx context.Context, accountID string, window models.Window) ([]models.PeriodReturn, error)
	AccountTWR(ctx context.Context, accountID string, window models.Window) (decimal.Decimal, error)
	CumulativeProfit(ctx context.Context, accountID string) (decimal.Decimal, error)
	AccountSummaries(ctx context.Context, asOf time.Time) ([]*models.AccountSummary, error)
	ComputeSummary(ctx context.Context, window models.Window) (*models.Summary, error)
	Annualize(twr decimal.Decimal, days int) *decimal.Decimal
}

// SnapshotService captures one immutable aggregate snapshot per calendar
// day and serves the snapshot history for charting.
type SnapshotService interface {
	RunDaily(ctx context.Context, today time.Time) error
	History(ctx context.Context, from, to time.Time) ([]*models.DailySnapshot, error)
}

// RateProvider supplies exchange rates for cross-currency aggregation.
// Implementations must fail with apperrors.ErrMissingExchangeRate when a
// pair is unknown; the engine never invents a conversion.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}
