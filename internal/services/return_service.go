package services

import (
	"context"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/models"
	"github.com/quangdo/folio/internal/repositories"
)

// ReturnConfig holds return engine settings
type ReturnConfig struct {
	// MinAnnualizeDays is the shortest window, in calendar days, for
	// which an annualized return is reported. Shorter windows yield an
	// undefined (nil) annualized return instead of a wild extrapolation.
	MinAnnualizeDays int
	// ReportCurrency is the currency aggregate totals are converted to.
	ReportCurrency string
}

// NewReturnConfig creates a return engine configuration from environment variables
func NewReturnConfig() ReturnConfig {
	minDays := 30
	if v := os.Getenv("RETURN_MIN_ANNUALIZE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			minDays = n
		}
	}
	currency := os.Getenv("REPORT_CURRENCY")
	if currency == "" {
		currency = "CNY"
	}
	return ReturnConfig{MinAnnualizeDays: minDays, ReportCurrency: currency}
}

type returnService struct {
	ledger   LedgerService
	accounts repositories.AccountRepository
	rates    RateProvider
	config   ReturnConfig
}

// NewReturnService creates a new return engine over the given ledger
func NewReturnService(ledger LedgerService, accounts repositories.AccountRepository, rates RateProvider, config ReturnConfig) ReturnService {
	return &returnService{
		ledger:   ledger,
		accounts: accounts,
		rates:    rates,
		config:   config,
	}
}

// AccountPeriodReturns partitions the account's timeline into
// sub-periods delimited by every event and computes each sub-period's
// simple return. Sub-periods whose starting balance is zero or negative
// have no defined return and are skipped entirely.
func (s *returnService) AccountPeriodReturns(ctx context.Context, accountID string, window models.Window) ([]models.PeriodReturn, error) {
	points, err := s.ledger.Timeline(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return periodReturns(points, window), nil
}

// AccountTWR chains the account's sub-period returns geometrically over
// the window: TWR = prod(1 + r_i) - 1.
func (s *returnService) AccountTWR(ctx context.Context, accountID string, window models.Window) (decimal.Decimal, error) {
	returns, err := s.AccountPeriodReturns(ctx, accountID, window)
	if err != nil {
		return decimal.Zero, err
	}
	return chainReturns(returns), nil
}

// CumulativeProfit is the capital gain net of the investor's own flows:
// current balance minus net contributed capital. It can be negative.
func (s *returnService) CumulativeProfit(ctx context.Context, accountID string) (decimal.Decimal, error) {
	balance, err := s.ledger.CurrentBalance(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	contributed, err := s.ledger.NetContributedCapital(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Sub(contributed), nil
}

// AccountSummaries returns the live per-account view used by account
// listings: balance, profit and since-inception TWR.
func (s *returnService) AccountSummaries(ctx context.Context, asOf time.Time) ([]*models.AccountSummary, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]*models.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		points, err := s.ledger.Timeline(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		summary := &models.AccountSummary{Account: account}
		if len(points) > 0 {
			last := points[len(points)-1]
			summary.Balance = last.Balance
			lastDate := last.Date
			summary.LastEventDate = &lastDate
		}
		contributed, err := s.ledger.NetContributedCapital(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		summary.CumulativeProfit = summary.Balance.Sub(contributed)
		summary.TimeWeightedReturn = chainReturns(periodReturns(points, models.SinceInception(asOf)))
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Annualize converts a window TWR to a 365-day basis:
// (1 + TWR)^(365/days) - 1. Windows shorter than the configured minimum
// report an undefined (nil) annualized return.
func (s *returnService) Annualize(twr decimal.Decimal, days int) *decimal.Decimal {
	if days <= 0 || days < s.config.MinAnnualizeDays {
		return nil
	}
	base, _ := twr.Add(decimal.NewFromInt(1)).Float64()
	if base <= 0 {
		return nil
	}
	annualized := decimal.NewFromFloat(math.Pow(base, 365.0/float64(days)) - 1)
	return &annualized
}

// ComputeSummary aggregates all accounts over the window: total assets
// and cumulative profit per currency plus a converted total, and the
// aggregate TWR as a value-weighted chain across accounts.
func (s *returnService) ComputeSummary(ctx context.Context, window models.Window) (*models.Summary, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.Summary{
		Window:     window,
		Currency:   s.config.ReportCurrency,
		ByCurrency: make(map[string]*models.CurrencyTotal),
		AsOf:       window.EndDate,
	}

	type accountState struct {
		account  *models.Account
		points   []models.TimelinePoint
		toReport decimal.Decimal // exchange rate into the report currency
	}
	states := make([]*accountState, 0, len(accounts))

	for _, account := range accounts {
		points, err := s.ledger.TimelineUpTo(ctx, account.ID, window.EndDate)
		if err != nil {
			return nil, err
		}
		contributed, err := s.ledger.NetContributedCapitalUpTo(ctx, account.ID, window.EndDate)
		if err != nil {
			return nil, err
		}

		balance := decimal.Zero
		if len(points) > 0 {
			balance = points[len(points)-1].Balance
		}
		profit := balance.Sub(contributed)

		byCur, ok := summary.ByCurrency[account.Currency]
		if !ok {
			byCur = &models.CurrencyTotal{Currency: account.Currency}
			summary.ByCurrency[account.Currency] = byCur
		}
		byCur.TotalAssets = byCur.TotalAssets.Add(balance)
		byCur.CumulativeProfit = byCur.CumulativeProfit.Add(profit)

		// No cross-currency conversion is invented internally: a missing
		// rate fails the whole aggregation rather than skipping accounts.
		rate, err := s.rates.Rate(ctx, account.Currency, s.config.ReportCurrency)
		if err != nil {
			return nil, err
		}

		summary.TotalAssets = summary.TotalAssets.Add(balance.Mul(rate))
		summary.CumulativeProfit = summary.CumulativeProfit.Add(profit.Mul(rate))
		states = append(states, &accountState{account: account, points: points, toReport: rate})
	}

	// Aggregate TWR: boundaries at every event date of any account, each
	// period's contribution weighted by the account's starting balance
	// relative to the total starting balance of accounts active then.
	timelines := make([][]models.TimelinePoint, len(states))
	weights := make([]decimal.Decimal, len(states))
	for i, st := range states {
		timelines[i] = st.points
		weights[i] = st.toReport
	}
	twr, start := aggregateTWR(timelines, weights, window)
	summary.TimeWeightedReturn = twr

	if !start.IsZero() {
		days := int(window.EndDate.Sub(start).Hours() / 24)
		summary.AnnualizedReturn = s.Annualize(twr, days)
	}
	return summary, nil
}

// periodReturns computes the defined sub-period returns of a timeline
// inside a window. The window start snaps to the first event at or after
// it; balances are never interpolated.
func periodReturns(points []models.TimelinePoint, window models.Window) []models.PeriodReturn {
	start := -1
	for i, p := range points {
		if window.StartDate.IsZero() || !p.Date.Before(window.StartDate) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var returns []models.PeriodReturn
	base := points[start]
	for _, p := range points[start+1:] {
		if !window.Contains(p.Date) {
			break
		}
		if base.Balance.IsPositive() {
			r := p.Balance.Sub(p.Flow).Sub(base.Balance).Div(base.Balance)
			returns = append(returns, models.PeriodReturn{
				StartDate: base.Date,
				EndDate:   p.Date,
				Return:    r,
			})
		}
		base = p
	}
	return returns
}

// chainReturns compounds sub-period returns geometrically.
func chainReturns(returns []models.PeriodReturn) decimal.Decimal {
	one := decimal.NewFromInt(1)
	chained := one
	for _, r := range returns {
		chained = chained.Mul(one.Add(r.Return))
	}
	return chained.Sub(one)
}

// aggregateTWR chains value-weighted period returns across several
// timelines. rateToReport converts each timeline's balances into a
// common currency so weights are comparable. It returns the chained TWR
// and the effective (snapped) window start date.
func aggregateTWR(timelines [][]models.TimelinePoint, rateToReport []decimal.Decimal, window models.Window) (decimal.Decimal, time.Time) {
	boundarySet := make(map[time.Time]struct{})
	var start time.Time
	for _, points := range timelines {
		for _, p := range points {
			if !window.Contains(p.Date) {
				continue
			}
			boundarySet[p.Date] = struct{}{}
			if start.IsZero() || p.Date.Before(start) {
				start = p.Date
			}
		}
	}
	if len(boundarySet) == 0 {
		return decimal.Zero, start
	}

	boundaries := make([]time.Time, 0, len(boundarySet))
	for d := range boundarySet {
		boundaries = append(boundaries, d)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })

	one := decimal.NewFromInt(1)
	chained := one
	for i := 1; i < len(boundaries); i++ {
		d0, d1 := boundaries[i-1], boundaries[i]

		periodSum := decimal.Zero
		totalBase := decimal.Zero
		for j, points := range timelines {
			base := balanceAt(points, d0)
			if !base.IsPositive() {
				continue
			}
			end := balanceAt(points, d1)
			flow := flowsBetween(points, d0, d1)
			r := end.Sub(flow).Sub(base).Div(base)

			weighted := base.Mul(rateToReport[j])
			periodSum = periodSum.Add(weighted.Mul(r))
			totalBase = totalBase.Add(weighted)
		}
		if totalBase.IsPositive() {
			chained = chained.Mul(one.Add(periodSum.Div(totalBase)))
		}
	}
	return chained.Sub(one), start
}

// balanceAt returns the last declared balance at or before d, or zero.
func balanceAt(points []models.TimelinePoint, d time.Time) decimal.Decimal {
	balance := decimal.Zero
	for _, p := range points {
		if p.Date.After(d) {
			break
		}
		balance = p.Balance
	}
	return balance
}

// flowsBetween sums external flows dated in (d0, d1].
func flowsBetween(points []models.TimelinePoint, d0, d1 time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, p := range points {
		if !p.Date.After(d0) {
			continue
		}
		if p.Date.After(d1) {
			break
		}
		total = total.Add(p.Flow)
	}
	return total
}
