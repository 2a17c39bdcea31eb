package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Window kinds, matching the product's range picker.
const (
	WindowSinceInception = "since_inception"
	WindowYearToDate     = "ytd"
	WindowTrailingYear   = "trailing_year"
	WindowRange          = "range"
)

// Window selects the reporting period for return computations. A zero
// StartDate means "from the first recorded event".
type Window struct {
	Kind      string    `json:"kind"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// SinceInception returns a window covering everything up to asOf.
func SinceInception(asOf time.Time) Window {
	return Window{Kind: WindowSinceInception, EndDate: Day(asOf)}
}

// YearToDate returns a window from January 1st of asOf's year to asOf.
func YearToDate(asOf time.Time) Window {
	start := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return Window{Kind: WindowYearToDate, StartDate: start, EndDate: Day(asOf)}
}

// TrailingYear returns a window covering the calendar year up to asOf.
func TrailingYear(asOf time.Time) Window {
	end := Day(asOf)
	return Window{Kind: WindowTrailingYear, StartDate: end.AddDate(-1, 0, 0), EndDate: end}
}

// Range returns a custom [from, to] window.
func Range(from, to time.Time) Window {
	return Window{Kind: WindowRange, StartDate: Day(from), EndDate: Day(to)}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	if !w.StartDate.IsZero() && d.Before(w.StartDate) {
		return false
	}
	return !d.After(w.EndDate)
}

// TimelinePoint is one point of an account's derived balance timeline:
// the declared balance after an event, together with the event's flow.
type TimelinePoint struct {
	Date    time.Time       `json:"date"`
	Seq     int64           `json:"seq"`
	Balance decimal.Decimal `json:"balance"`
	Flow    decimal.Decimal `json:"flow"`
}

// PeriodReturn is the simple return of one sub-period between two
// consecutive timeline points.
type PeriodReturn struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Return    decimal.Decimal `json:"return"`
}

// CurrencyTotal is the per-currency slice of an aggregate summary.
type CurrencyTotal struct {
	Currency         string          `json:"currency"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	CumulativeProfit decimal.Decimal `json:"cumulative_profit"`
}

// Summary is the aggregate performance view across accounts. Converted
// totals are expressed in Currency; ByCurrency keeps the unconverted
// breakdown. AnnualizedReturn is nil when the window is too short for a
// meaningful extrapolation.
type Summary struct {
	Window             Window                    `json:"window"`
	Currency           string                    `json:"currency"`
	TotalAssets        decimal.Decimal           `json:"total_assets"`
	CumulativeProfit   decimal.Decimal           `json:"cumulative_profit"`
	TimeWeightedReturn decimal.Decimal           `json:"time_weighted_return"`
	AnnualizedReturn   *decimal.Decimal          `json:"annualized_return"`
	ByCurrency         map[string]*CurrencyTotal `json:"by_currency"`
	AsOf               time.Time                 `json:"as_of"`
}

// AccountSummary is the per-account view returned alongside account
// listings: live balance, profit and since-inception return.
type AccountSummary struct {
	Account            *Account         `json:"account"`
	Balance            decimal.Decimal  `json:"balance"`
	CumulativeProfit   decimal.Decimal  `json:"cumulative_profit"`
	TimeWeightedReturn decimal.Decimal  `json:"time_weighted_return"`
	LastEventDate      *time.Time       `json:"last_event_date"`
}
