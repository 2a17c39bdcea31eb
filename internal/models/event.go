package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/apperrors"
)

// Event kinds. Deposits and withdrawals are external cash flows;
// market updates restate the balance with no flow.
const (
	EventDeposit      = "deposit"
	EventWithdrawal   = "withdrawal"
	EventMarketUpdate = "market_update"
)

// Event is one dated fact about an account: a cash flow or a balance
// restatement. Events are immutable once recorded; corrections are
// modeled as new events. Seq is a monotonically increasing insertion
// counter and breaks ordering ties between events on the same date.
type Event struct {
	Seq              int64           `json:"seq" gorm:"primaryKey;column:seq;autoIncrement"`
	ID               string          `json:"id" gorm:"column:id;type:varchar(255);not null;uniqueIndex"`
	AccountID        string          `json:"account_id" gorm:"column:account_id;type:varchar(255);not null;index"`
	Kind             string          `json:"kind" gorm:"column:kind;type:varchar(20);not null;index"`
	Amount           decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(30,10);not null"`
	ResultingBalance decimal.Decimal `json:"resulting_balance" gorm:"column:resulting_balance;type:decimal(30,10);not null"`
	Date             time.Time       `json:"date" gorm:"column:date;type:date;not null;index"`
	Note             *string         `json:"note" gorm:"column:note;type:text"`
	CreatedAt        time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// Flow returns the external cash flow carried by the event. Market
// updates carry none.
func (e *Event) Flow() decimal.Decimal {
	if e.Kind == EventMarketUpdate {
		return decimal.Zero
	}
	return e.Amount
}

// Validate validates the event data. The amount sign must match the
// kind: deposit >= 0, withdrawal <= 0, market_update == 0.
func (e *Event) Validate() error {
	if e.AccountID == "" {
		return &apperrors.ErrValidation{Field: "account_id", Message: "is required"}
	}
	if e.Date.IsZero() {
		return &apperrors.ErrValidation{Field: "date", Message: "is required"}
	}
	switch e.Kind {
	case EventDeposit:
		if e.Amount.IsNegative() {
			return fmt.Errorf("%w: deposit amount must be >= 0", apperrors.ErrInvalidAmount)
		}
	case EventWithdrawal:
		if e.Amount.IsPositive() {
			return fmt.Errorf("%w: withdrawal amount must be <= 0", apperrors.ErrInvalidAmount)
		}
	case EventMarketUpdate:
		if !e.Amount.IsZero() {
			return fmt.Errorf("%w: market_update amount must be 0", apperrors.ErrInvalidAmount)
		}
	default:
		return &apperrors.ErrValidation{Field: "kind", Message: "must be deposit, withdrawal or market_update"}
	}
	return nil
}

// Day truncates a timestamp to calendar-day granularity in UTC. Events
// and snapshots are keyed by day, never by time-of-day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
