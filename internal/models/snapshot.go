package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quangdo/folio/internal/apperrors"
)

// DailySnapshot is an immutable once-per-day record of the aggregate
// summary, used for historical charts and year-over-year tables. A
// snapshot is never rewritten after creation, even when events are
// later posted retroactively for its date.
type DailySnapshot struct {
	ID          string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Date        time.Time       `json:"date" gorm:"column:date;type:date;not null;uniqueIndex"`
	TotalAssets decimal.Decimal `json:"total_assets" gorm:"column:total_assets;type:decimal(30,10);not null"`
	TotalProfit decimal.Decimal `json:"total_profit" gorm:"column:total_profit;type:decimal(30,10);not null"`
	// ReturnRate is the time-weighted return since inception as of Date.
	ReturnRate decimal.Decimal `json:"return_rate" gorm:"column:return_rate;type:decimal(20,10);not null"`
	Currency   string          `json:"currency" gorm:"column:currency;type:varchar(3);not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the DailySnapshot model
func (DailySnapshot) TableName() string {
	return "daily_snapshots"
}

// Validate validates the snapshot data
func (s *DailySnapshot) Validate() error {
	if s.Date.IsZero() {
		return &apperrors.ErrValidation{Field: "date", Message: "is required"}
	}
	if s.Currency == "" {
		return &apperrors.ErrValidation{Field: "currency", Message: "is required"}
	}
	return nil
}
