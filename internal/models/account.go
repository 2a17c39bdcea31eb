package models

import (
	"regexp"
	"time"

	"github.com/quangdo/folio/internal/apperrors"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Account identifies one pool of capital. The currency is fixed once the
// first event is recorded; mixing currencies inside one account is not
// allowed.
type Account struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	Name      string    `json:"name" gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	Currency  string    `json:"currency" gorm:"column:currency;type:varchar(3);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// Validate validates the account data
func (a *Account) Validate() error {
	if a.Name == "" {
		return &apperrors.ErrValidation{Field: "name", Message: "is required"}
	}
	if !currencyCodeRe.MatchString(a.Currency) {
		return &apperrors.ErrValidation{Field: "currency", Message: "must be a 3-letter uppercase code"}
	}
	return nil
}
