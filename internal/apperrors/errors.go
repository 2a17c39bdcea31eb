package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrUnknownAccount is returned when an operation references an
	// account id that does not exist.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrDuplicateName is returned when creating an account whose name
	// is already taken.
	ErrDuplicateName = errors.New("account name already exists")

	// ErrInvalidAmount is returned when an event's amount sign does not
	// match its kind (deposit >= 0, withdrawal <= 0, market_update == 0).
	ErrInvalidAmount = errors.New("amount sign does not match event kind")

	// ErrBackdatedTooFar is returned when an event is dated before the
	// account's latest event by more than the configured grace window.
	ErrBackdatedTooFar = errors.New("event date exceeds backdating grace window")
)

// ErrValidation reports a malformed input field. Validation failures are
// rejected before any state change.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrMissingExchangeRate reports that a cross-currency aggregation needed
// a rate that the configured provider does not supply. Accounts are never
// silently skipped.
type ErrMissingExchangeRate struct {
	From string
	To   string
}

func (e *ErrMissingExchangeRate) Error() string {
	return fmt.Sprintf("no exchange rate from %s to %s", e.From, e.To)
}
