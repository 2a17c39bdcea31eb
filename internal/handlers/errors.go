package handlers

import (
	"errors"
	"net/http"

	"github.com/quangdo/folio/internal/apperrors"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var validation *apperrors.ErrValidation
	var missingRate *apperrors.ErrMissingExchangeRate
	switch {
	case errors.Is(err, apperrors.ErrUnknownAccount):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrBackdatedTooFar),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &missingRate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
