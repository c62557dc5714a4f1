package handler

import (
	"errors"
	"net/http"

	domainerr "github.com/cryptofolio/gains-processor/internal/domain/error"
)

// httpStatus maps domain errors onto HTTP status codes
func httpStatus(err error) int {
	switch {
	case errors.Is(err, domainerr.ErrTransactionNotFound),
		errors.Is(err, domainerr.ErrSummaryNotFound),
		errors.Is(err, domainerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerr.ErrInvalidAmount),
		errors.Is(err, domainerr.ErrInvalidTransactionType),
		errors.Is(err, domainerr.ErrInvalidAsset),
		errors.Is(err, domainerr.ErrInvalidTaxYear),
		errors.Is(err, domainerr.ErrInvalidTransactionID),
		errors.Is(err, domainerr.ErrInvalidRequest),
		errors.Is(err, domainerr.ErrConstraintViolation):
		return http.StatusBadRequest
	case errors.Is(err, domainerr.ErrAllocationExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerr.ErrOracleFailure),
		errors.Is(err, domainerr.ErrUnknownAsset):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
