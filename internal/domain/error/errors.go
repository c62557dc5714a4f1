package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount          = 4001
	CodeInvalidTransactionType = 4002
	CodeInvalidAsset           = 4003
	CodeInvalidTaxYear         = 4004
	CodeConstraintViolation    = 4005
	CodeAllocationExceeded     = 4220
	CodeTransactionNotFound    = 4040
	CodeSummaryNotFound        = 4041

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodeOracleFailure  = 5020
)

// Base error types
var (
	// ErrAllocationExceeded is returned when a disposal amount exceeds all open lots for the asset
	ErrAllocationExceeded = errors.New("disposal exceeds available lots")

	// ErrOracleFailure is returned when a price or FX lookup fails; it aborts the whole pass
	ErrOracleFailure = errors.New("oracle lookup failed")

	// ErrUnknownAsset is returned when an asset has no external price-source mapping
	ErrUnknownAsset = errors.New("no price-source mapping for asset")

	// ErrInvalidAmount is returned when an amount is negative or not parseable
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionType is returned when the transaction type is not one of the allowed values
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidAsset is returned when a required asset symbol is empty
	ErrInvalidAsset = errors.New("asset symbol cannot be empty")

	// ErrInvalidTaxYear is returned when the requested tax year is not a plausible year
	ErrInvalidTaxYear = errors.New("invalid tax year")

	// ErrInvalidTransactionID is returned when the transaction ID is zero or unknown format
	ErrInvalidTransactionID = errors.New("invalid transaction ID")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSummaryNotFound is returned when no gains summary exists for the requested year
	ErrSummaryNotFound = errors.New("gains summary not found")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns the numeric API code for a domain error
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidTransactionType):
		return CodeInvalidTransactionType
	case errors.Is(err, ErrInvalidAsset):
		return CodeInvalidAsset
	case errors.Is(err, ErrInvalidTaxYear):
		return CodeInvalidTaxYear
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrAllocationExceeded):
		return CodeAllocationExceeded
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, ErrNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrSummaryNotFound):
		return CodeSummaryNotFound
	case errors.Is(err, ErrOracleFailure), errors.Is(err, ErrUnknownAsset):
		return CodeOracleFailure
	default:
		return CodeInternalServer
	}
}

// WrapError wraps an error with additional context while preserving the error chain
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
