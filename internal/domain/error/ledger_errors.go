// Package error defines domain-specific errors for the feedlot finance backend.
package error

import "errors"

// Ledger and reconciliation domain errors.
var (
	// ErrInvalidMonth is returned when a reference month is not in YYYY-MM format.
	ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

	// ErrInvalidYear is returned when a year filter is out of range.
	ErrInvalidYear = errors.New("invalid year")

	// ErrPeriodAnalysisNotFound is returned when no analysis exists for the month.
	ErrPeriodAnalysisNotFound = errors.New("period analysis not found")

	// ErrTransactionNotFound is returned when a ledger transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSourceReferenceMissing is returned when a source record points to a lot that no longer resolves.
	ErrSourceReferenceMissing = errors.New("source record references a missing lot")

	// ErrSourceDateMissing is returned when a source record has no relevant date.
	ErrSourceDateMissing = errors.New("source record is missing its relevant date")

	// ErrInvalidExpenseAmount is returned when an expense or revenue amount is not positive.
	ErrInvalidExpenseAmount = errors.New("amount must be greater than zero")
)

// LedgerErrorCode defines error codes for ledger and reconciliation errors.
// Format: LDG-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidMonth           LedgerErrorCode = "LDG-010001"
	ErrCodeInvalidYear            LedgerErrorCode = "LDG-010002"
	ErrCodeInvalidLedgerFilter    LedgerErrorCode = "LDG-010003"
	ErrCodeInvalidExpenseInput    LedgerErrorCode = "LDG-010004"
	ErrCodeInvalidExpenseCategory LedgerErrorCode = "LDG-010005"

	// Not found errors (02XXXX)
	ErrCodePeriodAnalysisNotFound LedgerErrorCode = "LDG-020001"
	ErrCodeLedgerLotNotFound      LedgerErrorCode = "LDG-020002"

	// Throttling errors (03XXXX)
	ErrCodeRateLimited LedgerErrorCode = "LDG-030001"

	// Internal errors (99XXXX)
	ErrCodeLedgerInternalError LedgerErrorCode = "LDG-990001"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
