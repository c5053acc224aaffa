package error

import "errors"

// Alert delivery errors.
var (
	// ErrUnknownAlertKind is returned when an alert names a template that does not exist.
	ErrUnknownAlertKind = errors.New("unknown alert kind")

	// ErrAlertRejected is returned when the provider refuses a message for good.
	ErrAlertRejected = errors.New("alert rejected by provider")
)

// AlertErrorCode defines error codes for alert errors.
// Format: ALR-XXYYYY where XX is category and YYYY is specific error.
type AlertErrorCode string

const (
	// Outbox errors (01XXXX)
	ErrCodeAlertQueueFailed AlertErrorCode = "ALR-010001"

	// Delivery errors (02XXXX)
	ErrCodeAlertPermanentFailure AlertErrorCode = "ALR-020001"
	ErrCodeAlertTemporaryFailure AlertErrorCode = "ALR-020002"

	// Template errors (03XXXX)
	ErrCodeAlertTemplate AlertErrorCode = "ALR-030001"
)

// AlertError represents an alert error with code and message.
type AlertError struct {
	Code    AlertErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AlertError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AlertError) Unwrap() error {
	return e.Err
}

// Permanent reports whether retrying cannot help.
func (e *AlertError) Permanent() bool {
	return e.Code == ErrCodeAlertPermanentFailure || e.Code == ErrCodeAlertTemplate
}

// NewAlertError creates a new AlertError with the given code and message.
func NewAlertError(code AlertErrorCode, message string, err error) *AlertError {
	return &AlertError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
