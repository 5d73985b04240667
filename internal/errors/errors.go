package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application.
// The record grammar errors are raised per record at parse time.
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrRateLimited      = new(ErrCodeRateLimited, "too many requests")

	ErrMalformedRecord = new(ErrCodeMalformedRecord, "malformed customer record")
	ErrMalformedRun    = new(ErrCodeMalformedRun, "malformed delivery run")
	ErrInvalidBalance  = new(ErrCodeInvalidBalance, "invalid previous balance")
	ErrInvalidMonth    = new(ErrCodeInvalidMonth, "invalid billing period")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:       http.StatusInternalServerError,
		ErrNotFound:         http.StatusNotFound,
		ErrValidation:       http.StatusBadRequest,
		ErrInvalidOperation: http.StatusBadRequest,
		ErrSystem:           http.StatusInternalServerError,
		ErrRateLimited:      http.StatusTooManyRequests,
		ErrMalformedRecord:  http.StatusBadRequest,
		ErrMalformedRun:     http.StatusBadRequest,
		ErrInvalidBalance:   http.StatusBadRequest,
		ErrInvalidMonth:     http.StatusBadRequest,
	}

	// record errors in the order they are checked while parsing
	recordErrors = []error{ErrMalformedRecord, ErrMalformedRun, ErrInvalidBalance, ErrInvalidMonth}
)

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeMalformedRecord  = "malformed_record"
	ErrCodeMalformedRun     = "malformed_run"
	ErrCodeInvalidBalance   = "invalid_balance"
	ErrCodeInvalidMonth     = "invalid_month"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsMalformedRecord(err error) bool {
	return errors.Is(err, ErrMalformedRecord)
}

func IsMalformedRun(err error) bool {
	return errors.Is(err, ErrMalformedRun)
}

func IsInvalidBalance(err error) bool {
	return errors.Is(err, ErrInvalidBalance)
}

func IsInvalidMonth(err error) bool {
	return errors.Is(err, ErrInvalidMonth)
}

// IsRecordError reports whether err came out of parsing or aggregating a
// single customer record, as opposed to a batch or system failure.
func IsRecordError(err error) bool {
	return RecordErrorCode(err) != ""
}

// RecordErrorCode returns the machine-readable code of a record error or an
// empty string when err is not one.
func RecordErrorCode(err error) string {
	for _, ref := range recordErrors {
		if errors.Is(err, ref) {
			return ref.(*InternalError).Code
		}
	}
	return ""
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
