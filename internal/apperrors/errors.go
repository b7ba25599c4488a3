package apperrors

import (
	"errors"
	"fmt"
)

// Stable error codes returned across the engine boundary. The HTTP layer maps
// these to status codes; callers map them to user-facing messages.
const (
	CodeInvalidInput          = "invalid_input"
	CodeAccountNotFound       = "account_not_found"
	CodeDebitsCreditsMismatch = "debits_credits_mismatch"
	CodeNoOpenPeriod          = "no_open_period"
	CodePeriodClosed          = "period_closed"
	CodePeriodLocked          = "period_locked"
	CodeAlreadyReversed       = "already_reversed"
	CodeCanOnlyReversePosted  = "can_only_reverse_posted"
	CodeDuplicateAccount      = "duplicate_account"
	CodeDuplicateSource       = "duplicate_source"
	CodeNotFound              = "not_found"
	CodeDBUnavailable         = "db_unavailable"
	CodeInternal              = "internal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDBUnavailable indicates the data store could not be reached. Callers may
// retry; the engine never retries internally.
var ErrDBUnavailable = errors.New("database unavailable")

// AppError is the typed failure carried across the engine boundary. Code is one
// of the stable string codes above; Details carries contextual data such as the
// computed debit/credit totals on an imbalance.
type AppError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with the given code and message.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an AppError that wraps an underlying cause.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetails attaches contextual data to the error and returns it.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// CodeOf extracts the stable code from err, walking the wrap chain. Sentinel
// errors map to their conventional codes; anything else is internal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrValidation):
		return CodeInvalidInput
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicateSource
	case errors.Is(err, ErrDBUnavailable):
		return CodeDBUnavailable
	default:
		return CodeInternal
	}
}

// Is reports whether err carries the given stable code.
func Is(err error, code string) bool {
	return CodeOf(err) == code
}
