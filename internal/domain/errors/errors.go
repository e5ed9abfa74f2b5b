// Package errors carries the failures the gateway reports to API clients.
// Each DomainError knows its error code and HTTP status.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Codes carried in the "code" field of error responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotConnected = "NOT_CONNECTED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
)

// ErrNotConnected is the sentinel for reads attempted without a session.
var ErrNotConnected = NewNotConnectedError()

// DomainError is a client-facing failure. Message is what the response body
// shows; Err keeps the cause for logs and errors.Is chains.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func newError(code string, status int, message, details string, cause error) *DomainError {
	return &DomainError{
		Code:       code,
		Message:    message,
		Details:    details,
		HTTPStatus: status,
		Err:        cause,
	}
}

func (e *DomainError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports equal code and message, so fresh copies match the sentinels.
func (e *DomainError) Is(target error) bool {
	other, ok := target.(*DomainError)
	return ok && other.Code == e.Code && other.Message == e.Message
}

// NewValidationError rejects client input that is well-formed but unusable.
func NewValidationError(message, details string) *DomainError {
	return newError(ErrCodeValidation, http.StatusBadRequest, message, details, nil)
}

// NewBadRequestError rejects input that could not be read at all.
func NewBadRequestError(message, details string) *DomainError {
	return newError(ErrCodeBadRequest, http.StatusBadRequest, message, details, nil)
}

// NewNotConnectedError is reported while the gateway holds no session.
func NewNotConnectedError() *DomainError {
	return newError(ErrCodeNotConnected, http.StatusBadRequest, "Not connected to MongoDB", "", nil)
}

// NewInternalError reports a server-side failure. The cause text, if any,
// is kept in Details.
func NewInternalError(message string, cause error) *DomainError {
	var details string
	if cause != nil {
		details = cause.Error()
	}
	return newError(ErrCodeInternal, http.StatusInternalServerError, message, details, cause)
}

// FromDriverError converts a database failure into a 500 whose message is
// the driver's own text, with adapter prefixes peeled off. The operation
// stays on the cause for logs. DomainErrors are returned as is.
func FromDriverError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := GetDomainError(err); ok {
		return err
	}
	return NewInternalError(driverMessage(err), fmt.Errorf("%s: %w", operation, err))
}

// driverMessage drops "prefix: " layers added by %w wrapping and stops at
// the first error whose text is not just a prefix on its cause.
func driverMessage(err error) string {
	for {
		inner := errors.Unwrap(err)
		if inner == nil || !strings.HasSuffix(err.Error(), ": "+inner.Error()) {
			return err.Error()
		}
		err = inner
	}
}

// GetDomainError finds the first DomainError in err's chain.
func GetDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsValidationError reports whether err carries ErrCodeValidation.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsNotConnected reports whether err carries ErrCodeNotConnected.
func IsNotConnected(err error) bool {
	return hasCode(err, ErrCodeNotConnected)
}

func hasCode(err error, code string) bool {
	de, ok := GetDomainError(err)
	return ok && de.Code == code
}

// Describe renders err for a log line.
func Describe(err error) string {
	if de, ok := GetDomainError(err); ok && de.Err != nil {
		return fmt.Sprintf("%s: %v", de.Code, de.Err)
	}
	return fmt.Sprint(err)
}
