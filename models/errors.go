package models

import (
	"errors"
	"fmt"
)

// Error codes used in log output and internal error handling.
const (
	ErrCodeTimeout         = "LOOKUP_TIMEOUT"
	ErrCodeNavigation      = "NAVIGATION_FAILED"
	ErrCodeElementMissing  = "ELEMENT_NOT_FOUND"
	ErrCodeInvalidResponse = "INVALID_RESPONSE"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
	ErrCodeInput           = "INPUT_FAILED"
)

// Sentinels matched by LookupError.Is, so callers can use errors.Is without
// caring about the message or the wrapped cause.
var (
	ErrTimeout         = errors.New("result did not render in time")
	ErrInvalidResponse = errors.New("unrecognized lookup response")
	ErrBrowser         = errors.New("browser unavailable")
)

// LookupError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type LookupError struct {
	Code    string
	Address string // queried address, empty if not yet known
	Message string
	Text    string // raw result text, set for INVALID_RESPONSE
	Err     error  // wrapped original error
}

func (e *LookupError) Error() string {
	msg := e.Message
	if e.Address != "" {
		msg = fmt.Sprintf("%s (address %q)", msg, e.Address)
	}
	if e.Text != "" {
		msg = fmt.Sprintf("%s: returned %q", msg, e.Text)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's code.
func (e *LookupError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Code == ErrCodeTimeout
	case ErrInvalidResponse:
		return e.Code == ErrCodeInvalidResponse
	case ErrBrowser:
		return e.Code == ErrCodeBrowserCrash
	}
	return false
}

// NewLookupError creates a new LookupError.
func NewLookupError(code, message string, err error) *LookupError {
	return &LookupError{Code: code, Message: message, Err: err}
}

// WithAddress attaches the queried address to err if it is a LookupError
// without one. Other errors are returned unchanged.
func WithAddress(err error, address string) error {
	var le *LookupError
	if errors.As(err, &le) && le.Address == "" {
		le.Address = address
	}
	return err
}
