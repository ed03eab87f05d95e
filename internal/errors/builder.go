package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError carries the internal message together with a user-safe hint
// and optional reportable details. The hint and details are the only parts
// rendered to API consumers; the message and cause stay in logs.
type InternalError struct {
	message           string
	hint              string
	reportableDetails map[string]interface{}
	cause             error
}

func (e *InternalError) Error() string {
	switch {
	case e.message != "" && e.cause != nil:
		return e.message + ": " + e.cause.Error()
	case e.cause != nil:
		return e.cause.Error()
	default:
		return e.message
	}
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint extracts the user-safe hint from an error built by this package.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.hint
	}
	return ""
}

// ReportableDetails extracts the reportable details from an error built by
// this package, or nil.
func ReportableDetails(err error) map[string]interface{} {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.reportableDetails
	}
	return nil
}

// ErrorBuilder assembles an InternalError. Terminate the chain with Mark to
// tag the error with one of the package markers.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts a builder with an internal message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: message}}
}

// NewErrorf starts a builder with a formatted internal message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts a builder wrapping an existing cause.
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{cause: err}}
}

// WithMessage sets the internal message without discarding the cause.
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.message = message
	return b
}

// WithMessagef sets a formatted internal message.
func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	return b.WithMessage(fmt.Sprintf(format, args...))
}

// WithHint sets the user-safe hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf sets a formatted user-safe hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	return b.WithHint(fmt.Sprintf(format, args...))
}

// WithReportableDetails attaches details that are safe to include in API
// responses alongside the hint.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark finalizes the builder and tags the error so errors.Is(err, marker)
// holds for the given marker.
func (b *ErrorBuilder) Mark(marker error) error {
	return errors.Mark(b.err, marker)
}
