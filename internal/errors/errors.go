package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Marker errors used to classify failures across layers. Errors produced by
// the builder are tagged with one of these via Mark, so callers can test
// them with errors.Is or the helpers below without depending on concrete
// error types.
var (
	ErrHTTPClient       = errors.New("http client error")
	ErrAlreadyExists    = errors.New("item already exists")
	ErrNotFound         = errors.New("item not found")
	ErrValidation       = errors.New("validation error")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrPermissionDenied = errors.New("permission denied")
	ErrDatabase         = errors.New("database error")
	ErrSystem           = errors.New("system error")
	ErrInternal         = errors.New("internal error")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

func IsSystem(err error) bool {
	return errors.Is(err, ErrSystem)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// HTTPStatusFromErr maps a marked error to the HTTP status the API should
// respond with. Unmarked errors are treated as internal.
func HTTPStatusFromErr(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err) || IsInvalidOperation(err):
		return http.StatusBadRequest
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusForbidden
	case errors.Is(err, ErrHTTPClient):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
