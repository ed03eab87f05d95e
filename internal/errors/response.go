package errors

import "github.com/cockroachdb/errors"

// ErrorDetail is the error payload rendered in API responses.
type ErrorDetail struct {
	Display       string                 `json:"message,omitempty"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the envelope the API returns for any failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse renders an error for API consumers. The display message
// prefers the builder hint; the raw error text is kept in internal_error.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Success: false}
	if err == nil {
		return resp
	}

	resp.Error.InternalError = err.Error()
	resp.Error.Display = err.Error()
	resp.Error.Details = ReportableDetails(err)

	var ie *InternalError
	if errors.As(err, &ie) && ie.hint != "" {
		resp.Error.Display = ie.hint
	}
	return resp
}
