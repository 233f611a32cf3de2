package migrationapi

import (
	"encoding/json"
	"fmt"
)

// Error is returned for any non-success HTTP status from the API.
type Error struct {
	Status int
	// Detail is the server-provided message, empty when the body had none.
	Detail string
}

// Error returns the server detail verbatim, or "HTTP <status>" without one.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// decodeError builds an *Error from a failed response body. Only a string
// "detail" field is used; structured validation details fall back to the status.
func decodeError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		apiErr.Detail = detail
	}
	return apiErr
}
