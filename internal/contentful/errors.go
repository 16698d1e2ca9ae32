package contentful

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error response from the backend.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// ID is the backend error id (e.g. "NotFound", "VersionMismatch").
	ID string
	// Message is the human-readable description, or the raw body when the
	// response was not a backend error document.
	Message string
	// RequestID correlates the failure with backend logs.
	RequestID string
}

func (e *APIError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("contentful: unexpected %d response: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("contentful: %s (%d): %s", e.ID, e.StatusCode, e.Message)
}

// Backend error ids.
const (
	ErrIDNotFound           = "NotFound"
	ErrIDAccessTokenInvalid = "AccessTokenInvalid"
	ErrIDVersionMismatch    = "VersionMismatch"
	ErrIDValidationFailed   = "ValidationFailed"
	ErrIDRateLimitExceeded  = "RateLimitExceeded"
)

// IsAPIError reports whether err is an *APIError with the given id.
func IsAPIError(err error, id string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ID == id
	}
	return false
}

func parseAPIError(status int, body []byte) *APIError {
	var doc struct {
		Sys struct {
			Type string `json:"type"`
			ID   string `json:"id"`
		} `json:"sys"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(body, &doc); err != nil || doc.Sys.Type != "Error" {
		msg := string(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}
	return &APIError{
		StatusCode: status,
		ID:         doc.Sys.ID,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
	}
}
