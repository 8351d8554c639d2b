package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the normalized failure shape for every non-2xx response. Status
// is always set; the remaining fields are copied from the backend's JSON
// error body when present.
type Error struct {
	Status     int
	Message    string
	RequestID  string
	Timestamp  string
	UserID     string
	Email      string
	ConfigHelp string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return e.Message
}

// wireError matches the backend's conventional JSON error body
type wireError struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	ConfigHelp string `json:"config_help"`
}

// errorFromBody normalizes a non-2xx response body. Precedence: JSON
// error/message field, then the raw text body, then the HTTP status text.
func errorFromBody(status int, body []byte) *Error {
	apiErr := &Error{Status: status}

	var we wireError
	if len(body) > 0 && json.Unmarshal(body, &we) == nil {
		apiErr.Message = we.Error
		if apiErr.Message == "" {
			apiErr.Message = we.Message
		}
		apiErr.RequestID = we.RequestID
		apiErr.Timestamp = we.Timestamp
		apiErr.UserID = we.UserID
		apiErr.Email = we.Email
		apiErr.ConfigHelp = we.ConfigHelp
		if apiErr.Message != "" {
			return apiErr
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		apiErr.Message = text
		return apiErr
	}

	apiErr.Message = fmt.Sprintf("API request failed: %s", http.StatusText(status))
	return apiErr
}

// IsAuthError reports whether err is a 401 or 403 response
func IsAuthError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsServerError reports whether err is a 5xx response
func IsServerError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}
