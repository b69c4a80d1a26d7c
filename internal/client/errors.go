package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// MessageOr returns the backend's message carried by err, or fallback when err
// has none (transport failure, empty body).
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// errorBody accepts both {"message": "..."} and {"error": "..."} bodies.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func parseErrorBody(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		return e
	}
	e.Message = strings.TrimSpace(b.Message)
	if e.Message == "" && len(b.Error) > 0 {
		var s string
		if json.Unmarshal(b.Error, &s) == nil {
			e.Message = strings.TrimSpace(s)
		}
	}
	return e
}
