package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError represents a non-2xx HTTP response from the feed or an image host.
type StatusError struct {
	StatusCode int
	Body       string // First bytes of the response body, if any
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		text = "unexpected status"
	}
	if e.Body != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", text, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s (HTTP %d)", text, e.StatusCode)
}

// NewStatusError creates a StatusError, trimming the body snippet.
func NewStatusError(statusCode int, body string) *StatusError {
	return &StatusError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(body),
	}
}

// IsStatusError checks if err is a StatusError (even when wrapped).
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return stdErrors.As(err, &statusErr)
}
