package errors

import (
	stdErrors "errors"
	"fmt"
)

// FetchError represents a failed image fetch. Callers render a placeholder.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError for url.
func NewFetchError(url string, cause error) *FetchError {
	return &FetchError{URL: url, Err: cause}
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return stdErrors.As(err, &fetchErr)
}
