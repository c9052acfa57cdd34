package errors

import (
	stdErrors "errors"
	"fmt"
)

// DecodeError reports a malformed feed document or a missing/wrong-typed field.
type DecodeError struct {
	Reason string
	Path   string // e.g. "[0].children[2].duration"; empty for document-level errors
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode feed: " + e.Reason
	}
	return fmt.Sprintf("decode feed: %s: %s", e.Path, e.Reason)
}

// NewDecodeError creates a DecodeError for the given field path.
func NewDecodeError(path, reason string) *DecodeError {
	return &DecodeError{Reason: reason, Path: path}
}

// IsDecodeError reports whether err is a DecodeError (even when wrapped).
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return stdErrors.As(err, &decodeErr)
}
