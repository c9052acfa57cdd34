package errors

import (
	stdErrors "errors"
	"fmt"
)

// LoadErrorKind tells apart the two ways a feed load can fail.
type LoadErrorKind int

const (
	// LoadNetwork covers transport failures and non-2xx responses.
	LoadNetwork LoadErrorKind = iota
	// LoadDecode means the response arrived but was not a valid feed.
	LoadDecode
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNetwork:
		return "network"
	case LoadDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// LoadError is returned by the feed loader.
type LoadError struct {
	Kind LoadErrorKind
	URL  string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load feed %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewNetworkLoadError wraps a transport or HTTP status failure.
func NewNetworkLoadError(url string, cause error) *LoadError {
	return &LoadError{Kind: LoadNetwork, URL: url, Err: cause}
}

// NewDecodeLoadError wraps a feed decode failure.
func NewDecodeLoadError(url string, cause error) *LoadError {
	return &LoadError{Kind: LoadDecode, URL: url, Err: cause}
}

// IsLoadError reports whether err is a LoadError (even when wrapped).
func IsLoadError(err error) bool {
	var loadErr *LoadError
	return stdErrors.As(err, &loadErr)
}

// LoadErrorKindOf returns the kind of the LoadError in err's chain.
func LoadErrorKindOf(err error) (LoadErrorKind, bool) {
	var loadErr *LoadError
	if !stdErrors.As(err, &loadErr) {
		return 0, false
	}
	return loadErr.Kind, true
}
