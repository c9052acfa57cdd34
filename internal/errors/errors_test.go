package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestDecodeError(t *testing.T) {
	err := NewDecodeError("[0].children[1].duration", "missing required field")

	expected := "decode feed: [0].children[1].duration: missing required field"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	if !IsDecodeError(fmt.Errorf("wrapped: %w", err)) {
		t.Fatalf("IsDecodeError returned false for wrapped DecodeError")
	}
}

func TestDecodeError_NoPath(t *testing.T) {
	err := NewDecodeError("", "unexpected end of JSON input")

	expected := "decode feed: unexpected end of JSON input"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
}

func TestLoadError_Kinds(t *testing.T) {
	cause := stdErrors.New("connection refused")
	netErr := NewNetworkLoadError("http://feed.test/feed.json", cause)

	if netErr.Kind != LoadNetwork {
		t.Fatalf("Kind = %v, want %v", netErr.Kind, LoadNetwork)
	}
	if !stdErrors.Is(netErr, cause) {
		t.Fatalf("LoadError does not unwrap to its cause")
	}

	expected := "load feed http://feed.test/feed.json (network): connection refused"
	if netErr.Error() != expected {
		t.Fatalf("Error message = %q, want %q", netErr.Error(), expected)
	}

	decErr := NewDecodeLoadError("http://feed.test/feed.json", NewDecodeError("[0].title", "missing required field"))
	kind, ok := LoadErrorKindOf(fmt.Errorf("outer: %w", decErr))
	if !ok || kind != LoadDecode {
		t.Fatalf("LoadErrorKindOf = %v, %v; want %v, true", kind, ok, LoadDecode)
	}
	if !IsDecodeError(decErr) {
		t.Fatalf("IsDecodeError returned false for decode LoadError")
	}
}

func TestLoadErrorKindOf_NotLoadError(t *testing.T) {
	if _, ok := LoadErrorKindOf(stdErrors.New("plain")); ok {
		t.Fatalf("LoadErrorKindOf reported ok for a plain error")
	}
}

func TestFetchError(t *testing.T) {
	cause := NewStatusError(404, "  not here \n")
	err := NewFetchError("http://img.test/a.jpg", cause)

	expected := "fetch http://img.test/a.jpg: Not Found (HTTP 404): not here"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}
	if !IsFetchError(stdErrors.Join(err, stdErrors.New("context"))) {
		t.Fatalf("IsFetchError returned false for joined FetchError")
	}
	if !IsStatusError(err) {
		t.Fatalf("IsStatusError returned false for FetchError wrapping StatusError")
	}
}

func TestStatusError_UnknownCode(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     string
		expected string
	}{
		{
			name:     "known code without body",
			code:     500,
			expected: "Internal Server Error (HTTP 500)",
		},
		{
			name:     "unknown code",
			code:     599,
			body:     "boom",
			expected: "unexpected status (HTTP 599): boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewStatusError(tt.code, tt.body)
			if err.Error() != tt.expected {
				t.Fatalf("Error message = %q, want %q", err.Error(), tt.expected)
			}
		})
	}
}
