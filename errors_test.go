package endpoint

import (
	"errors"
	"testing"
)

func TestErrorKind_Fatal(t *testing.T) {
	cases := []struct {
		kind  ErrorKind
		fatal bool
	}{
		{AcceptFailed, true},
		{OutOfMemory, true},
		{BindFailed, true},
		{ConnectFailed, true},
		{ReceiveFailed, false},
		{ParseFailed, false},
		{UnknownMessageType, false},
		{ConnectionReset, false},
		{SendFailed, false},
	}

	for _, c := range cases {
		err := newError(c.kind, "desc", nil)
		if err.Fatal != c.fatal {
			t.Errorf("newError(%v).Fatal = %v, want %v", c.kind, err.Fatal, c.fatal)
		}
	}
}

func TestError_UnwrapAndCause(t *testing.T) {
	cause := errors.New("underlying")
	err := newError(ReceiveFailed, "Header mismatch", cause)

	if errors.Unwrap(err) == nil {
		t.Fatal("Unwrap returned nil, want the wrapped cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestError_StringerKind(t *testing.T) {
	if got := ReceiveFailed.String(); got != "ReceiveFailed" {
		t.Errorf("String() = %q, want ReceiveFailed", got)
	}
	if got := ErrorKind(999).String(); got != "Unknown" {
		t.Errorf("String() for unknown kind = %q, want Unknown", got)
	}
}
