package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestError_Is(t *testing.T) {
	err := invalid("SUM", "bad input").WithPosition(Position{Line: 1, Column: 2}, "=SUM()")

	if !errors.Is(err, ErrParse) {
		t.Error("invalid error does not match ErrParse")
	}

	if errors.Is(err, ErrNotImplemented) {
		t.Error("invalid error matches ErrNotImplemented")
	}

	wrapped := fmt.Errorf("context: %w", notImplemented("CEILING"))
	if !errors.Is(wrapped, ErrNotImplemented) {
		t.Error("wrapped error does not match ErrNotImplemented")
	}

	if errors.Is(ErrParse, err) {
		t.Error("sentinel matches a derived error carrying attributes")
	}
}

func TestError_Message(t *testing.T) {
	err := invalid("MID", "argument %d must be a %s", 2, "number").
		WithPosition(Position{Offset: 1, Line: 1, Column: 2}, "=MID()")

	want := "invalid expression: `MID`: argument 2 must be a number (at 1:2)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_Snippet(t *testing.T) {
	err := NewError("oops").WithPosition(Position{Offset: 10, Line: 2, Column: 3}, "=SUM(1,\n  FOO(2))")

	want := "  2 |   FOO(2))\n" + "        ^\n"
	if got := err.Snippet(); got != want {
		t.Errorf("Snippet() = %q, want %q", got, want)
	}

	if got := NewError("no position").Snippet(); got != "" {
		t.Errorf("Snippet() without position = %q, want empty", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrFetch.Wrap(errors.New("refused")).With(slog.String("url", "http://x"))

	got := map[string]string{}
	for _, a := range err.LogValue().Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error": "web service request failed",
		"cause": "refused",
		"url":   "http://x",
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("attr %s = %q, want %q", k, got[k], v)
		}
	}
}

func TestWrapError(t *testing.T) {
	base := errors.New("plain")

	e := WrapError(base)
	if !errors.Is(e, base) {
		t.Error("WrapError lost the cause")
	}

	if WrapError(ErrParse) != ErrParse {
		t.Error("WrapError rewrapped an *Error")
	}
}

func TestError_Wrapf(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"invalid", invalid("LEFT", "argument %d is %s", 1, "missing"), "invalid expression: `LEFT`: argument 1 is missing"},
		{"notImplemented", notImplemented("CEILING"), "function is not implemented yet: `CEILING`"},
		{"status", ErrFetch.Wrapf("unexpected status %s", "500 Internal Server Error"), "web service request failed: unexpected status 500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.err.Error()); diff != "" {
				t.Errorf("Error() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
