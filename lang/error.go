package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). Match them with [errors.Is].
var (
	ErrParse          = NewError("invalid expression")
	ErrNotImplemented = NewError("function is not implemented yet")
	ErrMaxDepth       = NewError("maximum nesting depth exceeded")
	ErrFetch          = NewError("web service request failed")
	ErrReadInput      = NewError("failed to read input")
)

// Position is a location in formula text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error is an error with structured logging attributes. It implements
// [slog.LogValuer].
type Error struct {
	msg    string
	err    error
	attrs  []slog.Attr
	pos    *Position
	source string
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if it is not one already.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	msg := strings.Join(part, ": ")
	if e.pos != nil {
		msg += " (at " + e.pos.String() + ")"
	}

	return msg
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || len(t.attrs) > 0 {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// Wrapf is like Wrap with a formatted cause.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to a copy of the error.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	c.attrs = append(append(c.attrs, e.attrs...), attrs...)

	return &c
}

// WithPosition records where in source the error occurred.
func (e *Error) WithPosition(pos Position, source string) *Error {
	c := *e
	c.pos = &pos
	c.source = source

	return &c
}

// Position returns the source location of the error, if known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Snippet renders the offending source line with a caret under the error
// column, or "" when the position is unknown.
func (e *Error) Snippet() string {
	if e.pos == nil {
		return ""
	}

	lines := strings.Split(e.source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.pos.Line)

	var b strings.Builder

	b.WriteString("  " + num + " | " + lines[e.pos.Line-1] + "\n")
	b.WriteString(strings.Repeat(" ", len(num)+5+max(e.pos.Column-1, 0)))
	b.WriteString("^\n")

	return b.String()
}

// invalid reports a rule (grammar production or function name) that cannot
// be evaluated with the given inputs.
func invalid(rule string, format string, args ...any) *Error {
	return ErrParse.
		With(slog.String("rule", rule)).
		Wrapf("`%s`: %s", rule, fmt.Sprintf(format, args...))
}

func notImplemented(name string) *Error {
	return ErrNotImplemented.
		With(slog.String("function", name)).
		Wrapf("`%s`", name)
}
