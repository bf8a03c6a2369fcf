package lang

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/ardnew/formula/log"
)

// errNullArgument is returned by the typed [Call] accessors when an argument
// evaluates to null. The evaluator converts it to a null result so that
// spreadsheet error values propagate through enclosing calls.
var errNullArgument = errors.New("null argument")

// evaluator holds the state of one formula evaluation.
type evaluator struct {
	ctx    context.Context
	opts   *options
	source string
	calls  int
}

// eval recursively evaluates a node to a Value.
func (ev *evaluator) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *NumberLit:
		return Number(n.Value), nil

	case *StringLit:
		return String(n.Value), nil

	case *BoolLit:
		return Bool(n.Value), nil

	case *ArrayLit:
		return ev.evalArray(n)

	case *CallExpr:
		return ev.evalCall(n)
	}

	return Null(), invalid("root", "unsupported node %T", n)
}

func (ev *evaluator) evalArray(n *ArrayLit) (Value, error) {
	rows := make([]Value, len(n.Rows))

	for i, row := range n.Rows {
		elems := make([]Value, len(row))

		for j, e := range row {
			v, err := ev.eval(e)
			if err != nil {
				return Null(), err
			}

			elems[j] = v
		}

		if !n.Grid {
			return Array(elems...), nil
		}

		rows[i] = Array(elems...)
	}

	return Array(rows...), nil
}

func (ev *evaluator) evalCall(n *CallExpr) (Value, error) {
	if err := ev.ctx.Err(); err != nil {
		return Null(), err
	}

	ev.calls++

	fn := n.fn
	if fn == nil {
		fn = Lookup(n.Name)
	}

	if fn == nil {
		return Null(), invalid("root", "unknown function %s", n.Name).
			WithPosition(n.At, ev.source)
	}

	if !fn.Implemented() {
		return Null(), notImplemented(fn.Name).WithPosition(n.At, ev.source)
	}

	c := &Call{
		Name: fn.Name,
		ev:   ev,
		node: n,
		args: make([]Value, len(n.Args)),
		done: make([]bool, len(n.Args)),
	}

	v, err := fn.fn(c)
	if err == nil {
		return v, nil
	}

	if errors.Is(err, errNullArgument) {
		return Null(), nil
	}

	var e *Error
	if errors.As(err, &e) {
		if _, ok := e.Position(); !ok {
			return Null(), e.WithPosition(n.At, ev.source)
		}
	}

	return Null(), err
}

// Call is the argument list of a built-in function invocation. Arguments are
// evaluated on first access and memoized, so functions that select a branch
// only evaluate what they use.
type Call struct {
	ev   *evaluator
	node *CallExpr
	args []Value
	done []bool

	// Name is the canonical name of the function being called.
	Name string
}

// Len returns the number of arguments written in the call.
func (c *Call) Len() int { return len(c.node.Args) }

// Has reports whether argument i was written in the call.
func (c *Call) Has(i int) bool { return i >= 0 && i < len(c.node.Args) }

// Context returns the context of the evaluation.
func (c *Call) Context() context.Context { return c.ev.ctx }

// Now returns the current time from the configured clock.
func (c *Call) Now() time.Time { return c.ev.opts.clock() }

// Random returns a uniform random number in [0, 1).
func (c *Call) Random() float64 { return c.ev.opts.random() }

// Fetcher returns the client used to make web requests.
func (c *Call) Fetcher() Fetcher { return c.ev.opts.fetcher }

// Logger returns the evaluation logger.
func (c *Call) Logger() log.Logger { return c.ev.opts.logger }

// Fail returns a parse error attributed to the called function.
func (c *Call) Fail(format string, args ...any) *Error {
	return invalid(c.Name, format, args...)
}

// Arg evaluates argument i. Arguments not written in the call are null.
func (c *Call) Arg(i int) (Value, error) {
	if !c.Has(i) {
		return Null(), nil
	}

	if c.done[i] {
		return c.args[i], nil
	}

	v, err := c.ev.eval(c.node.Args[i])
	if err != nil {
		return Null(), err
	}

	c.args[i], c.done[i] = v, true

	return v, nil
}

// Args evaluates all arguments.
func (c *Call) Args() ([]Value, error) {
	out := make([]Value, c.Len())

	for i := range out {
		v, err := c.Arg(i)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (c *Call) typed(i int, want Kind) (Value, error) {
	v, err := c.Arg(i)
	if err != nil {
		return Null(), err
	}

	switch v.Kind() {
	case want:
		return v, nil
	case KindNull:
		return Null(), errNullArgument
	}

	return Null(), c.mismatch(i, want.String(), v)
}

func (c *Call) mismatch(i int, want string, got Value) *Error {
	return c.Fail("argument %d must be a %s, found %s", i+1, want, got.Kind()).
		With(slog.Int("argument", i+1))
}

// Number returns argument i, which must be a number.
func (c *Call) Number(i int) (float64, error) {
	v, err := c.typed(i, KindNumber)

	return v.num, err
}

// NumberOr is like Number but returns def when argument i is not written.
func (c *Call) NumberOr(i int, def float64) (float64, error) {
	if !c.Has(i) {
		return def, nil
	}

	return c.Number(i)
}

// Int returns argument i truncated toward zero.
func (c *Call) Int(i int) (int, error) {
	n, err := c.Number(i)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(n) || math.IsInf(n, 0) ||
		n > math.MaxInt32 || n < math.MinInt32 {
		return 0, c.Fail("argument %d is out of range", i+1)
	}

	return int(n), nil
}

// IntOr is like Int but returns def when argument i is not written.
func (c *Call) IntOr(i int, def int) (int, error) {
	if !c.Has(i) {
		return def, nil
	}

	return c.Int(i)
}

// Count returns argument i truncated toward zero for use as a position or
// length. Values beyond the int32 range are clamped to it, so a huge count
// selects everything.
func (c *Call) Count(i int) (int, error) {
	n, err := c.Number(i)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(n) {
		return 0, c.Fail("argument %d is out of range", i+1)
	}

	return int(max(min(n, math.MaxInt32), math.MinInt32)), nil
}

// CountOr is like Count but returns def when argument i is not written.
func (c *Call) CountOr(i int, def int) (int, error) {
	if !c.Has(i) {
		return def, nil
	}

	return c.Count(i)
}

// Text returns argument i, which must be a string.
func (c *Call) Text(i int) (string, error) {
	v, err := c.typed(i, KindString)

	return v.str, err
}

// TextOr is like Text but returns def when argument i is not written.
func (c *Call) TextOr(i int, def string) (string, error) {
	if !c.Has(i) {
		return def, nil
	}

	return c.Text(i)
}

// Bool returns argument i, which must be a boolean.
func (c *Call) Bool(i int) (bool, error) {
	v, err := c.typed(i, KindBool)

	return v.b, err
}

// BoolOr is like Bool but returns def when argument i is not written.
func (c *Call) BoolOr(i int, def bool) (bool, error) {
	if !c.Has(i) {
		return def, nil
	}

	return c.Bool(i)
}

// flat evaluates every argument from index from onward and flattens arrays
// into their elements.
func (c *Call) flat(from int, want Kind) ([]Value, error) {
	out := make([]Value, 0, c.Len())

	var walk func(i int, v Value) error

	walk = func(i int, v Value) error {
		switch v.Kind() {
		case KindArray:
			for _, e := range v.arr {
				if err := walk(i, e); err != nil {
					return err
				}
			}

			return nil
		case KindNull:
			return errNullArgument
		case want:
			out = append(out, v)

			return nil
		}

		return c.mismatch(i, want.String(), v)
	}

	for i := from; i < c.Len(); i++ {
		v, err := c.Arg(i)
		if err != nil {
			return nil, err
		}

		if err := walk(i, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Numbers returns all arguments from index from onward, which must be
// numbers or arrays of numbers.
func (c *Call) Numbers(from int) ([]float64, error) {
	vs, err := c.flat(from, KindNumber)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.num
	}

	return out, nil
}

// Texts returns all arguments from index from onward, which must be strings
// or arrays of strings.
func (c *Call) Texts(from int) ([]string, error) {
	vs, err := c.flat(from, KindString)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.str
	}

	return out, nil
}

// Bools returns all arguments from index from onward, which must be booleans
// or arrays of booleans.
func (c *Call) Bools(from int) ([]bool, error) {
	vs, err := c.flat(from, KindBool)
	if err != nil {
		return nil, err
	}

	out := make([]bool, len(vs))
	for i, v := range vs {
		out[i] = v.b
	}

	return out, nil
}

// Date returns argument i as a UTC calendar date. Dates, datetimes, date
// strings, and serial day numbers are accepted.
func (c *Call) Date(i int) (time.Time, error) {
	v, err := c.Arg(i)
	if err != nil {
		return time.Time{}, err
	}

	if v.IsNull() {
		return time.Time{}, errNullArgument
	}

	t, ok := toDate(v)
	if !ok {
		return time.Time{}, c.Fail("argument %d is not a valid date: %s",
			i+1, v).With(slog.Int("argument", i+1))
	}

	return t, nil
}

// Time returns argument i as a clock reading. Times, datetimes, time
// strings, and day fractions are accepted.
func (c *Call) Time(i int) (time.Time, error) {
	v, err := c.Arg(i)
	if err != nil {
		return time.Time{}, err
	}

	if v.IsNull() {
		return time.Time{}, errNullArgument
	}

	t, ok := toClock(v)
	if !ok {
		return time.Time{}, c.Fail("argument %d is not a valid time: %s",
			i+1, v).With(slog.Int("argument", i+1))
	}

	return t, nil
}
