package lang

import (
	"context"
	"log/slog"
)

// Node is an element of a parsed formula. Nodes are immutable once parsed
// and may be shared between goroutines.
type Node interface {
	Pos() Position
	node()
}

// NumberLit is a numeric literal such as 25 or -1.5e3.
type NumberLit struct {
	Text  string
	Value float64
	At    Position
}

// StringLit is a string literal delimited by single or double quotes.
type StringLit struct {
	Value string
	At    Position
}

// BoolLit is TRUE or FALSE, written with or without empty parentheses.
type BoolLit struct {
	At    Position
	Value bool
}

// ArrayLit is an array literal. Grid is set when the literal contains a row
// separator, in which case it evaluates to an array of row arrays.
type ArrayLit struct {
	Rows [][]Node
	At   Position
	Grid bool
}

// CallExpr is a call of a built-in function. Name is the canonical
// upper-case function name.
type CallExpr struct {
	fn   *Builtin
	Name string
	Args []Node
	At   Position
}

func (n *NumberLit) Pos() Position { return n.At }
func (n *StringLit) Pos() Position { return n.At }
func (n *BoolLit) Pos() Position   { return n.At }
func (n *ArrayLit) Pos() Position  { return n.At }
func (n *CallExpr) Pos() Position  { return n.At }

func (*NumberLit) node() {}
func (*StringLit) node() {}
func (*BoolLit) node()   {}
func (*ArrayLit) node()  {}
func (*CallExpr) node()  {}

// Builtin returns the function called by n.
func (n *CallExpr) Builtin() *Builtin { return n.fn }

// Walk calls fn for n and each of its descendants in depth-first order.
// Descent below a node stops when fn returns false.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}

	switch n := n.(type) {
	case *ArrayLit:
		for _, row := range n.Rows {
			for _, e := range row {
				walk(e, depth+1, fn)
			}
		}
	case *CallExpr:
		for _, a := range n.Args {
			walk(a, depth+1, fn)
		}
	}
}

// Formula is a parsed formula bound to the options it was parsed with.
type Formula struct {
	root   Node
	opts   *options
	Source string
}

// Root returns the top-level node of the formula.
func (f *Formula) Root() Node { return f.root }

// Eval evaluates the formula.
func (f *Formula) Eval(ctx context.Context) (Value, error) {
	ev := &evaluator{ctx: ctx, opts: f.opts, source: f.Source}

	v, err := ev.eval(f.root)
	if err != nil {
		f.opts.logger.TraceContext(ctx, "eval failed",
			slog.String("formula", f.Source),
			slog.Any("error", err),
		)

		return Null(), err
	}

	f.opts.logger.TraceContext(ctx, "eval complete",
		slog.String("formula", f.Source),
		slog.String("kind", v.Kind().String()),
		slog.Int("calls", ev.calls),
	)

	return v, nil
}

// Evaluate parses and evaluates text in one step. A successful result may be
// null, meaning the formula produced no value (for example, division by
// zero).
func Evaluate(ctx context.Context, text string, opts ...Option) (Value, error) {
	f, err := Parse(ctx, text, opts...)
	if err != nil {
		return Null(), err
	}

	return f.Eval(ctx)
}
