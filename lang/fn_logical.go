package lang

import (
	"context"
	"errors"
	"math"
)

func init() {
	register(CategoryLogical, "AND(logical, ...)", logical(func(acc, b bool) bool { return acc && b }))
	register(CategoryLogical, "OR(logical, ...)", logical(func(acc, b bool) bool { return acc || b }))
	register(CategoryLogical, "XOR(logical, ...)", logical(func(acc, b bool) bool { return acc != b }))
	register(CategoryLogical, "NOT(logical)", logicalNot)
	register(CategoryLogical, "TRUE()", func(*Call) (Value, error) { return Bool(true), nil })
	register(CategoryLogical, "FALSE()", func(*Call) (Value, error) { return Bool(false), nil })
	register(CategoryLogical, "IF(logical_test, [value_if_true], [value_if_false])", logicalIf)
	register(CategoryLogical, "IFERROR(value, value_if_error)", logicalIfError)
	register(CategoryLogical, "IFNA(value, value_if_na)", logicalIfNA)
	register(CategoryLogical, "IFS(logical_test, value_if_true, ...)", logicalIfs)
	register(CategoryLogical, "SWITCH(expression, value, result, ...)", logicalSwitch)

	unimplemented(CategoryLogical,
		"BYCOL", "BYROW", "LAMBDA", "LET", "MAKEARRAY", "MAP", "REDUCE", "SCAN",
	)
}

func logical(op func(acc, b bool) bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		bs, err := c.Bools(0)
		if err != nil {
			return Null(), err
		}

		if len(bs) == 0 {
			return Null(), c.Fail("no logical values given")
		}

		acc := bs[0]
		for _, b := range bs[1:] {
			acc = op(acc, b)
		}

		return Bool(acc), nil
	}
}

func logicalNot(c *Call) (Value, error) {
	b, err := c.Bool(0)
	if err != nil {
		return Null(), err
	}

	return Bool(!b), nil
}

// logicalIf evaluates only the selected branch. A missing branch yields 0.
func logicalIf(c *Call) (Value, error) {
	cond, err := c.Bool(0)
	if err != nil {
		return Null(), err
	}

	branch := 2
	if cond {
		branch = 1
	}

	if !c.Has(branch) {
		return Number(0), nil
	}

	return c.Arg(branch)
}

// logicalIfError returns the alternative when value fails to evaluate or is
// null. Cancellation of the evaluation is not treated as a formula error.
func logicalIfError(c *Call) (Value, error) {
	v, err := c.Arg(0)

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Null(), err
	case err == nil && !v.IsNull():
		return v, nil
	}

	c.Logger().TraceContext(c.Context(), "iferror fallback")

	return c.Arg(1)
}

// logicalIfNA returns the alternative when value is null.
func logicalIfNA(c *Call) (Value, error) {
	v, err := c.Arg(0)
	if err != nil {
		return Null(), err
	}

	if !v.IsNull() {
		return v, nil
	}

	return c.Arg(1)
}

// logicalIfs returns the value paired with the first true condition, or
// null when no condition holds.
func logicalIfs(c *Call) (Value, error) {
	if c.Len()%2 != 0 {
		return Null(), c.Fail("conditions and values must be given in pairs")
	}

	for i := 0; i < c.Len(); i += 2 {
		cond, err := c.Bool(i)
		if err != nil {
			return Null(), err
		}

		if cond {
			return c.Arg(i + 1)
		}
	}

	return Null(), nil
}

// logicalSwitch compares expression against each value in turn and returns
// the matching result. A trailing unpaired argument is the default.
func logicalSwitch(c *Call) (Value, error) {
	x, err := c.Arg(0)
	if err != nil || x.IsNull() {
		return Null(), err
	}

	i := 1
	for ; i+1 < c.Len(); i += 2 {
		v, err := c.Arg(i)
		if err != nil {
			return Null(), err
		}

		if sameValue(x, v) {
			return c.Arg(i + 1)
		}
	}

	if i < c.Len() {
		return c.Arg(i)
	}

	return Null(), nil
}

func sameValue(a, b Value) bool {
	if a.Kind() == KindNumber && b.Kind() == KindNumber {
		return math.Abs(a.num-b.num) <= numberTolerance
	}

	return a.Equal(b)
}
