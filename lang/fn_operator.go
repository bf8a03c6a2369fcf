package lang

import (
	"cmp"
	"math"
)

func init() {
	register(CategoryOperator, "F.ADD(number1, number2)", arith(func(a, b float64) float64 { return a + b }))
	register(CategoryOperator, "F.SUB(number1, number2)", arith(func(a, b float64) float64 { return a - b }))
	register(CategoryOperator, "F.MUL(number1, number2)", arith(func(a, b float64) float64 { return a * b }))
	register(CategoryOperator, "F.DIV(dividend, divisor)", opDiv)
	register(CategoryOperator, "F.POW(base, exponent)", arith(math.Pow))
	register(CategoryOperator, "F.EQ(value1, value2)", opEqual(true))
	register(CategoryOperator, "F.NE(value1, value2)", opEqual(false))
	register(CategoryOperator, "F.GT(value1, value2)", relational(func(c int) bool { return c > 0 }))
	register(CategoryOperator, "F.LT(value1, value2)", relational(func(c int) bool { return c < 0 }))
	register(CategoryOperator, "F.GTE(value1, value2)", relational(func(c int) bool { return c >= 0 }))
	register(CategoryOperator, "F.LTE(value1, value2)", relational(func(c int) bool { return c <= 0 }))
	register(CategoryOperator, "F.PERCENT(number)", unary(func(x float64) float64 { return x / 100 }))
	register(CategoryOperator, "F.NEGATE(number)", unary(func(x float64) float64 { return -x }))
}

// numberTolerance is the largest difference at which F.NE still treats two
// numbers as equal. F.EQ compares numbers exactly.
const numberTolerance = 1e-7

func arith(op func(a, b float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		a, err := c.Number(0)
		if err != nil {
			return Null(), err
		}

		b, err := c.Number(1)
		if err != nil {
			return Null(), err
		}

		return Number(op(a, b)), nil
	}
}

func unary(op func(x float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		x, err := c.Number(0)
		if err != nil {
			return Null(), err
		}

		return Number(op(x)), nil
	}
}

func opDiv(c *Call) (Value, error) {
	a, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	b, err := c.Number(1)
	if err != nil {
		return Null(), err
	}

	if b == 0 {
		return Null(), nil
	}

	return Number(a / b), nil
}

func opEqual(want bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		a, b, err := operands(c)
		if err != nil {
			return Null(), err
		}

		if a.Kind() == KindBool && b.Kind() == KindBool {
			return Bool((a.b == b.b) == want), nil
		}

		if a.Kind() == KindNumber && b.Kind() == KindNumber {
			if want {
				return Bool(a.num == b.num), nil
			}

			return Bool(math.Abs(a.num-b.num) > numberTolerance), nil
		}

		n, ok := compareValues(a, b)
		if !ok {
			return Null(), c.Fail("cannot compare %s with %s", a.Kind(), b.Kind())
		}

		return Bool((n == 0) == want), nil
	}
}

func relational(test func(int) bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		a, b, err := operands(c)
		if err != nil {
			return Null(), err
		}

		n, ok := compareValues(a, b)
		if !ok {
			return Null(), c.Fail("cannot compare %s with %s", a.Kind(), b.Kind())
		}

		return Bool(test(n)), nil
	}
}

func operands(c *Call) (Value, Value, error) {
	a, err := c.Arg(0)
	if err != nil {
		return Null(), Null(), err
	}

	b, err := c.Arg(1)
	if err != nil {
		return Null(), Null(), err
	}

	if a.IsNull() || b.IsNull() {
		return Null(), Null(), errNullArgument
	}

	return a, b, nil
}

// compareValues orders two values of the same comparable kind. Strings
// compare by code point.
func compareValues(a, b Value) (int, bool) {
	if a.Kind() != b.Kind() {
		return 0, false
	}

	switch a.Kind() {
	case KindNumber:
		return cmp.Compare(a.num, b.num), true
	case KindString:
		return cmp.Compare(a.str, b.str), true
	case KindDate, KindTime, KindDatetime:
		return a.t.Compare(b.t), true
	}

	return 0, false
}
