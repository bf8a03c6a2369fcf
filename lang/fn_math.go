package lang

import (
	"math"
	"strconv"
)

func init() {
	for _, f := range []struct {
		usage string
		op    func(float64) float64
	}{
		{"ABS(number)", math.Abs},
		{"ACOS(number)", math.Acos},
		{"ACOSH(number)", math.Acosh},
		{"ASIN(number)", math.Asin},
		{"ASINH(number)", math.Asinh},
		{"ATAN(number)", math.Atan},
		{"ATANH(number)", math.Atanh},
		{"COS(number)", math.Cos},
		{"COSH(number)", math.Cosh},
		{"SIN(number)", math.Sin},
		{"SINH(number)", math.Sinh},
		{"TAN(number)", math.Tan},
		{"TANH(number)", math.Tanh},
		{"EXP(number)", math.Exp},
		{"INT(number)", math.Floor},
		{"DEGREES(angle)", func(x float64) float64 { return x * 180 / math.Pi }},
		{"RADIANS(angle)", func(x float64) float64 { return x * math.Pi / 180 }},
		{"SIGN(number)", sign},
		{"EVEN(number)", func(x float64) float64 { return awayToMultiple(x, 2, 0) }},
		{"ODD(number)", odd},
	} {
		register(CategoryMath, f.usage, unary(f.op))
	}

	register(CategoryMath, "ATAN2(y_num, x_num)", mathAtan2)
	register(CategoryMath, "PI()", func(*Call) (Value, error) { return Number(math.Pi), nil })
	register(CategoryMath, "POWER(number, power)", arith(math.Pow))
	register(CategoryMath, "MOD(number, divisor)", mathMod)
	register(CategoryMath, "QUOTIENT(numerator, denominator)", mathQuotient)
	register(CategoryMath, "LOG(number, [base])", mathLog)
	register(CategoryMath, "LOG10(number)", positive(math.Log10))
	register(CategoryMath, "LN(number)", positive(math.Log))
	register(CategoryMath, "SQRT(number)", nonNegative(math.Sqrt))
	register(CategoryMath, "SQRTPI(number)", nonNegative(func(x float64) float64 { return math.Sqrt(x * math.Pi) }))
	register(CategoryMath, "FACT(number)", nonNegative(fact))
	register(CategoryMath, "RAND()", func(c *Call) (Value, error) { return Number(c.Random()), nil })
	register(CategoryMath, "RANDBETWEEN(bottom, top)", mathRandBetween)
	register(CategoryMath, "SUM(number, ...)", aggregate(0, func(acc, x float64) float64 { return acc + x }))
	register(CategoryMath, "SUMSQ(number, ...)", aggregate(0, func(acc, x float64) float64 { return acc + x*x }))
	register(CategoryMath, "PRODUCT(number, ...)", aggregate(1, func(acc, x float64) float64 { return acc * x }))
	register(CategoryMath, "GCD(number, ...)", integers(gcd))
	register(CategoryMath, "LCM(number, ...)", integers(lcm))
	register(CategoryMath, "ROUND(number, num_digits)", rounding(math.Round))
	register(CategoryMath, "ROUNDUP(number, num_digits)", rounding(roundAway))
	register(CategoryMath, "ROUNDDOWN(number, num_digits)", rounding(math.Trunc))
	register(CategoryMath, "TRUNC(number, [num_digits])", rounding(math.Trunc))

	unimplemented(CategoryMath,
		"ACOT", "ACOTH", "AGGREGATE", "ARABIC", "BASE", "CEILING",
		"CEILING.MATH", "CEILING.PRECISE", "COMBIN", "COMBINA", "COT", "COTH",
		"CSC", "CSCH", "DECIMAL", "FACTDOUBLE", "FLOOR", "FLOOR.MATH",
		"FLOOR.PRECISE", "ISO.CEILING", "MDETERM", "MINVERSE", "MMULT",
		"MROUND", "MULTINOMIAL", "MUNIT", "RANDARRAY", "ROMAN", "SEC", "SECH",
		"SEQUENCE", "SERIESSUM", "SUBTOTAL", "SUMIF", "SUMIFS", "SUMPRODUCT",
		"SUMX2MY2", "SUMX2PY2", "SUMXMY2",
	)
}

// positive applies op to a number greater than zero and is null otherwise.
func positive(op func(float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		x, err := c.Number(0)
		if err != nil || x <= 0 {
			return Null(), err
		}

		return Number(op(x)), nil
	}
}

// nonNegative applies op to a number of at least zero and is null otherwise.
func nonNegative(op func(float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		x, err := c.Number(0)
		if err != nil || x < 0 {
			return Null(), err
		}

		return Number(op(x)), nil
	}
}

func aggregate(init float64, op func(acc, x float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		xs, err := c.Numbers(0)
		if err != nil {
			return Null(), err
		}

		acc := init
		for _, x := range xs {
			acc = op(acc, x)
		}

		return Number(acc), nil
	}
}

func integers(op func(a, b float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		xs, err := c.Numbers(0)
		if err != nil {
			return Null(), err
		}

		if len(xs) == 0 {
			return Null(), c.Fail("no numbers given")
		}

		acc := math.Trunc(xs[0])

		for _, x := range xs {
			if x < 0 {
				return Null(), nil
			}

			acc = op(acc, math.Trunc(x))
		}

		return Number(acc), nil
	}
}

func rounding(op func(float64) float64) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		x, err := c.Number(0)
		if err != nil {
			return Null(), err
		}

		digits, err := c.IntOr(1, 0)
		if err != nil {
			return Null(), err
		}

		return Number(roundDigits(x, digits, op)), nil
	}
}

// roundDigits rounds x to digits decimal places (or to the left of the
// decimal point when digits is negative) using op on the scaled value.
// The scaled value is first normalized to 15 significant digits so that
// binary representation error does not change the result.
func roundDigits(x float64, digits int, op func(float64) float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}

	scale := math.Pow10(abs(digits))

	var scaled float64
	if digits >= 0 {
		scaled = x * scale
	} else {
		scaled = x / scale
	}

	scaled, _ = strconv.ParseFloat(strconv.FormatFloat(scaled, 'g', 15, 64), 64)
	scaled = op(scaled)

	if digits >= 0 {
		return scaled / scale
	}

	return scaled * scale
}

func roundAway(x float64) float64 {
	if x < 0 {
		return -math.Ceil(-x)
	}

	return math.Ceil(x)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}

	return 0
}

// awayToMultiple rounds x away from zero to the nearest value congruent to
// rem modulo m.
func awayToMultiple(x, m, rem float64) float64 {
	s := sign(x)
	if s == 0 {
		s = 1
	}

	n := math.Ceil(math.Abs(x))
	for math.Mod(n, m) != rem {
		n++
	}

	return s * n
}

func odd(x float64) float64 {
	if x == 0 {
		return 1
	}

	return awayToMultiple(x, 2, 1)
}

func fact(n float64) float64 {
	f := 1.0
	for i := 2.0; i <= math.Trunc(n); i++ {
		f *= i
	}

	return f
}

func gcd(a, b float64) float64 {
	for b != 0 {
		a, b = b, math.Mod(a, b)
	}

	return a
}

func lcm(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}

	return a / gcd(a, b) * b
}

// mathAtan2 returns the angle of the point (x_num, y_num). The ordinate is
// the first argument.
func mathAtan2(c *Call) (Value, error) {
	y, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	x, err := c.Number(1)
	if err != nil {
		return Null(), err
	}

	return Number(math.Atan2(y, x)), nil
}

// mathMod returns the truncated remainder, which has the sign of the
// dividend.
func mathMod(c *Call) (Value, error) {
	n, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	d, err := c.Number(1)
	if err != nil || d == 0 {
		return Null(), err
	}

	return Number(math.Mod(n, d)), nil
}

func mathQuotient(c *Call) (Value, error) {
	n, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	d, err := c.Number(1)
	if err != nil || d == 0 {
		return Null(), err
	}

	return Number(math.Trunc(n / d)), nil
}

func mathLog(c *Call) (Value, error) {
	x, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	base, err := c.NumberOr(1, 10)
	if err != nil {
		return Null(), err
	}

	if x <= 0 || base <= 0 || base == 1 {
		return Null(), nil
	}

	if base == 10 {
		return Number(math.Log10(x)), nil
	}

	return Number(math.Log(x) / math.Log(base)), nil
}

func mathRandBetween(c *Call) (Value, error) {
	lo, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	hi, err := c.Number(1)
	if err != nil {
		return Null(), err
	}

	lo, hi = math.Ceil(lo), math.Floor(hi)
	if lo > hi {
		return Null(), nil
	}

	return Number(lo + math.Floor(c.Random()*(hi-lo+1))), nil
}
