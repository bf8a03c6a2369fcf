package lang

//go:generate go tool stringer --linecomment --type Kind --output kind_string.go

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a [Value].
type Kind uint8

const (
	KindNull     Kind = iota // null
	KindNumber               // number
	KindString               // string
	KindBool                 // bool
	KindDate                 // date
	KindTime                 // time
	KindDatetime             // datetime
	KindArray                // array
)

const (
	dateLayout     = time.DateOnly
	timeLayout     = time.TimeOnly
	datetimeLayout = "2006-01-02 15:04:05.999999999 UTC"
)

// Value is the result of evaluating a formula or any of its arguments.
// The zero Value is null, which also stands in for spreadsheet error results
// such as #DIV/0! and #NUM!.
//
// Dates are held as UTC midnight, times of day as a clock reading on
// 0000-01-01 UTC, and datetimes as UTC instants.
type Value struct {
	t    time.Time
	str  string
	arr  []Value
	num  float64
	kind Kind
	b    bool
}

func Null() Value { return Value{} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns the calendar date y-m-d, normalized like [time.Date].
func Date(y int, m time.Month, d int) Value {
	return Value{kind: KindDate, t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Value {
	y, m, d := t.Date()

	return Date(y, m, d)
}

// TimeOfDay returns the clock reading h:m:s, wrapped into a single day.
func TimeOfDay(h, m, s int) Value {
	secs := ((h*3600+m*60+s)%86400 + 86400) % 86400

	return Value{
		kind: KindTime,
		t:    time.Date(0, time.January, 1, 0, 0, secs, 0, time.UTC),
	}
}

// ClockOf returns the time of day of t in its own location.
func ClockOf(t time.Time) Value {
	h, m, s := t.Clock()
	v := TimeOfDay(h, m, s)
	v.t = v.t.Add(time.Duration(t.Nanosecond()))

	return v
}

// Datetime returns the instant t.
func Datetime(t time.Time) Value { return Value{kind: KindDatetime, t: t.UTC()} }

// Array returns an array of the given elements.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindArray, arr: elems}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsTime returns the time held by a date, time, or datetime value.
func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindTime, KindDatetime:
		return v.t, true
	}

	return time.Time{}, false
}

// AsArray returns the elements of an array value. The slice must not be
// modified.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// String returns the display form of v: the text a spreadsheet cell or the
// demo harness shows for it.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(dateLayout)
	case KindTime:
		return v.t.Format(timeLayout + ".999999999")
	case KindDatetime:
		return v.t.Format(datetimeLayout)
	case KindArray:
		var b strings.Builder

		writeArray(&b, v.arr)

		return b.String()
	}

	return "null"
}

func writeArray(b *strings.Builder, elems []Value) {
	b.WriteByte('[')

	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}

		switch e.kind {
		case KindArray:
			writeArray(b, e.arr)
		case KindString, KindDate, KindTime, KindDatetime:
			b.WriteByte('"')
			b.WriteString(e.String())
			b.WriteByte('"')
		default:
			b.WriteString(e.String())
		}
	}

	b.WriteByte(']')
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindDate, KindTime, KindDatetime:
		return v.t.Equal(o.t)
	case KindArray:
		return slices.EqualFunc(v.arr, o.arr, Value.Equal)
	}

	return true
}

// Native returns v as a plain Go value: nil, float64, string, bool,
// time.Time, or []any.
func (v Value) Native() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindDate, KindTime, KindDatetime:
		return v.t
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}

		return out
	}

	return nil
}
