package lang

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	register(CategoryText, "LEFT(text, [num_chars])", textLeft(runeUnits))
	register(CategoryText, "LEFTB(text, [num_bytes])", textLeft(byteUnits))
	register(CategoryText, "RIGHT(text, [num_chars])", textRight(runeUnits))
	register(CategoryText, "RIGHTB(text, [num_bytes])", textRight(byteUnits))
	register(CategoryText, "MID(text, start_num, num_chars)", textMid(runeUnits))
	register(CategoryText, "MIDB(text, start_num, num_bytes)", textMid(byteUnits))
	register(CategoryText, "REPLACE(old_text, start_num, num_chars, new_text)", textReplace(runeUnits))
	register(CategoryText, "REPLACEB(old_text, start_num, num_bytes, new_text)", textReplace(byteUnits))
	register(CategoryText, "FIND(find_text, within_text, [start_num])", textFind(runeUnits, false))
	register(CategoryText, "FINDB(find_text, within_text, [start_num])", textFind(byteUnits, false))
	register(CategoryText, "SEARCH(find_text, within_text, [start_num])", textFind(runeUnits, true))
	register(CategoryText, "SEARCHB(find_text, within_text, [start_num])", textFind(byteUnits, true))
	register(CategoryText, "LEN(text)", textLen(runeUnits))
	register(CategoryText, "LENB(text)", textLen(byteUnits))
	register(CategoryText, "CHAR(number)", textChar(255))
	register(CategoryText, "UNICHAR(number)", textChar(unicode.MaxRune))
	register(CategoryText, "CODE(text)", textCode(0xFF))
	register(CategoryText, "UNICODE(text)", textCode(-1))
	register(CategoryText, "CONCAT(text, ...)", textConcat)
	register(CategoryText, "CONCATENATE(text, ...)", textConcat)
	register(CategoryText, "TEXTJOIN(delimiter, ignore_empty, text, ...)", textJoin)
	register(CategoryText, "EXACT(text1, text2)", textExact)
	register(CategoryText, "FIXED(number, [decimals], [no_commas])", textFixed)
	register(CategoryText, "LOWER(text)", mapText(caser(cases.Lower)))
	register(CategoryText, "UPPER(text)", mapText(caser(cases.Upper)))
	register(CategoryText, "PROPER(text)", mapText(caser(cases.Title)))
	register(CategoryText, "TRIM(text)", mapText(trimSpaces))
	register(CategoryText, "CLEAN(text)", mapText(clean))
	register(CategoryText, "REPT(text, number_times)", textRept)
	register(CategoryText, "T(value)", textT)
	register(CategoryText, "SUBSTITUTE(text, old_text, new_text, [instance_num])", textSubstitute)
	register(CategoryText, "VALUE(text)", textValue)
	register(CategoryText, "TEXTBEFORE(text, delimiter, [instance_num])", textAround(true))
	register(CategoryText, "TEXTAFTER(text, delimiter, [instance_num])", textAround(false))

	unimplemented(CategoryText,
		"ARRAYTOTEXT", "ASC", "BAHTTEXT", "DBCS", "DOLLAR", "JIS", "NUMBERVALUE",
		"PHONETIC", "TEXT", "TEXTSPLIT", "VALUETOTEXT",
	)
}

// units measures and slices text either by character or by byte. Byte
// slices that split a character show each stray byte as U+FFFD.
type units struct {
	count func(string) int
	slice func(s string, from, to int) string
	// tail returns s from unit from onward without repairing a split
	// character, so that offsets into it stay in units of s.
	tail func(s string, from int) string
}

var runeUnits = units{
	count: utf8.RuneCountInString,
	slice: func(s string, from, to int) string {
		r := []rune(s)

		return string(r[from:to])
	},
	tail: func(s string, from int) string {
		return string([]rune(s)[from:])
	},
}

var byteUnits = units{
	count: func(s string) int { return len(s) },
	slice: func(s string, from, to int) string { return lossy(s[from:to]) },
	tail:  func(s string, from int) string { return s[from:] },
}

// lossy replaces every byte of s that is not part of a valid UTF-8
// encoding with U+FFFD.
func lossy(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var b strings.Builder

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(r)
		s = s[size:]
	}

	return b.String()
}

// clamp returns the slice bounds [from, from+n) limited to [0, size].
func clamp(from, n, size int) (int, int) {
	from = min(max(from, 0), size)

	return from, from + min(max(n, 0), size-from)
}

func textLeft(u units) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		n, err := c.CountOr(1, 1)
		if err != nil {
			return Null(), err
		}

		if n < 0 {
			return Null(), c.Fail("count must not be negative")
		}

		from, to := clamp(0, n, u.count(s))

		return String(u.slice(s, from, to)), nil
	}
}

func textRight(u units) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		n, err := c.CountOr(1, 1)
		if err != nil {
			return Null(), err
		}

		if n < 0 {
			return Null(), c.Fail("count must not be negative")
		}

		size := u.count(s)
		from, to := clamp(size-n, n, size)

		return String(u.slice(s, from, to)), nil
	}
}

func textMid(u units) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		start, err := c.Count(1)
		if err != nil {
			return Null(), err
		}

		n, err := c.Count(2)
		if err != nil {
			return Null(), err
		}

		if start < 1 || n < 0 {
			return Null(), c.Fail("start must be positive and count not negative")
		}

		from, to := clamp(start-1, n, u.count(s))

		return String(u.slice(s, from, to)), nil
	}
}

func textReplace(u units) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		start, err := c.Count(1)
		if err != nil {
			return Null(), err
		}

		n, err := c.Count(2)
		if err != nil {
			return Null(), err
		}

		repl, err := c.Text(3)
		if err != nil {
			return Null(), err
		}

		if start < 1 || n < 0 {
			return Null(), c.Fail("start must be positive and count not negative")
		}

		size := u.count(s)
		from, to := clamp(start-1, n, size)

		return String(u.slice(s, 0, from) + repl + u.slice(s, to, size)), nil
	}
}

// textFind returns the 1-based position of the first occurrence of a string
// at or after start_num, or null if there is none.
func textFind(u units, fold bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		needle, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		haystack, err := c.Text(1)
		if err != nil {
			return Null(), err
		}

		start, err := c.CountOr(2, 1)
		if err != nil {
			return Null(), err
		}

		size := u.count(haystack)
		if start < 1 || start > max(size, 1) {
			return Null(), nil
		}

		if fold {
			needle, haystack = strings.ToLower(needle), strings.ToLower(haystack)
			size = u.count(haystack)
		}

		if start-1 > size {
			return Null(), nil
		}

		rest := u.tail(haystack, start-1)

		i := strings.Index(rest, needle)
		if i < 0 {
			return Null(), nil
		}

		return Number(float64(start + u.count(rest[:i]))), nil
	}
}

func textLen(u units) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		return Number(float64(u.count(s))), nil
	}
}

// textChar returns the character with the given code, which must be in
// [1, limit]. Codes up to 255 are Latin-1.
func textChar(limit int) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		n, err := c.Int(0)
		if err != nil {
			return Null(), err
		}

		if n < 1 || n > limit || !utf8.ValidRune(rune(n)) {
			return Null(), nil
		}

		return String(string(rune(n))), nil
	}
}

// textCode returns the code of the first character masked by mask, or the
// full code point when mask is negative.
func textCode(mask int) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		if s == "" {
			return Null(), nil
		}

		r, _ := utf8.DecodeRuneInString(s)

		code := int(r)
		if mask >= 0 {
			code &= mask
		}

		return Number(float64(code)), nil
	}
}

func textConcat(c *Call) (Value, error) {
	ss, err := c.Texts(0)
	if err != nil {
		return Null(), err
	}

	return String(strings.Join(ss, "")), nil
}

func textJoin(c *Call) (Value, error) {
	delim, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	ignoreEmpty, err := c.Bool(1)
	if err != nil {
		return Null(), err
	}

	ss, err := c.Texts(2)
	if err != nil {
		return Null(), err
	}

	if ignoreEmpty {
		kept := ss[:0]

		for _, s := range ss {
			if s != "" {
				kept = append(kept, s)
			}
		}

		ss = kept
	}

	return String(strings.Join(ss, delim)), nil
}

func textExact(c *Call) (Value, error) {
	a, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	b, err := c.Text(1)
	if err != nil {
		return Null(), err
	}

	return Bool(a == b), nil
}

// textFixed formats a number with a fixed number of decimals and, unless
// disabled, thousands separators. Negative decimals truncate digits to the
// left of the decimal point.
func textFixed(c *Call) (Value, error) {
	x, err := c.Number(0)
	if err != nil {
		return Null(), err
	}

	decimals, err := c.IntOr(1, 2)
	if err != nil {
		return Null(), err
	}

	noCommas, err := c.BoolOr(2, false)
	if err != nil {
		return Null(), err
	}

	if decimals > 127 {
		return Null(), nil
	}

	if decimals < 0 {
		scale := math.Pow10(-decimals)
		if math.IsInf(scale, 0) {
			x = 0
		} else {
			x = math.Floor(x/scale) * scale
		}

		decimals = 0
	}

	s := strconv.FormatFloat(x, 'f', decimals, 64)
	if noCommas {
		return String(s), nil
	}

	return String(groupThousands(s)), nil
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder

	b.WriteString(sign)

	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	if hasFrac {
		b.WriteString("." + frac)
	}

	return b.String()
}

// caser returns a case mapping of text. Casers are stateful, so each call
// gets its own.
func caser(mk func(language.Tag, ...cases.Option) cases.Caser) func(string) string {
	return func(s string) string { return mk(language.Und).String(s) }
}

func mapText(op func(string) string) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		return String(op(s)), nil
	}
}

// trimSpaces removes leading and trailing spaces and collapses inner runs
// of spaces to one. Other whitespace is kept.
func trimSpaces(s string) string {
	words := strings.Split(s, " ")
	kept := words[:0]

	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}

	return strings.Join(kept, " ")
}

// clean removes the non-printing ASCII control characters 0 through 31.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 {
			return -1
		}

		return r
	}, s)
}

func textRept(c *Call) (Value, error) {
	s, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	n, err := c.Count(1)
	if err != nil {
		return Null(), err
	}

	if n < 0 {
		return Null(), c.Fail("count must not be negative")
	}

	if n > 0 && len(s) > 32767/n {
		return Null(), nil
	}

	return String(strings.Repeat(s, n)), nil
}

// textT returns its argument if it is a string and the empty string
// otherwise.
func textT(c *Call) (Value, error) {
	v, err := c.Arg(0)
	if err != nil {
		return Null(), err
	}

	if s, ok := v.AsString(); ok {
		return String(s), nil
	}

	return String(""), nil
}

// textSubstitute replaces old_text with new_text, either everywhere or only
// at the given 1-based occurrence.
func textSubstitute(c *Call) (Value, error) {
	s, err := c.Text(0)
	if err != nil {
		return Null(), err
	}

	old, err := c.Text(1)
	if err != nil {
		return Null(), err
	}

	repl, err := c.Text(2)
	if err != nil {
		return Null(), err
	}

	if !c.Has(3) {
		if old == "" {
			return String(s), nil
		}

		return String(strings.ReplaceAll(s, old, repl)), nil
	}

	n, err := c.Int(3)
	if err != nil {
		return Null(), err
	}

	if n < 1 {
		return Null(), c.Fail("instance must be positive")
	}

	if old == "" {
		return String(s), nil
	}

	i := nthIndex(s, old, n)
	if i < 0 {
		return String(s), nil
	}

	return String(s[:i] + repl + s[i+len(old):]), nil
}

// nthIndex returns the byte index of the n-th non-overlapping occurrence of
// sep in s, counting from the end when n is negative, or -1.
func nthIndex(s, sep string, n int) int {
	if n > 0 {
		off := 0

		for ; n > 0; n-- {
			i := strings.Index(s[off:], sep)
			if i < 0 {
				return -1
			}

			if n == 1 {
				return off + i
			}

			off += i + len(sep)
		}

		return -1
	}

	end := len(s)

	for ; n < 0; n++ {
		i := strings.LastIndex(s[:end], sep)
		if i < 0 {
			return -1
		}

		if n == -1 {
			return i
		}

		end = i
	}

	return -1
}

// textValue converts text that looks like a number, optionally with
// thousands separators or a trailing percent sign, to a number.
func textValue(c *Call) (Value, error) {
	v, err := c.Arg(0)
	if err != nil || v.IsNull() {
		return Null(), err
	}

	if n, ok := v.AsNumber(); ok {
		return Number(n), nil
	}

	s, ok := v.AsString()
	if !ok {
		return Null(), c.mismatch(0, KindString.String(), v)
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")

	scale := 1.0
	if t, ok := strings.CutSuffix(s, "%"); ok {
		s, scale = strings.TrimSpace(t), 0.01
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null(), nil
	}

	return Number(n * scale), nil
}

func textAround(before bool) func(*Call) (Value, error) {
	return func(c *Call) (Value, error) {
		s, err := c.Text(0)
		if err != nil {
			return Null(), err
		}

		delim, err := c.Text(1)
		if err != nil {
			return Null(), err
		}

		n, err := c.IntOr(2, 1)
		if err != nil {
			return Null(), err
		}

		if n == 0 {
			return Null(), c.Fail("instance must not be zero")
		}

		if delim == "" {
			if (n > 0) == before {
				return String(""), nil
			}

			return String(s), nil
		}

		i := nthIndex(s, delim, n)
		if i < 0 {
			return Null(), nil
		}

		if before {
			return String(s[:i]), nil
		}

		return String(s[i+len(delim):]), nil
	}
}
