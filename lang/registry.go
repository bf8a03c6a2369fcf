package lang

//go:generate go tool stringer --linecomment --type Category --output category_string.go

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Category groups built-in functions the way spreadsheet documentation does.
type Category uint8

const (
	CategoryOperator Category = iota // operator
	CategoryMath                     // math
	CategoryText                     // text
	CategoryLogical                  // logical
	CategoryDatetime                 // datetime
	CategoryWeb                      // web
	categoryCount
)

// Categories returns the names of all categories.
func Categories() iter.Seq[string] {
	return func(yield func(string) bool) {
		for c := range categoryCount {
			if !yield(c.String()) {
				return
			}
		}
	}
}

// ParseCategory returns the category with the given name.
func ParseCategory(name string) (Category, bool) {
	for c := range categoryCount {
		if strings.EqualFold(c.String(), name) {
			return c, true
		}
	}

	return 0, false
}

// Builtin describes a built-in function.
type Builtin struct {
	fn func(*Call) (Value, error)

	// Name is the canonical upper-case name.
	Name string
	// Usage is the call signature. Optional parameters are written in
	// brackets and a trailing "..." repeats the preceding parameters.
	Usage    string
	Min, Max int
	Category Category
}

// Implemented reports whether the function can be evaluated.
func (b *Builtin) Implemented() bool { return b.fn != nil }

// Accepts reports whether the function may be called with n arguments.
func (b *Builtin) Accepts(n int) bool {
	return n >= b.Min && (b.Max < 0 || n <= b.Max)
}

// Arity describes the accepted argument count.
func (b *Builtin) Arity() string {
	plural := func(n int) string {
		if n == 1 {
			return "1 argument"
		}

		return strconv.Itoa(n) + " arguments"
	}

	switch {
	case b.Max < 0:
		return "expects at least " + plural(b.Min)
	case b.Min == b.Max:
		return "expects " + plural(b.Min)
	}

	return "expects " + strconv.Itoa(b.Min) + " to " + plural(b.Max)
}

// Params returns the parameter names listed in Usage.
func (b *Builtin) Params() []string {
	open := strings.IndexByte(b.Usage, '(')
	end := strings.LastIndexByte(b.Usage, ')')

	if open < 0 || end <= open+1 {
		return nil
	}

	params := strings.Split(b.Usage[open+1:end], ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}

	return params
}

var registry = make(map[string]*Builtin)

// register adds a built-in function described by usage, such as
// "MID(text, start, length)" or "SUM(number, ...)". A nil fn registers a
// name that is recognized but not yet implemented.
func register(cat Category, usage string, fn func(*Call) (Value, error)) {
	name, _, _ := strings.Cut(usage, "(")
	name = strings.ToUpper(strings.TrimSpace(name))

	b := &Builtin{
		Name:     name,
		Usage:    usage,
		Category: cat,
		fn:       fn,
		Max:      -1,
	}

	if strings.Contains(usage, "(") {
		b.Min, b.Max = 0, 0

		for _, p := range b.Params() {
			switch {
			case p == "...":
				b.Max = -1
			case strings.HasPrefix(p, "["):
				if b.Max >= 0 {
					b.Max++
				}
			default:
				b.Min++
				if b.Max >= 0 {
					b.Max++
				}
			}
		}
	}

	registry[name] = b
}

// unimplemented registers names that are recognized but not yet
// implemented. They accept any number of arguments.
func unimplemented(cat Category, names ...string) {
	for _, name := range names {
		register(cat, name, nil)
	}
}

// Lookup returns the built-in function with the given case-insensitive
// name, or nil if there is none.
func Lookup(name string) *Builtin {
	return registry[strings.ToUpper(name)]
}

// Builtins returns all built-in functions ordered by category and name.
func Builtins() []*Builtin {
	return slices.SortedFunc(maps.Values(registry), func(a, b *Builtin) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Name, b.Name))
	})
}
