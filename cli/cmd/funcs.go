package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ardnew/formula/lang"
)

// Funcs lists the built-in function registry.
type Funcs struct {
	Categories []string `help:"Only list functions of this category (repeatable): ${categories}." name:"category" short:"c"`
	Missing    bool     `help:"Only list functions that are recognized but not implemented."`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	fns, err := selectBuiltins(f.Categories, f.Missing)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(ctx), renderBuiltins(fns))

	return nil
}

// CategoryNames returns the registry categories joined for help text.
func CategoryNames() string {
	var names []string
	for c := range lang.Categories() {
		names = append(names, c)
	}

	return strings.Join(names, ", ")
}

// selectBuiltins returns the built-in functions in the named categories, or
// all of them when categories is empty. With missing set only unimplemented
// functions are returned.
func selectBuiltins(categories []string, missing bool) ([]*lang.Builtin, error) {
	want := make(map[lang.Category]bool, len(categories))

	for _, name := range categories {
		c, ok := lang.ParseCategory(name)
		if !ok {
			return nil, ErrUnknownCategory.With(
				slog.String("category", name),
				slog.String("valid", CategoryNames()),
			)
		}

		want[c] = true
	}

	var out []*lang.Builtin

	for _, fn := range lang.Builtins() {
		if len(want) > 0 && !want[fn.Category] {
			continue
		}

		if missing && fn.Implemented() {
			continue
		}

		out = append(out, fn)
	}

	return out, nil
}

// renderBuiltins renders built-in functions as a table.
func renderBuiltins(fns []*lang.Builtin) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CATEGORY", "USAGE", "ARITY", "STATUS")

	for _, fn := range fns {
		status := "ok"
		if !fn.Implemented() {
			status = "not implemented"
		}

		t.Row(fn.Category.String(), fn.Usage, fn.Arity(), status)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 3 && row < len(fns) && !fns[row].Implemented():
			return failStyle
		}

		return cellStyle
	})

	return t.Render()
}
