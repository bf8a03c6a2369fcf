package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the formula in canonical syntax to the writer: upper-case
// function names, double-quoted strings, and single spaces after separators.
func (f *Formula) Format(w io.Writer) error {
	_, err := io.WriteString(w, f.String()+"\n")

	return err
}

// String returns the formula in canonical syntax.
func (f *Formula) String() string {
	var b strings.Builder

	b.WriteByte('=')
	formatNode(&b, f.root)

	return b.String()
}

func formatNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *NumberLit:
		b.WriteString(formatNumber(n.Value))

	case *StringLit:
		b.WriteString(quote(n.Value))

	case *BoolLit:
		if n.Value {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}

	case *ArrayLit:
		b.WriteByte('{')

		for i, row := range n.Rows {
			if i > 0 {
				b.WriteString("; ")
			}

			for j, e := range row {
				if j > 0 {
					b.WriteString(", ")
				}

				formatNode(b, e)
			}
		}

		b.WriteByte('}')

	case *CallExpr:
		b.WriteString(n.Name)
		b.WriteByte('(')

		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			formatNode(b, a)
		}

		b.WriteByte(')')
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Tree writes an indented dump of the syntax tree to the writer, one node
// per line with its source position.
func (f *Formula) Tree(w io.Writer) error {
	var err error

	Walk(f.root, func(n Node, depth int) bool {
		if err != nil {
			return false
		}

		indent := strings.Repeat("  ", depth)

		switch n := n.(type) {
		case *NumberLit:
			_, err = fmt.Fprintf(w, "%snumber %s @%s\n", indent, formatNumber(n.Value), n.At)
		case *StringLit:
			_, err = fmt.Fprintf(w, "%sstring %s @%s\n", indent, quote(n.Value), n.At)
		case *BoolLit:
			_, err = fmt.Fprintf(w, "%sbool %t @%s\n", indent, n.Value, n.At)
		case *ArrayLit:
			_, err = fmt.Fprintf(w, "%sarray %dx%d @%s\n", indent, len(n.Rows), rowWidth(n), n.At)
		case *CallExpr:
			_, err = fmt.Fprintf(w, "%scall %s/%d @%s\n", indent, n.Name, len(n.Args), n.At)
		}

		return true
	})

	return err
}

func rowWidth(n *ArrayLit) int {
	width := 0
	for _, row := range n.Rows {
		width = max(width, len(row))
	}

	return width
}

// FormatJSON writes the syntax tree as JSON to the writer.
func (f *Formula) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(encodeNode(f.root), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(encodeNode(f.root))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree as YAML to the writer.
func (f *Formula) FormatYAML(_ context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalWithOptions(encodeNode(f.root), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// encodeNode returns n as plain maps and slices for serialization.
func encodeNode(n Node) any {
	switch n := n.(type) {
	case *NumberLit:
		return map[string]any{"number": n.Value}
	case *StringLit:
		return map[string]any{"string": n.Value}
	case *BoolLit:
		return map[string]any{"bool": n.Value}
	case *ArrayLit:
		rows := make([]any, len(n.Rows))

		for i, row := range n.Rows {
			elems := make([]any, len(row))
			for j, e := range row {
				elems[j] = encodeNode(e)
			}

			rows[i] = elems
		}

		if !n.Grid {
			return map[string]any{"array": rows[0]}
		}

		return map[string]any{"array": rows}
	case *CallExpr:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = encodeNode(a)
		}

		return map[string]any{"call": n.Name, "args": args}
	}

	return nil
}
