package demo

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Placeholder is rendered in place of a null result.
const Placeholder = "(empty)"

// Document is a page of rendered rows. Rows are markup and are written
// without escaping.
type Document struct {
	Title string
	rows  []string
}

// Append adds a row to the document.
func (d *Document) Append(row string) { d.rows = append(d.rows, row) }

// Rows returns the rows appended so far.
func (d *Document) Rows() []string { return d.rows }

// WriteTo writes the document as a minimal HTML page with one paragraph per
// row.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	title := d.Title
	if title == "" {
		title = "formula"
	}

	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	b.WriteString("<title>" + title + "</title>\n")
	b.WriteString("</head>\n<body>\n")

	for _, row := range d.rows {
		b.WriteString("<p>" + row + "</p>\n")
	}

	b.WriteString("</body>\n</html>\n")

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}

// RenderUI parses each sample in order and appends "formula: value" to doc.
// The first failure stops rendering and is returned.
func RenderUI(ctx context.Context, doc *Document, mod Module, samples ...string) error {
	for _, sample := range samples {
		v, err := mod.Parse(ctx, sample)
		if err != nil {
			return fmt.Errorf("%s: %w", sample, err)
		}

		text := Placeholder
		if !v.IsNull() {
			text = v.String()
		}

		doc.Append(sample + ": " + text)
	}

	return nil
}
