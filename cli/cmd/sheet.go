package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xuri/excelize/v2"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Sheet evaluates every formula cell of an Excel workbook.
type Sheet struct {
	File   string   `arg:"" help:"Workbook (.xlsx). Relative names are also searched in FORMULA_PATH." name:"file"`
	Sheets []string `       help:"Only evaluate the named worksheet (repeatable)."                          name:"sheet"`
	Strict bool     `       help:"Fail if any formula cell cannot be evaluated."`
}

// Cell is the evaluation of one workbook formula cell.
type Cell struct {
	Sheet   string
	Ref     string
	Formula string
	// Cached is the value the workbook last stored for the cell.
	Cached string
	Value  lang.Value
	Err    error
}

// Run executes the sheet command.
func (s *Sheet) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path, err := locate(ctx, s.File)
	if err != nil {
		return err
	}

	cells, err := evalWorkbook(ctx, path, s.Sheets, optionsFrom(ctx)...)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(ctx), renderCells(cells))

	var errs []error

	for _, c := range cells {
		if c.Err == nil {
			continue
		}

		log.DebugContext(
			ctx,
			"formula cell failed",
			slog.String("sheet", c.Sheet),
			slog.String("cell", c.Ref),
			slog.Any("error", c.Err),
		)

		errs = append(errs, ErrEval.With(
			slog.String("sheet", c.Sheet),
			slog.String("cell", c.Ref),
		).Wrap(c.Err))
	}

	if s.Strict {
		return errors.Join(errs...)
	}

	return nil
}

// evalWorkbook evaluates the formula cells of the named sheets of the
// workbook at path, or of every sheet when names is empty. Cells are
// returned in sheet order, then row-major order.
func evalWorkbook(
	ctx context.Context,
	path string,
	names []string,
	opts ...lang.Option,
) ([]Cell, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, ErrSheet.With(slog.String("file", path)).Wrap(err)
	}
	defer book.Close()

	if len(names) == 0 {
		names = book.GetSheetList()
	}

	var cells []Cell

	for _, name := range names {
		rows, err := book.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, ErrSheet.With(
				slog.String("file", path),
				slog.String("sheet", name),
			).Wrap(err)
		}

		for r, row := range rows {
			for c, cached := range row {
				ref, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					return nil, ErrSheet.Wrap(err)
				}

				formula, err := book.GetCellFormula(name, ref)
				if err != nil || formula == "" {
					continue
				}

				text := "=" + strings.TrimPrefix(formula, "=")
				value, err := lang.Evaluate(ctx, text, opts...)

				cells = append(cells, Cell{
					Sheet:   name,
					Ref:     ref,
					Formula: text,
					Cached:  cached,
					Value:   value,
					Err:     err,
				})
			}
		}
	}

	return cells, nil
}

// renderCells renders workbook cells as a table.
func renderCells(cells []Cell) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SHEET", "CELL", "FORMULA", "CACHED", "RESULT")

	for _, c := range cells {
		result := c.Value.String()
		if c.Err != nil {
			result = "error: " + c.Err.Error()
		}

		t.Row(c.Sheet, c.Ref, c.Formula, c.Cached, result)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 4 && row < len(cells) && cells[row].Err != nil:
			return failStyle
		}

		return cellStyle
	})

	return t.Render()
}
