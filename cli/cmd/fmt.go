package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Fmt parses formulas and prints them in canonical syntax or as a syntax
// tree.
type Fmt struct {
	Formulas []string `arg:"" help:"Formula text. Read from --source or stdin when omitted." name:"formula" optional:""`
	Whole    bool     `       help:"Read all input as one formula that may span lines."                    short:"w"`
	Tree     bool     `       help:"Print an indented syntax tree with source positions."                  short:"t"`
	Output   string   `       help:"Output format of the syntax tree (${enum})."                           default:"native" enum:"native,json,yaml" short:"o"`
	Indent   int      `       help:"Indent width for JSON and YAML output."                                default:"2"      short:"i"`
}

// Run executes the fmt command. Formulas that fail to parse are reported and
// skipped; the failures are returned joined.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	inputs, err := parseInputs(ctx, f.Formulas, f.Whole, optionsFrom(ctx))
	if err != nil {
		return err
	}

	w := stdout(ctx)

	var errs []error

	for _, in := range inputs {
		formula, err := in.Formula, in.Err
		if err != nil {
			err = lang.WrapError(err).With(slog.String("command", "fmt"))

			log.ErrorContext(ctx, "parse failed", slog.Any("error", err))
			fmt.Fprintln(stderr(ctx), err)

			errs = append(errs, err)

			continue
		}

		switch {
		case f.Output == outputJSON:
			err = formula.FormatJSON(ctx, w, f.Indent)
		case f.Output == outputYAML:
			err = formula.FormatYAML(ctx, w, f.Indent)
		case f.Tree:
			err = formula.Tree(w)
		default:
			err = formula.Format(w)
		}

		if err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}
