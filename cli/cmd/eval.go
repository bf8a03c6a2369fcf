package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Eval evaluates formulas given as arguments or read one per line from the
// source files.
type Eval struct {
	Formulas []string `arg:"" help:"Formula text, e.g. '=SUM(1, 2)'. Read from --source or stdin when omitted." name:"formula" optional:""`
	Whole    bool     `       help:"Read all input as one formula that may span lines."                                       short:"w"`
	Output   string   `       help:"Output format (${enum})."                                                                   default:"native" enum:"native,json,yaml" short:"o"`
	Indent   int      `       help:"Indent width for JSON and YAML output."                                                     default:"2"      short:"i"`
}

// Run executes the eval command. Every formula is evaluated even if an
// earlier one fails. Failures are logged and returned joined.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	inputs, err := parseInputs(ctx, e.Formulas, e.Whole, optionsFrom(ctx))
	if err != nil {
		return err
	}

	records := make([]record, 0, len(inputs))

	var errs []error

	for _, in := range inputs {
		text := in.Text

		value, err := lang.Null(), in.Err
		if err == nil {
			value, err = in.Formula.Eval(ctx)
		}

		if err != nil {
			err = ErrEval.With(slog.String("formula", text)).Wrap(err)

			log.ErrorContext(ctx, "evaluation failed", slog.Any("error", err))
			fmt.Fprintln(stderr(ctx), err)

			errs = append(errs, err)
			records = append(records, record{Formula: text, Error: err.Error()})

			continue
		}

		log.DebugContext(
			ctx,
			"evaluated formula",
			slog.String("formula", text),
			slog.String("kind", value.Kind().String()),
		)

		records = append(records, record{Formula: text, Value: value})
	}

	if err := writeRecords(stdout(ctx), e.Output, e.Indent, records); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
