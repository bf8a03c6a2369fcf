package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Batch evaluates the cases of a YAML case file concurrently and checks each
// result against its expectation.
//
// A case file looks like:
//
//	cases:
//	  - name: upper
//	    formula: =UPPER("abc")
//	    expect: result == "ABC"
//	  - name: division by zero
//	    formula: =F.DIV(1, 0)
//	    expect: "null"
//
// An expectation is an expr-lang boolean expression over the variables
// result (the value as a Go value), text (its display string), kind, null
// and error (the error message, empty on success). A case without an
// expectation passes when the formula evaluates without error.
type Batch struct {
	File string `arg:"" help:"Case file. Relative names are also searched in FORMULA_PATH." name:"file"`
	Jobs int    `       help:"Maximum number of cases evaluated concurrently (0 for GOMAXPROCS)." default:"0" short:"j"`
}

// Case is one entry of a case file.
type Case struct {
	Name    string `yaml:"name"`
	Formula string `yaml:"formula"`
	Expect  string `yaml:"expect"`
}

// CaseFile is the document structure of a case file.
type CaseFile struct {
	Cases []Case `yaml:"cases"`
}

// Outcome is the result of running one case.
type Outcome struct {
	Case

	Value lang.Value
	Err   error
	Pass  bool
	// Reason explains a failed expectation.
	Reason string
}

// Run executes the run command.
func (b *Batch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path, err := locate(ctx, b.File)
	if err != nil {
		return err
	}

	cases, err := loadCases(path)
	if err != nil {
		return err
	}

	outcomes := runCases(ctx, cases, b.Jobs, optionsFrom(ctx)...)

	failed := 0

	for _, o := range outcomes {
		if !o.Pass {
			failed++

			log.ErrorContext(
				ctx,
				"case failed",
				slog.String("name", o.Name),
				slog.String("formula", o.Formula),
				slog.String("reason", o.Reason),
			)
		}
	}

	w := stdout(ctx)

	fmt.Fprintln(w, renderOutcomes(outcomes))
	fmt.Fprintf(w, "%d passed, %d failed\n", len(outcomes)-failed, failed)

	if failed > 0 {
		return ErrCaseFailed.With(
			slog.String("file", path),
			slog.Int("failed", failed),
		)
	}

	return nil
}

// loadCases reads and decodes the case file at path.
func loadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadCases.With(slog.String("file", path)).Wrap(err)
	}

	var file CaseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, ErrReadCases.With(slog.String("file", path)).Wrap(err)
	}

	for i := range file.Cases {
		if file.Cases[i].Name == "" {
			file.Cases[i].Name = "#" + strconv.Itoa(i+1)
		}
	}

	return file.Cases, nil
}

// runCases evaluates cases with at most jobs running at once and returns
// their outcomes in case order.
func runCases(
	ctx context.Context,
	cases []Case,
	jobs int,
	opts ...lang.Option,
) []Outcome {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(cases))

	var g errgroup.Group

	g.SetLimit(jobs)

	for i, c := range cases {
		g.Go(func() error {
			outcomes[i] = runCase(ctx, c, opts...)

			return nil
		})
	}

	_ = g.Wait()

	return outcomes
}

func runCase(ctx context.Context, c Case, opts ...lang.Option) Outcome {
	o := Outcome{Case: c}

	o.Value, o.Err = lang.Evaluate(ctx, c.Formula, opts...)

	if c.Expect == "" {
		o.Pass = o.Err == nil
		if !o.Pass {
			o.Reason = o.Err.Error()
		}

		return o
	}

	env := expectEnv(o.Value, o.Err)

	program, err := expr.Compile(c.Expect, expr.Env(env), expr.AsBool())
	if err != nil {
		o.Reason = ErrExpect.Wrap(err).Error()

		return o
	}

	out, err := expr.Run(program, env)
	if err != nil {
		o.Reason = ErrExpect.Wrap(err).Error()

		return o
	}

	o.Pass, _ = out.(bool)
	if !o.Pass {
		o.Reason = "expectation not met: " + c.Expect
	}

	return o
}

// expectEnv returns the variables visible to an expectation.
func expectEnv(v lang.Value, err error) map[string]any {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	return map[string]any{
		"result": v.Native(),
		"text":   v.String(),
		"kind":   v.Kind().String(),
		"null":   err == nil && v.IsNull(),
		"error":  msg,
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	passStyle   = cellStyle.Foreground(lipgloss.Color("2"))
	failStyle   = cellStyle.Foreground(lipgloss.Color("1"))
)

// renderOutcomes renders outcomes as a table.
func renderOutcomes(outcomes []Outcome) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CASE", "FORMULA", "RESULT", "STATUS")

	for _, o := range outcomes {
		result := o.Value.String()
		if o.Err != nil {
			result = "error: " + o.Err.Error()
		}

		status := "pass"
		if !o.Pass {
			status = "FAIL"
		}

		t.Row(o.Name, o.Formula, result, status)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col != 3 || row >= len(outcomes):
			return cellStyle
		case outcomes[row].Pass:
			return passStyle
		default:
			return failStyle
		}
	})

	return t.Render()
}
