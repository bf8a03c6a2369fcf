package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/formula/demo"
	"github.com/ardnew/formula/log"
)

// Demo runs the demonstration harness over the default samples.
type Demo struct {
	UI      bool     `help:"Render the samples into an HTML document instead of the console."`
	HTML    string   `help:"Write the HTML document to this file instead of stdout. Implies --ui." name:"html" type:"path"`
	Samples []string `help:"Formula to evaluate in place of the defaults (repeatable)."            name:"sample" short:"e"`
}

// Run executes the demo command.
func (d *Demo) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	samples := d.Samples
	if len(samples) == 0 {
		samples = demo.Samples()
	}

	engine := demo.Engine{Options: optionsFrom(ctx)}

	if d.UI || d.HTML != "" {
		return d.render(ctx, engine, samples)
	}

	results := demo.RunConsole(
		ctx,
		demo.Static(engine),
		stdout(ctx),
		stderr(ctx),
		samples...,
	)

	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	log.DebugContext(
		ctx,
		"demo console complete",
		slog.Int("samples", len(results)),
		slog.Int("failed", failed),
	)

	return nil
}

// render writes the UI variant's document. The document is written even
// when a sample fails, holding the rows rendered before the failure.
func (d *Demo) render(
	ctx context.Context,
	engine demo.Engine,
	samples []string,
) error {
	doc := new(demo.Document)

	renderErr := demo.RenderUI(ctx, doc, engine, samples...)
	if renderErr != nil {
		log.ErrorContext(ctx, "demo render failed", slog.Any("error", renderErr))
	}

	w := stdout(ctx)

	if d.HTML != "" {
		file, err := os.Create(d.HTML)
		if err != nil {
			return errors.Join(renderErr, err)
		}
		defer file.Close()

		w = file
	}

	_, err := doc.WriteTo(w)

	return errors.Join(renderErr, err)
}
