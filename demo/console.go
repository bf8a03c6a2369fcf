package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
)

// Result is the outcome of one sample.
type Result struct {
	Value  lang.Value
	Err    error
	Sample string
}

// RunConsole evaluates each sample concurrently. Each goroutine waits for the
// shared module load and then parses its sample, printing the value to out or
// the error to errs. Lines are written in completion order; the returned
// results are in sample order.
func RunConsole(
	ctx context.Context,
	load Loader,
	out, errs io.Writer,
	samples ...string,
) []Result {
	load = Once(load)
	results := make([]Result, len(samples))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)

	for i, sample := range samples {
		g.Go(func() error {
			r := Result{Sample: sample}

			mod, err := load(ctx)
			if err == nil {
				r.Value, r.Err = mod.Parse(ctx, sample)
			} else {
				r.Err = err
			}

			results[i] = r

			mu.Lock()
			defer mu.Unlock()

			if r.Err != nil {
				log.ErrorContext(ctx, "sample failed",
					slog.String("formula", sample),
					slog.Any("error", r.Err),
				)

				_, _ = fmt.Fprintln(errs, r.Err)

				return nil
			}

			_, _ = fmt.Fprintln(out, r.Value)

			return nil
		})
	}

	_ = g.Wait()

	return results
}
