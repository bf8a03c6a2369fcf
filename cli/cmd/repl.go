package cmd

import (
	"context"

	"github.com/ardnew/formula/cli/cmd/repl"
	"github.com/ardnew/formula/log"
)

// Repl starts the interactive formula evaluator.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, cacheDir, log.Default(), optionsFrom(ctx)...)
}
