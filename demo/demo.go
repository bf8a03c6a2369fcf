package demo

import (
	"context"
	"slices"
	"sync"

	"github.com/ardnew/formula/lang"
)

// Module evaluates formula text. A successful result may be null.
type Module interface {
	Parse(ctx context.Context, text string) (lang.Value, error)
}

// ModuleFunc adapts a function to the [Module] interface.
type ModuleFunc func(ctx context.Context, text string) (lang.Value, error)

func (f ModuleFunc) Parse(ctx context.Context, text string) (lang.Value, error) {
	return f(ctx, text)
}

// Engine is a [Module] backed by [lang.Evaluate].
type Engine struct {
	Options []lang.Option
}

func (e Engine) Parse(ctx context.Context, text string) (lang.Value, error) {
	return lang.Evaluate(ctx, text, e.Options...)
}

// Loader obtains a [Module].
type Loader func(ctx context.Context) (Module, error)

// Static returns a Loader that always yields mod.
func Static(mod Module) Loader {
	return func(context.Context) (Module, error) { return mod, nil }
}

// Once returns a Loader that calls load at most once. Every caller, including
// concurrent ones, receives the result of that single call.
func Once(load Loader) Loader {
	var (
		once sync.Once
		mod  Module
		err  error
	)

	return func(ctx context.Context) (Module, error) {
		once.Do(func() { mod, err = load(ctx) })

		return mod, err
	}
}

var samples = []string{
	`=UPPER("hello")`,
	`=F.DIV(2, 0)`,
	`=DATEVALUE('1/30/2020')`,
	`=NOW()`,
	`={'TEST', SUM(1,2); 2, TRUE}`,
}

// Samples returns the default sample formulas.
func Samples() []string { return slices.Clone(samples) }
