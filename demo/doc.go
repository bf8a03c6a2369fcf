// Package demo drives a formula [Module] over a list of sample formulas and
// renders each result.
//
// Two variants are provided. [RunConsole] evaluates every sample in its own
// goroutine after a shared, one-time module load and prints each result as
// it completes; a failing sample is reported and never affects the others.
// [RenderUI] evaluates the samples in order, appending "formula: value" rows
// to a [Document], and stops at the first failure.
package demo
