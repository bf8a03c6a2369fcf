//go:build js && wasm

// Command formula-wasm exposes the formula evaluator to JavaScript.
//
// It registers a global parse(text) function that evaluates a formula and
// returns its value as a JavaScript string, number, boolean or null. Dates,
// times and arrays are returned as their display strings. Failures are
// thrown as JavaScript Error values.
package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/ardnew/formula/lang"
)

// evalName is the global holding the Go evaluator. The exported parse
// function wraps it to throw the Error values it returns.
const evalName = "__formulaEval"

// errNoNetwork is returned by WEBSERVICE: a blocking request from inside a
// JavaScript callback would deadlock the event loop.
var errNoNetwork = errors.New("web requests are unavailable in the browser build")

func main() {
	fetch := lang.FetcherFunc(func(context.Context, string) (string, error) {
		return "", errNoNetwork
	})

	eval := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) != 1 || args[0].Type() != js.TypeString {
			return newError("parse expects a single string argument")
		}

		v, err := lang.Evaluate(
			context.Background(),
			args[0].String(),
			lang.WithFetcher(fetch),
		)
		if err != nil {
			return newError(err.Error())
		}

		return jsValue(v)
	})

	global := js.Global()
	global.Set(evalName, eval)
	global.Set("parse", global.Get("Function").New("text", `
		const result = globalThis.`+evalName+`(text);
		if (result instanceof Error) {
			throw result;
		}
		return result;
	`))

	select {}
}

func newError(msg string) js.Value {
	return js.Global().Get("Error").New(msg)
}

// jsValue converts v to a value accepted by js.ValueOf.
func jsValue(v lang.Value) any {
	switch v.Kind() {
	case lang.KindNull:
		return nil
	case lang.KindNumber:
		n, _ := v.AsNumber()

		return n
	case lang.KindString:
		s, _ := v.AsString()

		return s
	case lang.KindBool:
		b, _ := v.AsBool()

		return b
	}

	return v.String()
}
