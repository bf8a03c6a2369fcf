// Package cli contains the command line interface for formula.
//
// # Usage
//
//	formula '=SUM(1, 2)' '=UPPER("abc")'   # eval is the default command
//	formula fmt --tree '=IF(TRUE, 1, 2)'
//	formula demo --ui --html demo.html
//	formula run cases.yaml --jobs 4
//	formula sheet book.xlsx --sheet Sheet1
//	formula funcs --category text
//	formula repl
//
// # Configuration
//
// Flags are resolved in order from the command line, environment variables
// named FORMULA_<FLAG> (e.g. FORMULA_LOG_LEVEL), config.json and then
// config.yaml in the user configuration directory, e.g.
// $XDG_CONFIG_HOME/formula. The init command writes config.yaml from the
// current flag values. YAML keys may spell flag names with hyphens or
// underscores.
//
// Case files and workbooks named by relative path are searched in the working
// directory, then each directory listed in FORMULA_PATH, then the
// configuration directory.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o formula .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/formula/pprof)
package cli
