// Package profile provides optional runtime profiling for the formula
// command.
//
// Profiling is backed by [github.com/pkg/profile] and must be enabled at
// build time with the "pprof" build tag:
//
//	go build -tags pprof -o formula .
//	./formula --pprof-mode cpu run cases.yaml
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. Profiles are written to the configured directory, which
// defaults to the pprof directory below the user cache directory, e.g.
// $XDG_CACHE_HOME/formula/pprof. Analyze them with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/formula/pprof/cpu.pprof
//
// With the tag set the package also imports [net/http/pprof], registering
// its handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
