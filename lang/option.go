package lang

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/ardnew/formula/log"
)

// DefaultMaxDepth is the default maximum nesting depth of calls and array
// literals. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// DefaultTimeout bounds each WEBSERVICE request made by the default fetcher.
const DefaultTimeout = 10 * time.Second

type options struct {
	logger   log.Logger
	clock    func() time.Time
	random   func() float64
	fetcher  Fetcher
	timeout  time.Duration
	maxDepth int
}

// Option configures parsing or evaluation.
type Option func(*options)

func makeOptions(opts ...Option) *options {
	o := &options{
		clock:    time.Now,
		random:   rand.Float64,
		timeout:  DefaultTimeout,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.fetcher == nil {
		o.fetcher = &HTTPFetcher{Client: &http.Client{Timeout: o.timeout}}
	}

	return o
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithClock sets the source of the current time used by NOW and TODAY.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithRand sets the source of uniform random numbers in [0, 1) used by RAND
// and RANDBETWEEN.
func WithRand(random func() float64) Option {
	return func(o *options) {
		if random != nil {
			o.random = random
		}
	}
}

// WithFetcher sets the client used by WEBSERVICE.
func WithFetcher(f Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithTimeout sets the request timeout of the default WEBSERVICE fetcher.
// It has no effect when combined with [WithFetcher].
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}
