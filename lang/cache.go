package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed syntax trees keyed by a hash of the source text
// and the options that affect parsing. Trees are immutable, so one entry is
// shared by every formula parsed from the same text.
var globalCache sync.Map

// state tracks the parse of one cache key.
type state struct {
	once sync.Once
	root Node
	err  error
}

// cacheKey hashes the source with the maximum depth, the only option that
// changes the parse result.
func cacheKey(source string, o *options) string {
	h := xxh3.HashString(strconv.Itoa(o.maxDepth) + "\x00" + source)

	return strconv.FormatUint(h, 36)
}

// parseCached parses source once per cache key.
func parseCached(ctx context.Context, source string, o *options) (Node, error) {
	key := cacheKey(source, o)

	value, cacheHit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrParse.With(slog.String("issue", "invalid cache entry"))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.root, entry.err = parse(ctx, source, o)
	})

	return entry.root, entry.err
}

// ParseReader reads formula text from r and parses it. Trailing line breaks
// are ignored.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Formula, error) {
	// Wrap reader with async read-ahead so reading overlaps with decoding.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	text := strings.TrimRight(string(data), "\r\n")

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return Parse(ctx, text, opts...)
}

// ClearCache removes all cached syntax trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
