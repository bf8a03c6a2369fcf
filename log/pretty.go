package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes colorized records either as key=value pairs on a
// single line or as an indented JSON-like object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, json: json}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.nest(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// nest places attrs inside the handler's open groups.
func (h *prettyHandler) nest(attrs []slog.Attr) []slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

func (h *prettyHandler) replace(a slog.Attr) (slog.Attr, bool) {
	a.Value = a.Value.Resolve()
	if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
		a = h.opts.ReplaceAttr(nil, a)
	}

	return a, a.Key != ""
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
	}
	if r.Time.IsZero() {
		builtin = builtin[1:]
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin = append(builtin, slog.String(
				slog.SourceKey, src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	builtin = append(builtin, slog.String(slog.MessageKey, r.Message))

	for _, a := range builtin {
		if a, ok := h.replace(a); ok {
			fields = append(fields, a)
		}
	}

	fields = append(fields, h.attrs...)

	var recAttrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		recAttrs = append(recAttrs, a)

		return true
	})

	fields = append(fields, h.nest(recAttrs)...)

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, fields, r.Level, 1)
	} else {
		h.writeLine(&buf, "", fields, r.Level)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeLine(
	buf *bytes.Buffer,
	prefix string,
	attrs []slog.Attr,
	level slog.Level,
) {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Key == "" && a.Value.Kind() != slog.KindGroup {
			continue
		}

		if a.Value.Kind() == slog.KindGroup {
			sub := prefix
			if a.Key != "" {
				sub += a.Key + "."
			}

			h.writeLine(buf, sub, a.Value.Group(), level)

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(ansiGray + prefix + a.Key + ansiReset + "=")
		writeValue(buf, a, level)
	}
}

func (h *prettyHandler) writeObject(
	buf *bytes.Buffer,
	attrs []slog.Attr,
	level slog.Level,
	depth int,
) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString("{\n")

	first := true

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Key == "" {
			continue
		}

		if !first {
			buf.WriteString(",\n")
		}

		first = false

		buf.WriteString(indent + ansiGray + a.Key + ansiReset + ": ")

		if a.Value.Kind() == slog.KindGroup {
			h.writeObject(buf, a.Value.Group(), level, depth+1)

			continue
		}

		writeValue(buf, a, level)
	}

	buf.WriteString("\n" + strings.Repeat("  ", depth-1) + "}")
}

func writeValue(buf *bytes.Buffer, a slog.Attr, level slog.Level) {
	color, text := ansiCyan, a.Value.String()

	switch v := a.Value; v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		color = ansiYellow
	case slog.KindBool:
		color = ansiRed
		if v.Bool() {
			color = ansiGreen
		}
	case slog.KindDuration:
		color = ansiMagenta
	case slog.KindTime:
		color, text = ansiBlue, v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if v.Any() == nil {
			color, text = ansiGray, "null"
		}
	}

	if a.Key == slog.LevelKey {
		color = levelColor(level)
	}

	buf.WriteString(color + text + ansiReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	case level >= slog.LevelDebug:
		return ansiBlue
	}

	return ansiMagenta
}
