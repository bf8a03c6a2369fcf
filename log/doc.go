// Package log wraps [log/slog] with an additional trace level, named
// timestamp layouts, and colorized handlers for interactive terminals.
//
// A [Logger] is built once from functional options and is safe for concurrent
// use. Reconfiguring never mutates an existing Logger; [Logger.Wrap] and
// [Logger.With] return new values.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("formula parsed", slog.String("text", "=PI()"))
//
// The package-level functions ([Info], [ErrorContext], ...) write through a
// default logger that [Config] reconfigures. Messages are attribute-only:
// every value is passed as a [slog.Attr].
//
// Records of errors that implement [slog.LogValuer] are expanded into
// groups, so structured error attributes survive into the output.
package log
