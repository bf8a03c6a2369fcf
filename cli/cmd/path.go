package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/pkg"
)

// PathVar is the environment variable listing directories searched for
// case files and workbooks named by relative path.
var PathVar = pkg.EnvPrefix() + "PATH"

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// searchPath returns the existing directories of env in order, preceded by
// the prefix directories.
func searchPath(env string, prefix ...string) []string {
	return filepath.SplitList(mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String())
}

// locate resolves name to an existing file. Absolute names and names found
// relative to the working directory are returned as given. Otherwise each
// directory of the search path is tried, followed by the configuration
// directory.
func locate(ctx context.Context, name string) (string, error) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		if err != nil {
			return "", ErrNotFound.With(slog.String("file", name)).Wrap(err)
		}

		return name, nil
	}

	dirs := searchPath(os.Getenv(PathVar))

	if ktx := kongContextFrom(ctx); ktx != nil {
		if conf, ok := ktx.Model.Vars()[ConfigIdentifier]; ok {
			dirs = append(dirs, filepath.Dir(conf))
		}
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			log.DebugContext(
				ctx,
				"located file",
				slog.String("name", name),
				slog.String("path", path),
			)

			return path, nil
		}
	}

	return "", ErrNotFound.With(
		slog.String("file", name),
		slog.Any("search", dirs),
	)
}
