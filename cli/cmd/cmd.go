package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/lang"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		read     []io.Reader
		hasStdin bool
	}

	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		io.Reader
		io.WriterTo
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	readers := s.read
	if s.hasStdin {
		readers = append(readers, os.Stdin)
	}

	return io.MultiReader(readers...).Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	readers := s.read
	if s.hasStdin {
		readers = append(readers, os.Stdin)
	}

	return io.Copy(w, io.MultiReader(readers...))
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an [io.Reader] that
// reads from the given source files.
//
// The function deduplicates readers by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader.
// The stdin reader is placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
// It deduplicates readers by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	// If no files were successfully opened and no stdin, return nil
	if len(srcs.read) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by WithSourceFiles.
// Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

type (
	outputKey  struct{}
	optionsKey struct{}
	output     struct{ out, errs io.Writer }
)

// WithOutput returns a new context.Context directing command output to out
// and diagnostics to errs. Commands write to os.Stdout and os.Stderr when no
// output is stored.
func WithOutput(ctx context.Context, out, errs io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, output{out: out, errs: errs})
}

func stdout(ctx context.Context) io.Writer {
	if o, ok := ctx.Value(outputKey{}).(output); ok && o.out != nil {
		return o.out
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if o, ok := ctx.Value(outputKey{}).(output); ok && o.errs != nil {
		return o.errs
	}

	return os.Stderr
}

// WithOptions returns a new context.Context carrying the evaluation options
// shared by all commands.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// readFormulas returns the non-blank lines of r that are not comments
// (starting with "#").
func readFormulas(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var lines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return lines, nil
}

// inputReader returns the configured source files, or stdin when there are
// none.
func inputReader(ctx context.Context) io.Reader {
	if src := sourceFilesFrom(ctx); src != nil {
		return src
	}

	return os.Stdin
}

// formulaInputs returns the formulas given as arguments, or the lines of the
// configured source files (stdin by default) when there are none.
func formulaInputs(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	return readFormulas(inputReader(ctx))
}

// parsedInput is one formula read from the command line or input files.
// Formula is nil when Err is set.
type parsedInput struct {
	Text    string
	Formula *lang.Formula
	Err     error
}

// parseInputs parses the formulas given as arguments or read from input.
// When whole is set and there are no arguments, the entire input is parsed as
// a single formula that may span lines. Only failure to read the input is
// returned as an error; parse failures are reported per formula.
func parseInputs(
	ctx context.Context,
	args []string,
	whole bool,
	opts []lang.Option,
) ([]parsedInput, error) {
	if whole && len(args) == 0 {
		formula, err := lang.ParseReader(ctx, inputReader(ctx), opts...)
		if errors.Is(err, lang.ErrReadInput) {
			return nil, ErrReadInput.Wrap(err)
		}

		if err != nil {
			return []parsedInput{{Err: err}}, nil
		}

		return []parsedInput{{Text: formula.Source, Formula: formula}}, nil
	}

	texts, err := formulaInputs(ctx, args)
	if err != nil {
		return nil, err
	}

	parsed := make([]parsedInput, len(texts))

	for i, text := range texts {
		formula, err := lang.Parse(ctx, text, opts...)
		parsed[i] = parsedInput{Text: text, Formula: formula, Err: err}
	}

	return parsed, nil
}
