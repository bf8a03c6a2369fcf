package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/formula/cli/cmd"
	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/log"
	"github.com/ardnew/formula/pkg"
)

// CLI is the top-level command-line interface for formula.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source   []string      `help:"Input file(s) of formulas, one per line, or '-' for stdin" name:"source" short:"s" type:"existingfile"`
	MaxDepth int           `help:"Maximum nesting depth of a formula"                         default:"${maxDepth}"`
	Timeout  time.Duration `help:"Timeout of each WEBSERVICE request"                         default:"${timeout}"`

	Eval  cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate formulas"`
	Fmt   cmd.Fmt     `cmd:""                    help:"Format formulas in canonical syntax"`
	Demo  cmd.Demo    `cmd:""                    help:"Run the demonstration harness"`
	Run   cmd.Batch   `cmd:""                    help:"Evaluate a YAML file of test cases"`
	Sheet cmd.Sheet   `cmd:""                    help:"Evaluate the formula cells of a workbook"`
	Funcs cmd.Funcs   `cmd:""                    help:"List built-in functions"`
	Repl  cmd.Repl    `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init    `cmd:""                    help:"Initialize configuration file"`
	Ver   cmd.Version `cmd:""                    help:"Print version" name:"version"`
}

// options returns the evaluation options selected by global flags.
func (c *CLI) options() []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithMaxDepth(c.MaxDepth),
		lang.WithTimeout(c.Timeout),
	}
}

// Run executes the formula CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(yamlConfig),
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"timeout":            lang.DefaultTimeout.String(),
		"categories":         cmd.CategoryNames(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.DefaultEnvars(strings.TrimSuffix(pkg.EnvPrefix(), "_")),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(jsonConfig)),
		kong.Configuration(resolve, configPath(yamlConfig)),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithOptions(ctx, cli.options()...)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
