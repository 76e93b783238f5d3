package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/gate/cli/cmd"
	"github.com/ardnew/gate/log"
	"github.com/ardnew/gate/pkg"
)

// CLI is the top-level command-line interface for gate.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Check cmd.Check `cmd:"" help:"Validate a condition expression"`
	Repl  cmd.Repl  `cmd:"" help:"Interactive evaluation shell"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate a condition expression"`
}

// Run executes the gate CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	// Install the default logger before parsing so flag errors render
	// structured.
	log.SetDefault(log.Make(os.Stderr))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
			}),
		kong.Vars{"version": pkg.Name + " " + pkg.Version},
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values.
	cli.Log.start(ctx)

	// Profiling is a no-op unless a mode was selected.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
