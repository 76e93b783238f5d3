package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/gate/lang"
	"github.com/ardnew/gate/log"
)

// Eval evaluates a condition expression against a pipeline state.
type Eval struct {
	Expr string `arg:"" help:"Condition expression, or '-' for stdin" name:"expr"`

	State   string `help:"YAML state file (status, variables, data)"   short:"s" type:"existingfile"`
	Status  string `help:"Job status consulted by status functions"              enum:",succeeded,succeededwithissues,failed,canceled,skipped" default:""`
	Trace   bool   `help:"Write the evaluation trace to stderr"        short:"t"`
	Gate    bool   `help:"Exit nonzero when the condition is false"    short:"g"`
	NoCache bool   `help:"Bypass the parse cache"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) error {
	raw, err := readSource(e.Expr)
	if err != nil {
		return err
	}

	env, err := loadEnv(e.State, e.Status)
	if err != nil {
		return err
	}

	log.Default().DebugContext(ctx, "evaluating condition",
		slog.String("expression", raw),
		slog.String("status", env.Status.String()),
	)

	reg, err := env.Registry()
	if err != nil {
		return err
	}

	var trace lang.TraceWriter
	if e.Trace {
		trace = lang.WriterTrace{W: os.Stderr}
	}

	opts := []lang.Option{lang.WithExtensions(reg)}

	if trace != nil {
		opts = append(opts, lang.WithTrace(trace))
	}

	if e.NoCache {
		opts = append(opts, lang.WithCache(false))
	}

	root, err := lang.Parse(raw, opts...)
	if err != nil {
		return ErrInvalidCondition.Wrap(err).
			With(slog.String("command", "eval"))
	}

	result, err := root.Evaluate(env.Bind(trace))
	if err != nil {
		return ErrEvalFailed.Wrap(err).
			With(
				slog.String("command", "eval"),
				slog.String("expression", raw),
			)
	}

	fmt.Println(result.String())

	if e.Gate && !result.AsBoolean() {
		return ErrConditionFalse.
			With(slog.String("expression", raw))
	}

	return nil
}
