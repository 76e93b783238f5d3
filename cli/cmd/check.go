package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/gate/lang"
	"github.com/ardnew/gate/log"
	"github.com/ardnew/gate/pipeline"
)

// Check validates a condition expression without evaluating it.
type Check struct {
	Expr string `arg:"" help:"Condition expression, or '-' for stdin" name:"expr"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	raw, err := readSource(c.Expr)
	if err != nil {
		return err
	}

	log.Default().DebugContext(ctx, "checking condition",
		slog.String("expression", raw),
	)

	// Status predicates and state access must lex as extensions even
	// though nothing is evaluated, so parse against the standard
	// registry over a zero environment.
	reg, err := pipeline.NewRegistry(pipeline.Env{})
	if err != nil {
		return err
	}

	_, err = lang.Parse(raw,
		lang.WithExtensions(reg),
		lang.WithCache(false),
	)
	if err != nil {
		return ErrInvalidCondition.Wrap(err).
			With(slog.String("command", "check"))
	}

	fmt.Println("ok")

	return nil
}
