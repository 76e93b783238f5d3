package cmd

import (
	"context"

	"github.com/ardnew/gate/cli/cmd/repl"
)

// Repl starts the interactive evaluation shell.
type Repl struct {
	State  string `help:"YAML state file (status, variables, data)" short:"s" type:"existingfile"`
	Status string `help:"Job status consulted by status functions"            enum:",succeeded,succeededwithissues,failed,canceled,skipped" default:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	env, err := loadEnv(r.State, r.Status)
	if err != nil {
		return err
	}

	return repl.Run(ctx, env)
}
