// Package cmd implements the gate subcommands: check, eval, and repl.
package cmd
