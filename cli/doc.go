// Package cli implements the gate command-line interface: parsing and
// evaluating condition expressions against a YAML-supplied pipeline
// state, with embedded flag groups for logging and profiling.
package cli
