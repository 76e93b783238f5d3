// Package pipeline supplies the standard agent extension functions for
// the condition language: job-status predicates such as succeeded() and
// the variables() accessor over the job's variable bag.
package pipeline

import (
	"log/slog"
	"strings"

	"github.com/ardnew/gate/lang"
)

// Predefined errors (sentinel values).
var (
	ErrUnknownStatus = lang.NewError("unknown job status")
)

// Status is the completion state of the preceding job, read by the
// status predicate functions.
type Status int

const (
	// StatusSucceeded indicates the job completed without errors.
	StatusSucceeded Status = iota

	// StatusSucceededWithIssues indicates the job completed with
	// non-fatal issues.
	StatusSucceededWithIssues

	// StatusFailed indicates the job failed.
	StatusFailed

	// StatusCanceled indicates the job was canceled.
	StatusCanceled

	// StatusSkipped indicates the job never ran.
	StatusSkipped
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "Succeeded"

	case StatusSucceededWithIssues:
		return "SucceededWithIssues"

	case StatusFailed:
		return "Failed"

	case StatusCanceled:
		return "Canceled"

	case StatusSkipped:
		return "Skipped"

	default:
		return "Unknown"
	}
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "succeeded":
		return StatusSucceeded, nil

	case "succeededwithissues":
		return StatusSucceededWithIssues, nil

	case "failed":
		return StatusFailed, nil

	case "canceled", "cancelled":
		return StatusCanceled, nil

	case "skipped":
		return StatusSkipped, nil

	default:
		return StatusSucceeded, ErrUnknownStatus.
			With(slog.String("status", s))
	}
}

// Variables is the job's variable bag. Lookup is case-insensitive, the
// way the agent resolves variable names.
type Variables map[string]string

// Get retrieves a variable by case-insensitive name.
func (v Variables) Get(name string) (string, bool) {
	if val, ok := v[name]; ok {
		return val, true
	}

	for k, val := range v {
		if strings.EqualFold(k, name) {
			return val, true
		}
	}

	return "", false
}

// Env describes the evaluation environment a registry is built for.
type Env struct {
	// Status is the completion state consulted by the status predicates.
	Status Status

	// Variables is the bag behind variables(name). Missing names
	// resolve to Null.
	Variables Variables

	// Data is the state document exposed by testData() and bound as
	// Context.State by Bind.
	Data any
}

// NewRegistry builds the standard agent registry over env: always,
// succeeded, succeededOrFailed, failed, canceled, variables, and
// testData.
func NewRegistry(env Env) (*lang.Registry, error) {
	boolean := func(b func() bool) lang.ExtensionFunc {
		return func(*lang.Context, []lang.Value) (lang.Value, error) {
			return lang.NewBoolean(b()), nil
		}
	}

	return lang.NewRegistry(
		lang.Extension{
			Name: "always",
			Func: boolean(func() bool { return true }),
		},
		lang.Extension{
			Name: "succeeded",
			Func: boolean(func() bool {
				return env.Status == StatusSucceeded ||
					env.Status == StatusSucceededWithIssues
			}),
		},
		lang.Extension{
			Name: "succeededOrFailed",
			Func: boolean(func() bool {
				return env.Status == StatusSucceeded ||
					env.Status == StatusSucceededWithIssues ||
					env.Status == StatusFailed
			}),
		},
		lang.Extension{
			Name: "failed",
			Func: boolean(func() bool { return env.Status == StatusFailed }),
		},
		lang.Extension{
			Name: "canceled",
			Func: boolean(func() bool { return env.Status == StatusCanceled }),
		},
		lang.Extension{
			Name:          "variables",
			MinParameters: 1,
			MaxParameters: 1,
			Func: func(
				_ *lang.Context,
				args []lang.Value,
			) (lang.Value, error) {
				name, ok := args[0].AsString()
				if !ok {
					return lang.NewNull(), nil
				}

				val, ok := env.Variables.Get(name)
				if !ok {
					return lang.NewNull(), nil
				}

				return lang.NewString(val), nil
			},
		},
		lang.Extension{
			Name: "testData",
			Func: func(
				ctx *lang.Context,
				_ []lang.Value,
			) (lang.Value, error) {
				return lang.FromAny(ctx.State), nil
			},
		},
	)
}

// Registry builds the standard agent registry for env.
func (env Env) Registry() (*lang.Registry, error) {
	return NewRegistry(env)
}

// Bind returns an evaluation context for env with the given trace sink.
func (env Env) Bind(trace lang.TraceWriter) *lang.Context {
	return &lang.Context{
		Trace: trace,
		State: env.Data,
	}
}
