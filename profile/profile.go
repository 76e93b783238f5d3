// Package profile wraps [github.com/pkg/profile] with a small
// mode-selected interface driven by CLI flags.
package profile

import (
	"iter"
	"strings"

	pprof "github.com/pkg/profile"
)

// Mode selects the profile captured for a run.
type Mode int

const (
	// ModeOff disables profiling.
	ModeOff Mode = iota

	// ModeCPU captures a CPU profile.
	ModeCPU

	// ModeMem captures a heap allocation profile.
	ModeMem
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeCPU:
		return "cpu"

	case ModeMem:
		return "mem"

	default:
		return "off"
	}
}

// ParseMode parses a case-insensitive mode name. Unrecognized names
// disable profiling.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return ModeCPU

	case "mem", "heap":
		return ModeMem

	default:
		return ModeOff
	}
}

// Modes returns an iterator over the selectable mode names.
func Modes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range []Mode{ModeOff, ModeCPU, ModeMem} {
			if !yield(m.String()) {
				return
			}
		}
	}
}

// Start begins capturing the selected profile into dir and returns a
// stop function. ModeOff returns a no-op stop.
func Start(mode Mode, dir string) (stop func()) {
	var opts []func(*pprof.Profile)

	switch mode {
	case ModeCPU:
		opts = append(opts, pprof.CPUProfile)

	case ModeMem:
		opts = append(opts, pprof.MemProfile)

	default:
		return func() {}
	}

	if dir != "" {
		opts = append(opts, pprof.ProfilePath(dir))
	}

	opts = append(opts, pprof.Quiet)

	p := pprof.Start(opts...)

	return p.Stop
}
