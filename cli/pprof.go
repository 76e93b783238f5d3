package cli

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/gate/log"
	"github.com/ardnew/gate/profile"
)

type pprofConfig struct {
	Mode string `default:"off" enum:"off,cpu,mem" help:"Enable profiling"           placeholder:"mode" short:"p"`
	Dir  string `default:""                       help:"Profile output directory"                      type:"path"`
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof): " +
		strings.Join(slices.Sorted(profile.Modes()), ", ")

	return group
}

// start starts profiling if configured.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	mode := profile.ParseMode(f.Mode)
	if mode == profile.ModeOff {
		return func() {}
	}

	log.Default().DebugContext(ctx, "pprof start",
		slog.String("mode", mode.String()),
		slog.String("dir", f.Dir),
	)

	stopProfile := profile.Start(mode, f.Dir)

	return func() {
		log.Default().DebugContext(ctx, "pprof stop",
			slog.String("mode", mode.String()),
		)
		stopProfile()
	}
}
