package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/gate/log"
)

type logConfig struct {
	Level      string `default:"info"    enum:"verbose,debug,info,warn,error" help:"Set log level."`
	Format     string `default:"text"    enum:"text,json"                     help:"Set log format."`
	TimeLayout string `default:"RFC3339"                                      help:"Set timestamp format."`
}

func (logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f logConfig) start(ctx context.Context) {
	log.SetDefault(log.Make(
		os.Stderr,
		log.WithLevel(log.ParseLevel(f.Level)),
		log.WithFormat(log.ParseFormat(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
	))

	log.Default().DebugContext(ctx, "logger initialized",
		slog.String("level", f.Level),
		slog.String("format", f.Format),
		slog.String("time", f.TimeLayout),
	)
}
