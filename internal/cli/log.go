// Package cli implements the graphshake command-line interface.
//
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - shake: Tree-shake a graph file and write the results back
//   - graph: Render a graph file as DOT or SVG
//   - browse: Interactively inspect modules and their emitted code
//   - cache: Manage the transpile cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/graphshake/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphshake/pkg/treeshake"
)

// newLogger returns a logger writing to w at level, with "HH:MM:SS.ms"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took, e.g. "Loaded 42 modules (12ms)".
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

// logStages reports the per-stage timings of a run at debug level.
func logStages(l *log.Logger, s treeshake.Stats) {
	stages := []struct {
		name string
		took time.Duration
		n    int
	}{
		{"prime", s.PrimeTime, s.Primed},
		{"bundle", s.BundleTime, s.Chunks},
		{"merge", s.MergeTime, s.Merged},
	}
	for _, st := range stages {
		l.Debug("stage", "name", st.name, "count", st.n, "took", st.took.Round(time.Microsecond))
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. A nil ctx is treated as context.Background.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
