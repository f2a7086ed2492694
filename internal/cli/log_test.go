package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphshake/pkg/treeshake"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Loaded %d modules", 7)

	if out := buf.String(); !strings.Contains(out, "Loaded 7 modules (") {
		t.Errorf("output = %q", out)
	}
}

func TestLogStages(t *testing.T) {
	var buf bytes.Buffer
	logStages(newLogger(&buf, log.DebugLevel), treeshake.Stats{Primed: 2, Chunks: 3, Merged: 1})

	out := buf.String()
	for _, stage := range []string{"name=prime", "name=bundle", "name=merge", "count=3"} {
		if !strings.Contains(out, stage) {
			t.Errorf("missing %q in %q", stage, out)
		}
	}

	buf.Reset()
	logStages(newLogger(&buf, log.InfoLevel), treeshake.Stats{})
	if buf.Len() != 0 {
		t.Errorf("stages logged at info level: %q", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"nil parent", withLogger(nil, custom), custom}, //nolint:staticcheck // nil parent is accepted
		{"none", context.Background(), log.Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}
