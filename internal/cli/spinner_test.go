package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Shaking 3 modules...")
	time.Sleep(3 * spinnerInterval)
	s.update("Merging...")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Shaking 3 modules...") || !strings.Contains(out, "Merging...") {
		t.Errorf("output = %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared: %q", out)
	}
	if s.cancelled() {
		t.Error("stopped spinner reported as cancelled")
	}
}

func TestSpinnerContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), spinnerInterval/2)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := startSpinner(ctx, &bytes.Buffer{}, "waiting")
			if tt.name == "cancel" {
				cancel()
			}
			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner did not stop with its context")
			}
			cancel()
			if !s.cancelled() {
				t.Error("cancelled() = false")
			}
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := startSpinner(context.Background(), &bytes.Buffer{}, "stop")
	s.stop()
	s.stop()
	s.stop()
}

func TestSpinnerNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is accepted
	s := startSpinner(nil, &bytes.Buffer{}, "nil")
	s.stop()
}
