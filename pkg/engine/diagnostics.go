package engine

import (
	"fmt"
	"slices"
	"sync"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a non-fatal message produced during a run.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Module   string   `json:"module,omitempty"` // Module the message concerns
	Text     string   `json:"text"`
}

func (d Diagnostic) String() string {
	if d.Module == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Text)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Module, d.Text)
}

// Collector accumulates diagnostics. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Add appends d.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Infof records an informational message about module.
func (c *Collector) Infof(module, format string, args ...any) {
	c.Add(Diagnostic{Severity: SeverityInfo, Module: module, Text: fmt.Sprintf(format, args...)})
}

// Warnf records a warning about module.
func (c *Collector) Warnf(module, format string, args ...any) {
	c.Add(Diagnostic{Severity: SeverityWarning, Module: module, Text: fmt.Sprintf(format, args...)})
}

// List returns a copy of the collected diagnostics in insertion order.
func (c *Collector) List() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diags)
}

// Warnings returns the number of warnings collected.
func (c *Collector) Warnings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diags {
		if d.Severity == SeverityWarning {
			n++
		}
	}
	return n
}
