// Package esbuildopt maps graphshake's string-typed transform options onto
// esbuild API constants. Both the transpile stage and the esbuild engine
// read the same configuration values.
package esbuildopt

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultTarget is the language level used when none is configured.
const DefaultTarget = "es2015"

// DefaultLoader is the source syntax used when none is configured. JSX is a
// superset of plain JavaScript.
const DefaultLoader = "jsx"

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es6":    api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
}

var loaders = map[string]api.Loader{
	"js":  api.LoaderJS,
	"jsx": api.LoaderJSX,
	"ts":  api.LoaderTS,
	"tsx": api.LoaderTSX,
}

var jsxModes = map[string]api.JSX{
	"transform": api.JSXTransform,
	"preserve":  api.JSXPreserve,
	"automatic": api.JSXAutomatic,
}

// Target parses a target name. An empty name selects DefaultTarget.
func Target(name string) (api.Target, error) {
	if name == "" {
		name = DefaultTarget
	}
	t, ok := targets[strings.ToLower(name)]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown target %q", name)
	}
	return t, nil
}

// Loader parses a loader name. An empty name selects DefaultLoader.
func Loader(name string) (api.Loader, error) {
	if name == "" {
		name = DefaultLoader
	}
	l, ok := loaders[strings.ToLower(name)]
	if !ok {
		return api.LoaderNone, fmt.Errorf("unknown loader %q (must be one of: js, jsx, ts, tsx)", name)
	}
	return l, nil
}

// JSX parses a JSX mode. An empty name selects esbuild's default (transform).
func JSX(name string) (api.JSX, error) {
	if name == "" {
		return api.JSXTransform, nil
	}
	j, ok := jsxModes[strings.ToLower(name)]
	if !ok {
		return api.JSXTransform, fmt.Errorf("unknown jsx mode %q (must be one of: transform, preserve, automatic)", name)
	}
	return j, nil
}

// Messages formats esbuild messages as "file:line:col: text" lines joined by "; ".
func Messages(msgs []api.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, Message(m))
	}
	return strings.Join(parts, "; ")
}

// Message formats one esbuild message.
func Message(m api.Message) string {
	text := m.Text
	if m.PluginName != "" {
		text = "[plugin " + m.PluginName + "] " + text
	}
	if m.Location == nil {
		return text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, text)
}
