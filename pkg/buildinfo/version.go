// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/graphshake/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/graphshake/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/graphshake/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with `go install` carry no ldflags; for those the
// module version and VCS revision recorded by the toolchain are used.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/matzehuels/graphshake/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/matzehuels/graphshake/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/matzehuels/graphshake/pkg/buildinfo.Date=...
	Date = "unknown"
)

// esbuildModule is the module path of the bundling engine.
const esbuildModule = "github.com/evanw/esbuild"

var (
	once          sync.Once
	engineVersion = "unknown"
)

func load() {
	once.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fill(info)
	})
}

func fill(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
	for _, dep := range info.Deps {
		if dep.Path == esbuildModule {
			engineVersion = dep.Version
		}
	}
}

// String returns the formatted build information.
func String() string {
	load()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nesbuild: %s", Version, Commit, Date, engineVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	load()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\nesbuild: %s\n", Version, Commit, Date, engineVersion)
}
