// Package buildinfo carries version metadata injected at link time.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/otherjamesbrown/chatview/pkg/buildinfo.Version=v0.3.0" etc.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns build info for the named binary. Without ldflags, a
// `go install`ed binary still reports its module version.
func Get(name string) Info {
	return Info{
		Name:      name,
		Version:   resolveVersion(Version, debug.ReadBuildInfo),
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func resolveVersion(linked string, read func() (*debug.BuildInfo, bool)) string {
	if linked != "dev" {
		return linked
	}
	bi, ok := read()
	if !ok || bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return linked
	}
	return bi.Main.Version
}

// String formats the linked values as "v0.3.0 (4e1c0a2, 2026-10-01T09:00:00Z)".
func String() string {
	return Version + " (" + Commit + ", " + BuildTime + ")"
}
