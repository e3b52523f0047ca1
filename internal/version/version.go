// Package version provides version information for the classidx CLI.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("classidx:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// SnapshotCompatible reports whether a snapshot written by generator can be
// compared with one written by current. Versions are compatible when MAJOR and
// MINOR match; development builds and unparsable versions are never flagged.
func SnapshotCompatible(current, generator string) bool {
	if generator == "" {
		return true
	}
	cur, err := semver.NewVersion(current)
	if err != nil || cur.Prerelease() == "dev" {
		return true
	}
	gen, err := semver.NewVersion(generator)
	if err != nil {
		return true
	}
	return cur.Major() == gen.Major() && cur.Minor() == gen.Minor()
}

// CompatibilityMessage explains the result of SnapshotCompatible.
func CompatibilityMessage(current, generator string) string {
	if SnapshotCompatible(current, generator) {
		return "compatible"
	}
	cur := semver.MustParse(current)
	gen := semver.MustParse(generator)
	if cur.Major() != gen.Major() {
		return "incompatible - MAJOR version mismatch"
	}
	return "incompatible - MINOR version mismatch"
}
