// Package artifact defines dependency coordinates and the resolver capability
// that maps them to archives on disk.
package artifact

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/opmodel/classidx/internal/errors"
)

// Coordinate identifies a dependency without a version.
type Coordinate struct {
	Group      string
	Artifact   string
	Classifier string
}

// String returns group:artifact[:classifier].
func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// ParseCoordinate parses group:artifact or group:artifact:classifier.
func ParseCoordinate(raw string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Coordinate{}, oerrors.NewConfigurationError(
			fmt.Sprintf("coordinate must have 2 or 3 colon-separated segments, got %d", len(parts)),
			raw,
			"Use group:artifact or group:artifact:classifier",
		)
	}
	for _, p := range parts[:2] {
		if p == "" {
			return Coordinate{}, oerrors.NewConfigurationError("coordinate has an empty group or artifact", raw,
				"Use group:artifact or group:artifact:classifier")
		}
	}
	c := Coordinate{Group: parts[0], Artifact: parts[1]}
	if len(parts) == 3 {
		c.Classifier = parts[2]
	}
	return c, nil
}

// ResolvedArtifact is a located archive.
type ResolvedArtifact struct {
	Coordinate

	Version string

	// Path is the archive's filesystem path.
	Path string
}

// String returns group:artifact[:classifier]:version.
func (a ResolvedArtifact) String() string {
	return a.Coordinate.String() + ":" + a.Version
}

// SemVer parses the version leniently. Versions that are not semantic
// versions (for example 1.0.0.Final) return an error.
func (a ResolvedArtifact) SemVer() (*semver.Version, error) {
	return semver.NewVersion(a.Version)
}

// Resolver maps a coordinate to a located archive.
type Resolver interface {
	Resolve(c Coordinate) (ResolvedArtifact, error)
}
