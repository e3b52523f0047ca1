package resolver

import (
	"regexp"
	"strings"

	"github.com/opmodel/classidx/internal/artifact"
)

// candidate is an archive observed on the classpath, kept in the shape the
// repository layout heuristic needs.
type candidate struct {
	// path is the archive's filesystem path.
	path string

	// fileName is the last path segment.
	fileName string

	// parents holds the directory segments above the file, closest first.
	parents []string
}

func newCandidate(path string) candidate {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	c := candidate{path: path, fileName: segs[len(segs)-1]}
	for i := len(segs) - 2; i >= 0; i-- {
		if segs[i] != "" {
			c.parents = append(c.parents, segs[i])
		}
	}
	return c
}

// fileNamePattern matches <artifact>[-<classifier>]-<version>.jar and, for
// classified artifacts, the repository form <artifact>-<version>-<classifier>.jar.
// The version is the first capture group and always starts with a digit.
func fileNamePattern(c artifact.Coordinate) *regexp.Regexp {
	a := regexp.QuoteMeta(c.Artifact)
	if c.Classifier == "" {
		return regexp.MustCompile(`^` + a + `-(\d[^/]*)\.jar$`)
	}
	cl := regexp.QuoteMeta(c.Classifier)
	return regexp.MustCompile(`^(?:` + a + `-` + cl + `-(\d[^/]*)|` + a + `-(\d[^/]*?)-` + cl + `)\.jar$`)
}

// matchVersion returns the version captured from the candidate's file name.
func matchVersion(re *regexp.Regexp, fileName string) (string, bool) {
	m := re.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	for _, g := range m[1:] {
		if g != "" {
			return g, true
		}
	}
	return "", false
}

// matchesLayout checks the repository layout <group path>/<artifact>/<version>/<file>:
// the closest parent is the version taken from the file name, the next one the
// artifact, and the rest spell the group's segments from last to first.
func (c candidate) matchesLayout(co artifact.Coordinate, version string) bool {
	if len(c.parents) < 2 || c.parents[0] != version || c.parents[1] != co.Artifact {
		return false
	}
	return c.matchesGroup(co.Group)
}

func (c candidate) matchesGroup(group string) bool {
	parts := strings.Split(group, ".")
	const offset = 2
	if len(c.parents) < offset+len(parts) {
		return false
	}
	for i := range parts {
		if c.parents[offset+i] != parts[len(parts)-1-i] {
			return false
		}
	}
	return true
}
