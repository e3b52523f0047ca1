// Package resolver locates dependency archives by observing the classpath.
package resolver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/opmodel/classidx/internal/artifact"
	"github.com/opmodel/classidx/internal/classpath"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
)

// DefaultManifestResource is the resource every archive on the classpath carries.
const DefaultManifestResource = "META-INF/MANIFEST.MF"

// Options configures a ClasspathResolver.
type Options struct {
	// ManifestResource is the resource used to discover archive roots.
	ManifestResource string

	// Strict turns ambiguous matches into errors instead of picking the
	// first candidate in classpath order.
	Strict bool
}

// ClasspathResolver resolves coordinates against archives observed on a
// classpath, inferring coordinates from the repository directory layout.
type ClasspathResolver struct {
	candidates []candidate
	strict     bool
}

var _ artifact.Resolver = (*ClasspathResolver)(nil)

// NewClasspathResolver scans every manifest resource reachable from cp and
// records its archive root. Only file-backed locations are kept.
func NewClasspathResolver(cp *classpath.Classpath, opts Options) (*ClasspathResolver, error) {
	manifest := opts.ManifestResource
	if manifest == "" {
		manifest = DefaultManifestResource
	}

	resources, err := cp.Resources(manifest)
	if err != nil {
		return nil, err
	}

	r := &ClasspathResolver{strict: opts.Strict}
	for _, res := range resources {
		root, ok := archiveRoot(res.URL, manifest)
		if !ok {
			output.Debug("skipping manifest outside the filesystem", "url", res.URL)
			continue
		}
		r.candidates = append(r.candidates, newCandidate(root))
	}
	output.Debug("resolver scanned classpath", "manifests", len(resources), "candidates", len(r.candidates))
	return r, nil
}

// archiveRoot strips the manifest suffix from a resource locator and returns
// the slash-separated filesystem path of the archive or directory holding it.
func archiveRoot(url, manifest string) (string, bool) {
	root := strings.TrimSuffix(url, "!/"+manifest)
	if root == url {
		root = strings.TrimSuffix(url, "/"+manifest)
	}
	root = strings.TrimPrefix(root, classpath.SchemeJar)
	if !strings.HasPrefix(root, classpath.SchemeFile) {
		return "", false
	}
	return strings.TrimPrefix(root, classpath.SchemeFile), true
}

// Resolve returns the first candidate whose file name and directory layout
// match the coordinate.
func (r *ClasspathResolver) Resolve(c artifact.Coordinate) (artifact.ResolvedArtifact, error) {
	re := fileNamePattern(c)

	var matches []artifact.ResolvedArtifact
	for _, cand := range r.candidates {
		version, ok := matchVersion(re, cand.fileName)
		if !ok || !cand.matchesLayout(c, version) {
			continue
		}
		matches = append(matches, artifact.ResolvedArtifact{
			Coordinate: c,
			Version:    version,
			Path:       filepath.FromSlash(cand.path),
		})
	}

	switch {
	case len(matches) == 0:
		metrics.Resolutions.WithLabelValues(metrics.ResultMissing).Inc()
		return artifact.ResolvedArtifact{}, oerrors.NewResolutionError(
			"no classpath entry matches the coordinate",
			c.String(),
			map[string]string{"Candidates": fmt.Sprintf("%d", len(r.candidates))},
			"Add the artifact to the classpath or remove it from indexDependencies",
		)
	case len(matches) > 1:
		metrics.Resolutions.WithLabelValues(metrics.ResultAmbiguous).Inc()
		versions := sortedVersions(matches)
		if r.strict {
			return artifact.ResolvedArtifact{}, &oerrors.DetailError{
				Type:     "ambiguous artifact",
				Message:  fmt.Sprintf("%d classpath entries match the coordinate", len(matches)),
				Location: c.String(),
				Context:  map[string]string{"Versions": strings.Join(versions, ", ")},
				Hint:     "Remove duplicate versions from the classpath or disable strictResolution",
				Cause:    oerrors.ErrResolution,
			}
		}
		output.Warn("ambiguous artifact, using first classpath match",
			"coordinate", c.String(),
			"chosen", matches[0].Version,
			"versions", strings.Join(versions, ", "),
		)
	default:
		metrics.Resolutions.WithLabelValues(metrics.ResultResolved).Inc()
	}
	return matches[0], nil
}

// sortedVersions lists match versions highest first. Versions that are not
// semantic versions sort after the rest in their original order.
func sortedVersions(matches []artifact.ResolvedArtifact) []string {
	type entry struct {
		raw string
		v   *semver.Version
	}
	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		v, _ := semver.NewVersion(m.Version)
		entries = append(entries, entry{raw: m.Version, v: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].v, entries[j].v
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.GreaterThan(b)
		}
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.raw
	}
	return out
}
