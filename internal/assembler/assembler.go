// Package assembler turns a declarative list of things to index into a
// composite class index and the application archives backing it.
package assembler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opmodel/classidx/internal/artifact"
	"github.com/opmodel/classidx/internal/classpath"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
	"github.com/opmodel/classidx/internal/scan"
)

// MarkedDependency is a dependency with its externally resolved
// "index this jar" flag.
type MarkedDependency struct {
	// Location is a file: or jar: locator, or a path, of the dependency.
	Location string

	Index bool
}

// Request describes what to index.
type Request struct {
	// ProjectRoots are project-local output directories. They take priority
	// over every other source.
	ProjectRoots []string

	// Coordinates are group:artifact[:classifier] strings.
	Coordinates []string

	MarkedDependencies []MarkedDependency

	// Packages are dotted package names indexed best effort.
	Packages []string

	// MarkerResource overrides scan.DefaultMarkerResource.
	MarkerResource string

	// DiscoverMarkers also indexes every classpath entry carrying the marker.
	DiscoverMarkers bool
}

func (r Request) marker() string {
	if r.MarkerResource != "" {
		return r.MarkerResource
	}
	return scan.DefaultMarkerResource
}

// Result is an assembled index. Close releases the archive handles.
type Result struct {
	// Index layers every source, project roots first and packages last.
	Index *index.Composite

	Archives []*ApplicationArchive

	// Packages holds the classes found by package indexing, if requested.
	Packages *index.ClassIndex

	scope *scope
}

// WithOverlay returns the result's index layered over an enrichment overlay
// at lowest priority.
func (r *Result) WithOverlay(o *index.Overlay) *index.Composite {
	return r.Index.With(o)
}

// Close releases every archive handle opened by the assembly.
func (r *Result) Close() error {
	if r.scope == nil {
		return nil
	}
	return r.scope.close()
}

// Assembler builds composite indexes from a classpath.
type Assembler struct {
	classpath *classpath.Classpath
	resolver  artifact.Resolver
}

// New creates an Assembler. resolver may be nil when no coordinates are requested.
func New(cp *classpath.Classpath, resolver artifact.Resolver) *Assembler {
	return &Assembler{classpath: cp, resolver: resolver}
}

// source is one planned scan.
type source struct {
	path         string
	archive      bool
	origin       Origin
	name         string
	artifact     *artifact.ResolvedArtifact
	rejectMarker bool
}

// plan collects sources in priority order, dropping repeats of a location.
type plan struct {
	sources []source
	seen    map[string]Origin
}

func (p *plan) add(s source) {
	key := filepath.Clean(s.path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	if first, dup := p.seen[key]; dup {
		output.Debug("skipping duplicate source", "path", key, "origin", s.origin, "first", first)
		return
	}
	p.seen[key] = s.origin
	s.path = key
	p.sources = append(p.sources, s)
}

// Assemble resolves and scans every requested source. Any failure is fatal:
// handles opened so far are released and no partial result is returned.
func (a *Assembler) Assemble(req Request) (res *Result, err error) {
	coords, err := parseCoordinates(req.Coordinates)
	if err != nil {
		return nil, err
	}

	p, err := a.plan(req, coords)
	if err != nil {
		return nil, err
	}

	sc := &scope{}
	defer func() {
		if err != nil {
			if cerr := sc.close(); cerr != nil {
				output.Warn("releasing archives after failed assembly", "error", cerr)
			}
		}
	}()

	var views []index.View
	var archives []*ApplicationArchive
	for _, s := range p.sources {
		arch, err := a.build(s, req.marker(), sc)
		if err != nil {
			return nil, err
		}
		archives = append(archives, arch)
		views = append(views, arch.Index)
	}

	res = &Result{Archives: archives, scope: sc}
	if len(req.Packages) > 0 {
		pkgs, skipped := scan.Packages(a.classpath, req.Packages)
		if len(skipped) > 0 {
			output.Warn("package indexing skipped entries", "count", len(skipped))
		}
		res.Packages = pkgs
		views = append(views, pkgs)
	}
	res.Index = index.NewComposite(views...)

	output.Debug("assembled index", "sources", len(archives), "classes", res.Index.Len())
	return res, nil
}

func parseCoordinates(raw []string) ([]artifact.Coordinate, error) {
	coords := make([]artifact.Coordinate, 0, len(raw))
	for _, r := range raw {
		c, err := artifact.ParseCoordinate(r)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

func (a *Assembler) plan(req Request, coords []artifact.Coordinate) (*plan, error) {
	p := &plan{seen: make(map[string]Origin)}

	for _, root := range req.ProjectRoots {
		p.add(source{path: root, archive: classpath.IsArchive(root), origin: OriginProject, name: root})
	}

	if len(coords) > 0 && a.resolver == nil {
		return nil, oerrors.NewConfigurationError("coordinates requested without an artifact resolver",
			coords[0].String(), "")
	}
	for _, c := range coords {
		resolved, err := a.resolver.Resolve(c)
		if err != nil {
			return nil, err
		}
		p.add(source{
			path:         resolved.Path,
			archive:      true,
			origin:       OriginCoordinate,
			name:         c.String(),
			artifact:     &resolved,
			rejectMarker: true,
		})
	}

	for _, dep := range req.MarkedDependencies {
		if !dep.Index {
			continue
		}
		path, archive, err := locate(dep.Location, req.marker())
		if err != nil {
			return nil, err
		}
		p.add(source{path: path, archive: archive, origin: OriginMarked, name: path})
	}

	if req.DiscoverMarkers && a.classpath != nil {
		resources, err := a.classpath.Resources(req.marker())
		if err != nil {
			return nil, err
		}
		for _, r := range resources {
			path, archive, err := locate(r.URL, req.marker())
			if err != nil {
				return nil, err
			}
			p.add(source{path: path, archive: archive, origin: OriginMarker, name: path})
		}
	}
	return p, nil
}

// locate turns a dependency locator into the path to scan. Archive locators
// name the archive; a locator of the marker inside a directory ascends to the
// directory's resource root.
func locate(raw, marker string) (string, bool, error) {
	loc, err := classpath.ParseLocator(raw)
	if err != nil {
		return "", false, oerrors.NewConfigurationError(err.Error(), raw,
			"Use a file: or jar:file: locator, or a filesystem path")
	}
	if loc.Archive {
		return loc.Path, true, nil
	}

	p := filepath.ToSlash(loc.Path)
	if suffix := "/" + strings.Trim(marker, "/"); strings.HasSuffix(p, suffix) {
		p = strings.TrimSuffix(p, suffix)
	}
	return filepath.FromSlash(p), false, nil
}

func (a *Assembler) build(s source, marker string, sc *scope) (*ApplicationArchive, error) {
	var (
		arch *ApplicationArchive
		err  error
	)
	if s.archive {
		arch, err = mountArchive(s.path)
	} else {
		arch, err = mountDir(s.path)
	}
	if err != nil {
		return nil, err
	}
	sc.track(arch)

	kind := metrics.KindDirectory
	if s.archive {
		kind = metrics.KindArchive
	}
	ix, err := scan.FS(arch.FS(), s.path, kind, scan.Options{
		MarkerResource: marker,
		RejectMarker:   s.rejectMarker,
		Owner:          s.name,
	})
	if err != nil {
		return nil, err
	}

	arch.Name = s.name
	arch.Origin = s.origin
	arch.Artifact = s.artifact
	arch.Index = ix
	output.Debug("indexed source", "name", s.name, "origin", s.origin, "classes", ix.Len())
	return arch, nil
}

// String summarizes an archive for logs.
func (a *ApplicationArchive) String() string {
	classes := 0
	if a.Index != nil {
		classes = a.Index.Len()
	}
	return fmt.Sprintf("%s (%s, %d classes)", a.Name, a.Origin, classes)
}
