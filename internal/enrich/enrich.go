// Package enrich indexes individual classes on demand, together with the
// supertypes and annotation types they reference.
package enrich

import (
	"errors"
	"strings"

	"github.com/opmodel/classidx/internal/classfile"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
)

// ClassLoader returns class file bytes by binary class name.
type ClassLoader interface {
	ReadClass(name string) ([]byte, error)
}

// VisitedSet holds the class names already handled in one enrichment session.
type VisitedSet map[string]struct{}

// Has reports whether name was visited.
func (v VisitedSet) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v VisitedSet) add(name string) {
	v[name] = struct{}{}
}

// DefaultPlatformPrefixes name packages provided by the runtime rather than
// the classpath. Missing references into them are expected.
var DefaultPlatformPrefixes = []string{"java.", "javax.", "jdk.", "sun."}

// Indexer adds classes to a caller-owned overlay. It is not safe for
// concurrent use against the same overlay.
type Indexer struct {
	loader           ClassLoader
	rootType         string
	platformPrefixes []string
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithRootType sets the supertype at which supertype traversal stops.
func WithRootType(name string) Option {
	return func(ix *Indexer) {
		ix.rootType = name
	}
}

// WithPlatformPrefixes replaces DefaultPlatformPrefixes.
func WithPlatformPrefixes(prefixes ...string) Option {
	return func(ix *Indexer) {
		ix.platformPrefixes = prefixes
	}
}

// New creates an Indexer loading class bytes from loader.
func New(loader ClassLoader, opts ...Option) *Indexer {
	ix := &Indexer{
		loader:           loader,
		rootType:         index.RootType,
		platformPrefixes: DefaultPlatformPrefixes,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// EnsureIndexed makes sure className and its closure of supertypes and
// annotation types are present in view or overlay, loading missing classes
// from the class loader into overlay.
func (ix *Indexer) EnsureIndexed(className string, view index.View, overlay *index.Overlay, visited VisitedSet) error {
	return ix.ensure(className, nil, view, overlay, visited)
}

// EnsureIndexedBytes is EnsureIndexed for a class whose bytes are already in
// hand, such as a class generated during the build. References it makes are
// still loaded from the class loader.
func (ix *Indexer) EnsureIndexedBytes(className string, data []byte, view index.View, overlay *index.Overlay, visited VisitedSet) error {
	if data == nil {
		data = []byte{}
	}
	return ix.ensure(className, data, view, overlay, visited)
}

func (ix *Indexer) ensure(origin string, originBytes []byte, view index.View, overlay *index.Overlay, visited VisitedSet) error {
	work := []string{origin}
	for len(work) > 0 {
		name := work[len(work)-1]
		work = work[:len(work)-1]

		if visited.Has(name) {
			continue
		}
		if ix.known(name, view, overlay) {
			visited.add(name)
			continue
		}

		data := originBytes
		if name != origin || originBytes == nil {
			var err error
			data, err = ix.loader.ReadClass(name)
			if err != nil {
				if name != origin && errors.Is(err, oerrors.ErrNotFound) {
					ix.skipMissing(name, origin)
					visited.add(name)
					continue
				}
				return err
			}
		}

		rec, err := classfile.Parse(data)
		if err != nil {
			return oerrors.NewClassParseError(name, err)
		}
		if rec.Name != name {
			return oerrors.NewClassParseError(name, errors.New("class file declares "+rec.Name))
		}
		overlay.Put(rec)
		visited.add(name)
		metrics.ClassesIndexed.WithLabelValues(metrics.OriginEnrich).Inc()
		output.Debug("enriched class", "class", name, "origin", origin)

		if rec.Superclass != "" && rec.Superclass != ix.rootType && !ix.done(rec.Superclass, view, overlay, visited) {
			work = append(work, rec.Superclass)
		}
		types := rec.AnnotationTypes()
		for i := len(types) - 1; i >= 0; i-- {
			if t := types[i]; !ix.done(t, view, overlay, visited) {
				work = append(work, t)
			}
		}
	}
	return nil
}

func (ix *Indexer) known(name string, view index.View, overlay *index.Overlay) bool {
	if view != nil {
		if _, ok := view.Get(name); ok {
			return true
		}
	}
	_, ok := overlay.Get(name)
	return ok
}

func (ix *Indexer) done(name string, view index.View, overlay *index.Overlay, visited VisitedSet) bool {
	return visited.Has(name) || ix.known(name, view, overlay)
}

// skipMissing logs a referenced class that is not on the classpath. Like the
// JVM, a missing annotation type or platform supertype does not fail the
// referencing class.
func (ix *Indexer) skipMissing(name, origin string) {
	for _, p := range ix.platformPrefixes {
		if strings.HasPrefix(name, p) {
			output.Debug("platform class not on classpath", "class", name, "origin", origin)
			return
		}
	}
	output.Warn("referenced class not on classpath", "class", name, "origin", origin)
}
