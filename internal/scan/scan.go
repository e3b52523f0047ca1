// Package scan builds class indexes from archives, directories and packages.
package scan

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/opmodel/classidx/internal/classfile"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/metrics"
	"github.com/opmodel/classidx/internal/output"
)

// DefaultMarkerResource is the well-known resource a dependency carries to
// opt into whole-archive indexing.
const DefaultMarkerResource = "META-INF/classidx.marker"

// Options configures a scan.
type Options struct {
	// MarkerResource overrides DefaultMarkerResource.
	MarkerResource string

	// RejectMarker makes a marker resource inside the scanned source a
	// configuration conflict. Set it for archives listed by coordinate.
	RejectMarker bool

	// Owner names the source in errors, typically its coordinate.
	Owner string
}

func (o Options) marker() string {
	if o.MarkerResource != "" {
		return o.MarkerResource
	}
	return DefaultMarkerResource
}

func (o Options) owner(location string) string {
	if o.Owner != "" {
		return o.Owner
	}
	return location
}

// Archive scans a compressed archive.
func Archive(archivePath string, opts Options) (*index.ClassIndex, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(archivePath, err)
	}
	defer zr.Close()
	return FS(zr, archivePath, metrics.KindArchive, opts)
}

// Dir scans an exploded directory tree.
func Dir(dir string, opts Options) (*index.ClassIndex, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(dir, err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewArchiveReadError(dir, fmt.Errorf("not a directory"))
	}
	return FS(os.DirFS(dir), dir, metrics.KindDirectory, opts)
}

// FS scans every class file entry of fsys. location names fsys in errors
// and logs; kind labels the scan metrics.
func FS(fsys fs.FS, location, kind string, opts Options) (*index.ClassIndex, error) {
	start := time.Now()
	log := output.ArchiveLogger(path.Base(strings.ReplaceAll(location, "\\", "/")))
	ix := index.NewClassIndex()

	if opts.RejectMarker {
		if _, err := fs.Stat(fsys, opts.marker()); err == nil {
			return nil, markerConflict(opts.owner(location), location, opts.marker())
		}
	}

	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return oerrors.NewArchiveReadError(location+"!/"+name, err)
		}
		if d.IsDir() {
			if name == "META-INF" {
				return fs.SkipDir
			}
			return nil
		}
		if !isIndexedClass(name) {
			return nil
		}
		return addEntry(ix, fsys, location, name)
	})
	if err != nil {
		return nil, err
	}

	metrics.SourcesScanned.WithLabelValues(kind).Inc()
	metrics.ClassesIndexed.WithLabelValues(metrics.OriginScan).Add(float64(ix.Len()))
	metrics.ScanDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	log.Debug("scanned", "classes", ix.Len(), "elapsed", time.Since(start))
	return ix, nil
}

// isIndexedClass reports whether an entry is a class file that belongs in the
// index. module-info carries no class, and META-INF (including multi-release
// version directories) is skipped by the walk.
func isIndexedClass(name string) bool {
	return strings.HasSuffix(name, classfile.Suffix) && path.Base(name) != "module-info.class"
}

func addEntry(ix *index.ClassIndex, fsys fs.FS, location, name string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return oerrors.NewArchiveReadError(location+"!/"+name, err)
	}
	rec, err := classfile.Parse(data)
	if err != nil {
		return oerrors.NewClassParseError(location+"!/"+name, err)
	}
	if err := ix.Add(rec); err != nil {
		var dup *index.DuplicateClassError
		if errors.As(err, &dup) {
			return &oerrors.DetailError{
				Type:     "duplicate class",
				Message:  fmt.Sprintf("class %s is defined twice", dup.Name),
				Location: location + "!/" + name,
				Hint:     "An archive must define each class once",
				Cause:    oerrors.ErrArchiveRead,
				Err:      err,
			}
		}
		return err
	}
	return nil
}

func markerConflict(owner, location, marker string) error {
	return &oerrors.DetailError{
		Type:     "marker conflict",
		Message:  "artifact is listed in indexDependencies and also carries the index marker",
		Location: owner,
		Context:  map[string]string{"Archive": location, "Marker": marker},
		Hint:     "Remove the artifact from indexDependencies; its marker already opts it in",
		Cause:    oerrors.ErrConfiguration,
	}
}
