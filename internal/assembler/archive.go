package assembler

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/opmodel/classidx/internal/artifact"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/metrics"
)

// Origin records why a source was indexed.
type Origin string

// Source origins.
const (
	OriginProject    Origin = "project"
	OriginCoordinate Origin = "coordinate"
	OriginMarked     Origin = "marked"
	OriginMarker     Origin = "marker"
)

// ApplicationArchive is one indexed source with its browsable root.
type ApplicationArchive struct {
	// Name is the coordinate for resolved artifacts, the path otherwise.
	Name string

	Origin Origin

	// Artifact is set for sources resolved by coordinate.
	Artifact *artifact.ResolvedArtifact

	// Index holds the classes of this source.
	Index *index.ClassIndex

	// Root is the directory or archive path.
	Root string

	// Archive reports whether Root is a compressed archive.
	Archive bool

	fsys   fs.FS
	handle io.Closer
}

// FS returns the source's file tree for resource lookups. For archives it
// stays valid until Close.
func (a *ApplicationArchive) FS() fs.FS {
	return a.fsys
}

// ReadResource reads a slash-separated resource from the source.
func (a *ApplicationArchive) ReadResource(name string) ([]byte, error) {
	if a.fsys == nil {
		return nil, oerrors.NewArchiveReadError(a.Root, fs.ErrClosed)
	}
	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("resource not found", a.Root+"!/"+name, "")
		}
		return nil, oerrors.NewArchiveReadError(a.Root, err)
	}
	return data, nil
}

// Close releases the archive handle, if any. It is safe to call twice.
func (a *ApplicationArchive) Close() error {
	if a.handle == nil {
		return nil
	}
	err := a.handle.Close()
	a.handle = nil
	a.fsys = nil
	metrics.OpenArchives.Dec()
	if err != nil {
		return fmt.Errorf("closing %s: %w", a.Root, err)
	}
	return nil
}

// mountDir exposes a directory as a source root.
func mountDir(dir string) (*ApplicationArchive, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(dir, err)
	}
	if !info.IsDir() {
		return nil, oerrors.NewArchiveReadError(dir, errors.New("not a directory"))
	}
	return &ApplicationArchive{Name: dir, Root: dir, fsys: os.DirFS(dir)}, nil
}

// mountArchive opens an archive as a file tree. The handle is owned by the
// returned value and released by its Close.
func mountArchive(path string) (*ApplicationArchive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(path, err)
	}
	metrics.OpenArchives.Inc()
	return &ApplicationArchive{Name: path, Root: path, Archive: true, fsys: zr, handle: zr}, nil
}
