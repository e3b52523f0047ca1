// Package classpath models the ordered set of directories and archives that
// classes and resources are loaded from.
package classpath

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opmodel/classidx/internal/classfile"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/output"
)

// Entry is one classpath element.
type Entry struct {
	// Path is the absolute filesystem path.
	Path string

	// Archive reports whether the entry is a compressed archive.
	Archive bool

	zr *zip.ReadCloser
}

// Resource is a located resource.
type Resource struct {
	// Name is the slash-separated resource name relative to its entry.
	Name string

	// URL is the file: or jar: locator of the resource.
	URL string

	// Entry is the classpath entry holding the resource.
	Entry *Entry
}

// Classpath is an ordered list of entries. Lookups probe entries in order.
// Archives are opened lazily and stay open until Close.
type Classpath struct {
	entries []*Entry
}

// New creates a classpath. Entries that do not exist are skipped with a
// warning, matching how a JVM treats missing classpath elements.
func New(paths ...string) (*Classpath, error) {
	cp := &Classpath{}
	seen := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, oerrors.NewArchiveReadError(p, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}

		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				output.Warn("skipping missing classpath entry", "path", abs)
				continue
			}
			return nil, oerrors.NewArchiveReadError(abs, err)
		}
		cp.entries = append(cp.entries, &Entry{Path: abs, Archive: !info.IsDir()})
	}
	return cp, nil
}

// Entries returns the classpath entries in order.
func (cp *Classpath) Entries() []*Entry {
	return append([]*Entry(nil), cp.entries...)
}

func (cp *Classpath) open(e *Entry) (*zip.ReadCloser, error) {
	if e.zr != nil {
		return e.zr, nil
	}
	zr, err := zip.OpenReader(e.Path)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(e.Path, err)
	}
	e.zr = zr
	return zr, nil
}

// Resources returns every resource with the given name, in classpath order.
func (cp *Classpath) Resources(name string) ([]Resource, error) {
	name = strings.TrimPrefix(name, "/")
	var found []Resource
	for _, e := range cp.entries {
		if e.Archive {
			zr, err := cp.open(e)
			if err != nil {
				return nil, err
			}
			if _, err := fs.Stat(zr, name); err == nil {
				found = append(found, Resource{Name: name, URL: JarURL(e.Path, name), Entry: e})
			}
			continue
		}
		full := filepath.Join(e.Path, filepath.FromSlash(name))
		if _, err := os.Stat(full); err == nil {
			found = append(found, Resource{Name: name, URL: FileURL(full), Entry: e})
		}
	}
	return found, nil
}

// ReadResource returns the bytes of the first resource with the given name.
func (cp *Classpath) ReadResource(name string) ([]byte, error) {
	name = strings.TrimPrefix(name, "/")
	for _, e := range cp.entries {
		data, err := cp.readFrom(e, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return data, err
	}
	return nil, oerrors.NewNotFoundError("resource not found on classpath", name, "")
}

// Read returns the bytes of a listed resource from the entry that holds it.
func (cp *Classpath) Read(res Resource) ([]byte, error) {
	data, err := cp.readFrom(res.Entry, res.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oerrors.NewNotFoundError("resource not found", res.URL, "")
	}
	return data, err
}

func (cp *Classpath) readFrom(e *Entry, name string) ([]byte, error) {
	if !e.Archive {
		data, err := os.ReadFile(filepath.Join(e.Path, filepath.FromSlash(name)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewArchiveReadError(e.Path, err)
		}
		return data, err
	}
	zr, err := cp.open(e)
	if err != nil {
		return nil, err
	}
	f, err := zr.Open(name)
	if err != nil {
		return nil, fs.ErrNotExist
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, oerrors.NewArchiveReadError(JarURL(e.Path, name), err)
	}
	return data, nil
}

// ReadClass returns the class file bytes for a binary class name.
func (cp *Classpath) ReadClass(className string) ([]byte, error) {
	data, err := cp.ReadResource(classfile.NameToPath(className))
	if errors.Is(err, oerrors.ErrNotFound) {
		return nil, oerrors.NewNotFoundError("class not found on classpath", className, "")
	}
	return data, err
}

// List returns the resources below a slash-separated directory, in classpath
// order and then name order. The directory itself must exist in an entry for
// that entry to contribute.
func (cp *Classpath) List(dir string) ([]Resource, error) {
	dir = strings.Trim(dir, "/")
	var found []Resource
	for _, e := range cp.entries {
		var names []string
		var err error
		if e.Archive {
			names, err = cp.listArchive(e, dir)
		} else {
			names, err = listDir(e.Path, dir)
		}
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			url := FileURL(filepath.Join(e.Path, filepath.FromSlash(n)))
			if e.Archive {
				url = JarURL(e.Path, n)
			}
			found = append(found, Resource{Name: n, URL: url, Entry: e})
		}
	}
	return found, nil
}

func (cp *Classpath) listArchive(e *Entry, dir string) ([]string, error) {
	zr, err := cp.open(e)
	if err != nil {
		return nil, err
	}
	prefix := dir + "/"
	var names []string
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") || !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}

func listDir(root, dir string) ([]string, error) {
	base := filepath.Join(root, filepath.FromSlash(dir))
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, nil
	}
	var names []string
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		names = append(names, path.Clean(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, oerrors.NewArchiveReadError(base, err)
	}
	sort.Strings(names)
	return names, nil
}

// Close releases every archive opened by the classpath.
func (cp *Classpath) Close() error {
	var errs []error
	for _, e := range cp.entries {
		if e.zr == nil {
			continue
		}
		if err := e.zr.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", e.Path, err))
		}
		e.zr = nil
	}
	return errors.Join(errs...)
}
