package classpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Locator schemes.
const (
	SchemeFile = "file:"
	SchemeJar  = "jar:"

	// jarSeparator splits an archive URL from the entry inside it.
	jarSeparator = "!/"
)

// FileURL returns the file: locator of a filesystem path.
func FileURL(path string) string {
	return SchemeFile + filepath.ToSlash(path)
}

// JarURL returns the jar: locator of an entry inside an archive.
func JarURL(archive, entry string) string {
	return SchemeJar + FileURL(archive) + jarSeparator + strings.TrimPrefix(entry, "/")
}

// Locator is a parsed resource location.
type Locator struct {
	// Path is the filesystem path: the archive for jar locators, the file or
	// directory otherwise.
	Path string

	// Entry is the entry name inside the archive. Empty for file locators.
	Entry string

	// Archive reports whether Path is a compressed archive.
	Archive bool
}

// ParseLocator parses a file: or jar:file: locator, or a bare filesystem path.
// Locators with any other scheme, including nested archives, are rejected.
func ParseLocator(raw string) (Locator, error) {
	switch {
	case strings.HasPrefix(raw, SchemeJar):
		inner := strings.TrimPrefix(raw, SchemeJar)
		archive, entry, found := strings.Cut(inner, jarSeparator)
		if !found {
			return Locator{}, fmt.Errorf("jar locator %q has no %q separator", raw, jarSeparator)
		}
		if !strings.HasPrefix(archive, SchemeFile) {
			return Locator{}, fmt.Errorf("jar locator %q does not point at a file", raw)
		}
		return Locator{
			Path:    filepath.FromSlash(strings.TrimPrefix(archive, SchemeFile)),
			Entry:   entry,
			Archive: true,
		}, nil
	case strings.HasPrefix(raw, SchemeFile):
		return Locator{Path: filepath.FromSlash(strings.TrimPrefix(raw, SchemeFile))}, nil
	case strings.Contains(raw, ":") && !filepath.IsAbs(raw) && !isDrivePath(raw):
		return Locator{}, fmt.Errorf("unsupported locator scheme in %q", raw)
	default:
		return Locator{Path: raw, Archive: IsArchive(raw)}, nil
	}
}

// IsArchive reports whether a path names a compressed archive by extension.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip", ".war":
		return true
	default:
		return false
	}
}

func isDrivePath(p string) bool {
	return len(p) > 2 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}
