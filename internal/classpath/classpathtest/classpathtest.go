// Package classpathtest writes jar and directory fixtures laid out like a
// Maven repository.
package classpathtest

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Manifest is a minimal jar manifest.
const Manifest = "Manifest-Version: 1.0\r\n\r\n"

// Entries maps slash-separated entry names to content.
type Entries map[string][]byte

// WriteJar writes a jar at path containing entries and a manifest.
func WriteJar(t testing.TB, path string, entries Entries) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	all := Entries{"META-INF/MANIFEST.MF": []byte(Manifest)}
	for k, v := range entries {
		all[k] = v
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = w.Write(all[n])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

// WriteDir writes entries below dir as plain files and returns dir.
func WriteDir(t testing.TB, dir string, entries Entries) string {
	t.Helper()
	for n, data := range entries {
		p := filepath.Join(dir, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, data, 0o644))
	}
	return dir
}

// MavenJar writes a jar at <repo>/<group path>/<artifact>/<version>/<artifact>-<version>[-<classifier>].jar.
func MavenJar(t testing.TB, repo, group, artifact, version, classifier string, entries Entries) string {
	t.Helper()
	file := artifact + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}
	path := filepath.Join(repo, filepath.FromSlash(strings.ReplaceAll(group, ".", "/")), artifact, version, file+".jar")
	return WriteJar(t, path, entries)
}
