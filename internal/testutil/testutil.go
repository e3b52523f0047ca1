// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// IsolateHome points HOME and the CLASSIDX_* variables at a fresh temporary
// directory so tests never read the developer's configuration. It returns
// the home directory.
func IsolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, env := range []string{
		"CLASSIDX_CONFIG",
		"CLASSIDX_CLASSPATH",
		"CLASSIDX_MARKER_RESOURCE",
		"CLASSIDX_MANIFEST_RESOURCE",
		"CLASSIDX_ROOT_TYPE",
		"CLASSIDX_STRICT_RESOLUTION",
		"CLASSIDX_DISCOVER_MARKERS",
		"CLASSIDX_LOG_TIMESTAMPS",
	} {
		t.Setenv(env, "")
	}
	return home
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}
