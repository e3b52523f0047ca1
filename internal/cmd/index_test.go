package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/classidx/internal/config"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/testutil"
	"github.com/opmodel/classidx/internal/version"
)

func snapshotNames(s index.Snapshot) []string {
	names := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		names = append(names, c.Name)
	}
	return names
}

func TestIndexTable(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "index", "--classpath", f.classpath(), "-d", "com.acme:lib-core")

	assert.Contains(t, out, "com.acme:lib-core")
	assert.Contains(t, out, "1.2.0")
	assert.Contains(t, out, "Indexed 3 classes from 1 sources")
	assert.NotContains(t, out, "lib-extra")
}

func TestIndexYAML(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "index", "--classpath", f.classpath(), "-d", "com.acme:lib-core", "-o", "yaml")

	var snap index.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Equal(t, version.Version, snap.Generator)
	assert.Equal(t, []string{"com.acme.Bar", "com.acme.Baz", "com.acme.Foo"}, snapshotNames(snap))

	foo, ok := snap.Record("com.acme.Foo")
	require.True(t, ok)
	require.Len(t, foo.Annotations, 1)
	assert.Equal(t, "com.acme.Component", foo.Annotations[0].Type)
}

func TestIndexOutDir(t *testing.T) {
	f := newFixture(t)
	outDir := filepath.Join(t.TempDir(), "snapshots")

	out := mustExecute(t, "index", "--classpath", f.classpath(),
		"-d", "com.acme:lib-core", "-d", "com.acme:lib-extra", "--out-dir", outDir, "-o", "json")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, ".json", filepath.Ext(e.Name()))
		assert.Contains(t, out, e.Name())
	}
}

func TestIndexPackages(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "index", "--classpath", f.classpath(), "-p", "com.acme.extra", "-o", "yaml")

	var snap index.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Equal(t, []string{"com.acme.extra.Extra"}, snapshotNames(snap))
}

func TestIndexFromConfigFile(t *testing.T) {
	f := newFixture(t)
	path := testutil.WriteFile(t, t.TempDir(), "classidx.yaml", `
classpath:
  - `+f.core+`
  - `+f.extra+`
indexDependencies:
  - com.acme:lib-extra
`)

	out := mustExecute(t, "--config", path, "index", "-o", "yaml")

	var snap index.Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(out), &snap))
	assert.Equal(t, []string{"com.acme.extra.Extra"}, snapshotNames(snap))
}

func TestIndexErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		args     []string
		sentinel error
		code     int
	}{
		{
			name:     "malformed coordinate",
			args:     []string{"index", "--classpath", f.classpath(), "-d", "lib-core"},
			sentinel: oerrors.ErrConfiguration,
			code:     oerrors.ExitConfigurationError,
		},
		{
			name:     "missing artifact",
			args:     []string{"index", "--classpath", f.classpath(), "-d", "com.acme:lib-absent"},
			sentinel: oerrors.ErrResolution,
			code:     oerrors.ExitNotFound,
		},
		{
			name:     "unknown output format",
			args:     []string{"-o", "xml", "index"},
			sentinel: oerrors.ErrConfiguration,
			code:     oerrors.ExitConfigurationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.code, oerrors.ExitCodeFromError(err))
		})
	}
}

func TestIndexFlagsRequest(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IndexDependencies = []string{"com.acme:lib-core"}
	cfg.MarkedDependencies = []config.MarkedDependency{
		{Location: "/libs/a.jar", Index: true},
		{Location: "/libs/b.jar", Index: false},
	}
	cfg.Packages = []string{"com.acme.api"}

	flags := IndexFlags{
		Dependencies: []string{"com.acme:lib-extra"},
		Marked:       []string{"/libs/c.jar"},
		Packages:     []string{"com.acme.spi"},
		NoDiscover:   true,
	}
	req := flags.Request(cfg)

	assert.Equal(t, []string{"com.acme:lib-core", "com.acme:lib-extra"}, req.Coordinates)
	assert.Equal(t, []string{"com.acme.api", "com.acme.spi"}, req.Packages)
	require.Len(t, req.MarkedDependencies, 3)
	assert.False(t, req.MarkedDependencies[1].Index)
	assert.True(t, req.MarkedDependencies[2].Index)
	assert.False(t, req.DiscoverMarkers)
	assert.Equal(t, config.DefaultMarkerResource, req.MarkerResource)

	assert.Equal(t, []string{"com.acme:lib-core"}, cfg.IndexDependencies, "config is not modified")
	assert.False(t, flags.StrictResolution(cfg))
	cfg.StrictResolution = true
	assert.True(t, flags.StrictResolution(cfg))
}
