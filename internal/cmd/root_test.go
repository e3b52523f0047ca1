package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/testutil"
)

func TestMetricsFile(t *testing.T) {
	f := newFixture(t)
	metricsFile := filepath.Join(t.TempDir(), "classidx.prom")

	mustExecute(t, "index", "--classpath", f.classpath(), "-d", "com.acme:lib-core", "--metrics-file", metricsFile)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "classidx_classes_indexed_total")
	assert.Contains(t, string(data), "classidx_resolutions_total")
}

func TestBrokenConfigFailsIndexing(t *testing.T) {
	testutil.IsolateHome(t)
	path := testutil.WriteFile(t, t.TempDir(), "broken.yaml", "classpath: [")

	_, err := execute(t, "--config", path, "index")
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfiguration)
}

func TestClasspathFromEnv(t *testing.T) {
	f := newFixture(t)
	t.Setenv("CLASSIDX_CLASSPATH", f.classpath())

	out := mustExecute(t, "resolve", "com.acme:lib-extra")
	assert.Contains(t, out, "0.9.1")
}

func TestSkipConfig(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	group := &cobra.Command{Use: "group", Annotations: map[string]string{annotationSkipConfig: "true"}}
	leaf := &cobra.Command{Use: "leaf"}
	other := &cobra.Command{Use: "other"}
	root.AddCommand(group, other)
	group.AddCommand(leaf)

	assert.True(t, skipConfig(leaf))
	assert.True(t, skipConfig(group))
	assert.False(t, skipConfig(other))
	assert.False(t, skipConfig(root))
}
