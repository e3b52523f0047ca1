package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/output"
)

func TestClassIndexed(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "class", "com.acme.Foo", "--classpath", f.classpath(), "-d", "com.acme:lib-core", "-o", "json")

	var detail output.ClassDetail
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "com.acme.Foo", detail.Record.Name)
	assert.Equal(t, "com.acme:lib-core", detail.Source)
	assert.False(t, detail.Enriched)
	assert.Equal(t, []string{"com.acme.Bar"}, detail.Subclasses)
}

func TestClassEnriched(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "class", "com.acme.extra.Extra", "--classpath", f.classpath(), "-d", "com.acme:lib-core", "-o", "yaml")

	var detail output.ClassDetail
	require.NoError(t, yaml.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "com.acme.Foo", detail.Record.Superclass)
	assert.Equal(t, sourceEnriched, detail.Source)
	assert.True(t, detail.Enriched)
}

func TestClassEnrichesSupertypes(t *testing.T) {
	f := newFixture(t)

	out := mustExecute(t, "class", "com.acme.Baz", "--classpath", f.classpath(), "--no-discover")

	assert.Contains(t, out, "com.acme.Baz")
	assert.Contains(t, out, "Superclass: com.acme.Bar")
	assert.Contains(t, out, "enriched")
}

func TestClassNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := execute(t, "class", "com.acme.Missing", "--classpath", f.classpath())
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))

	_, err = execute(t, "class", "com.acme.extra.Extra", "--classpath", f.classpath(), "--enrich=false")
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}
