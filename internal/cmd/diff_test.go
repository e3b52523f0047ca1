package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/testutil"
)

const snapshotBefore = `generator: v0.0.0-dev
classes:
  - name: com.acme.Foo
    kind: class
    accessFlags: 33
  - name: com.acme.Old
    kind: class
    accessFlags: 33
`

const snapshotAfter = `{
  "generator": "v0.0.0-dev",
  "classes": [
    {"name": "com.acme.New", "kind": "class", "accessFlags": 33},
    {"name": "com.acme.Foo", "kind": "class", "accessFlags": 33, "superclass": "com.acme.Base"}
  ]
}`

func TestDiff(t *testing.T) {
	testutil.IsolateHome(t)
	dir := t.TempDir()
	before := testutil.WriteFile(t, dir, "before.yaml", snapshotBefore)
	after := testutil.WriteFile(t, dir, "after.json", snapshotAfter)

	out := mustExecute(t, "diff", before, after)

	assert.Contains(t, out, "+ com.acme.New")
	assert.Contains(t, out, "- com.acme.Old")
	assert.Contains(t, out, "~ com.acme.Foo")
	assert.Contains(t, out, "superclass")
}

func TestDiffIdentical(t *testing.T) {
	testutil.IsolateHome(t)
	before := testutil.WriteFile(t, t.TempDir(), "before.yaml", snapshotBefore)

	out := mustExecute(t, "diff", before, before)
	assert.Contains(t, out, "No changes detected.")
}

func TestDiffErrors(t *testing.T) {
	testutil.IsolateHome(t)
	dir := t.TempDir()
	before := testutil.WriteFile(t, dir, "before.yaml", snapshotBefore)
	broken := testutil.WriteFile(t, dir, "broken.yaml", "classes: [")

	_, err := execute(t, "diff", before, dir+"/absent.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrNotFound)

	_, err = execute(t, "diff", before, broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrConfiguration)

	_, err = execute(t, "diff", before)
	assert.Error(t, err, "two snapshots are required")
}
