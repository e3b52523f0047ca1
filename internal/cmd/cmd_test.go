package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cft "github.com/opmodel/classidx/internal/classfile/classfiletest"
	"github.com/opmodel/classidx/internal/classpath/classpathtest"
	"github.com/opmodel/classidx/internal/testutil"
)

// fixture is a Maven-style repository with two artifacts.
type fixture struct {
	home  string
	core  string
	extra string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	home := testutil.IsolateHome(t)
	repo := t.TempDir()

	core := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "", classpathtest.Entries{
		"com/acme/Foo.class": cft.New("com.acme.Foo").Annotate(cft.Ann("com.acme.Component", cft.Str("value", "foo"))).Bytes(),
		"com/acme/Bar.class": cft.New("com.acme.Bar").Super("com.acme.Foo").Bytes(),
		"com/acme/Baz.class": cft.New("com.acme.Baz").Super("com.acme.Bar").Bytes(),
	})
	extra := classpathtest.MavenJar(t, repo, "com.acme", "lib-extra", "0.9.1", "", classpathtest.Entries{
		"com/acme/extra/Extra.class": cft.New("com.acme.extra.Extra").Super("com.acme.Foo").Bytes(),
	})
	return fixture{home: home, core: core, extra: extra}
}

func (f fixture) classpath() string {
	return f.core + string(filepath.ListSeparator) + f.extra
}

// execute runs the root command and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--timestamps=false"}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err)
	return out
}
