package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/classidx/internal/artifact"
	"github.com/opmodel/classidx/internal/classpath"
	"github.com/opmodel/classidx/internal/classpath/classpathtest"
	oerrors "github.com/opmodel/classidx/internal/errors"
)

func newResolver(t *testing.T, opts Options, paths ...string) *ClasspathResolver {
	t.Helper()
	cp, err := classpath.New(paths...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cp.Close() })
	r, err := NewClasspathResolver(cp, opts)
	require.NoError(t, err)
	return r
}

func TestResolveMavenLayout(t *testing.T) {
	repo := t.TempDir()
	core := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "", nil)
	other := classpathtest.MavenJar(t, repo, "org.other", "lib-core", "9.0.0", "", nil)
	tests := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "tests", nil)
	api := classpathtest.MavenJar(t, repo, "com.acme", "lib-core-api", "3.1", "", nil)

	r := newResolver(t, Options{}, other, core, tests, api)

	got, err := r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", got.Version)
	assert.Equal(t, core, got.Path)
	_, err = os.Stat(got.Path)
	assert.NoError(t, err)

	pattern := regexp.MustCompile(`^lib-core-\d.*\.jar$`)
	assert.Regexp(t, pattern, filepath.Base(got.Path))

	got, err = r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core", Classifier: "tests"})
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", got.Version)
	assert.Equal(t, tests, got.Path)

	got, err = r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core-api"})
	require.NoError(t, err)
	assert.Equal(t, "3.1", got.Version)

	got, err = r.Resolve(artifact.Coordinate{Group: "org.other", Artifact: "lib-core"})
	require.NoError(t, err)
	assert.Equal(t, other, got.Path)
}

func TestResolveClassifierBeforeVersion(t *testing.T) {
	repo := t.TempDir()
	jar := classpathtest.WriteJar(t,
		filepath.Join(repo, "com", "acme", "lib-core", "2.0.1", "lib-core-native-2.0.1.jar"), nil)

	r := newResolver(t, Options{}, jar)
	got, err := r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core", Classifier: "native"})
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", got.Version)
}

func TestResolveNotFound(t *testing.T) {
	repo := t.TempDir()
	jar := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "", nil)
	// Right file name, wrong group directories.
	stray := classpathtest.WriteJar(t, filepath.Join(repo, "flat", "lib-web-1.0.0.jar"), nil)

	r := newResolver(t, Options{}, jar, stray)

	for _, c := range []artifact.Coordinate{
		{Group: "com.acme", Artifact: "lib-missing"},
		{Group: "com.other", Artifact: "lib-core"},
		{Group: "com.acme", Artifact: "lib-web"},
	} {
		_, err := r.Resolve(c)
		require.Error(t, err, c.String())
		assert.True(t, errors.Is(err, oerrors.ErrResolution))
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
		assert.Contains(t, err.Error(), c.String())
	}
}

func TestResolveAmbiguous(t *testing.T) {
	repoA := t.TempDir()
	repoB := t.TempDir()
	older := classpathtest.MavenJar(t, repoA, "com.acme", "lib-core", "1.2.0", "", nil)
	newer := classpathtest.MavenJar(t, repoB, "com.acme", "lib-core", "1.10.0", "", nil)
	c := artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"}

	t.Run("first match wins", func(t *testing.T) {
		r := newResolver(t, Options{}, older, newer)
		got, err := r.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, older, got.Path)
	})

	t.Run("strict reports", func(t *testing.T) {
		r := newResolver(t, Options{Strict: true}, older, newer)
		_, err := r.Resolve(c)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrResolution))
		assert.Contains(t, err.Error(), "1.10.0, 1.2.0")
	})
}

func TestDirectoriesAreNotArtifacts(t *testing.T) {
	dir := classpathtest.WriteDir(t, t.TempDir(), classpathtest.Entries{
		"META-INF/MANIFEST.MF": []byte(classpathtest.Manifest),
	})
	r := newResolver(t, Options{}, dir)
	require.Len(t, r.candidates, 1)

	_, err := r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"})
	assert.Error(t, err)
}

func TestArchiveRoot(t *testing.T) {
	root, ok := archiveRoot("jar:file:/repo/a-1.0.jar!/META-INF/MANIFEST.MF", DefaultManifestResource)
	assert.True(t, ok)
	assert.Equal(t, "/repo/a-1.0.jar", root)

	root, ok = archiveRoot("file:/work/classes/META-INF/MANIFEST.MF", DefaultManifestResource)
	assert.True(t, ok)
	assert.Equal(t, "/work/classes", root)

	_, ok = archiveRoot("jar:http://host/a.jar!/META-INF/MANIFEST.MF", DefaultManifestResource)
	assert.False(t, ok)
}

func TestCandidateMatchesGroup(t *testing.T) {
	c := newCandidate("/home/u/.m2/repository/com/acme/lib-core/1.2.0/lib-core-1.2.0.jar")
	assert.Equal(t, "lib-core-1.2.0.jar", c.fileName)
	assert.Equal(t, []string{"1.2.0", "lib-core", "acme", "com", "repository", ".m2", "u", "home"}, c.parents)
	assert.True(t, c.matchesGroup("com.acme"))
	assert.True(t, c.matchesGroup("acme"))
	assert.False(t, c.matchesGroup("org.acme"))
	assert.False(t, c.matchesGroup("a.b.c.d.e.f.g"))

	co := artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"}
	assert.True(t, c.matchesLayout(co, "1.2.0"))
	assert.False(t, c.matchesLayout(co, "1.2.0-tests"))
	assert.False(t, c.matchesLayout(artifact.Coordinate{Group: "com.acme", Artifact: "lib"}, "1.2.0"))
}

func TestResolveSkipsClassifiedSibling(t *testing.T) {
	repo := t.TempDir()
	core := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "", nil)
	tests := classpathtest.MavenJar(t, repo, "com.acme", "lib-core", "1.2.0", "tests", nil)
	c := artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"}

	for name, order := range map[string][]string{
		"classified first": {tests, core},
		"classified last":  {core, tests},
	} {
		t.Run(name, func(t *testing.T) {
			r := newResolver(t, Options{Strict: true}, order...)
			got, err := r.Resolve(c)
			require.NoError(t, err)
			assert.Equal(t, "1.2.0", got.Version)
			assert.Equal(t, core, got.Path)

			got, err = r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core", Classifier: "tests"})
			require.NoError(t, err)
			assert.Equal(t, tests, got.Path)
		})
	}
}

func TestResolveVersionDirectoryMismatch(t *testing.T) {
	repo := t.TempDir()
	jar := classpathtest.WriteJar(t,
		filepath.Join(repo, "com", "acme", "lib-core", "2.0.0", "lib-core-1.0.0.jar"), nil)

	r := newResolver(t, Options{}, jar)
	_, err := r.Resolve(artifact.Coordinate{Group: "com.acme", Artifact: "lib-core"})
	assert.ErrorIs(t, err, oerrors.ErrResolution)
}
