package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{FlagValue: "/flag/config.yaml"})
		require.NoError(t, err)

		assert.Equal(t, "/flag/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/config.yaml", result.Shadowed[SourceEnv])
		assert.NotEmpty(t, result.Shadowed[SourceDefault])
	})

	t.Run("env over default", func(t *testing.T) {
		t.Setenv(EnvConfig, "/env/config.yaml")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)

		assert.Equal(t, "/env/config.yaml", result.ConfigPath)
		assert.Equal(t, SourceEnv, result.Source)
		assert.NotEmpty(t, result.Shadowed[SourceDefault])
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvConfig, "")

		result, err := ResolveConfigPath(ResolveConfigPathOptions{})
		require.NoError(t, err)

		assert.Contains(t, result.ConfigPath, ".classidx")
		assert.Contains(t, result.ConfigPath, "config.yaml")
		assert.Equal(t, SourceDefault, result.Source)
		assert.Empty(t, result.Shadowed)
	})
}

func TestResolveClasspath(t *testing.T) {
	sep := string(os.PathListSeparator)

	t.Run("flag wins and splits entries", func(t *testing.T) {
		t.Setenv(EnvClasspath, "/env/a.jar")

		result := ResolveClasspath(ResolveClasspathOptions{
			FlagValue:   []string{strings.Join([]string{"/flag/a.jar", "/flag/b.jar"}, sep), "/flag/c"},
			ConfigValue: []string{"/config/a.jar"},
		})

		assert.Equal(t, []string{"/flag/a.jar", "/flag/b.jar", "/flag/c"}, result.Entries())
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, []string{"/env/a.jar"}, result.Shadowed[SourceEnv])
		assert.Equal(t, []string{"/config/a.jar"}, result.Shadowed[SourceConfig])
	})

	t.Run("env over config", func(t *testing.T) {
		t.Setenv(EnvClasspath, strings.Join([]string{"/env/a.jar", "/env/b.jar"}, sep))

		result := ResolveClasspath(ResolveClasspathOptions{ConfigValue: []string{"/config/a.jar"}})

		assert.Equal(t, []string{"/env/a.jar", "/env/b.jar"}, result.Entries())
		assert.Equal(t, SourceEnv, result.Source)
		assert.Equal(t, []string{"/config/a.jar"}, result.Shadowed[SourceConfig])
	})

	t.Run("config", func(t *testing.T) {
		t.Setenv(EnvClasspath, "")

		result := ResolveClasspath(ResolveClasspathOptions{ConfigValue: []string{"/config/a.jar"}})
		assert.Equal(t, []string{"/config/a.jar"}, result.Entries())
		assert.Equal(t, SourceConfig, result.Source)
		assert.Empty(t, result.Shadowed)
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(EnvClasspath, "")

		result := ResolveClasspath(ResolveClasspathOptions{})
		assert.Empty(t, result.Entries())
		assert.Equal(t, SourceDefault, result.Source)
	})
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "flag", string(SourceFlag))
	assert.Equal(t, "env", string(SourceEnv))
	assert.Equal(t, "config", string(SourceConfig))
	assert.Equal(t, "default", string(SourceDefault))
}
