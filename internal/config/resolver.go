package config

import (
	"os"
	"path/filepath"

	"github.com/opmodel/classidx/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is one configuration value with its provenance.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	ConfigPath string
	Source     ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CLASSIDX_CONFIG env, (3) ~/.classidx/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// ResolveClasspathOptions contains options for classpath resolution.
type ResolveClasspathOptions struct {
	// FlagValue holds the --classpath entries (nil if not set).
	FlagValue []string
	// ConfigValue holds the classpath from the config file.
	ConfigValue []string
}

// ResolveClasspath resolves the classpath using precedence:
// (1) --classpath flag, (2) CLASSIDX_CLASSPATH env, (3) config.classpath.
// Flag and env values may hold several entries joined by the OS path list
// separator.
func ResolveClasspath(opts ResolveClasspathOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      "classpath",
		Shadowed: make(map[ConfigSource]any),
	}

	flag := splitEntries(opts.FlagValue)
	env := filepath.SplitList(os.Getenv(EnvClasspath))

	switch {
	case len(flag) > 0:
		result.Value = flag
		result.Source = SourceFlag
		if len(env) > 0 {
			result.Shadowed[SourceEnv] = env
		}
		if len(opts.ConfigValue) > 0 {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
	case len(env) > 0:
		result.Value = env
		result.Source = SourceEnv
		if len(opts.ConfigValue) > 0 {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
	case len(opts.ConfigValue) > 0:
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
	default:
		result.Value = []string{}
		result.Source = SourceDefault
	}

	return result
}

// Entries returns a classpath ResolvedValue as a slice.
func (v ResolvedValue) Entries() []string {
	entries, _ := v.Value.([]string)
	return entries
}

func splitEntries(values []string) []string {
	var out []string
	for _, v := range values {
		for _, e := range filepath.SplitList(v) {
			if e != "" {
				out = append(out, e)
			}
		}
	}
	return out
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
