package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	oerrors "github.com/opmodel/classidx/internal/errors"
)

// Environment variables read by the loader.
const (
	EnvConfig    = "CLASSIDX_CONFIG"
	EnvClasspath = "CLASSIDX_CLASSPATH"
)

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// Classpath comes from CLASSIDX_CLASSPATH through ResolveClasspath, not here.
	_ = v.BindEnv("markerResource", "CLASSIDX_MARKER_RESOURCE")
	_ = v.BindEnv("manifestResource", "CLASSIDX_MANIFEST_RESOURCE")
	_ = v.BindEnv("rootType", "CLASSIDX_ROOT_TYPE")
	_ = v.BindEnv("strictResolution", "CLASSIDX_STRICT_RESOLUTION")
	_ = v.BindEnv("discoverMarkers", "CLASSIDX_DISCOVER_MARKERS")
	_ = v.BindEnv("log.timestamps", "CLASSIDX_LOG_TIMESTAMPS")

	defaults := DefaultConfig()
	v.SetDefault("markerResource", defaults.MarkerResource)
	v.SetDefault("manifestResource", defaults.ManifestResource)
	v.SetDefault("rootType", defaults.RootType)
	v.SetDefault("discoverMarkers", defaults.DiscoverMarkers)

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values. A missing file
// yields defaults plus environment.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, oerrors.NewConfigurationError("reading config file: "+err.Error(), expandedPath,
				"Fix the YAML syntax or point --config at another file")
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, oerrors.NewConfigurationError("decoding config: "+err.Error(), expandedPath, "")
	}

	if err := cfg.expand(); err != nil {
		return nil, fmt.Errorf("expanding paths: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, oerrors.NewConfigurationError(err.Error(), expandedPath, "")
	}

	return cfg.WithDefaults(), nil
}

// ConfigFileUsed returns the file the last Load read, if it existed.
func (l *Loader) ConfigFileUsed() string {
	path := l.v.ConfigFileUsed()
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (c *Config) expand() error {
	var err error
	if c.Classpath, err = ExpandPaths(c.Classpath); err != nil {
		return err
	}
	if c.ProjectRoots, err = ExpandPaths(c.ProjectRoots); err != nil {
		return err
	}
	for i, d := range c.MarkedDependencies {
		if c.MarkedDependencies[i].Location, err = ExpandPath(d.Location); err != nil {
			return err
		}
	}
	return nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
