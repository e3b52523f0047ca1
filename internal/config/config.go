// Package config provides configuration loading and management.
package config

import (
	"github.com/opmodel/classidx/internal/index"
)

// Default resource names.
const (
	DefaultMarkerResource   = "META-INF/classidx.marker"
	DefaultManifestResource = "META-INF/MANIFEST.MF"
)

// MarkedDependency is a dependency with its externally resolved
// "index this jar" flag.
type MarkedDependency struct {
	// Location is a file: or jar:file: locator, or a plain path.
	Location string `mapstructure:"location" yaml:"location"`

	// Index requests indexing of the whole dependency.
	Index bool `mapstructure:"index" yaml:"index"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the classidx configuration.
// Loaded from ~/.classidx/config.yaml, overridden by CLASSIDX_* env vars and flags.
type Config struct {
	// Classpath lists the jars and directories forming the class loader.
	// Env: CLASSIDX_CLASSPATH (path-list separated)
	Classpath []string `mapstructure:"classpath" yaml:"classpath"`

	// ProjectRoots are project-local compiled output directories, indexed first.
	ProjectRoots []string `mapstructure:"projectRoots" yaml:"projectRoots"`

	// IndexDependencies are group:artifact[:classifier] coordinates.
	IndexDependencies []string `mapstructure:"indexDependencies" yaml:"indexDependencies"`

	MarkedDependencies []MarkedDependency `mapstructure:"markedDependencies" yaml:"markedDependencies"`

	// Packages are indexed best effort from every classpath entry.
	Packages []string `mapstructure:"packages" yaml:"packages"`

	// Env: CLASSIDX_MARKER_RESOURCE
	MarkerResource string `mapstructure:"markerResource" yaml:"markerResource"`

	// Env: CLASSIDX_MANIFEST_RESOURCE
	ManifestResource string `mapstructure:"manifestResource" yaml:"manifestResource"`

	// RootType is the supertype that ends hierarchy walks.
	RootType string `mapstructure:"rootType" yaml:"rootType"`

	// StrictResolution turns ambiguous coordinate matches into errors.
	// Env: CLASSIDX_STRICT_RESOLUTION
	StrictResolution bool `mapstructure:"strictResolution" yaml:"strictResolution"`

	// DiscoverMarkers also indexes every classpath entry carrying the marker.
	// Env: CLASSIDX_DISCOVER_MARKERS
	DiscoverMarkers bool `mapstructure:"discoverMarkers" yaml:"discoverMarkers"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `classidx config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Classpath:          []string{},
		ProjectRoots:       []string{},
		IndexDependencies:  []string{},
		MarkedDependencies: []MarkedDependency{},
		Packages:           []string{},
		MarkerResource:     DefaultMarkerResource,
		ManifestResource:   DefaultManifestResource,
		RootType:           index.RootType,
		DiscoverMarkers:    true,
	}
}

// WithDefaults fills unset resource names and the root type.
func (c *Config) WithDefaults() *Config {
	if c.MarkerResource == "" {
		c.MarkerResource = DefaultMarkerResource
	}
	if c.ManifestResource == "" {
		c.ManifestResource = DefaultManifestResource
	}
	if c.RootType == "" {
		c.RootType = index.RootType
	}
	return c
}

// IndexedMarkedDependencies returns the locations of marked dependencies
// flagged for indexing.
func (c *Config) IndexedMarkedDependencies() []string {
	var locations []string
	for _, d := range c.MarkedDependencies {
		if d.Index {
			locations = append(locations, d.Location)
		}
	}
	return locations
}
