package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/assembler"
	"github.com/opmodel/classidx/internal/config"
)

// IndexFlags holds flags common to commands that assemble an index
// (index, class, query).
type IndexFlags struct {
	ProjectRoots []string
	Dependencies []string
	Marked       []string
	Packages     []string
	NoDiscover   bool
	Strict       bool
}

// AddTo registers the index flags on the given cobra command.
func (f *IndexFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.ProjectRoots, "project-root", nil,
		"Project output directory indexed ahead of dependencies (can be repeated)")
	cmd.Flags().StringArrayVarP(&f.Dependencies, "dependency", "d", nil,
		"Dependency to index as group:artifact[:classifier] (can be repeated)")
	cmd.Flags().StringArrayVar(&f.Marked, "marked", nil,
		"Locator or path of a dependency flagged for indexing (can be repeated)")
	cmd.Flags().StringArrayVarP(&f.Packages, "package", "p", nil,
		"Package to index from every classpath entry (can be repeated)")
	cmd.Flags().BoolVar(&f.NoDiscover, "no-discover", false,
		"Do not index classpath entries carrying the marker resource")
	cmd.Flags().BoolVar(&f.Strict, "strict", false,
		"Fail when a dependency matches several classpath entries")
}

// Request merges the flags over the configuration. Flag values extend the
// configured lists.
func (f *IndexFlags) Request(cfg *config.Config) assembler.Request {
	req := assembler.Request{
		ProjectRoots:    append(append([]string{}, cfg.ProjectRoots...), f.ProjectRoots...),
		Coordinates:     append(append([]string{}, cfg.IndexDependencies...), f.Dependencies...),
		Packages:        append(append([]string{}, cfg.Packages...), f.Packages...),
		MarkerResource:  cfg.MarkerResource,
		DiscoverMarkers: cfg.DiscoverMarkers && !f.NoDiscover,
	}
	for _, d := range cfg.MarkedDependencies {
		req.MarkedDependencies = append(req.MarkedDependencies, assembler.MarkedDependency{
			Location: d.Location,
			Index:    d.Index,
		})
	}
	for _, loc := range f.Marked {
		req.MarkedDependencies = append(req.MarkedDependencies, assembler.MarkedDependency{
			Location: loc,
			Index:    true,
		})
	}
	return req
}

// StrictResolution reports whether ambiguous resolution is an error.
func (f *IndexFlags) StrictResolution(cfg *config.Config) bool {
	return f.Strict || cfg.StrictResolution
}
