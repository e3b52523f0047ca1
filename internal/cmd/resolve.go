package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/artifact"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/output"
)

// resolvedRow is the document form of a resolved artifact.
type resolvedRow struct {
	Coordinate string `json:"coordinate" yaml:"coordinate"`
	Version    string `json:"version" yaml:"version"`
	Path       string `json:"path" yaml:"path"`
}

// NewResolveCmd creates the resolve command.
func NewResolveCmd(cfg *GlobalConfig) *cobra.Command {
	var strict bool

	c := &cobra.Command{
		Use:   "resolve [COORDINATE...]",
		Short: "Locate dependency archives on the classpath",
		Long: `Resolve group:artifact[:classifier] coordinates to archives on the classpath.

With no arguments the indexDependencies of the configuration are resolved.

Examples:
  # Resolve a coordinate
  classidx resolve com.acme:lib-core

  # Fail when several versions are on the classpath
  classidx resolve com.acme:lib-core --strict -o json`,
		RunE: func(c *cobra.Command, args []string) error {
			return runResolve(c, cfg, args, strict || cfg.Config.StrictResolution)
		},
	}

	c.Flags().BoolVar(&strict, "strict", false,
		"Fail when a coordinate matches several classpath entries")

	return c
}

func runResolve(c *cobra.Command, cfg *GlobalConfig, args []string, strict bool) error {
	raw := args
	if len(raw) == 0 {
		raw = cfg.Config.IndexDependencies
	}
	if len(raw) == 0 {
		return oerrors.NewConfigurationError("no coordinates to resolve", "resolve",
			"Pass coordinates as arguments or set indexDependencies in the config file")
	}

	coords := make([]artifact.Coordinate, 0, len(raw))
	for _, r := range raw {
		coord, err := artifact.ParseCoordinate(r)
		if err != nil {
			return err
		}
		coords = append(coords, coord)
	}

	sess, err := openSession(cfg, strict)
	if err != nil {
		return err
	}
	defer sess.Close()

	rows := make([]resolvedRow, 0, len(coords))
	for _, coord := range coords {
		a, err := sess.resolver.Resolve(coord)
		if err != nil {
			return err
		}
		output.Debug("resolved artifact", "coordinate", coord.String(), "version", a.Version, "path", a.Path)
		rows = append(rows, resolvedRow{Coordinate: coord.String(), Version: a.Version, Path: a.Path})
	}

	if cfg.Output != output.FormatTable {
		return output.WriteDocument(rows, cfg.Output, c.OutOrStdout())
	}

	tbl := output.NewTable("COORDINATE", "VERSION", "PATH")
	for _, r := range rows {
		tbl.Row(r.Coordinate, r.Version, r.Path)
	}
	fmt.Fprintln(c.OutOrStdout(), tbl.String())
	return nil
}
