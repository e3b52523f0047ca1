package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/output"
	"github.com/opmodel/classidx/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(cfg *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        `Show the classidx version, commit, build date and Go version.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(c *cobra.Command, _ []string) error {
			info := version.Get()
			if cfg.Output != output.FormatTable {
				return output.WriteDocument(info, cfg.Output, c.OutOrStdout())
			}
			fmt.Fprintln(c.OutOrStdout(), info.String())
			return nil
		},
	}
}
