package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/output"
	"github.com/opmodel/classidx/internal/version"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(_ *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two index snapshots",
		Long: `Compare two snapshots written by 'classidx index -o yaml' or '-o json'.

Classes are matched by name. Modified classes are shown as a structural
diff of their records.

Examples:
  classidx index -d com.acme:lib-core -o yaml > before.yaml
  # rebuild lib-core
  classidx index -d com.acme:lib-core -o yaml > after.yaml
  classidx diff before.yaml after.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			return runDiff(c, args[0], args[1])
		},
	}
}

func runDiff(c *cobra.Command, oldPath, newPath string) error {
	from, err := readSnapshot(oldPath)
	if err != nil {
		return err
	}
	to, err := readSnapshot(newPath)
	if err != nil {
		return err
	}

	for _, s := range []struct {
		path string
		snap index.Snapshot
	}{{oldPath, from}, {newPath, to}} {
		if !version.SnapshotCompatible(version.Version, s.snap.Generator) {
			output.Warn("snapshot written by another classidx version",
				"file", s.path,
				"generator", s.snap.Generator,
				"status", version.CompatibilityMessage(version.Version, s.snap.Generator))
		}
	}

	d := index.DiffSnapshots(from, to)
	useColor := output.IsTTY()

	modified := make([]output.ModifiedItem, 0, len(d.Modified))
	for _, name := range d.Modified {
		before, _ := from.Record(name)
		after, _ := to.Record(name)
		diff, err := diffRecords(before, after, useColor)
		if err != nil {
			return fmt.Errorf("comparing %s: %w", name, err)
		}
		modified = append(modified, output.ModifiedItem{Name: name, Diff: diff})
	}

	fmt.Fprintln(c.OutOrStdout(), output.RenderDiff(d.Added, d.Removed, modified))
	return nil
}

func diffRecords(before, after *index.ClassRecord, useColor bool) (string, error) {
	from, err := output.MarshalYAML(before)
	if err != nil {
		return "", err
	}
	to, err := output.MarshalYAML(after)
	if err != nil {
		return "", err
	}
	return output.DiffYAML(from, to, useColor)
}

// readSnapshot decodes a YAML or JSON snapshot file.
func readSnapshot(path string) (index.Snapshot, error) {
	var snap index.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, &oerrors.DetailError{
			Type:     "not found",
			Message:  "cannot read snapshot",
			Location: path,
			Cause:    oerrors.ErrNotFound,
			Err:      err,
		}
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, oerrors.NewConfigurationError("snapshot is not valid YAML or JSON: "+err.Error(), path,
			"Write snapshots with 'classidx index -o yaml'")
	}
	snap.Sort()
	return snap, nil
}
