package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/assembler"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/output"
	"github.com/opmodel/classidx/internal/version"
)

// packagesDocument names the split output file of package indexing.
const packagesDocument = "packages"

// NewIndexCmd creates the index command.
func NewIndexCmd(cfg *GlobalConfig) *cobra.Command {
	var flags IndexFlags
	var outDir string

	c := &cobra.Command{
		Use:   "index",
		Short: "Build the class index",
		Long: `Build the class index for the configured sources.

Sources are indexed in priority order:
  1. project roots
  2. dependencies listed by coordinate
  3. marked dependencies
  4. classpath entries carrying the marker resource
  5. packages, from every classpath entry

Examples:
  # Index two dependencies from a classpath
  classidx index --classpath app.jar:lib/core.jar -d com.acme:lib-core

  # Write the index as YAML
  classidx index -d com.acme:lib-core -o yaml

  # Write one snapshot file per source
  classidx index -d com.acme:lib-core --out-dir ./snapshots`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runIndex(c, cfg, &flags, outDir)
		},
	}

	flags.AddTo(c)
	c.Flags().StringVar(&outDir, "out-dir", "", "Write one snapshot per source to this directory")

	return c
}

func runIndex(c *cobra.Command, cfg *GlobalConfig, flags *IndexFlags, outDir string) error {
	sess, err := openSession(cfg, flags.StrictResolution(cfg.Config))
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.assemble(c.Context(), cfg, flags.Request(cfg.Config))
	if err != nil {
		return err
	}
	defer res.Close()

	switch {
	case outDir != "":
		return writeIndexSplit(c, cfg, res, outDir)
	case cfg.Output == output.FormatTable:
		return writeIndexTable(c, res)
	default:
		return output.WriteDocument(snapshotOf(res.Index), cfg.Output, c.OutOrStdout())
	}
}

func snapshotOf(v index.View) index.Snapshot {
	snap := index.TakeSnapshot(v)
	snap.Generator = version.Version
	return snap
}

func writeIndexTable(c *cobra.Command, res *assembler.Result) error {
	rows := make([]output.SourceRow, 0, len(res.Archives)+1)
	for _, a := range res.Archives {
		status := output.StatusIndexed
		if n := shadowedCount(res.Index, a.Index); n > 0 {
			status = output.StatusShadowed
			output.Debug("classes shadowed by a higher priority source", "source", a.Name, "count", n)
		}
		output.Info(output.FormatSourceLine(string(a.Origin), a.Name, status))

		row := output.SourceRow{
			Name:    a.Name,
			Origin:  string(a.Origin),
			Classes: a.Index.Len(),
			Root:    a.Root,
		}
		if a.Artifact != nil {
			row.Version = a.Artifact.Version
		}
		rows = append(rows, row)
	}
	if res.Packages != nil {
		output.Info(output.FormatSourceLine(packagesDocument, "*", output.StatusIndexed))
		rows = append(rows, output.SourceRow{
			Name:    packagesDocument,
			Origin:  packagesDocument,
			Classes: res.Packages.Len(),
		})
	}

	w := c.OutOrStdout()
	fmt.Fprintln(w, output.RenderSourceTable(rows))
	fmt.Fprintln(w, output.FormatCheckmark(
		fmt.Sprintf("Indexed %d classes from %d sources", res.Index.Len(), len(rows))))
	return nil
}

// shadowedCount counts the classes of own that lose to another source in idx.
func shadowedCount(idx *index.Composite, own *index.ClassIndex) int {
	n := 0
	for _, name := range own.Names() {
		mine, _ := own.Get(name)
		if winner, _ := idx.Get(name); winner != mine {
			n++
		}
	}
	return n
}

func writeIndexSplit(c *cobra.Command, cfg *GlobalConfig, res *assembler.Result, outDir string) error {
	format := cfg.Output
	if format == output.FormatTable {
		format = output.FormatYAML
	}

	docs := make([]output.NamedDocument, 0, len(res.Archives)+1)
	for _, a := range res.Archives {
		docs = append(docs, output.NamedDocument{Name: a.Name, Document: snapshotOf(a.Index)})
	}
	if res.Packages != nil {
		docs = append(docs, output.NamedDocument{Name: packagesDocument, Document: snapshotOf(res.Packages)})
	}

	written, err := output.WriteSplit(docs, output.SplitOptions{OutDir: outDir, Format: format})
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark(path))
	}
	return nil
}
