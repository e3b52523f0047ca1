package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/classidx/internal/assembler"
	"github.com/opmodel/classidx/internal/enrich"
	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/output"
)

// sourceEnriched names records found by on-demand indexing.
const sourceEnriched = "enriched"

// NewClassCmd creates the class command.
func NewClassCmd(cfg *GlobalConfig) *cobra.Command {
	var flags IndexFlags
	enrichMissing := true

	c := &cobra.Command{
		Use:   "class NAME",
		Short: "Show the indexed record of a class",
		Long: `Show the supertypes and annotations recorded for a class.

A class missing from the assembled index is loaded from the classpath
together with its superclass chain and annotation types, unless
--enrich=false is given.

Examples:
  # Show a class from an indexed dependency
  classidx class com.acme.Foo -d com.acme:lib-core

  # Load a class that no indexed source contains
  classidx class com.acme.internal.Helper -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runClass(c, cfg, &flags, args[0], enrichMissing)
		},
	}

	flags.AddTo(c)
	c.Flags().BoolVar(&enrichMissing, "enrich", true, "Load classes missing from the index from the classpath")

	return c
}

func runClass(c *cobra.Command, cfg *GlobalConfig, flags *IndexFlags, name string, enrichMissing bool) error {
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

	view := res.Index
	rec, ok := view.Get(name)
	enriched := false
	if !ok && enrichMissing {
		overlay := index.NewOverlay()
		ix := enrich.New(sess.classpath, enrich.WithRootType(cfg.Config.RootType))
		if err := ix.EnsureIndexed(name, res.Index, overlay, enrich.VisitedSet{}); err != nil {
			return err
		}
		view = res.WithOverlay(overlay)
		rec, ok = view.Get(name)
		enriched = ok
	}
	if !ok {
		return oerrors.NewNotFoundError("class is not indexed", name,
			"Index the dependency holding the class or enable --enrich")
	}

	detail := output.ClassDetail{
		Record:   rec,
		Source:   recordSource(res, rec),
		Enriched: enriched,
	}
	for _, sub := range view.Subclasses(name) {
		detail.Subclasses = append(detail.Subclasses, sub.Name)
	}

	switch cfg.Output {
	case output.FormatYAML:
		return output.WriteDocument(detail, cfg.Output, c.OutOrStdout())
	default:
		return output.WriteClassDetail(detail, output.VerboseOptions{
			JSON:   cfg.Output == output.FormatJSON,
			Writer: c.OutOrStdout(),
		})
	}
}

// recordSource names the source a record was found in.
func recordSource(res *assembler.Result, rec *index.ClassRecord) string {
	for _, a := range res.Archives {
		if own, ok := a.Index.Get(rec.Name); ok && own == rec {
			return a.Name
		}
	}
	if res.Packages != nil {
		if own, ok := res.Packages.Get(rec.Name); ok && own == rec {
			return packagesDocument
		}
	}
	return sourceEnriched
}
