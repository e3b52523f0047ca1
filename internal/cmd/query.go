package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	oerrors "github.com/opmodel/classidx/internal/errors"
	"github.com/opmodel/classidx/internal/index"
	"github.com/opmodel/classidx/internal/output"
)

type queryOptions struct {
	annotatedWith string
	subclassesOf  string
	transitive    bool
}

// NewQueryCmd creates the query command.
func NewQueryCmd(cfg *GlobalConfig) *cobra.Command {
	var flags IndexFlags
	var opts queryOptions

	c := &cobra.Command{
		Use:   "query",
		Short: "Query the class index",
		Long: `Query the assembled class index.

Exactly one of --annotated-with or --subclasses-of must be given. Only the
winning record of each class is considered, so a class shadowed by a
project root reports the project's annotations.

Examples:
  # List every use of an annotation
  classidx query -d com.acme:lib-core --annotated-with com.acme.Component

  # List the whole subclass tree of a type
  classidx query -d com.acme:lib-core --subclasses-of com.acme.Foo --transitive`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runQuery(c, cfg, &flags, opts)
		},
	}

	flags.AddTo(c)
	c.Flags().StringVar(&opts.annotatedWith, "annotated-with", "", "Annotation type to list uses of")
	c.Flags().StringVar(&opts.subclassesOf, "subclasses-of", "", "Class to list subclasses of")
	c.Flags().BoolVar(&opts.transitive, "transitive", false, "Include indirect subclasses")
	c.MarkFlagsMutuallyExclusive("annotated-with", "subclasses-of")
	c.MarkFlagsOneRequired("annotated-with", "subclasses-of")

	return c
}

func runQuery(c *cobra.Command, cfg *GlobalConfig, flags *IndexFlags, opts queryOptions) error {
	if opts.transitive && opts.subclassesOf == "" {
		return oerrors.NewConfigurationError("--transitive needs --subclasses-of", "--transitive", "")
	}

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

	if opts.annotatedWith != "" {
		return writeAnnotationUses(c, cfg, res.Index.AnnotatedWith(opts.annotatedWith))
	}
	return writeSubclasses(c, cfg, subclassesOf(res.Index, opts.subclassesOf, opts.transitive))
}

// subclassesOf walks the subclass tree breadth first.
func subclassesOf(idx *index.Composite, name string, transitive bool) []*index.ClassRecord {
	subs := idx.Subclasses(name)
	if !transitive {
		return subs
	}
	seen := map[string]struct{}{name: {}}
	var all []*index.ClassRecord
	for len(subs) > 0 {
		rec := subs[0]
		subs = subs[1:]
		if _, ok := seen[rec.Name]; ok {
			continue
		}
		seen[rec.Name] = struct{}{}
		all = append(all, rec)
		subs = append(subs, idx.Subclasses(rec.Name)...)
	}
	return all
}

func writeAnnotationUses(c *cobra.Command, cfg *GlobalConfig, uses []index.AnnotationUse) error {
	if cfg.Output != output.FormatTable {
		if uses == nil {
			uses = []index.AnnotationUse{}
		}
		return output.WriteDocument(uses, cfg.Output, c.OutOrStdout())
	}

	tbl := output.NewTable("CLASS", "TARGET", "ELEMENT", "ANNOTATION")
	for _, u := range uses {
		element := u.Target.Name
		if u.Target.Kind == index.TargetParameter {
			element = fmt.Sprintf("%s#%d", u.Target.Name, u.Target.Parameter)
		}
		if element == "" {
			element = "-"
		}
		tbl.Row(u.Target.Class, string(u.Target.Kind), element, output.FormatAnnotation(u.Annotation))
	}
	fmt.Fprintln(c.OutOrStdout(), tbl.String())
	fmt.Fprintln(c.OutOrStdout(), output.StyleSummary.Render(fmt.Sprintf("%d uses", len(uses))))
	return nil
}

func writeSubclasses(c *cobra.Command, cfg *GlobalConfig, subs []*index.ClassRecord) error {
	if cfg.Output != output.FormatTable {
		if subs == nil {
			subs = []*index.ClassRecord{}
		}
		return output.WriteDocument(subs, cfg.Output, c.OutOrStdout())
	}

	tbl := output.NewTable("CLASS", "KIND", "SUPERCLASS")
	for _, rec := range subs {
		tbl.Row(rec.Name, string(rec.Kind), rec.Superclass)
	}
	fmt.Fprintln(c.OutOrStdout(), tbl.String())
	fmt.Fprintln(c.OutOrStdout(), output.StyleSummary.Render(fmt.Sprintf("%d classes", len(subs))))
	return nil
}
