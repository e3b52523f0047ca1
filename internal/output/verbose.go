package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/opmodel/classidx/internal/index"
)

// VerboseOptions controls class detail output.
type VerboseOptions struct {
	// JSON outputs structured JSON instead of human-readable text
	JSON bool
	// Writer is the output destination
	Writer io.Writer
}

// ClassDetail is a class record with where it was found.
type ClassDetail struct {
	Record *index.ClassRecord `json:"record" yaml:"record"`

	// Source names the indexed source holding the record.
	Source string `json:"source" yaml:"source"`

	// Enriched is true when the record was added by on-demand indexing.
	Enriched bool `json:"enriched" yaml:"enriched"`

	// Subclasses are the direct subclasses known to the index.
	Subclasses []string `json:"subclasses,omitempty" yaml:"subclasses,omitempty"`
}

// WriteClassDetail writes a class record in human or JSON form.
func WriteClassDetail(detail ClassDetail, opts VerboseOptions) error {
	if opts.JSON {
		encoder := json.NewEncoder(opts.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(detail)
	}
	return writeClassHuman(detail, opts.Writer)
}

func writeClassHuman(detail ClassDetail, w io.Writer) error {
	rec := detail.Record
	var sb strings.Builder

	status := StatusIndexed
	if detail.Enriched {
		status = StatusEnriched
	}

	sb.WriteString("Class:\n")
	fmt.Fprintf(&sb, "  Name:       %s\n", StyleNoun.Render(rec.Name))
	fmt.Fprintf(&sb, "  Kind:       %s\n", rec.Kind)
	fmt.Fprintf(&sb, "  Access:     0x%04x\n", rec.AccessFlags)
	if rec.Superclass != "" {
		fmt.Fprintf(&sb, "  Superclass: %s\n", rec.Superclass)
	}
	if len(rec.Interfaces) > 0 {
		fmt.Fprintf(&sb, "  Interfaces: %s\n", strings.Join(rec.Interfaces, ", "))
	}
	fmt.Fprintf(&sb, "  Source:     %s (%s)\n", detail.Source, statusStyle(status).Render(status))
	sb.WriteString("\n")

	if len(rec.Annotations) > 0 {
		sb.WriteString("Annotations:\n")
		for _, use := range rec.Annotations {
			fmt.Fprintf(&sb, "  %s  %s\n", FormatAnnotation(use.Annotation), StyleDim.Render(formatTarget(use)))
		}
		sb.WriteString("\n")
	}

	if len(detail.Subclasses) > 0 {
		sb.WriteString("Subclasses:\n")
		for _, name := range detail.Subclasses {
			fmt.Fprintf(&sb, "  %s\n", name)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatTarget(use index.AnnotationUse) string {
	var target string
	switch use.Target.Kind {
	case index.TargetClass:
		target = "on class"
	case index.TargetParameter:
		target = fmt.Sprintf("on %s parameter %d", use.Target.Name, use.Target.Parameter)
	default:
		target = fmt.Sprintf("on %s %s", use.Target.Kind, use.Target.Name)
	}
	if !use.Visible {
		target += ", class retention"
	}
	return target
}

// FormatAnnotation renders an annotation in source form, elements sorted by name.
func FormatAnnotation(a index.Annotation) string {
	if len(a.Values) == 0 {
		return "@" + a.Type
	}

	names := make([]string, 0, len(a.Values))
	for name := range a.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+formatValue(a.Values[name]))
	}
	return "@" + a.Type + "(" + strings.Join(parts, ", ") + ")"
}

func formatValue(v index.Value) string {
	switch v.Kind {
	case index.ValueBoolean:
		return strconv.FormatBool(v.Int != 0)
	case index.ValueChar:
		return strconv.QuoteRune(rune(v.Int))
	case index.ValueLong:
		return strconv.FormatInt(v.Int, 10) + "L"
	case index.ValueByte, index.ValueShort, index.ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case index.ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 32) + "f"
	case index.ValueDouble:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case index.ValueString:
		return strconv.Quote(v.String)
	case index.ValueEnum:
		return v.String + "." + v.Constant
	case index.ValueClass:
		return v.String + ".class"
	case index.ValueAnnotation:
		if v.Annotation == nil {
			return "@?"
		}
		return FormatAnnotation(*v.Annotation)
	case index.ValueArray:
		parts := make([]string, 0, len(v.Array))
		for _, e := range v.Array {
			parts = append(parts, formatValue(e))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "?"
	}
}
