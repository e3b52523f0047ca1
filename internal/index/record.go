// Package index holds the structural summaries of compiled classes and the
// views used to query them.
package index

import "sort"

// RootType is the designated root supertype. A record whose superclass is
// RootType (or empty) has no further supertypes worth indexing.
const RootType = "java.lang.Object"

// Kind classifies a class record.
type Kind string

// Class record kinds.
const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindAnnotation Kind = "annotation"
	KindEnum       Kind = "enum"
	KindModule     Kind = "module"
)

// TargetKind identifies the program element an annotation is declared on.
type TargetKind string

// Annotation target kinds.
const (
	TargetClass     TargetKind = "class"
	TargetField     TargetKind = "field"
	TargetMethod    TargetKind = "method"
	TargetParameter TargetKind = "parameter"
)

// Target is a reference to an annotated program element.
type Target struct {
	Kind TargetKind `json:"kind" yaml:"kind"`

	// Class is the declaring class.
	Class string `json:"class" yaml:"class"`

	// Name is the field or method name. Empty for class targets.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Descriptor is the JVM field or method descriptor.
	Descriptor string `json:"descriptor,omitempty" yaml:"descriptor,omitempty"`

	// Parameter is the zero-based parameter position for parameter targets.
	Parameter int `json:"parameter,omitempty" yaml:"parameter,omitempty"`
}

// ValueKind identifies the shape of an annotation element value.
type ValueKind string

// Annotation element value kinds.
const (
	ValueByte       ValueKind = "byte"
	ValueChar       ValueKind = "char"
	ValueDouble     ValueKind = "double"
	ValueFloat      ValueKind = "float"
	ValueInt        ValueKind = "int"
	ValueLong       ValueKind = "long"
	ValueShort      ValueKind = "short"
	ValueBoolean    ValueKind = "boolean"
	ValueString     ValueKind = "string"
	ValueEnum       ValueKind = "enum"
	ValueClass      ValueKind = "class"
	ValueAnnotation ValueKind = "annotation"
	ValueArray      ValueKind = "array"
)

// Value is an annotation element value. Exactly one of the payload fields is
// meaningful, selected by Kind.
type Value struct {
	Kind ValueKind `json:"kind" yaml:"kind"`

	// Int holds byte, char, short, int, long and boolean (0/1) values.
	Int int64 `json:"int,omitempty" yaml:"int,omitempty"`

	// Float holds float and double values.
	Float float64 `json:"float,omitempty" yaml:"float,omitempty"`

	// String holds string values, class literal type names and enum type names.
	String string `json:"string,omitempty" yaml:"string,omitempty"`

	// Constant is the enum constant name.
	Constant string `json:"constant,omitempty" yaml:"constant,omitempty"`

	// Annotation is the nested annotation.
	Annotation *Annotation `json:"annotation,omitempty" yaml:"annotation,omitempty"`

	// Array holds array elements.
	Array []Value `json:"array,omitempty" yaml:"array,omitempty"`
}

// Annotation is an annotation instance: its type and named element values.
type Annotation struct {
	Type   string           `json:"type" yaml:"type"`
	Values map[string]Value `json:"values,omitempty" yaml:"values,omitempty"`
}

// AnnotationUse is an annotation applied to a program element.
type AnnotationUse struct {
	Annotation `yaml:",inline"`

	Target Target `json:"target" yaml:"target"`

	// Visible is false for annotations retained only in the class file.
	Visible bool `json:"visible" yaml:"visible"`
}

// ClassRecord is the structural summary of one compiled class.
type ClassRecord struct {
	Name        string          `json:"name" yaml:"name"`
	Superclass  string          `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces  []string        `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Kind        Kind            `json:"kind" yaml:"kind"`
	AccessFlags uint16          `json:"accessFlags" yaml:"accessFlags"`
	Annotations []AnnotationUse `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// HasRootSuperclass reports whether the record's supertype chain ends here.
func (r *ClassRecord) HasRootSuperclass() bool {
	return r.Superclass == "" || r.Superclass == RootType
}

// AnnotationTypes returns the distinct annotation types used anywhere on the
// record, including nested annotation values, sorted.
func (r *ClassRecord) AnnotationTypes() []string {
	seen := make(map[string]struct{})
	for i := range r.Annotations {
		collectAnnotationTypes(&r.Annotations[i].Annotation, seen)
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Uses returns the annotation uses of the given annotation type.
func (r *ClassRecord) Uses(annotation string) []AnnotationUse {
	var uses []AnnotationUse
	for _, u := range r.Annotations {
		if u.Type == annotation {
			uses = append(uses, u)
		}
	}
	return uses
}

func collectAnnotationTypes(a *Annotation, seen map[string]struct{}) {
	seen[a.Type] = struct{}{}
	for _, v := range a.Values {
		collectValueTypes(v, seen)
	}
}

func collectValueTypes(v Value, seen map[string]struct{}) {
	switch v.Kind {
	case ValueAnnotation:
		if v.Annotation != nil {
			collectAnnotationTypes(v.Annotation, seen)
		}
	case ValueArray:
		for _, e := range v.Array {
			collectValueTypes(e, seen)
		}
	}
}
