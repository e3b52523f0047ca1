package index

import (
	"fmt"
	"sort"
)

// View is a read-only, queryable class index.
type View interface {
	// Get returns the record for a qualified class name.
	Get(name string) (*ClassRecord, bool)

	// Names returns every class name in the view, sorted.
	Names() []string

	// AnnotatedWith returns the uses of an annotation type across all classes,
	// ordered by declaring class name.
	AnnotatedWith(annotation string) []AnnotationUse

	// Subclasses returns the records whose direct superclass is name, sorted.
	Subclasses(name string) []*ClassRecord

	// Len returns the number of classes in the view.
	Len() int
}

// DuplicateClassError reports two records with the same name in one scan.
type DuplicateClassError struct {
	Name string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate class %q", e.Name)
}

// ClassIndex maps qualified class names to records. It is built once by a
// scan and read-only afterwards.
type ClassIndex struct {
	classes map[string]*ClassRecord
}

// NewClassIndex creates an empty index.
func NewClassIndex() *ClassIndex {
	return &ClassIndex{classes: make(map[string]*ClassRecord)}
}

// Add inserts a record. Adding a name twice is an error.
func (ix *ClassIndex) Add(rec *ClassRecord) error {
	if _, exists := ix.classes[rec.Name]; exists {
		return &DuplicateClassError{Name: rec.Name}
	}
	ix.classes[rec.Name] = rec
	return nil
}

// Get returns the record for a qualified class name.
func (ix *ClassIndex) Get(name string) (*ClassRecord, bool) {
	rec, ok := ix.classes[name]
	return rec, ok
}

// Len returns the number of classes.
func (ix *ClassIndex) Len() int {
	return len(ix.classes)
}

// Names returns every class name, sorted.
func (ix *ClassIndex) Names() []string {
	names := make([]string, 0, len(ix.classes))
	for name := range ix.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AnnotatedWith returns the uses of an annotation type across all classes.
func (ix *ClassIndex) AnnotatedWith(annotation string) []AnnotationUse {
	var uses []AnnotationUse
	for _, name := range ix.Names() {
		uses = append(uses, ix.classes[name].Uses(annotation)...)
	}
	return uses
}

// Subclasses returns the records whose direct superclass is name.
func (ix *ClassIndex) Subclasses(name string) []*ClassRecord {
	var subs []*ClassRecord
	for _, n := range ix.Names() {
		if rec := ix.classes[n]; rec.Superclass == name {
			subs = append(subs, rec)
		}
	}
	return subs
}
