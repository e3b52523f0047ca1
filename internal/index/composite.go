package index

import "sort"

// Composite layers views in order. Lookups return the first hit, so views
// added earlier take priority. Composite never mutates its sources.
type Composite struct {
	sources []View
}

// NewComposite creates a composite over the given views, highest priority first.
func NewComposite(sources ...View) *Composite {
	c := &Composite{}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// With returns a new composite with extra views appended at lowest priority.
func (c *Composite) With(sources ...View) *Composite {
	all := make([]View, 0, len(c.sources)+len(sources))
	all = append(all, c.sources...)
	all = append(all, sources...)
	return NewComposite(all...)
}

// Sources returns the layered views in priority order.
func (c *Composite) Sources() []View {
	return append([]View(nil), c.sources...)
}

// Get returns the first record named name, probing sources in order.
func (c *Composite) Get(name string) (*ClassRecord, bool) {
	for _, s := range c.sources {
		if rec, ok := s.Get(name); ok {
			return rec, true
		}
	}
	return nil, false
}

// Names returns the distinct class names across all sources, sorted.
func (c *Composite) Names() []string {
	seen := make(map[string]struct{})
	for _, s := range c.sources {
		for _, n := range s.Names() {
			seen[n] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct class names.
func (c *Composite) Len() int {
	return len(c.Names())
}

// AnnotatedWith returns annotation uses from the winning record of each class.
// A class shadowed by a higher priority source contributes nothing from the
// shadowed copy.
func (c *Composite) AnnotatedWith(annotation string) []AnnotationUse {
	var uses []AnnotationUse
	for _, name := range c.Names() {
		rec, _ := c.Get(name)
		uses = append(uses, rec.Uses(annotation)...)
	}
	return uses
}

// Subclasses returns the winning records whose direct superclass is name.
func (c *Composite) Subclasses(name string) []*ClassRecord {
	var subs []*ClassRecord
	for _, n := range c.Names() {
		if rec, _ := c.Get(n); rec.Superclass == name {
			subs = append(subs, rec)
		}
	}
	return subs
}
