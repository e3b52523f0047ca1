package index

// Overlay is the caller-owned mutable store filled by on-demand enrichment.
// It is composed with bulk-scanned indexes through Composite and never
// mutates them. Overlay is not safe for concurrent writers.
type Overlay struct {
	ClassIndex
}

// NewOverlay creates an empty overlay.
func NewOverlay() *Overlay {
	return &Overlay{ClassIndex: *NewClassIndex()}
}

// Put inserts or replaces a record.
func (o *Overlay) Put(rec *ClassRecord) {
	o.classes[rec.Name] = rec
}
