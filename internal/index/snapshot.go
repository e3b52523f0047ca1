package index

import (
	"reflect"
	"sort"
)

// Snapshot is a stable, sorted document form of a view.
type Snapshot struct {
	// Generator is the classidx version that wrote the snapshot.
	Generator string `json:"generator,omitempty" yaml:"generator,omitempty"`

	Classes []ClassRecord `json:"classes" yaml:"classes"`
}

// TakeSnapshot copies the records of a view in name order.
func TakeSnapshot(v View) Snapshot {
	names := v.Names()
	snap := Snapshot{Classes: make([]ClassRecord, 0, len(names))}
	for _, name := range names {
		rec, _ := v.Get(name)
		snap.Classes = append(snap.Classes, *rec)
	}
	return snap
}

// Record returns the snapshot's record for name.
func (s Snapshot) Record(name string) (*ClassRecord, bool) {
	i := sort.Search(len(s.Classes), func(i int) bool { return s.Classes[i].Name >= name })
	if i < len(s.Classes) && s.Classes[i].Name == name {
		return &s.Classes[i], true
	}
	return nil, false
}

// SnapshotDiff lists class names that differ between two snapshots, sorted.
type SnapshotDiff struct {
	Added    []string
	Removed  []string
	Modified []string
}

// Empty reports whether the snapshots hold the same records.
func (d SnapshotDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DiffSnapshots compares two snapshots record by record. Both must be sorted
// by name, as TakeSnapshot produces them.
func DiffSnapshots(from, to Snapshot) SnapshotDiff {
	var d SnapshotDiff
	i, j := 0, 0
	for i < len(from.Classes) || j < len(to.Classes) {
		switch {
		case j == len(to.Classes) || (i < len(from.Classes) && from.Classes[i].Name < to.Classes[j].Name):
			d.Removed = append(d.Removed, from.Classes[i].Name)
			i++
		case i == len(from.Classes) || to.Classes[j].Name < from.Classes[i].Name:
			d.Added = append(d.Added, to.Classes[j].Name)
			j++
		default:
			if !reflect.DeepEqual(from.Classes[i], to.Classes[j]) {
				d.Modified = append(d.Modified, from.Classes[i].Name)
			}
			i++
			j++
		}
	}
	return d
}

// Sort orders the snapshot's records by name.
func (s *Snapshot) Sort() {
	sort.Slice(s.Classes, func(i, j int) bool { return s.Classes[i].Name < s.Classes[j].Name })
}
