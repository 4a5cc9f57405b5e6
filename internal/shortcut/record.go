// Package shortcut models launcher shortcuts for Steam games and reads and
// writes their desktop entry files.
package shortcut

import "sort"

// Record identifies one shortcut. Two records with the same name and id are
// the same shortcut regardless of which directory they were read from.
type Record struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Set is a population of shortcuts drawn from one directory tree.
type Set map[Record]struct{}

// NewSet builds a Set from records.
func NewSet(records ...Record) Set {
	s := make(Set, len(records))
	for _, r := range records {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is in the set.
func (s Set) Has(r Record) bool {
	_, ok := s[r]
	return ok
}

// Sorted returns the records ordered by name, then id.
func (s Set) Sorted() []Record {
	out := make([]Record, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	SortRecords(out)
	return out
}

// SortRecords orders records by name, then id.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
}
