package snapshot

import (
	"fmt"
	"slices"
	"strings"
)

// Direction selects ascending or descending byte order.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Algorithm selects the sorting strategy. Both are stable and produce the
// same order; they differ only in memory access pattern.
type Algorithm int

const (
	// Merge is a recursive top-down merge sort over the records with an
	// auxiliary buffer the size of the larger half.
	Merge Algorithm = iota
	// Index sorts an index array with a comparator and permutes the
	// records once at the end.
	Index
)

// ParseAlgorithm maps a config/flag value to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "", "merge":
		return Merge, nil
	case "index":
		return Index, nil
	default:
		return Merge, fmt.Errorf("unknown sort algorithm %q (use merge or index)", s)
	}
}

func (a Algorithm) String() string {
	if a == Index {
		return "index"
	}
	return "merge"
}

// Sort orders s.Records in place by Path using the merge algorithm.
func (s *Snapshot) Sort(dir Direction) {
	SortRecords(s.Records, dir, Merge)
}

// SortWith orders s.Records in place using alg.
func (s *Snapshot) SortWith(dir Direction, alg Algorithm) {
	SortRecords(s.Records, dir, alg)
}

// SortRecords orders records by Path. Only the path bytes are compared;
// duplicates keep their relative order.
func SortRecords(records []Record, dir Direction, alg Algorithm) {
	if len(records) < 2 {
		return
	}
	switch alg {
	case Index:
		indexSort(records, dir)
	default:
		work := make([]Record, (len(records)+1)/2)
		mergeSort(records, work, dir)
	}
}

// before reports whether a must be emitted ahead of b when they are not
// equal. Equal paths are never "before" each other, which keeps the merge
// stable.
func before(a, b string, dir Direction) bool {
	if dir == Descending {
		return a > b
	}
	return a < b
}

func mergeSort(a, work []Record, dir Direction) {
	if len(a) < 2 {
		return
	}
	mid := (len(a) + 1) / 2
	mergeSort(a[:mid], work, dir)
	mergeSort(a[mid:], work, dir)

	// Already ordered across the boundary.
	if !before(a[mid].Path, a[mid-1].Path, dir) {
		return
	}

	left := work[:mid]
	copy(left, a[:mid])

	i, j, k := 0, mid, 0
	for i < len(left) && j < len(a) {
		// Take from the right only when strictly ahead so equal paths
		// keep left-first order.
		if before(a[j].Path, left[i].Path, dir) {
			a[k] = a[j]
			j++
		} else {
			a[k] = left[i]
			i++
		}
		k++
	}
	for i < len(left) {
		a[k] = left[i]
		i++
		k++
	}
}

func indexSort(records []Record, dir Direction) {
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}

	cmp := func(x, y int) int {
		return strings.Compare(records[x].Path, records[y].Path)
	}
	if dir == Descending {
		asc := cmp
		cmp = func(x, y int) int { return asc(y, x) }
	}
	slices.SortStableFunc(idx, cmp)

	sorted := make([]Record, len(records))
	for i, j := range idx {
		sorted[i] = records[j]
	}
	copy(records, sorted)
}

// IsSorted reports whether records are in dir order.
func IsSorted(records []Record, dir Direction) bool {
	for i := 1; i < len(records); i++ {
		if before(records[i].Path, records[i-1].Path, dir) {
			return false
		}
	}
	return true
}
