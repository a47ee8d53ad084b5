// Package query answers conjunctive exact-match queries against one index
// snapshot by intersecting posting lists smallest-first.
package query

import (
	"sort"

	"github.com/civic-records/registry-search/internal/index"
)

// Execute answers a conjunctive query against snap. With no constraints the
// whole corpus is returned in original order. An unmatched key makes the
// result empty immediately: no record can satisfy an impossible constraint.
// Output is always in ascending corpus-position order, regardless of which
// criteria were supplied.
func Execute(snap *index.Snapshot, c Criteria) []string {
	if c.Empty() {
		return snap.Lines()
	}

	lookups := []struct {
		idx index.FieldIndex
		key string
	}{
		{snap.Surname, c.Surname},
		{snap.Province, c.Province},
		{snap.Year, c.Year},
	}
	lists := make([]index.PostingList, 0, len(lookups))
	for _, l := range lookups {
		if l.key == "" {
			continue
		}
		postings := l.idx.Postings(l.key)
		if len(postings) == 0 {
			return nil
		}
		lists = append(lists, postings)
	}

	// Smallest list first: each pairwise merge costs at most the shorter
	// input's length, so intersecting in ascending length order minimises
	// total comparisons.
	sort.Slice(lists, func(i, j int) bool {
		return len(lists[i]) < len(lists[j])
	})

	positions := lists[0]
	for _, next := range lists[1:] {
		positions = intersect(positions, next)
		if len(positions) == 0 {
			return nil
		}
	}

	records := make([]string, len(positions))
	for i, pos := range positions {
		records[i] = snap.Line(pos)
	}
	return records
}

// Run wraps Execute in a Result suitable for caching and serialisation.
func Run(snap *index.Snapshot, c Criteria) *Result {
	records := Execute(snap, c)
	if records == nil {
		records = []string{}
	}
	return &Result{
		Criteria: c,
		Total:    len(records),
		Records:  records,
	}
}

// intersect merges two ascending, duplicate-free position lists into their
// intersection with a two-cursor linear scan: equal heads are emitted and
// both cursors advance, otherwise only the cursor at the smaller value
// advances. O(len(a)+len(b)).
func intersect(a, b index.PostingList) index.PostingList {
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	out := make(index.PostingList, 0, shorter)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
