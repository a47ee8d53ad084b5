package index

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_SurnameSelfMembership checks that for any corpus, every
// non-empty record's position appears in the posting list of its own
// surname key.
func TestProperty_SurnameSelfMembership(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every record appears under its own surname key", prop.ForAll(
		func(lines []string) bool {
			snap := Build(lines)
			for pos, line := range lines {
				if line == "" {
					continue
				}
				if !containsPosition(snap.Surname.Postings(line[:1]), pos) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

// TestProperty_PostingListsStrictlyIncreasing checks that every posting
// list in every field index is strictly increasing with no duplicates.
func TestProperty_PostingListsStrictlyIncreasing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("posting lists are strictly increasing", prop.ForAll(
		func(lines []string) bool {
			snap := Build(lines)
			for _, idx := range []FieldIndex{snap.Surname, snap.Province, snap.Year} {
				for _, postings := range idx {
					for i := 1; i < len(postings); i++ {
						if postings[i] <= postings[i-1] {
							return false
						}
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

// TestProperty_PostingsWithinBounds checks that every indexed position is a
// valid corpus position and that its record actually yields the key it is
// filed under.
func TestProperty_PostingsWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("indexed positions point at records producing the key", prop.ForAll(
		func(lines []string) bool {
			snap := Build(lines)
			for key, postings := range snap.Surname {
				for _, pos := range postings {
					if pos < 0 || pos >= len(lines) {
						return false
					}
					if lines[pos] == "" || lines[pos][:1] != key {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.AnyString()),
	))

	properties.TestingRun(t)
}

func containsPosition(postings PostingList, pos int) bool {
	for _, p := range postings {
		if p == pos {
			return true
		}
	}
	return false
}
