package query

import (
	"reflect"
	"testing"

	"github.com/civic-records/registry-search/internal/index"
)

// Lines are surname + 2-digit province + 4 filler digits + 4-digit year +
// suffix, so the digit tail carries the province at [0,2) and the year at
// [6,10).
var testCorpus = []string{
	"Rossi4500001970A",
	"Russo4500001985B",
	"Rinaldi6700001970C",
	"Bianchi4500001970D",
	"Rossi6700001985E",
}

func buildTestSnapshot() *index.Snapshot {
	return index.Build(testCorpus)
}

func TestExecuteEmptyCriteria(t *testing.T) {
	snap := buildTestSnapshot()
	got := Execute(snap, Criteria{})
	if !reflect.DeepEqual(got, testCorpus) {
		t.Errorf("Execute({}) = %v, want full corpus in order", got)
	}
}

func TestExecuteSingleCriterion(t *testing.T) {
	snap := buildTestSnapshot()

	got := Execute(snap, Criteria{Surname: "R"})
	want := []string{testCorpus[0], testCorpus[1], testCorpus[2], testCorpus[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("surname R = %v, want %v", got, want)
	}

	got = Execute(snap, Criteria{Province: "67"})
	want = []string{testCorpus[2], testCorpus[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("province 67 = %v, want %v", got, want)
	}

	got = Execute(snap, Criteria{Year: "1985"})
	want = []string{testCorpus[1], testCorpus[4]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("year 1985 = %v, want %v", got, want)
	}
}

func TestExecuteUnmatchedKey(t *testing.T) {
	snap := buildTestSnapshot()
	if got := Execute(snap, Criteria{Surname: "Z"}); len(got) != 0 {
		t.Errorf("unmatched surname = %v, want empty", got)
	}
	// An impossible constraint empties the result even when the others match.
	if got := Execute(snap, Criteria{Surname: "R", Year: "1900"}); len(got) != 0 {
		t.Errorf("matched+unmatched = %v, want empty", got)
	}
}

func TestExecuteConjunction(t *testing.T) {
	snap := buildTestSnapshot()

	got := Execute(snap, Criteria{Surname: "R", Province: "45"})
	want := []string{testCorpus[0], testCorpus[1]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("R+45 = %v, want %v", got, want)
	}

	got = Execute(snap, Criteria{Surname: "R", Province: "45", Year: "1970"})
	want = []string{testCorpus[0]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("R+45+1970 = %v, want %v", got, want)
	}

	// Disjoint posting lists terminate with an empty result.
	if got := Execute(snap, Criteria{Surname: "B", Province: "67"}); len(got) != 0 {
		t.Errorf("B+67 = %v, want empty", got)
	}
}

func TestExecuteOutputAscendingRegardlessOfCriteria(t *testing.T) {
	snap := buildTestSnapshot()

	// The executor orders lists by length, not by which field they came
	// from; the output order must be ascending position either way.
	a := Execute(snap, Criteria{Surname: "R", Year: "1985"})
	b := Execute(snap, Criteria{Year: "1985", Surname: "R"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("criteria order changed results: %v vs %v", a, b)
	}
	want := []string{testCorpus[1], testCorpus[4]}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("R+1985 = %v, want %v", a, want)
	}
}

func TestExecuteIdempotent(t *testing.T) {
	snap := buildTestSnapshot()
	c := Criteria{Surname: "R", Province: "67"}
	first := Execute(snap, c)
	for i := 0; i < 3; i++ {
		if got := Execute(snap, c); !reflect.DeepEqual(got, first) {
			t.Fatalf("repeat %d = %v, want %v", i, got, first)
		}
	}
}

func TestRunWrapsEmptyResult(t *testing.T) {
	snap := buildTestSnapshot()
	result := Run(snap, Criteria{Surname: "Z"})
	if result.Total != 0 {
		t.Errorf("Total = %d, want 0", result.Total)
	}
	if result.Records == nil {
		t.Error("Records is nil, want empty slice for serialisation")
	}
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b index.PostingList
		want index.PostingList
	}{
		{"overlap", index.PostingList{0, 2, 4, 6}, index.PostingList{1, 2, 3, 6}, index.PostingList{2, 6}},
		{"disjoint", index.PostingList{0, 2}, index.PostingList{1, 3}, index.PostingList{}},
		{"subset", index.PostingList{1, 2, 3}, index.PostingList{0, 1, 2, 3, 4}, index.PostingList{1, 2, 3}},
		{"identical", index.PostingList{5, 7}, index.PostingList{5, 7}, index.PostingList{5, 7}},
		{"left empty", index.PostingList{}, index.PostingList{1}, index.PostingList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intersect(tt.a, tt.b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("intersect(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Commutative in content.
			rev := intersect(tt.b, tt.a)
			if !reflect.DeepEqual(rev, tt.want) {
				t.Errorf("intersect(%v, %v) = %v, want %v", tt.b, tt.a, rev, tt.want)
			}
		})
	}
}
