package index

// PostingList holds the corpus positions of every record that produced a
// given key, in strictly increasing order with no duplicates. Positions are
// appended during the corpus scan, which visits records in ascending
// position order, so the list is never sorted after the fact. The query
// executor's merge intersection depends on this ordering.
type PostingList []int

// FieldIndex maps an extracted key to its posting list. Keys are exact
// strings: no case folding, trimming, or other normalisation.
type FieldIndex map[string]PostingList

func (f FieldIndex) add(key string, pos int) {
	f[key] = append(f[key], pos)
}

// Postings returns the posting list for key, or nil when the key was never
// extracted from any record.
func (f FieldIndex) Postings(key string) PostingList {
	return f[key]
}

// Keys reports the number of distinct keys in the index.
func (f FieldIndex) Keys() int {
	return len(f)
}
