// Package index builds the in-memory inverted indexes over a loaded corpus
// of registry record lines. Each record line encodes a surname, a province
// code, and a year at fixed positions: the surname starts the line, and the
// numeric identifier beginning at the first digit carries the two-digit
// province code at its head and the four-digit year at offset 6.
package index

// Offsets within the digit tail of a record line. These match the national
// record line format exactly; lines whose digit tail is too short simply
// skip the fields they cannot provide.
const (
	provinceLen = 2
	yearStart   = 6
	yearEnd     = 10
)

// Snapshot is one fully built index set over one loaded corpus. It is
// immutable after Build returns: queries read it without locking, and a
// corpus reload produces a fresh Snapshot instead of mutating this one.
type Snapshot struct {
	lines []string

	Surname  FieldIndex
	Province FieldIndex
	Year     FieldIndex
}

// Build scans the corpus once, in position order, and produces the three
// field indexes. Malformed records are never an error: a record missing a
// field is simply absent from that field's index.
func Build(lines []string) *Snapshot {
	s := &Snapshot{
		lines:    lines,
		Surname:  make(FieldIndex),
		Province: make(FieldIndex),
		Year:     make(FieldIndex),
	}
	for pos, line := range lines {
		if line == "" {
			continue
		}
		s.Surname.add(line[:1], pos)

		digit := firstDigit(line)
		if digit < 0 {
			continue
		}
		tail := line[digit:]
		if len(tail) >= provinceLen {
			s.Province.add(tail[:provinceLen], pos)
		}
		if len(tail) >= yearEnd {
			s.Year.add(tail[yearStart:yearEnd], pos)
		}
	}
	return s
}

// firstDigit returns the offset of the first ASCII digit in line, or -1 if
// the line contains none.
func firstDigit(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] >= '0' && line[i] <= '9' {
			return i
		}
	}
	return -1
}

// Len reports the number of records in the snapshot's corpus, including
// empty records that contributed to no index.
func (s *Snapshot) Len() int {
	return len(s.lines)
}

// Line returns the record at position pos.
func (s *Snapshot) Line(pos int) string {
	return s.lines[pos]
}

// Lines returns the whole corpus in original order. Callers must not
// mutate the returned slice.
func (s *Snapshot) Lines() []string {
	return s.lines
}
