package compgraph

import (
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/row"
)

// FalsenessTable precomputes, for every ordered pair of ChunkClass, the set
// of lead-head transpositions under which a chunk of the first class is
// false against (shares a row with) a chunk of the second. Queries are then
// a single map lookup plus a Row multiply, independent of how many rows
// each chunk spans.
type FalsenessTable struct {
	// sets maps an ordered (classA, classB) pair to the set of
	// transpositions t such that some row of classA's segment equals some
	// row of classB's segment transposed by t.
	sets map[classPair]map[row.Row]struct{}
}

type classPair struct {
	A, B ChunkClass
}

// BuildFalsenessTable enumerates, for every method and every sub-lead-range
// class within it, the rows covered by that class's segment (relative to a
// lead head of rounds), then for every ordered pair of classes computes the
// transposition set described above.
func BuildFalsenessTable(methods []*method.Method, classes []ChunkClass) (*FalsenessTable, error) {
	segRows := make(map[ChunkClass][]row.Row, len(classes))
	for _, cls := range classes {
		m := methods[cls.Method]
		length := m.SegmentLength(cls.SubLeadIdx)
		rows := make([]row.Row, length)
		for i := 0; i < length; i++ {
			rows[i] = m.RowAt(cls.SubLeadIdx + i)
		}
		segRows[cls] = rows
	}

	table := &FalsenessTable{sets: make(map[classPair]map[row.Row]struct{})}
	for _, a := range classes {
		rowsA := segRows[a]
		for _, b := range classes {
			rowsB := segRows[b]
			set := make(map[row.Row]struct{})
			for _, ra := range rowsA {
				for _, rb := range rowsB {
					rbInv := rb.Inverse()
					t, err := ra.Mul(rbInv)
					if err != nil {
						return nil, err
					}
					set[t] = struct{}{}
				}
			}
			table.sets[classPair{A: a, B: b}] = set
		}
	}
	return table, nil
}

// AreFalse reports whether chunk a is false against chunk b: whether any
// row of a's segment equals any row of b's segment, given their actual
// lead heads.
func (t *FalsenessTable) AreFalse(a, b ChunkID) bool {
	set, ok := t.sets[classPair{A: a.Class(), B: b.Class()}]
	if !ok {
		return false
	}
	transposition, err := a.LeadHead.Inverse().Mul(b.LeadHead)
	if err != nil {
		return false
	}
	_, false_ := set[transposition]
	return false_
}
