package method

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ringingworks/monument/row"
)

// MethodIdx indexes a Method within a Parameters' method list.
type MethodIdx int

// SubLeadIdx indexes a row within a Method's lead block, modulo its length.
type SubLeadIdx int

// Sentinel errors returned by Method and Call construction.
var (
	ErrEmptyLeadBlock  = errors.New("method: lead block must contain at least one row")
	ErrStageMismatch   = errors.New("method: all rows in a lead block must share a stage")
	ErrLabelOutOfRange = errors.New("method: label index out of range")
	ErrNoPlainCourse   = errors.New("method: plain course did not return to rounds within the safety bound")
)

// leadEndLabel is the label conventionally assigned to sub-lead index 0,
// which is always an implicit call/join point regardless of the labels the
// caller supplies.
const leadEndLabel = "LE"

// Method is a name, a Stage, and one lead's worth of rows (the "lead
// block"), together with a labelling of which sub-lead indices are valid
// call or plain-join points. Method is immutable after construction.
type Method struct {
	name       string
	shorthand  string
	stage      row.Stage
	leadBlock  []row.Row
	labelled   []bool
	labels     []string
	plainOnce  sync.Once
	plainCache []row.Row
	plainErr   error
}

// NewMethod builds a Method from its lead block (the rows of one lead of
// the plain course, starting from rounds) and a map of sub-lead index to
// label name for every index besides 0 that should be a valid call/join
// point. Index 0 (the lead end) is always labelled, conventionally "LE".
func NewMethod(name, shorthand string, leadBlock []row.Row, labels map[int]string) (*Method, error) {
	if len(leadBlock) == 0 {
		return nil, ErrEmptyLeadBlock
	}
	stage := leadBlock[0].Stage()
	for i, r := range leadBlock {
		if r.Stage() != stage {
			return nil, fmt.Errorf("%w: row %d is stage %d, want %d", ErrStageMismatch, i, r.Stage(), stage)
		}
	}

	labelled := make([]bool, len(leadBlock))
	labelNames := make([]string, len(leadBlock))
	labelled[0] = true
	labelNames[0] = leadEndLabel
	for idx, name := range labels {
		if idx < 0 || idx >= len(leadBlock) {
			return nil, fmt.Errorf("%w: %d", ErrLabelOutOfRange, idx)
		}
		labelled[idx] = true
		labelNames[idx] = name
	}

	return &Method{
		name:      name,
		shorthand: shorthand,
		stage:     stage,
		leadBlock: append([]row.Row(nil), leadBlock...),
		labelled:  labelled,
		labels:    labelNames,
	}, nil
}

// Name returns the method's full conventional name (e.g. "Bristol Surprise
// Major").
func (m *Method) Name() string { return m.name }

// Shorthand returns the method's short display form (e.g. "Y").
func (m *Method) Shorthand() string { return m.shorthand }

// Stage returns the Stage every row in the method's lead block shares.
func (m *Method) Stage() row.Stage { return m.stage }

// LeadLength returns the number of rows in one lead (the "lead length").
func (m *Method) LeadLength() int { return len(m.leadBlock) }

// mod reduces i into [0, L) for the method's lead length L.
func (m *Method) mod(i int) int {
	l := len(m.leadBlock)
	r := i % l
	if r < 0 {
		r += l
	}
	return r
}

// RowAt returns the lead-block row at sub-lead index subLeadIdx, taken
// modulo the lead length.
func (m *Method) RowAt(subLeadIdx int) row.Row {
	return m.leadBlock[m.mod(subLeadIdx)]
}

// IsLabelled reports whether subLeadIdx (taken modulo the lead length) is a
// valid call/join point.
func (m *Method) IsLabelled(subLeadIdx int) bool {
	return m.labelled[m.mod(subLeadIdx)]
}

// LabelAt returns the label name at subLeadIdx, or "" if that index isn't
// labelled.
func (m *Method) LabelAt(subLeadIdx int) string {
	return m.labels[m.mod(subLeadIdx)]
}

// NextLabelledIndex returns the smallest index strictly after from (taken
// modulo the lead length, searching forward and wrapping at most once) that
// is labelled. Since index 0 is always labelled, this always terminates.
func (m *Method) NextLabelledIndex(from int) int {
	l := len(m.leadBlock)
	start := m.mod(from)
	for step := 1; step <= l; step++ {
		idx := m.mod(start + step)
		if m.labelled[idx] {
			return idx
		}
	}
	// Unreachable: index 0 is always labelled, so the loop above always
	// finds it within l steps.
	return 0
}

// SegmentLength returns the number of rows in the contiguous run starting
// at sub-lead index from and ending at (but not including) the next
// labelled index: the per_part_length contribution of one chunk starting
// there.
func (m *Method) SegmentLength(from int) int {
	l := len(m.leadBlock)
	start := m.mod(from)
	next := m.NextLabelledIndex(from)
	length := next - start
	if length <= 0 {
		length += l
	}
	return length
}

// LeadHeadTransposition returns the Row that advances a lead head to the
// next lead's: the transposition a plain course's cumulative lead head is
// multiplied by once per lead.
func (m *Method) LeadHeadTransposition() row.Row {
	return m.leadBlock[len(m.leadBlock)-1]
}

// PlainCourse lazily computes and caches the full sequence of rows in the
// method's plain course: the lead block repeated, each repetition
// transposed by the cumulative lead head, until rounds recurs. The result
// excludes the final repeated rounds (so consumers join consecutive
// courses without a duplicated row).
func (m *Method) PlainCourse() ([]row.Row, error) {
	m.plainOnce.Do(func() {
		m.plainCache, m.plainErr = m.computePlainCourse()
	})
	return m.plainCache, m.plainErr
}

// maxCourseLeads bounds the plain-course search so a malformed method
// (one whose lead head never returns to rounds) fails fast instead of
// looping forever.
const maxCourseLeads = 4096

func (m *Method) computePlainCourse() ([]row.Row, error) {
	leadHead := m.leadBlock[len(m.leadBlock)-1]
	rows := make([]row.Row, 0, len(m.leadBlock)*4)
	cumulative := row.Rounds(m.stage)
	for i := 0; i < maxCourseLeads; i++ {
		for _, r := range m.leadBlock {
			transposed, err := cumulative.Mul(r)
			if err != nil {
				return nil, err
			}
			rows = append(rows, transposed)
		}
		next, err := cumulative.Mul(leadHead)
		if err != nil {
			return nil, err
		}
		cumulative = next
		if cumulative.IsRounds() {
			return rows, nil
		}
	}
	return nil, ErrNoPlainCourse
}

// String renders m as its shorthand, falling back to its full name.
func (m *Method) String() string {
	if m.shorthand != "" {
		return m.shorthand
	}
	return m.name
}
