package method

import (
	"errors"
	"fmt"

	"github.com/ringingworks/monument/row"
)

// CallIdx indexes a Call within a Parameters' call list.
type CallIdx int

// ErrCallStageMismatch indicates a Call's transposition doesn't share its
// declared Stage.
var ErrCallStageMismatch = errors.New("method: call transposition stage mismatch")

// Call is a labelled substitution: a transposition that replaces the plain
// step at any sub-lead index labelled LabelFrom, producing a chunk boundary
// labelled LabelTo. Two labels rather than one let a single Call distinguish
// where it may be rung from where it leads (e.g. a Stedman single is only
// rung from specific sixes but can be followed by any).
type Call struct {
	Shorthand    string
	Transposition row.Row
	LabelFrom    string
	LabelTo      string
	Weight       float64
	// Symbols gives the display character to use for this call at each
	// sub-lead offset it spans, keyed from 0 (the call's own labelled
	// position). Most calls are a single-row substitution and populate only
	// key 0; multi-row calls (e.g. Stedman sixes) can label interior
	// offsets too.
	Symbols map[int]string
	// CallingPositions names the calling position conventionally announced
	// for this call when the calling bell occupies each place (e.g. "W" for
	// wrong, "H" for home), indexed by zero-based place. Only consulted
	// under CallDisplayCallingPositions.
	CallingPositions []string
}

// CallingPositionAt returns the calling position name for place, or "?" if
// CallingPositions doesn't cover it.
func (c Call) CallingPositionAt(place int) string {
	if place < 0 || place >= len(c.CallingPositions) {
		return "?"
	}
	return c.CallingPositions[place]
}

// NewCall returns a Call whose Symbols maps offset 0 to shorthand. It does
// not check transposition's stage (Validate does) and always returns a nil
// error.
func NewCall(shorthand string, transposition row.Row, labelFrom, labelTo string, weight float64) (Call, error) {
	return Call{
		Shorthand:     shorthand,
		Transposition: transposition,
		LabelFrom:     labelFrom,
		LabelTo:       labelTo,
		Weight:        weight,
		Symbols:       map[int]string{0: shorthand},
	}, nil
}

// Validate checks transposition against the expected Stage.
func (c Call) Validate(stage row.Stage) error {
	if c.Transposition.Stage() != stage {
		return fmt.Errorf("%w: call %q is stage %d, want %d", ErrCallStageMismatch, c.Shorthand, c.Transposition.Stage(), stage)
	}
	return nil
}

// SymbolAt returns the display symbol for offset rows after the call's own
// labelled position, defaulting to the shorthand at offset 0 if unset.
func (c Call) SymbolAt(offset int) string {
	if s, ok := c.Symbols[offset]; ok {
		return s
	}
	if offset == 0 {
		return c.Shorthand
	}
	return ""
}

// String renders c as its shorthand.
func (c Call) String() string { return c.Shorthand }
