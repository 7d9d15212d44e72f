package pattern

import (
	"fmt"

	"github.com/ringingworks/monument/row"
)

// ElemKind distinguishes the three kinds of element a Pattern can contain.
type ElemKind uint8

const (
	// ElemBell fixes a specific bell at this position.
	ElemBell ElemKind = iota
	// ElemX leaves this position unspecified, contributing exactly one
	// place to the Pattern's length.
	ElemX
	// ElemStar leaves a run of unspecified length unspecified; at most one
	// may appear in a Pattern.
	ElemStar
)

// Elem is one element of a Pattern: either a fixed Bell, a single wild
// place ('x'), or the unbounded wildcard ('*').
type Elem struct {
	Kind ElemKind
	Bell row.Bell // meaningful only when Kind == ElemBell
}

// Pattern is a Mask with an optional single run of unspecified length,
// written '*'. It is the form music definitions are expressed in (e.g.
// "*5678" matches any row ending 5678, regardless of stage); converting a
// Pattern to a Mask for a known Stage expands the '*' into the right number
// of 'x's.
type Pattern struct {
	elems []Elem
	stage row.Stage
}

// ParsePattern reads a pattern string like "3*" or "*5678" for the given
// Stage.
func ParsePattern(s string, stage row.Stage) (Pattern, error) {
	elems := make([]Elem, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '*':
			elems = append(elems, Elem{Kind: ElemStar})
		case 'x', 'X', '.':
			elems = append(elems, Elem{Kind: ElemX})
		default:
			b, ok := row.BellFromName(c)
			if !ok {
				return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownBellName, s[i:i+1])
			}
			elems = append(elems, Elem{Kind: ElemBell, Bell: b})
		}
	}
	return Pattern{elems: elems, stage: stage}, nil
}

// FromElems builds a Pattern directly from a slice of Elem.
func FromElems(elems []Elem, stage row.Stage) Pattern {
	out := make([]Elem, len(elems))
	copy(out, elems)
	return Pattern{elems: out, stage: stage}
}

// Elems returns a copy of p's elements, in order.
func (p Pattern) Elems() []Elem {
	out := make([]Elem, len(p.elems))
	copy(out, p.elems)
	return out
}

// Stage returns the Stage p was parsed against.
func (p Pattern) Stage() row.Stage { return p.stage }

// ToMask expands p's at-most-one '*' into the right number of 'x's for its
// Stage, returning ErrMultipleStars if more than one '*' is present.
func (p Pattern) ToMask() (Mask, error) {
	numStars := 0
	numElems := 0
	for _, e := range p.elems {
		if e.Kind == ElemStar {
			numStars++
		} else {
			numElems++
		}
	}
	if numStars > 1 {
		return Mask{}, ErrMultipleStars
	}
	starLen := 0
	if numStars == 1 {
		starLen = p.stage.NumBells() - numElems
		if starLen < 0 {
			return Mask{}, fmt.Errorf("%w: pattern longer than stage", ErrStageMismatch)
		}
	} else if numElems != p.stage.NumBells() {
		return Mask{}, fmt.Errorf("%w: pattern has %d fixed elements, stage is %d", ErrStageMismatch, numElems, p.stage.NumBells())
	}

	bells := make([]int16, 0, p.stage.NumBells())
	for _, e := range p.elems {
		switch e.Kind {
		case ElemBell:
			bells = append(bells, int16(e.Bell))
		case ElemX:
			bells = append(bells, unset)
		case ElemStar:
			for i := 0; i < starLen; i++ {
				bells = append(bells, unset)
			}
		}
	}
	return Mask{bells: bells}, nil
}

// MaskToPattern converts any Mask back into an equivalent
// star-free Pattern (every 'x' of m becomes an ElemX).
func MaskToPattern(m Mask) Pattern {
	elems := make([]Elem, len(m.bells))
	for i, b := range m.bells {
		if b == unset {
			elems[i] = Elem{Kind: ElemX}
		} else {
			elems[i] = Elem{Kind: ElemBell, Bell: row.Bell(b)}
		}
	}
	return Pattern{elems: elems, stage: m.Stage()}
}
