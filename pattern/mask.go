package pattern

import (
	"errors"
	"fmt"

	"github.com/ringingworks/monument/row"
)

// unset marks a place in a Mask as unspecified ('x').
const unset int16 = -1

// Mask fixes the location of some bells and leaves the rest wild. Unfilled
// positions are conventionally written 'x'. A Mask is a value type: copying
// it copies the whole slice, so callers never need to worry about aliasing.
type Mask struct {
	bells []int16 // unset, or the zero-indexed row.Bell fixed at that place
}

// Errors returned by Mask construction and combination.
var (
	ErrBellAlreadySet  = errors.New("pattern: bell already fixed at a different place")
	ErrStageMismatch   = errors.New("pattern: stage mismatch")
	ErrIncompatible    = errors.New("pattern: masks are not compatible")
	ErrMultipleStars   = errors.New("pattern: at most one '*' is allowed")
	ErrUnknownBellName = errors.New("pattern: unknown bell name")
)

// Empty returns a Mask of the given Stage that matches every Row (all
// places unspecified). Also known as Any.
func Empty(stage row.Stage) Mask {
	bells := make([]int16, stage.NumBells())
	for i := range bells {
		bells[i] = unset
	}
	return Mask{bells: bells}
}

// FullRow returns the Mask that matches exactly r.
func FullRow(r row.Row) Mask {
	bells := make([]int16, len(r))
	for i := 0; i < len(r); i++ {
		bells[i] = int16(r.At(i))
	}
	return Mask{bells: bells}
}

// WithFixedBells returns a Mask of the given Stage with each bell in
// fixedBells pinned to its home (1-indexed-equivalent zero-indexed) place.
func WithFixedBells(stage row.Stage, fixedBells []row.Bell) Mask {
	m := Empty(stage)
	for _, b := range fixedBells {
		m.bells[b] = int16(b)
	}
	return m
}

// Parse reads a mask string such as "1xx45" where 'x' (or '.') denotes an
// unspecified place and any other recognised bell name fixes that bell.
func Parse(s string, stage row.Stage) (Mask, error) {
	if len(s) != stage.NumBells() {
		return Mask{}, fmt.Errorf("%w: %q has %d chars, stage is %d", ErrStageMismatch, s, len(s), stage)
	}
	bells := make([]int16, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 'x' || c == 'X' || c == '.' {
			bells[i] = unset
			continue
		}
		b, ok := row.BellFromName(c)
		if !ok {
			return Mask{}, fmt.Errorf("%w: %q", ErrUnknownBellName, s[i:i+1])
		}
		bells[i] = int16(b)
	}
	return Mask{bells: bells}, nil
}

// Stage returns the Stage m applies to.
func (m Mask) Stage() row.Stage { return row.Stage(len(m.bells)) }

// IsEmpty reports whether no bell is fixed anywhere in m.
func (m Mask) IsEmpty() bool {
	for _, b := range m.bells {
		if b != unset {
			return false
		}
	}
	return true
}

// BellAt returns the bell fixed at place i, or false if that place is
// unspecified.
func (m Mask) BellAt(i int) (row.Bell, bool) {
	if m.bells[i] == unset {
		return 0, false
	}
	return row.Bell(m.bells[i]), true
}

// PlaceOf returns the place at which b is fixed, or false if m doesn't fix
// b anywhere.
func (m Mask) PlaceOf(b row.Bell) (int, bool) {
	for i, v := range m.bells {
		if v == int16(b) {
			return i, true
		}
	}
	return 0, false
}

// UnspecifiedPlaces returns the indices of every 'x' place in m.
func (m Mask) UnspecifiedPlaces() []int {
	var out []int
	for i, b := range m.bells {
		if b == unset {
			out = append(out, i)
		}
	}
	return out
}

// Matches reports whether r satisfies every bell m fixes.
func (m Mask) Matches(r row.Row) bool {
	if m.Stage() != r.Stage() {
		return false
	}
	for i, b := range m.bells {
		if b != unset && row.Bell(b) != r.At(i) {
			return false
		}
	}
	return true
}

// AsRow returns the Row m matches, if m fixes every place.
func (m Mask) AsRow() (row.Row, bool) {
	bells := make([]row.Bell, len(m.bells))
	for i, b := range m.bells {
		if b == unset {
			return "", false
		}
		bells[i] = row.Bell(b)
	}
	r, err := row.New(bells)
	if err != nil {
		return "", false
	}
	return r, true
}

// IsSubsetOf reports whether every Row matching m also matches other; i.e.
// m is at least as strict as other (e.g. "1xx45" is a subset of "xxxx5").
func (m Mask) IsSubsetOf(other Mask) bool {
	if m.Stage() != other.Stage() {
		return false
	}
	for i := range m.bells {
		if other.bells[i] != unset && m.bells[i] != other.bells[i] {
			return false
		}
	}
	return true
}

// IsCompatibleWith reports whether some Row can satisfy both m and other.
func (m Mask) IsCompatibleWith(other Mask) bool {
	if m.Stage() != other.Stage() {
		return false
	}
	for i, bOther := range other.bells {
		if bOther == unset {
			continue
		}
		if m.bells[i] != unset && m.bells[i] != bOther {
			return false
		}
		if p, ok := m.PlaceOf(row.Bell(bOther)); ok && p != i {
			return false
		}
	}
	return true
}

// Intersect returns the Mask matching exactly the Rows matched by both m
// and other, or false if they're incompatible.
func (m Mask) Intersect(other Mask) (Mask, bool) {
	if !m.IsCompatibleWith(other) {
		return Mask{}, false
	}
	bells := make([]int16, len(m.bells))
	for i := range bells {
		if m.bells[i] != unset {
			bells[i] = m.bells[i]
		} else {
			bells[i] = other.bells[i]
		}
	}
	return Mask{bells: bells}, true
}

// MulRow permutes the fixed bells in m by r: if m matches some Row s, then
// m.MulRow(r) matches s.Mul(r). Used to transpose a lead-head mask by a
// call's transposition when the graph builder derives a new chunk
// boundary.
func (m Mask) MulRow(r row.Row) (Mask, error) {
	if m.Stage() != r.Stage() {
		return Mask{}, fmt.Errorf("%w: %d vs %d", ErrStageMismatch, m.Stage(), r.Stage())
	}
	bells := make([]int16, len(m.bells))
	for i := 0; i < len(r); i++ {
		bells[i] = m.bells[r.At(i)]
	}
	return Mask{bells: bells}, nil
}

// RowMulMask permutes the required bells of m by r on the left: if m
// matches some Row s, then r*m (as a Mask) matches r.Mul(s).
func RowMulMask(r row.Row, m Mask) (Mask, error) {
	if m.Stage() != r.Stage() {
		return Mask{}, fmt.Errorf("%w: %d vs %d", ErrStageMismatch, m.Stage(), r.Stage())
	}
	bells := make([]int16, len(m.bells))
	for i, b := range m.bells {
		if b == unset {
			bells[i] = unset
		} else {
			bells[i] = int16(r.At(int(b)))
		}
	}
	return Mask{bells: bells}, nil
}

// String renders m using the conventional bell-name alphabet, with 'x' for
// unspecified places.
func (m Mask) String() string {
	buf := make([]byte, len(m.bells))
	for i, b := range m.bells {
		if b == unset {
			buf[i] = 'x'
		} else {
			buf[i] = row.Bell(b).Name()
		}
	}
	return string(buf)
}
