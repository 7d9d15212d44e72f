package row

import (
	"errors"
	"fmt"
	"strings"
)

// MaxBells is the largest stage monument supports. Sixteen bells ("Sextuples
// Maximus" territory) comfortably covers every rung composition; going
// further would need a wider Bell type for no practical gain.
const MaxBells = 16

// bellNames maps a zero-indexed Bell to its conventional display rune and
// back. This is the same naming convention as bellframe's Bell::from_name:
// 1-9, then 0, then E(leven), T(welve), and onward through the alphabet
// skipping letters that are easily confused with digits.
const bellNames = "1234567890ETABCD"

// Bell identifies one of the N bells in a Stage, zero-indexed internally
// (so "bell 1" in conventional notation is Bell(0)).
type Bell uint8

// Name renders b using the conventional bell-name alphabet.
func (b Bell) Name() byte {
	if int(b) >= len(bellNames) {
		return '?'
	}
	return bellNames[b]
}

// BellFromName parses a conventional bell-name rune into a Bell. It returns
// false if c isn't a recognised bell name.
func BellFromName(c byte) (Bell, bool) {
	idx := strings.IndexByte(bellNames, c)
	if idx < 0 {
		return 0, false
	}
	return Bell(idx), true
}

// Stage is the number of bells in a Row, fixed for every Row it touches.
type Stage uint8

// NumBells returns s as a plain int, for indexing slices.
func (s Stage) NumBells() int { return int(s) }

// Row is an immutable permutation of the bells 1..=N. Each byte of the
// string is the zero-indexed Bell occupying that place. Two Rows are equal,
// comparable, and hashable exactly when the underlying strings are — no
// custom Hash method is needed because the representation already is one.
type Row string

// Sentinel errors returned by row construction and composition.
var (
	// ErrWrongLength indicates a Row (or row-like input) doesn't contain
	// exactly Stage bells.
	ErrWrongLength = errors.New("row: wrong number of bells")
	// ErrNotAPermutation indicates some bell is missing or repeated.
	ErrNotAPermutation = errors.New("row: not a valid permutation")
	// ErrStageMismatch indicates an operation was attempted between two
	// Rows (or a Row and a Mask) of different Stage.
	ErrStageMismatch = errors.New("row: stage mismatch")
	// ErrUnknownBellName indicates Parse encountered a character that
	// isn't a recognised bell name.
	ErrUnknownBellName = errors.New("row: unknown bell name")
)

// New validates bells as a permutation of 0..len(bells)-1 and returns the
// corresponding Row.
func New(bells []Bell) (Row, error) {
	seen := make([]bool, len(bells))
	buf := make([]byte, len(bells))
	for i, b := range bells {
		if int(b) >= len(bells) || seen[b] {
			return "", fmt.Errorf("%w: bell %d at place %d", ErrNotAPermutation, b, i)
		}
		seen[b] = true
		buf[i] = byte(b)
	}
	return Row(buf), nil
}

// Rounds returns the identity Row of the given Stage: 1234...N.
func Rounds(stage Stage) Row {
	buf := make([]byte, stage.NumBells())
	for i := range buf {
		buf[i] = byte(i)
	}
	return Row(buf)
}

// Parse reads a conventional bell-name string (e.g. "13527486") into a Row
// of the given Stage.
func Parse(s string, stage Stage) (Row, error) {
	if len(s) != stage.NumBells() {
		return "", fmt.Errorf("%w: %q has %d chars, stage is %d", ErrWrongLength, s, len(s), stage)
	}
	bells := make([]Bell, len(s))
	for i := 0; i < len(s); i++ {
		b, ok := BellFromName(s[i])
		if !ok {
			return "", fmt.Errorf("%w: %q in %q", ErrUnknownBellName, s[i:i+1], s)
		}
		bells[i] = b
	}
	return New(bells)
}

// Stage returns the number of bells in r.
func (r Row) Stage() Stage { return Stage(len(r)) }

// At returns the Bell occupying place i (0-indexed).
func (r Row) At(i int) Bell { return Bell(r[i]) }

// Bells returns a freshly-allocated copy of r's bells.
func (r Row) Bells() []Bell {
	out := make([]Bell, len(r))
	for i := 0; i < len(r); i++ {
		out[i] = Bell(r[i])
	}
	return out
}

// IsRounds reports whether r is the identity permutation.
func (r Row) IsRounds() bool {
	for i := 0; i < len(r); i++ {
		if r[i] != byte(i) {
			return false
		}
	}
	return true
}

// PlaceOf returns the place occupied by b in r, or false if b is outside
// r's Stage.
func (r Row) PlaceOf(b Bell) (int, bool) {
	idx := strings.IndexByte(string(r), byte(b))
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// Mul composes r with other: the result places, in position i, the bell
// that r places at position other[i]. Equivalently, treating
// Rows as functions from place to bell, Mul computes r ∘ other. This
// matches the convention used throughout package pattern for transposing a
// Mask by a Row: (r * other) rings "other" as a transposition applied after
// the course described by r.
func (r Row) Mul(other Row) (Row, error) {
	if r.Stage() != other.Stage() {
		return "", fmt.Errorf("%w: %d vs %d", ErrStageMismatch, r.Stage(), other.Stage())
	}
	buf := make([]byte, len(r))
	for i := 0; i < len(r); i++ {
		buf[i] = r[other[i]]
	}
	return Row(buf), nil
}

// MustMul is Mul but panics on error; useful for composing Rows that are
// already known to share a Stage (e.g. a method's own lead-block rows).
func (r Row) MustMul(other Row) Row {
	out, err := r.Mul(other)
	if err != nil {
		panic(err)
	}
	return out
}

// Inverse returns the Row t such that r.Mul(t) and t.Mul(r) are both
// rounds.
func (r Row) Inverse() Row {
	buf := make([]byte, len(r))
	for i := 0; i < len(r); i++ {
		buf[r[i]] = byte(i)
	}
	return Row(buf)
}

// String renders r using the conventional bell-name alphabet.
func (r Row) String() string {
	buf := make([]byte, len(r))
	for i := 0; i < len(r); i++ {
		buf[i] = Bell(r[i]).Name()
	}
	return string(buf)
}
