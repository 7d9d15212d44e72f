package monument

import (
	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
)

// IntRange is an inclusive [Min, Max] bound. A zero Max conventionally
// means "unbounded" wherever a Parameters field says so explicitly.
type IntRange struct {
	Min, Max int
}

// CallDisplayStyle selects how Composition.CallString renders calls: either
// positionally (the call's own Shorthand symbol, the style used when the
// calling position can't be determined from a single bell) or by calling
// position (the call's symbol followed by the name of the position the
// nominated CallingBell occupies in the row reached just after the call).
type CallDisplayStyle struct {
	callingPositions bool
	callingBell      row.Bell
}

// CallDisplayPositional renders every call as its own symbol alone.
func CallDisplayPositional() CallDisplayStyle {
	return CallDisplayStyle{}
}

// CallDisplayCallingPositions renders every call as its symbol followed by
// the calling position callingBell occupies in the row reached just after
// the call (or the part end, for the composition's final call).
func CallDisplayCallingPositions(callingBell row.Bell) CallDisplayStyle {
	return CallDisplayStyle{callingPositions: true, callingBell: callingBell}
}

// MusicType is one named category of musical pattern, scored additively
// across every chunk whose rows match any of its Patterns.
type MusicType struct {
	Name     string
	Patterns []pattern.Pattern
	Weight   float64
	// Stroke gates which rows of a chunk are matched: 0 matches every row,
	// +1 only handstrokes (even row index within the chunk), -1 only
	// backstrokes (odd row index within the chunk). Interpreting "stroke" as a property of
	// the single row being matched is exactly the external-collaborator
	// boundary the spec draws around the pattern matcher; Stroke is the
	// data this package still owns, feeding whichever matcher is wired in.
	Stroke int
}

// Parameters fully describes one search.
type Parameters struct {
	Length              IntRange
	NumComps            int
	Methods             []*method.Method
	Calls               []method.Call
	StartRow            row.Row
	EndRow              row.Row
	PartHead            row.Row
	MusicTypes          []MusicType
	NonDufferCourses    []pattern.Mask
	MethodCountRanges   []IntRange
	MaxContiguousDuffer int // -1 means unbounded
	MaxTotalDuffer      int // -1 means unbounded
	CallDisplayStyle    CallDisplayStyle
}
