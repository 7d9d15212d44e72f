package monument

import "errors"

// Sentinel errors NewSearch can return. Every construction-time failure
// the spec names surfaces here, at the single gate between user-facing
// Parameters and the internal graph/search packages — nothing below this
// package's surface is meant to be matched on directly by a caller.
var (
	// ErrGraphTooLarge indicates graph construction produced more chunks
	// than Config.GraphSizeLimit allows.
	ErrGraphTooLarge = errors.New("monument: graph exceeds size limit")
	// ErrIncompatibleStages indicates two methods, or a method and
	// StartRow/EndRow/PartHead, don't share a Stage.
	ErrIncompatibleStages = errors.New("monument: incompatible stages")
	// ErrNoValidCompositions indicates the constructed graph proves no
	// composition can ever satisfy the given Parameters.
	ErrNoValidCompositions = errors.New("monument: no valid compositions are possible")
	// ErrMethodCountRangeExceedsLength indicates a MethodCountRanges entry's
	// Min exceeds Length.Max, making it unsatisfiable regardless of graph
	// shape.
	ErrMethodCountRangeExceedsLength = errors.New("monument: method count range exceeds length bound")
	// ErrStartOrEndUnreachable indicates no method offers a labelled
	// sub-lead index whose row can be aligned with StartRow (or EndRow).
	ErrStartOrEndUnreachable = errors.New("monument: start or end row unreachable from any method")
	// ErrNoMethods indicates Parameters.Methods was empty.
	ErrNoMethods = errors.New("monument: no methods supplied")
)
