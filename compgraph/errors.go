package compgraph

import "errors"

// Sentinel errors returned by graph construction, optimisation, and
// multi-part expansion.
var (
	// ErrGraphTooLarge indicates the builder produced more chunks than
	// Config.GraphSizeLimit allows.
	ErrGraphTooLarge = errors.New("compgraph: graph exceeds size limit")
	// ErrIncompatibleStages indicates two methods, or a method and the
	// requested start/end row, don't share a Stage.
	ErrIncompatibleStages = errors.New("compgraph: incompatible stages")
	// ErrNoValidCompositions indicates the graph (or a feature it requires,
	// e.g. a non-identity part head under an asymmetric method set) proves
	// no composition can ever be emitted.
	ErrNoValidCompositions = errors.New("compgraph: no valid compositions are possible")
)
