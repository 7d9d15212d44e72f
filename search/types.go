package search

import "github.com/ringingworks/monument/compgraph"

// Bounds collects the search-time constraints a Prefix is checked against
// on every expansion step. The root monument package translates a user's
// Parameters into one of these; search itself has no notion of methods,
// calls, or rows beyond the chunk ids compgraph already resolved.
type Bounds struct {
	LengthMin, LengthMax int
	// MethodCountMin / MethodCountMax are per-method row-count bounds,
	// indexed by method.MethodIdx. A nil slice means "no bound".
	MethodCountMin, MethodCountMax []int
	// MaxContiguousDuffer / MaxTotalDuffer bound consecutive and total rows
	// spent in duffer (non-musical) chunks; -1 means unbounded.
	MaxContiguousDuffer int
	MaxTotalDuffer      int
	NumParts            int
	NumComps            int
	// RequiredIndex maps every chunk the optimiser marked Required to a
	// distinct bit position, so a Prefix can track which have been visited
	// with a single uint64 bitmask rather than a per-prefix set copy.
	RequiredIndex map[compgraph.ChunkID]int
}

// Config is the resource envelope the search loop respects.
type Config struct {
	MemLimit                    int
	LeakSearchMemory            bool
	ItersBetweenAbortChecks     int
	ItersBetweenProgressUpdates int
}

// DefaultConfig mirrors the spec's Config defaults for the fields this
// package reads directly (the full Config, including GraphSizeLimit and
// ThreadLimit, lives in the root monument package).
func DefaultConfig() Config {
	return Config{
		ItersBetweenAbortChecks:     10_000,
		ItersBetweenProgressUpdates: 100_000,
	}
}

// Composition is a completed, validated path through the graph.
type Composition struct {
	GenerationNumber        uint64
	Path                    []PathElem
	Length                  int
	TotalScore              float64
	MethodCounts            []int
	MusicCounts             []uint64
	TotalDuffer             int
	ContiguousDufferLengths []int
	// PartHeadRotation is the part-head rotation accumulated along Path.
	// tryEmit only emits paths whose rotation is 0 modulo NumParts, so it is
	// always 0.
	PartHeadRotation compgraph.Rotation
}

// Progress reports the frontier's state at a point in time.
type Progress struct {
	IterCount       int
	NumComps        int
	QueueLen        int
	AvgLength       float64
	MaxLength       int
	TruncatingQueue bool
	Aborting        bool
}

// Update is one event in the ordered stream a Search's Run delivers to its
// caller.
type Update struct {
	Comp     *Composition
	Progress *Progress
	Complete bool
}
