package search

import (
	"github.com/ringingworks/monument/compgraph"
)

// pathNode is one link of the shared prefix-tree: the parent node plus the
// chunk and link taken to reach this point. Nodes are shared between
// prefixes with a common history, so extending a prefix never copies its
// whole path — only Go's garbage collector, not this package, actually
// frees a node, once every prefix referencing it through its head is gone
// or truncated away.
type pathNode struct {
	parent *pathNode
	chunk  compgraph.ChunkID
	link   compgraph.LinkID
}

// approxPathNodeSize estimates a pathNode's heap footprint (pointer +
// ChunkID + LinkID, plus Go's allocation header) for the memory-bound
// truncation check; it doesn't need to be exact, only representative.
const approxPathNodeSize = 64

// PathElem is one reconstructed element of a completed path: the chunk
// rung and the link taken out of it (for the final element, the end link
// that completes the composition).
type PathElem struct {
	Chunk compgraph.ChunkID
	Link  compgraph.LinkID
}

// walk returns the sequence of PathElem from the earliest ancestor to n,
// in ringing order. Each element's Link is the link taken to reach that
// node (the start link for the first); tryEmit shifts these into
// PathElem's outgoing-link form.
func (n *pathNode) walk() []PathElem {
	if n == nil {
		return nil
	}
	var rev []PathElem
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, PathElem{Chunk: cur.chunk, Link: cur.link})
	}
	out := make([]PathElem, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}

// Prefix is a partial composition sitting in the search frontier: a shared
// path, plus the running totals needed to decide what it may still extend
// into without walking the whole path again.
type Prefix struct {
	head *pathNode

	Chunk        compgraph.ChunkID
	Score        float64
	Length       int
	MethodCounts []int
	MusicCounts  []uint64
	DufferRun    int
	TotalDuffer  int
	// DufferRunLengths records the length of every contiguous duffer run
	// that has already ended (the current run, if any, is DufferRun and
	// isn't appended until it ends or the composition completes).
	DufferRunLengths []int
	Rotation         compgraph.Rotation

	// requiredMask has bit i set once the required chunk with required-index
	// i has been visited; allRequiredMask(Bounds.RequiredIndex) marks every
	// bit a valid composition must have set.
	requiredMask uint64

	// seq is this Prefix's insertion sequence number: ties in score density
	// are broken in FIFO order, making emission order deterministic.
	seq uint64
}

// density is the score-per-row heuristic the frontier orders by. Fresh
// prefixes (Length == 0) sort by raw Score to avoid a division by zero.
func (p *Prefix) density() float64 {
	if p.Length == 0 {
		return p.Score
	}
	return p.Score / float64(p.Length)
}

// approxSize estimates a Prefix's heap footprint for the memory-bound
// truncation check.
func (p *Prefix) approxSize() int {
	return 96 + len(p.MethodCounts)*8 + len(p.MusicCounts)*8
}
