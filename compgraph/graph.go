package compgraph

// StartEntry records a Link that can begin a composition, and the Chunk it
// leads to.
type StartEntry struct {
	Link  LinkID
	Chunk ChunkID
}

// EndEntry records a Link that can end a composition, and the Chunk that
// leads to it.
type EndEntry struct {
	Link  LinkID
	Chunk ChunkID
}

// Graph is a chunk graph: a prototype representation that's cheap to
// mutate during optimisation. References between chunks (Successors,
// Predecessors, FalseChunks, Starts, Ends) don't have to be valid — a
// chunk or link referenced by ID may already have been removed by an
// earlier pass. Iteration helpers (Graph.Link, Chunk lookups) tolerate
// this by treating a missing id as "already pruned".
type Graph struct {
	Chunks map[ChunkID]*Chunk
	Links  map[LinkID]*Link

	Starts []StartEntry
	Ends   []EndEntry

	// NumParts is the size of the part-head group. It is 1 until
	// ExpandMultiPart runs, after which every surviving Chunk's
	// TotalLength reflects NumParts copies of its PerPartLength.
	NumParts int

	nextLinkID LinkID
}

// NewGraph returns an empty, single-part Graph ready for the builder to
// populate.
func NewGraph() *Graph {
	return &Graph{
		Chunks:   make(map[ChunkID]*Chunk),
		Links:    make(map[LinkID]*Link),
		NumParts: 1,
	}
}

// AddLink inserts link and returns its new LinkID.
func (g *Graph) AddLink(link Link) LinkID {
	id := g.nextLinkID
	g.nextLinkID++
	g.Links[id] = &link
	return id
}

// Link returns the Link with the given id, or nil if it has been pruned.
func (g *Graph) Link(id LinkID) *Link {
	return g.Links[id]
}

// Chunk returns the chunk with the given id, or nil if it has been pruned.
func (g *Graph) Chunk(id ChunkID) *Chunk {
	return g.Chunks[id]
}

// Size is the tuple the optimiser's fixed-point loop compares under a
// partial order: (num_chunks, num_links, num_starts, num_ends).
type Size struct {
	NumChunks int
	NumLinks  int
	NumStarts int
	NumEnds   int
}

// SizeOf computes g's current Size.
func SizeOf(g *Graph) Size {
	return Size{
		NumChunks: len(g.Chunks),
		NumLinks:  len(g.Links),
		NumStarts: len(g.Starts),
		NumEnds:   len(g.Ends),
	}
}

// LessOrEqual reports whether no component of s exceeds its counterpart in
// other.
func (s Size) LessOrEqual(other Size) bool {
	return s.NumChunks <= other.NumChunks &&
		s.NumLinks <= other.NumLinks &&
		s.NumStarts <= other.NumStarts &&
		s.NumEnds <= other.NumEnds
}

// StrictlySmaller reports whether s is LessOrEqual other and the two
// differ in at least one component. This is the "size is not strictly
// smaller" test the optimiser's fixed-point loop uses to decide
// termination; incomparable sizes (neither ≤ the other) also stop the
// loop, same as equal ones.
func (s Size) StrictlySmaller(other Size) bool {
	return s.LessOrEqual(other) && s != other
}

// SuccLinks returns the valid (non-pruned) successor links of the chunk
// with id.
func (g *Graph) SuccLinks(id ChunkID) []LinkID {
	c := g.Chunks[id]
	if c == nil {
		return nil
	}
	out := make([]LinkID, 0, len(c.Successors))
	for _, lid := range c.Successors {
		if _, ok := g.Links[lid]; ok {
			out = append(out, lid)
		}
	}
	return out
}

// PredLinks returns the valid (non-pruned) predecessor links of the chunk
// with id.
func (g *Graph) PredLinks(id ChunkID) []LinkID {
	c := g.Chunks[id]
	if c == nil {
		return nil
	}
	out := make([]LinkID, 0, len(c.Predecessors))
	for _, lid := range c.Predecessors {
		if _, ok := g.Links[lid]; ok {
			out = append(out, lid)
		}
	}
	return out
}

// RemoveChunk deletes the chunk with id from the graph. It does not touch
// any links or other chunks' Successors/Predecessors lists; the Dead link
// prune and Start/end trim passes are responsible for cleaning up
// references left dangling by this.
func (g *Graph) RemoveChunk(id ChunkID) {
	delete(g.Chunks, id)
}

// RemoveLink deletes the link with id from the graph.
func (g *Graph) RemoveLink(id LinkID) {
	delete(g.Links, id)
}
