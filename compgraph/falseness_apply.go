package compgraph

// ApplyFalseness populates every chunk's FalseChunks by testing each pair
// of chunks currently in the graph against table. A chunk is always false
// against itself, per the spec's invariant.
func ApplyFalseness(g *Graph, table *FalsenessTable) {
	ids := make([]ChunkID, 0, len(g.Chunks))
	for id := range g.Chunks {
		ids = append(ids, id)
	}
	for _, a := range ids {
		chunkA := g.Chunks[a]
		chunkA.FalseChunks = append(chunkA.FalseChunks[:0], a)
		for _, b := range ids {
			if b == a {
				continue
			}
			if table.AreFalse(a, b) {
				chunkA.FalseChunks = append(chunkA.FalseChunks, b)
			}
		}
	}
}

// Classes returns the distinct ChunkClass values present in g, suitable for
// passing to BuildFalsenessTable.
func (g *Graph) Classes() []ChunkClass {
	seen := make(map[ChunkClass]struct{})
	var out []ChunkClass
	for id := range g.Chunks {
		cls := id.Class()
		if _, ok := seen[cls]; !ok {
			seen[cls] = struct{}{}
			out = append(out, cls)
		}
	}
	return out
}
