package compgraph

import "github.com/ringingworks/monument/row"

// ExpandMultiPart rewrites g in place into the multi-part equivalence-class
// graph described by the spec's Multi-Part Expansion: every source
// ChunkID is identified with the orbit { partHead^k . x : k = 0..P-1 }
// under the part-head group's cyclic closure, and each orbit becomes a
// single merged chunk in the rewritten graph. partHead must be an element
// of order P (partHead^P == rounds); if it's the identity, g is left
// untouched (single-part composition).
func ExpandMultiPart(g *Graph, partHead row.Row) error {
	if partHead.IsRounds() {
		return nil
	}
	powers, err := partHeadPowers(partHead)
	if err != nil {
		return err
	}
	numParts := len(powers)

	classOf, rotationOf, err := assignClasses(g, powers)
	if err != nil {
		return err
	}

	newGraph := NewGraph()
	newGraph.NumParts = numParts

	mergeChunks(g, newGraph, classOf, rotationOf, numParts)
	rewriteLinks(g, newGraph, classOf, rotationOf, numParts)
	rewriteFalseness(g, newGraph, classOf)

	*g = *newGraph
	return nil
}

// partHeadPowers returns { partHead^0, partHead^1, ... } up to (but not
// including) the power that returns to rounds, i.e. the cyclic group
// partHead generates.
func partHeadPowers(partHead row.Row) ([]row.Row, error) {
	powers := []row.Row{row.Rounds(partHead.Stage())}
	cur := partHead
	for !cur.IsRounds() {
		powers = append(powers, cur)
		next, err := cur.Mul(partHead)
		if err != nil {
			return nil, err
		}
		if len(powers) > int(partHead.Stage())*int(partHead.Stage())+8 {
			return nil, ErrNoValidCompositions // partHead never returns to rounds
		}
		cur = next
	}
	return powers, nil
}

// classKey is the representative identity of an equivalence class: the
// lexicographically smallest ChunkID among the orbit's representations
// across all part-head powers (the member with rotation 0, per the spec).
type classKey struct {
	Chunk ChunkID
}

// assignClasses maps every source ChunkID to (class representative,
// rotation), where rotation k means this chunk is partHead^k applied to
// the class representative.
func assignClasses(g *Graph, powers []row.Row) (map[ChunkID]classKey, map[ChunkID]int, error) {
	classOf := make(map[ChunkID]classKey, len(g.Chunks))
	rotationOf := make(map[ChunkID]int, len(g.Chunks))
	assigned := make(map[ChunkID]bool)

	ids := make([]ChunkID, 0, len(g.Chunks))
	for id := range g.Chunks {
		ids = append(ids, id)
	}

	for _, id := range ids {
		if assigned[id] {
			continue
		}
		orbit := make([]ChunkID, len(powers))
		for k, ph := range powers {
			lh, err := ph.Mul(id.LeadHead)
			if err != nil {
				return nil, nil, err
			}
			orbit[k] = ChunkID{LeadHead: lh, Method: id.Method, SubLeadIdx: id.SubLeadIdx}
		}
		rep := orbit[0]
		repK := 0
		for k, o := range orbit[1:] {
			if o.Less(rep) {
				rep = o
				repK = k + 1
			}
		}
		n := len(powers)
		for k, o := range orbit {
			classOf[o] = classKey{Chunk: rep}
			rotationOf[o] = ((k-repK)%n + n) % n
			assigned[o] = true
		}
	}
	return classOf, rotationOf, nil
}

// mergeChunks builds one merged Chunk per equivalence class in newGraph,
// summing Music and ORing/minning the other per-class fields across every
// class member that survives in the source graph.
func mergeChunks(g *Graph, newGraph *Graph, classOf map[ChunkID]classKey, rotationOf map[ChunkID]int, numParts int) {
	for id, chunk := range g.Chunks {
		key := classOf[id]
		repID := key.Chunk
		merged, ok := newGraph.Chunks[repID]
		if !ok {
			merged = &Chunk{
				PerPartLength:    chunk.PerPartLength,
				TotalLength:      chunk.PerPartLength * numParts,
				MethodCounts:     append([]int(nil), chunk.MethodCounts...),
				LBDistFromRounds: chunk.LBDistFromRounds,
				LBDistToRounds:   chunk.LBDistToRounds,
				Duffer:           chunk.Duffer,
				Music:            chunk.Music,
			}
			newGraph.Chunks[repID] = merged
		} else {
			// Every rotation contributes its own Music (it rings distinct
			// rows in a distinct part), but shares per_part_length and
			// method_counts with the representative by construction, so
			// only Music accumulates across rotations.
			merged.Music = merged.Music.Add(chunk.Music)
		}
		merged.Required = merged.Required || chunk.Required
		if chunk.LBDistFromRounds < merged.LBDistFromRounds {
			merged.LBDistFromRounds = chunk.LBDistFromRounds
		}
		if chunk.LBDistToRounds < merged.LBDistToRounds {
			merged.LBDistToRounds = chunk.LBDistToRounds
		}
	}
}

// rewriteLinks rewrites every surviving source link in terms of
// equivalence classes, converting PHRotation to the difference in
// rotation between the link's endpoints modulo numParts. A link whose
// target is a non-zero-rotation start (a "part-head start") is rewritten
// to target the zero-length-end sentinel instead, per the spec.
func rewriteLinks(g *Graph, newGraph *Graph, classOf map[ChunkID]classKey, rotationOf map[ChunkID]int, numParts int) {
	startRotation := make(map[ChunkID]int)
	for _, s := range g.Starts {
		startRotation[s.Chunk] = rotationOf[s.Chunk]
	}

	for _, link := range g.Links {
		if link.IsStart {
			toKey, ok := classOf[link.To.Chunk]
			if !ok {
				continue
			}
			if rotationOf[link.To.Chunk] != 0 {
				// A non-zero-rotation start becomes a zero-length
				// "part-head end": reaching it closes the part-head
				// group's cycle without ringing any further rows.
				id := newGraph.AddLink(Link{From: NodeRef{}, To: NodeRef{ZeroEnd: true}, IsEnd: true})
				newGraph.Ends = append(newGraph.Ends, EndEntry{Link: id, Chunk: toKey.Chunk})
				continue
			}
			id := newGraph.AddLink(Link{From: NodeRef{}, To: NodeRef{Chunk: toKey.Chunk}, IsStart: true})
			newGraph.Starts = append(newGraph.Starts, StartEntry{Link: id, Chunk: toKey.Chunk})
			continue
		}
		if link.IsEnd {
			fromKey, ok := classOf[link.From.Chunk]
			if !ok {
				continue
			}
			id := newGraph.AddLink(Link{From: NodeRef{Chunk: fromKey.Chunk}, To: NodeRef{}, IsEnd: true, Call: link.Call, HasCall: link.HasCall})
			newGraph.Ends = append(newGraph.Ends, EndEntry{Link: id, Chunk: fromKey.Chunk})
			continue
		}

		fromKey, fromOK := classOf[link.From.Chunk]
		toKey, toOK := classOf[link.To.Chunk]
		if !fromOK || !toOK {
			continue
		}
		rotation := Rotation(((rotationOf[link.To.Chunk] - rotationOf[link.From.Chunk]) % numParts + numParts) % numParts)
		newLink := Link{
			From:       NodeRef{Chunk: fromKey.Chunk},
			To:         NodeRef{Chunk: toKey.Chunk},
			Call:       link.Call,
			HasCall:    link.HasCall,
			PHRotation: rotation,
		}
		id := newGraph.AddLink(newLink)
		fromChunk := newGraph.Chunks[fromKey.Chunk]
		if fromChunk != nil {
			fromChunk.Successors = append(fromChunk.Successors, id)
		}
		toChunk := newGraph.Chunks[toKey.Chunk]
		if toChunk != nil {
			toChunk.Predecessors = append(toChunk.Predecessors, id)
		}
	}
}

// rewriteFalseness rewrites FalseChunks in terms of class representatives:
// class(a) is false against class(b) iff any source member of a's orbit
// was false against any source member of b's orbit.
func rewriteFalseness(g *Graph, newGraph *Graph, classOf map[ChunkID]classKey) {
	falseClasses := make(map[ChunkID]map[ChunkID]struct{})
	for id, chunk := range g.Chunks {
		a := classOf[id].Chunk
		set, ok := falseClasses[a]
		if !ok {
			set = make(map[ChunkID]struct{})
			falseClasses[a] = set
		}
		for _, fc := range chunk.FalseChunks {
			if key, ok := classOf[fc]; ok {
				set[key.Chunk] = struct{}{}
			}
		}
	}
	for repID, set := range falseClasses {
		merged := newGraph.Chunks[repID]
		if merged == nil {
			continue
		}
		list := make([]ChunkID, 0, len(set))
		for fc := range set {
			list = append(list, fc)
		}
		merged.FalseChunks = list
	}
}
