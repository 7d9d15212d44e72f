package search

import (
	"container/heap"

	"github.com/ringingworks/monument/compgraph"
)

// expand pops prefix's successors, pushing every valid extension onto the
// frontier, and returns a completed Composition if any successor link is a
// valid end. Only one composition is ever returned per expansion step,
// matching the spec: a chunk with multiple valid end links would need
// multiple expand calls (in practice a chunk has at most one end link).
func (e *engine) expand(prefix *Prefix, updateFn func(Update)) *Composition {
	chunk := e.graph.Chunks[prefix.Chunk]
	if chunk == nil {
		return nil
	}

	var emitted *Composition
	for _, linkID := range chunk.Successors {
		link := e.graph.Links[linkID]
		if link == nil {
			continue
		}

		rotation := (prefix.Rotation + link.PHRotation) % compgraph.Rotation(maxInt(e.bounds.NumParts, 1))

		if link.IsEnd {
			if comp := e.tryEmit(prefix, link, linkID, rotation); comp != nil && emitted == nil {
				emitted = comp
			}
			continue
		}

		nextChunk := e.graph.Chunks[link.To.Chunk]
		if nextChunk == nil {
			continue
		}
		if e.isFalse(prefix, link.To.Chunk) {
			continue
		}

		length := prefix.Length + nextChunk.TotalLength
		if length > e.bounds.LengthMax {
			continue
		}

		methodCounts := addCounts(prefix.MethodCounts, nextChunk.MethodCounts)
		if exceedsMax(methodCounts, e.bounds.MethodCountMax) {
			continue
		}

		dufferRun := prefix.DufferRun
		totalDuffer := prefix.TotalDuffer
		dufferRunLengths := prefix.DufferRunLengths
		if nextChunk.Duffer {
			dufferRun += nextChunk.TotalLength
			totalDuffer += nextChunk.TotalLength
		} else {
			if dufferRun > 0 {
				dufferRunLengths = append(append([]int(nil), dufferRunLengths...), dufferRun)
			}
			dufferRun = 0
		}
		if e.bounds.MaxContiguousDuffer >= 0 && dufferRun > e.bounds.MaxContiguousDuffer {
			continue
		}
		if e.bounds.MaxTotalDuffer >= 0 && totalDuffer > e.bounds.MaxTotalDuffer {
			continue
		}

		// Admissible lower bound: the shortest any composition reachable
		// via this chunk could still be. Above the max is already pruned
		// by the length check; below the min and unable to recover is
		// only provable with the full optimiser state, so this only
		// prunes the cheap, certain case.
		lowerBound := length + nextChunk.LBDistToRounds
		if lowerBound > e.bounds.LengthMax {
			continue
		}

		next := &Prefix{
			head:         &pathNode{parent: prefix.head, chunk: link.To.Chunk, link: linkID},
			Chunk:        link.To.Chunk,
			Score:        prefix.Score + nextChunk.Music.Score,
			Length:       length,
			MethodCounts: methodCounts,
			MusicCounts:  addCounts64(prefix.MusicCounts, nextChunk.Music.Counts),
			DufferRun:        dufferRun,
			TotalDuffer:      totalDuffer,
			DufferRunLengths: dufferRunLengths,
			Rotation:         rotation,
			requiredMask: prefix.requiredMask,
			seq:          e.nextSeq,
		}
		e.nextSeq++
		if idx, ok := e.bounds.RequiredIndex[link.To.Chunk]; ok {
			next.requiredMask |= 1 << uint(idx)
		}
		heap.Push(&e.frontier, next)
	}
	return emitted
}

// tryEmit validates prefix extended by an end link against the spec's
// completion criteria and, if valid, reconstructs the Composition.
func (e *engine) tryEmit(prefix *Prefix, link *compgraph.Link, linkID compgraph.LinkID, rotation compgraph.Rotation) *Composition {
	if e.bounds.NumParts > 1 && rotation%compgraph.Rotation(e.bounds.NumParts) != 0 {
		return nil
	}
	if prefix.Length < e.bounds.LengthMin || prefix.Length > e.bounds.LengthMax {
		return nil
	}
	if !withinRange(prefix.MethodCounts, e.bounds.MethodCountMin, e.bounds.MethodCountMax) {
		return nil
	}
	if prefix.requiredMask != allRequiredMask(e.bounds.RequiredIndex) {
		return nil
	}

	e.generation++
	// walk gives each element the link taken into its chunk; a PathElem
	// carries the link taken out of it, so shift each link back one element
	// and give the final element the end link.
	path := prefix.head.walk()
	for k := 0; k+1 < len(path); k++ {
		path[k].Link = path[k+1].Link
	}
	path[len(path)-1].Link = linkID
	dufferRunLengths := prefix.DufferRunLengths
	if prefix.DufferRun > 0 {
		dufferRunLengths = append(append([]int(nil), dufferRunLengths...), prefix.DufferRun)
	}
	return &Composition{
		GenerationNumber:        e.generation,
		Path:                    path,
		Length:                  prefix.Length,
		TotalScore:              prefix.Score,
		MethodCounts:            append([]int(nil), prefix.MethodCounts...),
		MusicCounts:             append([]uint64(nil), prefix.MusicCounts...),
		TotalDuffer:             prefix.TotalDuffer,
		ContiguousDufferLengths: dufferRunLengths,
		PartHeadRotation:        rotation,
	}
}

// isFalse walks prefix's path head, probing each visited chunk against
// candidate's false-chunk set.
func (e *engine) isFalse(prefix *Prefix, candidate compgraph.ChunkID) bool {
	target := e.graph.Chunks[candidate]
	if target == nil {
		return false
	}
	falseSet := make(map[compgraph.ChunkID]struct{}, len(target.FalseChunks))
	for _, fc := range target.FalseChunks {
		falseSet[fc] = struct{}{}
	}
	for n := prefix.head; n != nil; n = n.parent {
		if _, ok := falseSet[n.chunk]; ok {
			return true
		}
	}
	return false
}

func addCounts(a, b []int) []int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

func addCounts64(a, b []uint64) []uint64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]uint64, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

func exceedsMax(counts []int, max []int) bool {
	for i, c := range counts {
		if i < len(max) && max[i] > 0 && c > max[i] {
			return true
		}
	}
	return false
}

func withinRange(counts []int, min, max []int) bool {
	for i, c := range counts {
		if i < len(min) && c < min[i] {
			return false
		}
		if i < len(max) && max[i] > 0 && c > max[i] {
			return false
		}
	}
	return true
}

func allRequiredMask(index map[compgraph.ChunkID]int) uint64 {
	var mask uint64
	for _, idx := range index {
		mask |= 1 << uint(idx)
	}
	return mask
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
