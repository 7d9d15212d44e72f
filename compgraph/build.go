package compgraph

import (
	"container/heap"
	"fmt"

	"github.com/ringingworks/monument/method"
	"github.com/ringingworks/monument/pattern"
	"github.com/ringingworks/monument/row"
)

// BuildParams collects everything the builder needs from the caller's
// Parameters, translated into the primitives this package understands. The
// root monument package is responsible for constructing one of these from a
// user-facing Parameters value; compgraph itself never imports that
// package, to keep the dependency direction one-way.
type BuildParams struct {
	Methods        []*method.Method
	Calls          []method.Call
	StartRow       row.Row
	EndRow         row.Row
	LengthMax      int
	GraphSizeLimit int
	// MusicScorer computes the Music a chunk's rows contribute. Matching a
	// Pattern against a single row is deliberately out of this module's
	// scope (per the spec's external-collaborator list); MusicScorer is the
	// seam a caller plugs a real pattern matcher into. A nil MusicScorer
	// leaves every chunk's Music zero.
	MusicScorer MusicScorer
}

// MusicScorer computes the Music contribution of a sequence of rows
// (already transposed into their actual ringing order, lead head applied).
type MusicScorer interface {
	Score(rows []row.Row) Music
}

// fixedBells returns the bells that no lead-head step ever moves: bells b
// such that call.Transposition.At(b) == b for every call and
// m.LeadHeadTransposition().At(b) == b for every method's plain step.
func fixedBells(stage row.Stage, methods []*method.Method, calls []method.Call) []row.Bell {
	var fixed []row.Bell
	for i := 0; i < stage.NumBells(); i++ {
		b := row.Bell(i)
		isFixed := true
		for _, m := range methods {
			if m.LeadHeadTransposition().At(int(b)) != b {
				isFixed = false
			}
		}
		for _, c := range calls {
			if c.Transposition.At(int(b)) != b {
				isFixed = false
				break
			}
		}
		if isFixed {
			fixed = append(fixed, b)
		}
	}
	return fixed
}

// frontierItem is one entry in the builder's Dijkstra frontier: a chunk id
// reachable in Distance rows from some start, using the classic
// lazy-decrease-key strategy (stale duplicate entries are skipped on pop,
// rather than removed from the heap up front).
type frontierItem struct {
	id       ChunkID
	distance int
}

type frontierHeap []frontierItem

func (h frontierHeap) Len() int            { return len(h) }
func (h frontierHeap) Less(i, j int) bool  { return h[i].distance < h[j].distance }
func (h frontierHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *frontierHeap) Push(x interface{}) { *h = append(*h, x.(frontierItem)) }
func (h *frontierHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// builder holds the mutable state threaded through graph construction.
type builder struct {
	params    BuildParams
	graph     *Graph
	fixedMask pattern.Mask
	best      map[ChunkID]int // best known distance-from-start per chunk
}

// BuildGraph runs the Dijkstra-style expansion described in the spec's
// Graph Builder contract: starting from every allowed start point, explore
// chunk-to-chunk links (plain joins and calls) in order of increasing
// distance from the start, stopping any branch that would exceed
// params.LengthMax rows, and recording an end link wherever a chunk's
// segment reaches params.EndRow.
func BuildGraph(params BuildParams) (*Graph, error) {
	if len(params.Methods) == 0 {
		return nil, fmt.Errorf("%w: no methods supplied", ErrNoValidCompositions)
	}
	stage := params.Methods[0].Stage()
	for _, m := range params.Methods {
		if m.Stage() != stage {
			return nil, fmt.Errorf("%w: method %q", ErrIncompatibleStages, m.Name())
		}
	}
	if params.StartRow.Stage() != stage || params.EndRow.Stage() != stage {
		return nil, fmt.Errorf("%w: start/end row stage", ErrIncompatibleStages)
	}

	b := &builder{
		params:    params,
		graph:     NewGraph(),
		fixedMask: pattern.WithFixedBells(stage, fixedBells(stage, params.Methods, params.Calls)),
		best:      make(map[ChunkID]int),
	}

	frontier := &frontierHeap{}
	heap.Init(frontier)

	if err := b.seedStarts(frontier); err != nil {
		return nil, err
	}

	for frontier.Len() > 0 {
		item := heap.Pop(frontier).(frontierItem)
		if best, ok := b.best[item.id]; ok && best < item.distance {
			continue // stale lazy-decrease-key entry
		}
		if _, already := b.graph.Chunks[item.id]; already {
			continue
		}
		if err := b.expand(item, frontier); err != nil {
			return nil, err
		}
		if len(b.graph.Chunks) > params.GraphSizeLimit {
			return nil, fmt.Errorf("%w: exceeded %d chunks", ErrGraphTooLarge, params.GraphSizeLimit)
		}
	}

	b.backfillPredecessors()
	return b.graph, nil
}

// seedStarts emits a start link for every method's every labelled sub-lead
// index where the method's row at that index can be aligned with
// params.StartRow by some lead head consistent with the fixed-bell mask.
func (b *builder) seedStarts(frontier *frontierHeap) error {
	for mi, m := range b.params.Methods {
		for idx := 0; idx < m.LeadLength(); idx++ {
			if !m.IsLabelled(idx) {
				continue
			}
			localRow := m.RowAt(idx)
			leadHead, err := b.params.StartRow.Mul(localRow.Inverse())
			if err != nil {
				return err
			}
			if !b.fixedMask.Matches(leadHead) {
				continue
			}
			id := ChunkID{LeadHead: leadHead, Method: method.MethodIdx(mi), SubLeadIdx: idx}
			link := Link{
				From:    NodeRef{},
				To:      NodeRef{Chunk: id},
				IsStart: true,
			}
			linkID := b.graph.AddLink(link)
			b.graph.Starts = append(b.graph.Starts, StartEntry{Link: linkID, Chunk: id})
			b.push(frontier, id, 0)
		}
	}
	return nil
}

func (b *builder) push(frontier *frontierHeap, id ChunkID, distance int) {
	if best, ok := b.best[id]; ok && best <= distance {
		return
	}
	b.best[id] = distance
	heap.Push(frontier, frontierItem{id: id, distance: distance})
}

// expand materialises the chunk at item (computing its segment length,
// method counts and music) and enumerates its outgoing links.
func (b *builder) expand(item frontierItem, frontier *frontierHeap) error {
	id := item.id
	m := b.params.Methods[id.Method]
	segLen := m.SegmentLength(id.SubLeadIdx)

	if item.distance+segLen > b.params.LengthMax {
		return nil // this branch can never produce a valid-length composition
	}

	methodCounts := make([]int, len(b.params.Methods))
	methodCounts[id.Method] += segLen

	chunk := &Chunk{
		PerPartLength: segLen,
		TotalLength:   segLen,
		MethodCounts:  methodCounts,
	}
	if b.params.MusicScorer != nil {
		rows := make([]row.Row, segLen)
		for i := 0; i < segLen; i++ {
			actual, err := id.LeadHead.Mul(m.RowAt(id.SubLeadIdx + i))
			if err != nil {
				return err
			}
			rows[i] = actual
		}
		chunk.Music = b.params.MusicScorer.Score(rows)
	}
	b.graph.Chunks[id] = chunk

	nextIdx := m.NextLabelledIndex(id.SubLeadIdx)
	wrapped := id.SubLeadIdx+segLen >= m.LeadLength()
	plainJoin := row.Rounds(m.Stage())
	if wrapped {
		plainJoin = m.LeadHeadTransposition()
	}

	terminatingLabel := m.LabelAt(nextIdx)

	// Plain joins: continue in the same method, or splice into any other
	// method that shares the terminating label.
	boundaryRow, err := id.LeadHead.Mul(plainJoin)
	if err != nil {
		return err
	}
	boundaryRow, err = boundaryRow.Mul(m.RowAt(nextIdx))
	if err != nil {
		return err
	}
	if err := b.tryLink(id, boundaryRow, terminatingLabel, nil, item.distance+segLen, chunk, frontier); err != nil {
		return err
	}

	// Calls: replace the plain joining transposition with the call's.
	for ci := range b.params.Calls {
		call := &b.params.Calls[ci]
		if call.LabelFrom != terminatingLabel {
			continue
		}
		callBoundary, err := id.LeadHead.Mul(call.Transposition)
		if err != nil {
			continue
		}
		callBoundary, err = callBoundary.Mul(m.RowAt(nextIdx))
		if err != nil {
			continue
		}
		ci := method.CallIdx(ci)
		if err := b.tryLink(id, callBoundary, call.LabelTo, &ci, item.distance+segLen, chunk, frontier); err != nil {
			return err
		}
	}

	return nil
}

// tryLink records an end link if boundaryRow equals the designated end row,
// and a successor link (possibly to a spliced-into method) for every
// method that labels targetLabel, pushing the resulting chunk onto the
// frontier. id is the ChunkID of the chunk these links originate from.
func (b *builder) tryLink(id ChunkID, boundaryRow row.Row, targetLabel string, call *method.CallIdx, distance int, from *Chunk, frontier *frontierHeap) error {
	if boundaryRow == b.params.EndRow {
		link := Link{From: NodeRef{Chunk: id}, To: NodeRef{}, IsEnd: true}
		if call != nil {
			link.Call, link.HasCall = *call, true
		}
		linkID := b.graph.AddLink(link)
		from.Successors = append(from.Successors, linkID)
		b.graph.Ends = append(b.graph.Ends, EndEntry{Link: linkID, Chunk: id})
	}

	for mi, target := range b.params.Methods {
		for idx := 0; idx < target.LeadLength(); idx++ {
			if target.LabelAt(idx) != targetLabel || !target.IsLabelled(idx) {
				continue
			}
			newLeadHead, err := boundaryRow.Mul(target.RowAt(idx).Inverse())
			if err != nil {
				return err
			}
			if !b.fixedMask.Matches(newLeadHead) {
				continue
			}
			nextID := ChunkID{LeadHead: newLeadHead, Method: method.MethodIdx(mi), SubLeadIdx: idx}
			link := Link{
				From: NodeRef{Chunk: id},
				To:   NodeRef{Chunk: nextID},
			}
			if call != nil {
				link.Call, link.HasCall = *call, true
			}
			linkID := b.graph.AddLink(link)
			from.Successors = append(from.Successors, linkID)
			b.push(frontier, nextID, distance)
		}
	}
	return nil
}

// backfillPredecessors populates every chunk's Predecessors from the
// Successors recorded during expansion.
func (b *builder) backfillPredecessors() {
	for _, chunk := range b.graph.Chunks {
		for _, linkID := range chunk.Successors {
			link := b.graph.Links[linkID]
			if link == nil || link.IsEnd {
				continue
			}
			to := b.graph.Chunks[link.To.Chunk]
			if to == nil {
				continue
			}
			to.Predecessors = append(to.Predecessors, linkID)
		}
	}
}
